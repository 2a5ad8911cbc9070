package service

import "github.com/lshigami/proctorexam/internal/model"

// DefaultViolationWeight applies to codes outside the weight table. It is
// never zero so every reported violation contributes.
const DefaultViolationWeight = 1

// violationWeights is the single weight table used both for live frame
// feedback and for the admin risk view. Hard-to-fake signals (phone, extra
// faces, notes) outweigh noisy ones (gaze, audio).
var violationWeights = map[model.ViolationCode]int{
	model.CodePhoneDetected:      3,
	model.CodeMultipleFaces:      3,
	model.CodeNotesDetected:      3,
	model.CodeBookDetected:       3,
	model.CodePaperDetected:      3,
	model.CodeNoFace:             2,
	model.CodePermissionsBlocked: 2,
	model.CodeFullscreenDenied:   2,
	model.CodeFullscreenExit:     2,
	model.CodeWindowBlur:         2,
	model.CodeTabHidden:          2,
	model.CodeGazeLeft:           1,
	model.CodeGazeRight:          1,
	model.CodeAudioNoise:         1,
}

type SuspicionScorer interface {
	Weight(code model.ViolationCode) int
	// Score sums the weight of every code, duplicates included.
	Score(codes []model.ViolationCode) int
	// ScoreCounts sums weight(code) * count over grouped codes.
	ScoreCounts(counts map[model.ViolationCode]int64) int64
}

type suspicionScorer struct {
	weights map[model.ViolationCode]int
}

func NewSuspicionScorer() SuspicionScorer {
	return &suspicionScorer{weights: violationWeights}
}

func (s *suspicionScorer) Weight(code model.ViolationCode) int {
	if w, ok := s.weights[code]; ok {
		return w
	}
	return DefaultViolationWeight
}

func (s *suspicionScorer) Score(codes []model.ViolationCode) int {
	total := 0
	for _, c := range codes {
		total += s.Weight(c)
	}
	return total
}

func (s *suspicionScorer) ScoreCounts(counts map[model.ViolationCode]int64) int64 {
	var total int64
	for code, n := range counts {
		if n <= 0 {
			continue
		}
		total += int64(s.Weight(code)) * n
	}
	return total
}
