package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/rs/zerolog/log"
)

// RiskService recomputes risk scores from the violation log on every call.
type RiskService interface {
	StudentRisk(ctx context.Context, userID uint) (dto.StudentRiskDTO, error)
	AllStudentRisks(ctx context.Context) ([]dto.StudentRiskDTO, error)
}

type riskService struct {
	violationRepo repository.ViolationRepository
	userRepo      repository.UserRepository
	scorer        SuspicionScorer
}

func NewRiskService(violationRepo repository.ViolationRepository, userRepo repository.UserRepository, scorer SuspicionScorer) RiskService {
	return &riskService{violationRepo: violationRepo, userRepo: userRepo, scorer: scorer}
}

func (s *riskService) StudentRisk(ctx context.Context, userID uint) (dto.StudentRiskDTO, error) {
	rows, err := s.violationRepo.CountByUserAndType(ctx, &userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("StudentRisk: failed to group violations")
		return dto.StudentRiskDTO{}, fmt.Errorf("failed to aggregate violations: %w", err)
	}
	return s.build(userID, rows), nil
}

func (s *riskService) AllStudentRisks(ctx context.Context) ([]dto.StudentRiskDTO, error) {
	students, err := s.userRepo.FindAllByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	rows, err := s.violationRepo.CountByUserAndType(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("AllStudentRisks: failed to group violations")
		return nil, fmt.Errorf("failed to aggregate violations: %w", err)
	}

	byUser := make(map[uint][]repository.ViolationTypeCount)
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := make([]dto.StudentRiskDTO, 0, len(students))
	for _, u := range students {
		risk := s.build(u.ID, byUser[u.ID])
		risk.Username = u.Username
		out = append(out, risk)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *riskService) build(userID uint, rows []repository.ViolationTypeCount) dto.StudentRiskDTO {
	counts := make(map[model.ViolationCode]int64, len(rows))
	breakdown := make([]dto.RiskBreakdownDTO, 0, len(rows))
	for _, r := range rows {
		code := model.ViolationCode(r.Type)
		counts[code] += r.Count
		w := s.scorer.Weight(code)
		breakdown = append(breakdown, dto.RiskBreakdownDTO{
			Type:   r.Type,
			Count:  r.Count,
			Weight: w,
			Points: int64(w) * r.Count,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Points != breakdown[j].Points {
			return breakdown[i].Points > breakdown[j].Points
		}
		return breakdown[i].Type < breakdown[j].Type
	})
	return dto.StudentRiskDTO{
		UserID:    userID,
		Score:     s.scorer.ScoreCounts(counts),
		Breakdown: breakdown,
	}
}
