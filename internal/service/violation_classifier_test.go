package service

import (
	"reflect"
	"testing"

	"github.com/lshigami/proctorexam/internal/model"
)

func TestClassifyFrame(t *testing.T) {
	tests := []struct {
		name        string
		signals     model.FrameSignals
		enablePhone bool
		want        []model.ViolationCode
	}{
		{"clean frame", model.FrameSignals{FaceCount: 1, Gaze: model.GazeCenter}, true, []model.ViolationCode{}},
		{"no face", model.FrameSignals{FaceCount: 0, Gaze: model.GazeNoFace}, true, []model.ViolationCode{model.CodeNoFace}},
		{"two faces looking left", model.FrameSignals{FaceCount: 2, Gaze: model.GazeLeft}, true,
			[]model.ViolationCode{model.CodeMultipleFaces, model.CodeGazeLeft}},
		{"gaze right", model.FrameSignals{FaceCount: 1, Gaze: model.GazeRight}, false, []model.ViolationCode{model.CodeGazeRight}},
		{"phone with detection on", model.FrameSignals{FaceCount: 1, Gaze: model.GazeCenter, PhonePresent: true}, true,
			[]model.ViolationCode{model.CodePhoneDetected}},
		{"phone with detection off", model.FrameSignals{FaceCount: 1, Gaze: model.GazeCenter, PhonePresent: true}, false,
			[]model.ViolationCode{}},
		{"everything at once", model.FrameSignals{FaceCount: 3, Gaze: model.GazeRight, PhonePresent: true}, true,
			[]model.ViolationCode{model.CodeMultipleFaces, model.CodeGazeRight, model.CodePhoneDetected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFrame(tt.signals, tt.enablePhone)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClassifyFrame() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyFrameFaceRulesExclusive(t *testing.T) {
	gazes := []model.Gaze{model.GazeLeft, model.GazeRight, model.GazeCenter, model.GazeNoFace}
	for faces := 0; faces <= 6; faces++ {
		for _, gaze := range gazes {
			for _, phone := range []bool{false, true} {
				codes := ClassifyFrame(model.FrameSignals{FaceCount: faces, Gaze: gaze, PhonePresent: phone}, true)
				has := map[model.ViolationCode]bool{}
				for _, c := range codes {
					has[c] = true
				}
				switch {
				case faces == 0:
					if !has[model.CodeNoFace] || has[model.CodeMultipleFaces] {
						t.Errorf("faces=0 gaze=%s: got %v", gaze, codes)
					}
				case faces > 1:
					if !has[model.CodeMultipleFaces] || has[model.CodeNoFace] {
						t.Errorf("faces=%d gaze=%s: got %v", faces, gaze, codes)
					}
				default:
					if has[model.CodeMultipleFaces] || has[model.CodeNoFace] {
						t.Errorf("faces=1 gaze=%s: got %v", gaze, codes)
					}
				}
			}
		}
	}
}

func TestNoFaceFrameScoresTwo(t *testing.T) {
	codes := ClassifyFrame(model.FrameSignals{FaceCount: 0, Gaze: model.GazeNoFace}, true)
	if !reflect.DeepEqual(codes, []model.ViolationCode{model.CodeNoFace}) {
		t.Fatalf("codes = %v, want [no_face]", codes)
	}
	if got := NewSuspicionScorer().Score(codes); got != 2 {
		t.Errorf("score = %d, want 2", got)
	}
}
