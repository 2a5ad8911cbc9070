package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/session"
)

func TestAnalyze(t *testing.T) {
	student := session.Context{UserID: 1, Username: "alice", Role: model.RoleStudent}
	off := false

	tests := []struct {
		name      string
		sc        session.Context
		extractor *fakeExtractor
		req       func(t *testing.T) dto.AnalyzeFrameDTO
		wantErr   error
		wantCodes []string
		wantScore int
	}{
		{
			name:      "no face",
			sc:        student,
			extractor: &fakeExtractor{signals: model.FrameSignals{FaceCount: 0, Gaze: model.GazeNoFace}},
			req:       func(t *testing.T) dto.AnalyzeFrameDTO { return dto.AnalyzeFrameDTO{Image: pngDataURL(t)} },
			wantCodes: []string{"no_face"},
			wantScore: 2,
		},
		{
			name:      "phone defaults to enabled",
			sc:        student,
			extractor: &fakeExtractor{signals: model.FrameSignals{FaceCount: 2, Gaze: model.GazeLeft, PhonePresent: true}},
			req:       func(t *testing.T) dto.AnalyzeFrameDTO { return dto.AnalyzeFrameDTO{Image: pngDataURL(t)} },
			wantCodes: []string{"multiple_faces", "gaze_left", "phone_detected"},
			wantScore: 7,
		},
		{
			name:      "phone disabled by request",
			sc:        student,
			extractor: &fakeExtractor{signals: model.FrameSignals{FaceCount: 1, Gaze: model.GazeCenter, PhonePresent: true}},
			req: func(t *testing.T) dto.AnalyzeFrameDTO {
				return dto.AnalyzeFrameDTO{Image: pngDataURL(t), EnablePhone: &off}
			},
			wantCodes: []string{},
			wantScore: 0,
		},
		{
			name:      "undecodable image",
			sc:        student,
			extractor: &fakeExtractor{},
			req:       func(t *testing.T) dto.AnalyzeFrameDTO { return dto.AnalyzeFrameDTO{Image: "data:image/png;base64,AAAA"} },
			wantErr:   ErrInvalidInput,
			wantCodes: []string{},
		},
		{
			name:      "extractor unavailable",
			sc:        student,
			extractor: &fakeExtractor{err: errors.New("quota exceeded")},
			req:       func(t *testing.T) dto.AnalyzeFrameDTO { return dto.AnalyzeFrameDTO{Image: pngDataURL(t)} },
			wantErr:   ErrUnavailable,
			wantCodes: []string{},
		},
		{
			name:      "admin session",
			sc:        session.Context{UserID: 9, Role: model.RoleAdmin},
			extractor: &fakeExtractor{},
			req:       func(t *testing.T) dto.AnalyzeFrameDTO { return dto.AnalyzeFrameDTO{Image: pngDataURL(t)} },
			wantErr:   ErrUnauthorized,
			wantCodes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProctorService(tt.extractor, NewSuspicionScorer(), testConfig())
			got, err := svc.Analyze(context.Background(), tt.sc, tt.req(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Violations, tt.wantCodes) || got.Score != tt.wantScore {
				t.Errorf("got %+v, want %v / %d", got, tt.wantCodes, tt.wantScore)
			}
		})
	}
}
