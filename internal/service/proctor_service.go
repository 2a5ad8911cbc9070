package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

// ProctorService analyses single webcam frames. It is stateless per frame and
// touches no storage.
type ProctorService interface {
	Analyze(ctx context.Context, sc session.Context, req dto.AnalyzeFrameDTO) (dto.AnalyzeFrameResponseDTO, error)
}

type proctorService struct {
	extractor          SignalExtractor
	scorer             SuspicionScorer
	phoneDetectDefault bool
}

func NewProctorService(extractor SignalExtractor, scorer SuspicionScorer, cfg *config.Config) ProctorService {
	return &proctorService{
		extractor:          extractor,
		scorer:             scorer,
		phoneDetectDefault: cfg.Proctor.PhoneDetectionDefault,
	}
}

func emptyAnalysis() dto.AnalyzeFrameResponseDTO {
	return dto.AnalyzeFrameResponseDTO{Violations: []string{}, Score: 0}
}

func (s *proctorService) Analyze(ctx context.Context, sc session.Context, req dto.AnalyzeFrameDTO) (dto.AnalyzeFrameResponseDTO, error) {
	if sc.UserID == 0 || !sc.IsStudent() {
		return emptyAnalysis(), ErrUnauthorized
	}
	frame, err := decodeFrame(req.Image)
	if err != nil {
		log.Debug().Err(err).Uint("userID", sc.UserID).Msg("Analyze: rejected frame")
		return emptyAnalysis(), invalidInput("image could not be decoded")
	}

	signals, err := s.extractor.Extract(ctx, frame)
	if err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("Analyze: signal extraction failed")
		if errors.Is(err, ErrUnavailable) {
			return emptyAnalysis(), err
		}
		return emptyAnalysis(), fmt.Errorf("%w: frame analysis failed", ErrUnavailable)
	}

	enablePhone := s.phoneDetectDefault
	if req.EnablePhone != nil {
		enablePhone = *req.EnablePhone
	}
	codes := ClassifyFrame(signals, enablePhone)
	return dto.AnalyzeFrameResponseDTO{
		Violations: model.ViolationCodesToStrings(codes),
		Score:      s.scorer.Score(codes),
	}, nil
}
