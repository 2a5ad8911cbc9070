package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ViolationNotifier receives every violation after it is committed.
type ViolationNotifier interface {
	NotifyViolation(v model.Violation)
}

type ViolationService interface {
	// Record appends one violation for the session's selected exam. A
	// screenshot problem never fails the call; only the row insert can.
	Record(ctx context.Context, sc session.Context, violationType string, screenshot string) (*dto.ViolationDTO, error)
	ListByUser(ctx context.Context, userID uint) ([]dto.ViolationDTO, error)
}

type violationService struct {
	db            *gorm.DB
	violationRepo repository.ViolationRepository
	store         ScreenshotStore
	notifier      ViolationNotifier
}

func NewViolationService(
	db *gorm.DB,
	violationRepo repository.ViolationRepository,
	store ScreenshotStore,
	notifier ViolationNotifier,
) ViolationService {
	return &violationService{
		db:            db,
		violationRepo: violationRepo,
		store:         store,
		notifier:      notifier,
	}
}

func (s *violationService) Record(ctx context.Context, sc session.Context, violationType string, screenshot string) (*dto.ViolationDTO, error) {
	if sc.UserID == 0 {
		return nil, ErrUnauthorized
	}
	code := model.ViolationCode(strings.TrimSpace(violationType))
	if code == "" {
		code = model.CodeUnknown
	}

	logger := log.With().Uint("userID", sc.UserID).Str("examCode", sc.ExamKey()).Str("type", code.String()).Logger()

	var shot []byte
	var shotMIME string
	if screenshot != "" && code.RetainsScreenshot() {
		raw, mimeType, err := decodeImagePayload(screenshot)
		if err != nil {
			logger.Warn().Err(err).Msg("Record: screenshot dropped, payload could not be decoded")
		} else {
			shot, shotMIME = raw, mimeType
		}
	}

	violation := model.Violation{
		UserID:   sc.UserID,
		ExamCode: sc.SelectedExam,
		Type:     code.String(),
	}

	isPhone := code == model.CodePhoneDetected
	if shot != nil && isPhone {
		taken, err := s.violationRepo.HasPhoneEvidence(ctx, sc.UserID, sc.ExamKey())
		if err != nil {
			logger.Warn().Err(err).Msg("Record: phone evidence lookup failed")
		} else if taken {
			logger.Debug().Msg("Record: phone screenshot already kept for this exam")
			shot = nil
		}
	}

	var written string
	if shot != nil {
		publicPath, err := s.store.Save(ctx, sc.UserID, shot, shotMIME)
		if err != nil {
			logger.Warn().Err(err).Msg("Record: screenshot not stored")
		} else {
			written = publicPath
		}
	}

	if written == "" {
		if err := s.violationRepo.Create(ctx, &violation); err != nil {
			logger.Error().Err(err).Msg("Record: failed to insert violation")
			return nil, fmt.Errorf("failed to record violation: %w", err)
		}
		return s.committed(violation), nil
	}

	// The file is on disk; the claim and the row are one short transaction.
	claimed := true
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.violationRepo.WithTx(tx)
		if isPhone {
			var err error
			claimed, err = repo.ClaimPhoneEvidence(ctx, sc.UserID, sc.ExamKey())
			if err != nil {
				return fmt.Errorf("claim phone evidence: %w", err)
			}
		}
		if claimed {
			violation.ScreenshotPath = &written
		}
		if err := repo.Create(ctx, &violation); err != nil {
			return fmt.Errorf("insert violation: %w", err)
		}
		if isPhone && claimed {
			if err := repo.AttachPhoneEvidence(ctx, sc.UserID, sc.ExamKey(), violation.ID); err != nil {
				return fmt.Errorf("attach phone evidence: %w", err)
			}
		}
		return nil
	})
	if err == nil {
		if !claimed {
			logger.Debug().Msg("Record: phone screenshot lost the claim, discarding file")
			s.discard(ctx, written)
		}
		return s.committed(violation), nil
	}

	logger.Error().Err(err).Msg("Record: screenshot transaction failed, recording without screenshot")
	s.discard(ctx, written)
	violation = model.Violation{
		UserID:   sc.UserID,
		ExamCode: sc.SelectedExam,
		Type:     code.String(),
	}
	if err := s.violationRepo.Create(ctx, &violation); err != nil {
		logger.Error().Err(err).Msg("Record: failed to insert violation")
		return nil, fmt.Errorf("failed to record violation: %w", err)
	}
	return s.committed(violation), nil
}

func (s *violationService) discard(ctx context.Context, publicPath string) {
	if err := s.store.Remove(ctx, publicPath); err != nil {
		log.Warn().Err(err).Str("path", publicPath).Msg("Record: orphan screenshot left behind")
	}
}

func (s *violationService) committed(v model.Violation) *dto.ViolationDTO {
	if s.notifier != nil {
		s.notifier.NotifyViolation(v)
	}
	var out dto.ViolationDTO
	if err := copier.Copy(&out, &v); err != nil {
		log.Error().Err(err).Uint("violationID", v.ID).Msg("Record: failed to copy violation to DTO")
	}
	return &out
}

func (s *violationService) ListByUser(ctx context.Context, userID uint) ([]dto.ViolationDTO, error) {
	violations, err := s.violationRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ListByUser: failed to load violations")
		return nil, fmt.Errorf("failed to load violations: %w", err)
	}
	out := make([]dto.ViolationDTO, 0, len(violations))
	if err := copier.Copy(&out, &violations); err != nil {
		return nil, fmt.Errorf("failed to map violations: %w", err)
	}
	return out, nil
}
