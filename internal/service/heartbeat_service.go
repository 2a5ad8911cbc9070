package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

type HeartbeatService interface {
	Ping(ctx context.Context, sc session.Context) error
	// LastSeen returns the most recent heartbeat time for (user, exam), or nil.
	LastSeen(ctx context.Context, userID uint, examCode *string) (*time.Time, error)
	Liveness(ctx context.Context, userID uint, examCode *string) (dto.LivenessDTO, error)
}

type heartbeatService struct {
	heartbeatRepo repository.HeartbeatRepository
	cache         LivenessCache
	staleAfter    time.Duration
	now           func() time.Time
}

// NewHeartbeatService builds the tracker; cache may be nil.
func NewHeartbeatService(heartbeatRepo repository.HeartbeatRepository, cache LivenessCache, cfg *config.Config) HeartbeatService {
	return &heartbeatService{
		heartbeatRepo: heartbeatRepo,
		cache:         cache,
		staleAfter:    cfg.Proctor.HeartbeatStaleAfter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *heartbeatService) Ping(ctx context.Context, sc session.Context) error {
	if sc.UserID == 0 {
		return ErrUnauthorized
	}
	hb := model.Heartbeat{UserID: sc.UserID, ExamCode: sc.SelectedExam, LastSeen: s.now()}
	if err := s.heartbeatRepo.Create(ctx, &hb); err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Str("examCode", sc.ExamKey()).Msg("Ping: failed to insert heartbeat")
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Touch(ctx, sc.UserID, sc.ExamKey(), hb.LastSeen); err != nil {
			log.Warn().Err(err).Uint("userID", sc.UserID).Msg("Ping: liveness cache update failed")
		}
	}
	return nil
}

func (s *heartbeatService) LastSeen(ctx context.Context, userID uint, examCode *string) (*time.Time, error) {
	examKey := ""
	if examCode != nil {
		examKey = *examCode
	}
	if s.cache != nil {
		at, ok, err := s.cache.LastSeen(ctx, userID, examKey)
		if err != nil {
			log.Warn().Err(err).Uint("userID", userID).Msg("LastSeen: liveness cache read failed")
		} else if ok {
			return &at, nil
		}
	}

	hb, err := s.heartbeatRepo.Latest(ctx, userID, examCode)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Str("examCode", examKey).Msg("LastSeen: failed to query heartbeat")
		return nil, fmt.Errorf("failed to load heartbeat: %w", err)
	}
	if hb == nil {
		return nil, nil
	}
	at := hb.LastSeen.UTC()
	return &at, nil
}

func (s *heartbeatService) Liveness(ctx context.Context, userID uint, examCode *string) (dto.LivenessDTO, error) {
	out := dto.LivenessDTO{UserID: userID, ExamCode: examCode, Stale: true}
	last, err := s.LastSeen(ctx, userID, examCode)
	if err != nil {
		return out, err
	}
	if last == nil {
		return out, nil
	}
	since := s.now().Sub(*last)
	if since < 0 {
		since = 0
	}
	seconds := int64(since / time.Second)
	out.LastSeen = last
	out.SecondsSince = &seconds
	out.Stale = since > s.staleAfter
	return out, nil
}
