package repository

import (
	"context"
	"errors"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
)

type HeartbeatRepository interface {
	Create(ctx context.Context, hb *model.Heartbeat) error
	// Latest returns the most recent heartbeat for (user, exam), or nil.
	Latest(ctx context.Context, userID uint, examCode *string) (*model.Heartbeat, error)
}

type heartbeatRepository struct {
	db *gorm.DB
}

func NewHeartbeatRepository(db *gorm.DB) HeartbeatRepository {
	return &heartbeatRepository{db: db}
}

func (r *heartbeatRepository) Create(ctx context.Context, hb *model.Heartbeat) error {
	return r.db.WithContext(ctx).Create(hb).Error
}

func (r *heartbeatRepository) Latest(ctx context.Context, userID uint, examCode *string) (*model.Heartbeat, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if examCode == nil {
		query = query.Where("exam_code IS NULL")
	} else {
		query = query.Where("exam_code = ?", *examCode)
	}
	var hb model.Heartbeat
	err := query.Order("last_seen DESC, id DESC").First(&hb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hb, nil
}
