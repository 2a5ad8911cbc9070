package repository

import (
	"context"
	"errors"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamSessionRepository interface {
	// FindByUser returns (nil, nil) when the student never selected an exam.
	FindByUser(ctx context.Context, userID uint) (*model.ExamSession, error)
	// Upsert writes the whole session row for sess.UserID.
	Upsert(ctx context.Context, sess *model.ExamSession) error
}

type examSessionRepository struct {
	db *gorm.DB
}

func NewExamSessionRepository(db *gorm.DB) ExamSessionRepository {
	return &examSessionRepository{db: db}
}

func (r *examSessionRepository) FindByUser(ctx context.Context, userID uint) (*model.ExamSession, error) {
	var sess model.ExamSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *examSessionRepository) Upsert(ctx context.Context, sess *model.ExamSession) error {
	// The row is matched on user_id only.
	row := *sess
	row.ID = 0
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"exam_code", "status", "signature", "focus_verified", "audio_verified", "ready_at", "updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return err
	}
	if row.ID != 0 {
		sess.ID = row.ID
	}
	return nil
}
