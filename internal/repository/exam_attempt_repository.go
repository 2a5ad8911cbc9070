package repository

import (
	"context"
	"time"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptWithTitle is an attempt joined with its exam title (nil when the
// exam no longer exists).
type AttemptWithTitle struct {
	ID          uint
	UserID      uint
	ExamCode    string
	ExamTitle   *string
	Score       int
	SubmittedAt time.Time
}

type UserAttemptCount struct {
	UserID   uint
	Attempts int64
}

type ExamAttemptRepository interface {
	Exists(ctx context.Context, userID uint, examCode string) (bool, error)
	// CreateIfAbsent inserts attempt unless one already exists for the same
	// (user, exam). The check and the insert are a single statement.
	CreateIfAbsent(ctx context.Context, attempt *model.ExamAttempt) (bool, error)
	FindByUser(ctx context.Context, userID uint) ([]AttemptWithTitle, error)
	CountByUser(ctx context.Context) ([]UserAttemptCount, error)
	FindAll(ctx context.Context) ([]model.ExamAttempt, error)
}

type examAttemptRepository struct {
	db *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

func (r *examAttemptRepository) Exists(ctx context.Context, userID uint, examCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ExamAttempt{}).
		Where("user_id = ? AND exam_code = ?", userID, examCode).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *examAttemptRepository) CreateIfAbsent(ctx context.Context, attempt *model.ExamAttempt) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "exam_code"}},
			DoNothing: true,
		}).
		Create(attempt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *examAttemptRepository) FindByUser(ctx context.Context, userID uint) ([]AttemptWithTitle, error) {
	var rows []AttemptWithTitle
	err := r.db.WithContext(ctx).Model(&model.ExamAttempt{}).
		Select("exam_attempts.id, exam_attempts.user_id, exam_attempts.exam_code, exams.title AS exam_title, exam_attempts.score, exam_attempts.submitted_at").
		Joins("LEFT JOIN exams ON exams.exam_code = exam_attempts.exam_code").
		Where("exam_attempts.user_id = ?", userID).
		Order("exam_attempts.submitted_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *examAttemptRepository) CountByUser(ctx context.Context) ([]UserAttemptCount, error) {
	var rows []UserAttemptCount
	err := r.db.WithContext(ctx).Model(&model.ExamAttempt{}).
		Select("user_id, COUNT(*) AS attempts").
		Group("user_id").
		Scan(&rows).Error
	return rows, err
}

func (r *examAttemptRepository) FindAll(ctx context.Context) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&attempts).Error
	return attempts, err
}
