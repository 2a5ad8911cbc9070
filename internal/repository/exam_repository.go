package repository

import (
	"context"
	"errors"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRepository interface {
	// CreateIfAbsent inserts exam unless its code already exists.
	CreateIfAbsent(ctx context.Context, exam *model.Exam) (bool, error)
	FindByCode(ctx context.Context, code string) (*model.Exam, error)
	FindAll(ctx context.Context) ([]model.Exam, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) CreateIfAbsent(ctx context.Context, exam *model.Exam) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "exam_code"}}, DoNothing: true}).
		Create(exam)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByCode returns (nil, nil) when the code is unknown.
func (r *examRepository) FindByCode(ctx context.Context, code string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).Where("exam_code = ?", code).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAll(ctx context.Context) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.WithContext(ctx).Order("id DESC").Find(&exams).Error
	return exams, err
}
