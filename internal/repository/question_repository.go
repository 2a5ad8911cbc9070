package repository

import (
	"context"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByExamCode(ctx context.Context, examCode string) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(questions, 100).Error
	})
}

func (r *questionRepository) FindByExamCode(ctx context.Context, examCode string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).Where("exam_code = ?", examCode).Order("id ASC").Find(&questions).Error
	return questions, err
}
