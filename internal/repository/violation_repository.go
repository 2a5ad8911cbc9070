package repository

import (
	"context"

	"github.com/lshigami/proctorexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViolationTypeCount is one (user, type) group of the violation log.
type ViolationTypeCount struct {
	UserID uint
	Type   string
	Count  int64
}

type ExamViolationCount struct {
	ExamCode *string
	Count    int64
}

type ViolationRepository interface {
	WithTx(tx *gorm.DB) ViolationRepository
	Create(ctx context.Context, violation *model.Violation) error
	FindByUser(ctx context.Context, userID uint) ([]model.Violation, error)
	// CountByUserAndType groups the log by (user, type); userID nil means all users.
	CountByUserAndType(ctx context.Context, userID *uint) ([]ViolationTypeCount, error)
	CountByExam(ctx context.Context, userID uint) ([]ExamViolationCount, error)

	// Phone evidence slot, one per (user, exam key).
	ClaimPhoneEvidence(ctx context.Context, userID uint, examKey string) (bool, error)
	// HasPhoneEvidence is a plain read; ClaimPhoneEvidence stays authoritative.
	HasPhoneEvidence(ctx context.Context, userID uint, examKey string) (bool, error)
	AttachPhoneEvidence(ctx context.Context, userID uint, examKey string, violationID uint) error
	CountPhoneScreenshots(ctx context.Context, userID uint, examCode *string) (int64, error)
}

type violationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) WithTx(tx *gorm.DB) ViolationRepository {
	return &violationRepository{db: tx}
}

func (r *violationRepository) Create(ctx context.Context, violation *model.Violation) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

func (r *violationRepository) FindByUser(ctx context.Context, userID uint) ([]model.Violation, error) {
	var violations []model.Violation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&violations).Error
	return violations, err
}

func (r *violationRepository) CountByUserAndType(ctx context.Context, userID *uint) ([]ViolationTypeCount, error) {
	var rows []ViolationTypeCount
	query := r.db.WithContext(ctx).Model(&model.Violation{}).Select("user_id, type, COUNT(*) AS count")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Group("user_id, type").Order("user_id, type").Scan(&rows).Error
	return rows, err
}

func (r *violationRepository) CountByExam(ctx context.Context, userID uint) ([]ExamViolationCount, error) {
	var rows []ExamViolationCount
	err := r.db.WithContext(ctx).Model(&model.Violation{}).
		Select("exam_code, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("exam_code").
		Scan(&rows).Error
	return rows, err
}

func (r *violationRepository) ClaimPhoneEvidence(ctx context.Context, userID uint, examKey string) (bool, error) {
	claim := model.PhoneEvidenceClaim{UserID: userID, ExamKey: examKey}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "exam_key"}},
			DoNothing: true,
		}).
		Create(&claim)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *violationRepository) HasPhoneEvidence(ctx context.Context, userID uint, examKey string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PhoneEvidenceClaim{}).
		Where("user_id = ? AND exam_key = ?", userID, examKey).
		Count(&n).Error
	return n > 0, err
}

func (r *violationRepository) AttachPhoneEvidence(ctx context.Context, userID uint, examKey string, violationID uint) error {
	return r.db.WithContext(ctx).Model(&model.PhoneEvidenceClaim{}).
		Where("user_id = ? AND exam_key = ?", userID, examKey).
		Update("violation_id", violationID).Error
}

func (r *violationRepository) CountPhoneScreenshots(ctx context.Context, userID uint, examCode *string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Violation{}).
		Where("user_id = ? AND type = ? AND screenshot_path IS NOT NULL", userID, string(model.CodePhoneDetected))
	if examCode == nil {
		query = query.Where("exam_code IS NULL")
	} else {
		query = query.Where("exam_code = ?", *examCode)
	}
	err := query.Count(&count).Error
	return count, err
}
