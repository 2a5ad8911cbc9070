package model

import "time"

// Violation is append-only.
type Violation struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"not null;index:idx_violation_user_exam"`
	ExamCode       *string   `json:"exam_code,omitempty" gorm:"index:idx_violation_user_exam"`
	Type           string    `json:"type" gorm:"not null;index"`
	ScreenshotPath *string   `json:"screenshot_path,omitempty"`
	CreatedAt      time.Time `json:"timestamp" gorm:"index"`
}

// PhoneEvidenceClaim reserves the single phone_detected screenshot slot of a
// (user, exam) pair. ExamKey is the exam code, or "" when no exam was selected.
type PhoneEvidenceClaim struct {
	ID          uint      `gorm:"primarykey"`
	UserID      uint      `gorm:"not null;uniqueIndex:uniq_phone_claim_user_exam"`
	ExamKey     string    `gorm:"not null;uniqueIndex:uniq_phone_claim_user_exam"`
	ViolationID *uint     `gorm:"index"`
	ClaimedAt   time.Time `gorm:"autoCreateTime"`
}

func (PhoneEvidenceClaim) TableName() string {
	return "phone_evidence_claims"
}
