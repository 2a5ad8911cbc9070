package model

import "time"

// ExamAttempt is the scored submission of one student for one exam. The
// composite unique index is what enforces a single attempt per pair.
type ExamAttempt struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:uniq_attempt_user_exam"`
	ExamCode    string    `json:"exam_code" gorm:"not null;uniqueIndex:uniq_attempt_user_exam"`
	Score       int       `json:"score" gorm:"not null"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
}
