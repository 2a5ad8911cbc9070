package model

import "time"

// AttemptState is the explicit state of a student's exam session.
//
//	Idle             if no exam is selected
//	Submitted        if an ExamAttempt row exists for (user, selected exam)
//	persisted Status otherwise (ExamSelected, ReadinessPending or InProgress)
type AttemptState string

const (
	StateIdle             AttemptState = "idle"
	StateExamSelected     AttemptState = "exam_selected"
	StateReadinessPending AttemptState = "readiness_pending"
	StateInProgress       AttemptState = "in_progress"
	StateSubmitted        AttemptState = "submitted"
)

// ExamSession holds the selected exam and readiness progress of one student.
type ExamSession struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	UserID        uint         `json:"user_id" gorm:"not null;uniqueIndex"`
	ExamCode      *string      `json:"exam_code,omitempty"`
	Status        AttemptState `json:"status" gorm:"not null;default:'idle'"`
	Signature     string       `json:"-"`
	FocusVerified bool         `json:"focus_verified"`
	AudioVerified bool         `json:"audio_verified"`
	ReadyAt       *time.Time   `json:"ready_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// DeriveState reconstructs the state from the persisted session row and the
// existence of an attempt row. sess may be nil.
func DeriveState(sess *ExamSession, attemptExists bool) AttemptState {
	if sess == nil || sess.ExamCode == nil || *sess.ExamCode == "" {
		return StateIdle
	}
	if attemptExists {
		return StateSubmitted
	}
	switch sess.Status {
	case StateExamSelected, StateReadinessPending, StateInProgress:
		return sess.Status
	default:
		return StateExamSelected
	}
}
