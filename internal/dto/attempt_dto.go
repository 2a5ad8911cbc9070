package dto

import "time"

type SelectExamDTO struct {
	Code string `json:"exam_code" example:"MATH101"`
}

// ReadinessDTO carries the pre-exam checklist results reported by the client.
type ReadinessDTO struct {
	Signature          string `json:"signature"`
	FocusCheckVerified bool   `json:"focus_check_verified"`
	AudioCheckVerified bool   `json:"audio_check_verified"`
}

// SubmitExamDTO maps question id to the chosen answer. Keys that are not
// question ids of the exam simply do not score.
type SubmitExamDTO struct {
	Answers map[string]string `json:"answers"`
}

type AttemptSummaryDTO struct {
	ExamCode    string    `json:"exam_code"`
	ExamTitle   string    `json:"exam_title,omitempty"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SessionStateDTO struct {
	State        string           `json:"state"`
	SelectedExam *ExamResponseDTO `json:"selected_exam,omitempty"`
	Attempted    bool             `json:"attempted"`
	Message      string           `json:"message,omitempty"`
}

type DashboardDTO struct {
	Username string              `json:"username"`
	Session  SessionStateDTO     `json:"session"`
	Attempts []AttemptSummaryDTO `json:"attempts"`
}

type ExamContentDTO struct {
	Exam      ExamResponseDTO       `json:"exam"`
	Questions []QuestionResponseDTO `json:"questions"`
}

type SubmitResultDTO struct {
	ExamCode    string    `json:"exam_code"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
	State       string    `json:"state"`
}
