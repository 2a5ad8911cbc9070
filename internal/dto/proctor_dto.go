package dto

import "time"

type AnalyzeFrameDTO struct {
	Image       string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQ..."`
	EnablePhone *bool  `json:"enable_phone,omitempty"`
}

type AnalyzeFrameResponseDTO struct {
	Violations []string `json:"violations"`
	Score      int      `json:"score"`
}

type ReportViolationDTO struct {
	Type       string `json:"type" example:"tab_hidden"`
	Screenshot string `json:"screenshot,omitempty"`
}

type ViolationDTO struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	ExamCode       *string   `json:"exam_code,omitempty"`
	Type           string    `json:"type"`
	ScreenshotPath *string   `json:"screenshot_path,omitempty"`
	CreatedAt      time.Time `json:"timestamp"`
}

type LivenessDTO struct {
	UserID       uint       `json:"user_id"`
	ExamCode     *string    `json:"exam_code,omitempty"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	SecondsSince *int64     `json:"seconds_since,omitempty"`
	Stale        bool       `json:"stale"`
}
