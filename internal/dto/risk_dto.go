package dto

import "time"

type RiskBreakdownDTO struct {
	Type   string `json:"type"`
	Count  int64  `json:"count"`
	Weight int    `json:"weight"`
	Points int64  `json:"points"`
}

type StudentRiskDTO struct {
	UserID    uint               `json:"user_id"`
	Username  string             `json:"username,omitempty"`
	Score     int64              `json:"score"`
	Breakdown []RiskBreakdownDTO `json:"breakdown,omitempty"`
}

type StudentSummaryDTO struct {
	UserID        uint       `json:"user_id"`
	Username      string     `json:"username"`
	Attempts      int64      `json:"attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	RiskScore     int64      `json:"risk_score"`
}

type StudentDetailDTO struct {
	UserID          uint                `json:"user_id"`
	Username        string              `json:"username"`
	Risk            StudentRiskDTO      `json:"risk"`
	Attempts        []AttemptSummaryDTO `json:"attempts"`
	Violations      []ViolationDTO      `json:"violations"`
	ViolationCounts map[string]int64    `json:"violation_counts"`
	Liveness        []LivenessDTO       `json:"liveness"`
}
