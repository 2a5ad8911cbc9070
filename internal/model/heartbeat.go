package model

import "time"

type Heartbeat struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `json:"user_id" gorm:"not null;index:idx_heartbeat_user_exam"`
	ExamCode *string   `json:"exam_code,omitempty" gorm:"index:idx_heartbeat_user_exam"`
	LastSeen time.Time `json:"last_seen" gorm:"not null;index"`
}

func (Heartbeat) TableName() string {
	return "proctor_health"
}
