package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Code        string         `json:"code" gorm:"column:exam_code;not null;uniqueIndex"` // stored upper-cased
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:ExamCode;references:Code"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
