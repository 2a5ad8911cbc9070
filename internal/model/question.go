package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ExamCode  string         `json:"exam_code" gorm:"not null;index"`
	Text      string         `json:"question" gorm:"column:question;type:text;not null"`
	Option1   string         `json:"option1" gorm:"not null"`
	Option2   string         `json:"option2" gorm:"not null"`
	Option3   string         `json:"option3" gorm:"not null"`
	Option4   string         `json:"option4" gorm:"not null"`
	Answer    string         `json:"-" gorm:"not null"` // correct answer key, never sent to students
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
