package dto

import "time"

// ExamCreateDTO is used by admins to create an exam.
type ExamCreateDTO struct {
	Code        string `json:"exam_code" binding:"required" example:"MATH101"`
	Title       string `json:"title" binding:"required" example:"Algebra midterm"`
	Description string `json:"description"`
}

// QuestionCreateDTO adds one question to an exam. Answer holds the correct
// answer key compared verbatim at submission.
type QuestionCreateDTO struct {
	Question string `json:"question" binding:"required"`
	Option1  string `json:"option1" binding:"required"`
	Option2  string `json:"option2" binding:"required"`
	Option3  string `json:"option3" binding:"required"`
	Option4  string `json:"option4" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type ExamResponseDTO struct {
	Code        string    `json:"exam_code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionResponseDTO is what a student sees: no answer key.
type QuestionResponseDTO struct {
	ID       uint   `json:"id"`
	ExamCode string `json:"exam_code"`
	Question string `json:"question"`
	Option1  string `json:"option1"`
	Option2  string `json:"option2"`
	Option3  string `json:"option3"`
	Option4  string `json:"option4"`
}

type ImportResultDTO struct {
	ExamCode string `json:"exam_code"`
	Added    int    `json:"added"`
}
