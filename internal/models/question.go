package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	SingleChoice   QuestionType = "single_choice"
	TrueFalse      QuestionType = "true_false"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Question struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	ExamID uint `json:"exam_id" gorm:"not null;index"`

	Text         string          `json:"text" gorm:"not null;type:text" validate:"required,max=2000"`
	QuestionType QuestionType    `json:"question_type" gorm:"not null;default:multiple_choice" validate:"omitempty,question_type"`
	Points       float64         `json:"points" gorm:"default:1" validate:"gt=0,max=100"`
	Difficulty   DifficultyLevel `json:"difficulty" gorm:"default:medium" validate:"omitempty,difficulty_level"`
	Explanation  *string         `json:"explanation" gorm:"type:text" validate:"omitempty,max=1000"`
	OrderIndex   int             `json:"order_index" gorm:"default:0" validate:"min=0"`
	IsActive     bool            `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Exam    Exam     `json:"-" gorm:"foreignKey:ExamID"`
	Options []Option `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

type Option struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	Text       string `json:"text" gorm:"not null;size:500" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Question Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (Option) TableName() string {
	return "options"
}
