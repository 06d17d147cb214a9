package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamDraft     ExamStatus = "draft"
	ExamPublished ExamStatus = "published"
	ExamArchived  ExamStatus = "archived"
)

type Exam struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Subject     string     `json:"subject" gorm:"size:100;index" validate:"omitempty,max=100"`
	Status      ExamStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,exam_status"`

	// DurationMinutes is nil for untimed exams.
	DurationMinutes *int `json:"duration_minutes" validate:"omitempty,min=1,max=480"`

	MaxAttempts  int     `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`
	PassingScore float64 `json:"passing_score" gorm:"default:60" validate:"min=0,max=100"`

	Instructions       *string `json:"instructions" gorm:"type:text" validate:"omitempty,max=2000"`
	IsPublic           bool    `json:"is_public" gorm:"default:false"`
	RandomizeQuestions bool    `json:"randomize_questions" gorm:"default:false"`
	RandomizeOptions   bool    `json:"randomize_options" gorm:"default:false"`

	// Metadata
	CreatorID uint           `json:"creator_id" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Creator   User          `json:"creator" gorm:"foreignKey:CreatorID"`
	Questions []Question    `json:"questions" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	Sessions  []ExamSession `json:"sessions" gorm:"foreignKey:ExamID"`

	// Computed fields (not stored)
	QuestionsCount int     `json:"questions_count" gorm:"-"`
	TotalPoints    float64 `json:"total_points" gorm:"-"`
}

func (Exam) TableName() string {
	return "exams"
}

// IsTimed reports whether sessions on this exam carry a hard deadline.
func (e *Exam) IsTimed() bool {
	return e.DurationMinutes != nil
}
