package models

import (
	"time"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
	SessionExpired    SessionStatus = "expired"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned || s == SessionExpired
}

// ExamSession is one attempt of a student working through an exam.
// A session becomes terminal exactly once; after that the record is
// immutable except for reads.
type ExamSession struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ExamID    uint `json:"exam_id" gorm:"not null;index:idx_sessions_exam_student"`
	StudentID uint `json:"student_id" gorm:"not null;index:idx_sessions_exam_student"`

	Status    SessionStatus `json:"status" gorm:"not null;default:in_progress;index"`
	StartTime time.Time     `json:"start_time" gorm:"not null"`

	// EndTime holds the hard deadline while the session is open (nil for
	// untimed exams) and the actual close time once the session is terminal.
	EndTime *time.Time `json:"end_time"`

	AttemptNumber int `json:"attempt_number" gorm:"not null;default:1" validate:"min=1"`

	// Scoring results, written once at finalization.
	Score        *float64 `json:"score" validate:"omitempty,min=0,max=100"`
	EarnedPoints *float64 `json:"earned_points" validate:"omitempty,min=0"`
	TotalPoints  *float64 `json:"total_points" validate:"omitempty,min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    Exam            `json:"-" gorm:"foreignKey:ExamID"`
	Student User            `json:"-" gorm:"foreignKey:StudentID"`
	Answers []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}

// StudentAnswer records the option a student selected for one question of
// an open session. SelectedOptionID is nil while the question is
// unanswered. IsCorrect and PointsEarned are derived by the scoring pass
// at finalization and are never accepted from callers.
type StudentAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SessionID  uint `json:"session_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`

	SelectedOptionID *uint     `json:"selected_option_id"`
	AnsweredAt       time.Time `json:"answered_at"`

	IsCorrect    *bool    `json:"is_correct"`
	PointsEarned *float64 `json:"points_earned" validate:"omitempty,min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Session        ExamSession `json:"-" gorm:"foreignKey:SessionID"`
	Question       Question    `json:"-" gorm:"foreignKey:QuestionID"`
	SelectedOption *Option     `json:"-" gorm:"foreignKey:SelectedOptionID"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
