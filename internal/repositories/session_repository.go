package repositories

import (
	"context"
	"time"

	"github.com/vLorente/exam-scan/internal/models"
)

// SessionFilters narrows ListSessions results. Zero values are ignored.
type SessionFilters struct {
	StudentID uint
	ExamID    uint
	Status    models.SessionStatus
	Limit     int
	Offset    int
}

// SessionFinalization carries the terminal state written by Finalize.
// Score fields stay nil for abandoned sessions.
type SessionFinalization struct {
	Status       models.SessionStatus
	EndTime      time.Time
	Score        *float64
	EarnedPoints *float64
	TotalPoints  *float64
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.ExamSession) error
	GetByID(ctx context.Context, id uint) (*models.ExamSession, error)
	// GetByIDWithAnswers preloads the session's answers.
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error)
	Update(ctx context.Context, session *models.ExamSession) error
	List(ctx context.Context, filters SessionFilters) ([]models.ExamSession, int64, error)
	// GetActive returns the student's in-progress session for the exam,
	// or gorm.ErrRecordNotFound.
	GetActive(ctx context.Context, studentID, examID uint) (*models.ExamSession, error)
	CountByStudentAndExam(ctx context.Context, studentID, examID uint) (int64, error)
	// Finalize moves the session to a terminal status if and only if it
	// is still in progress. Returns false when another caller got there
	// first.
	Finalize(ctx context.Context, id uint, final SessionFinalization) (bool, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *models.StudentAnswer) error
	GetByID(ctx context.Context, id uint) (*models.StudentAnswer, error)
	GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.StudentAnswer, error)
	Update(ctx context.Context, answer *models.StudentAnswer) error
	Delete(ctx context.Context, id uint) error
	ListBySession(ctx context.Context, sessionID uint) ([]models.StudentAnswer, error)
	// CountByQuestion reports how many answers reference the question,
	// across all sessions.
	CountByQuestion(ctx context.Context, questionID uint) (int64, error)
}
