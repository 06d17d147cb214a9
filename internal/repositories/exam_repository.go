package repositories

import (
	"context"

	"github.com/vLorente/exam-scan/internal/models"
)

// ExamFilters narrows List results. Zero values are ignored.
type ExamFilters struct {
	Status    models.ExamStatus
	Subject   string
	CreatorID uint
	Limit     int
	Offset    int
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	// GetByIDWithQuestions preloads active questions and their options,
	// ordered by order_index.
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	// GetByIDLocked acquires a row lock on the exam. Only meaningful
	// inside WithTransaction.
	GetByIDLocked(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters ExamFilters) ([]models.Exam, int64, error)
}
