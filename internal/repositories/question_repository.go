package repositories

import (
	"context"

	"github.com/vLorente/exam-scan/internal/models"
)

// QuestionOrder pairs a question with its new position for reordering.
type QuestionOrder struct {
	QuestionID uint `json:"question_id" validate:"required"`
	OrderIndex int  `json:"order_index" validate:"gte=0"`
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	// GetByIDWithOptions preloads options ordered by order_index.
	GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	// ListByExam returns the exam's questions ordered by order_index,
	// options preloaded.
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)
	// UpdateOrderIndexes applies the given positions in bulk.
	UpdateOrderIndexes(ctx context.Context, examID uint, orders []QuestionOrder) error
	// ReplaceOptions deletes the question's options and inserts the
	// given set in one pass.
	ReplaceOptions(ctx context.Context, questionID uint, options []models.Option) error

	CreateOption(ctx context.Context, option *models.Option) error
	GetOption(ctx context.Context, id uint) (*models.Option, error)
	UpdateOption(ctx context.Context, option *models.Option) error
	DeleteOption(ctx context.Context, id uint) error
	ListOptions(ctx context.Context, questionID uint) ([]models.Option, error)
}
