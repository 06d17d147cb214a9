package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories and provides
// transaction scoping. Implementations returned by WithTransaction
// share a single transaction; writes performed through them commit
// or roll back together.
type Repository interface {
	Exam() ExamRepository
	Question() QuestionRepository
	Session() SessionRepository
	Answer() AnswerRepository
	User() UserRepository

	// WithTransaction runs fn with a Repository bound to a single
	// database transaction. The transaction commits when fn returns
	// nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err indicates a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err indicates a unique
// constraint violation.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
