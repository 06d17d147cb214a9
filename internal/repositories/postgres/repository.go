package postgres

import (
	"context"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db       *gorm.DB
	exam     repositories.ExamRepository
	question repositories.QuestionRepository
	session  repositories.SessionRepository
	answer   repositories.AnswerRepository
	user     repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:       db,
		exam:     NewExamPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		session:  NewSessionPostgreSQL(db),
		answer:   NewAnswerPostgreSQL(db),
		user:     NewUserPostgreSQL(db),
	}
}

func (r *gormRepository) Exam() repositories.ExamRepository         { return r.exam }
func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }
func (r *gormRepository) Session() repositories.SessionRepository   { return r.session }
func (r *gormRepository) Answer() repositories.AnswerRepository     { return r.answer }
func (r *gormRepository) User() repositories.UserRepository         { return r.user }

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Migrate creates the schema and the supporting indexes that GORM
// tags cannot express. The partial unique index guarantees at most
// one in-progress session per (student, exam) pair even under
// concurrent starts.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Option{},
		&models.ExamSession{},
		&models.StudentAnswer{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_active
		 ON exam_sessions (student_id, exam_id)
		 WHERE status = 'in_progress'`,
	).Error
}
