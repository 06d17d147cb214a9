package services

import (
	"context"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/validator"
)

// ===== REQUEST TYPES =====

type StartSessionRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID       uint  `json:"question_id" validate:"required"`
	SelectedOptionID *uint `json:"selected_option_id" validate:"required"`
}

type UpdateAnswerRequest struct {
	SelectedOptionID *uint `json:"selected_option_id" validate:"required"`
}

type CreateExamRequest struct {
	Title              string  `json:"title" validate:"required,min=1,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=1000"`
	Subject            string  `json:"subject" validate:"omitempty,max=100"`
	DurationMinutes    *int    `json:"duration_minutes" validate:"omitempty,min=1,max=480"`
	MaxAttempts        int     `json:"max_attempts" validate:"min=1,max=10"`
	PassingScore       float64 `json:"passing_score" validate:"min=0,max=100"`
	Instructions       *string `json:"instructions" validate:"omitempty,max=2000"`
	IsPublic           bool    `json:"is_public"`
	RandomizeQuestions bool    `json:"randomize_questions"`
	RandomizeOptions   bool    `json:"randomize_options"`
}

type UpdateExamRequest struct {
	Title              *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string  `json:"description" validate:"omitempty,max=1000"`
	Subject            *string  `json:"subject" validate:"omitempty,max=100"`
	DurationMinutes    *int     `json:"duration_minutes" validate:"omitempty,min=1,max=480"`
	MaxAttempts        *int     `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	PassingScore       *float64 `json:"passing_score" validate:"omitempty,min=0,max=100"`
	Instructions       *string  `json:"instructions" validate:"omitempty,max=2000"`
	IsPublic           *bool    `json:"is_public"`
	RandomizeQuestions *bool    `json:"randomize_questions"`
	RandomizeOptions   *bool    `json:"randomize_options"`
}

type CreateOptionRequest struct {
	Text       string `json:"text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

type CreateQuestionRequest struct {
	ExamID       uint                   `json:"exam_id" validate:"required"`
	Text         string                 `json:"text" validate:"required,max=2000"`
	QuestionType models.QuestionType    `json:"question_type" validate:"required,question_type"`
	Points       float64                `json:"points" validate:"gt=0,max=100"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Explanation  *string                `json:"explanation" validate:"omitempty,max=1000"`
	OrderIndex   int                    `json:"order_index" validate:"min=0"`
	Options      []CreateOptionRequest  `json:"options" validate:"omitempty,dive"`
}

type UpdateQuestionRequest struct {
	Text        *string                 `json:"text" validate:"omitempty,max=2000"`
	Points      *float64                `json:"points" validate:"omitempty,gt=0,max=100"`
	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Explanation *string                 `json:"explanation" validate:"omitempty,max=1000"`
	Options     []CreateOptionRequest   `json:"options" validate:"omitempty,dive"`
}

// ===== RESPONSE TYPES =====

// AutoFixResult reports the repairs applied to a question
type AutoFixResult struct {
	QuestionID   uint     `json:"question_id"`
	FixesApplied []string `json:"fixes_applied"`
	FixesCount   int      `json:"fixes_count"`
}

// ReorderResult reports the outcome of reordering an exam's questions
type ReorderResult struct {
	ExamID             uint   `json:"exam_id"`
	ReorderedQuestions int    `json:"reordered_questions"`
	NewOrder           []uint `json:"new_order"`
}

// ExamStats aggregates per-exam counters for teachers
type ExamStats struct {
	ExamID             uint    `json:"exam_id"`
	QuestionCount      int     `json:"question_count"`
	TotalPoints        float64 `json:"total_points"`
	TotalSessions      int     `json:"total_sessions"`
	CompletedSessions  int     `json:"completed_sessions"`
	InProgressSessions int     `json:"in_progress_sessions"`
	AverageScore       float64 `json:"average_score"`
	PassRate           float64 `json:"pass_rate"`
}

// ===== SERVICE INTERFACES =====

// SessionService owns the exam attempt lifecycle: the attempt gate,
// session state machine, time tracking and scoring at finalization.
type SessionService interface {
	// CanStart evaluates the attempt gate. The returned reason explains
	// a refusal and is stable text suitable for API responses.
	CanStart(ctx context.Context, examID, studentID uint) (bool, string, error)
	Start(ctx context.Context, req *StartSessionRequest, studentID uint) (*models.ExamSession, error)
	Finish(ctx context.Context, sessionID uint) (*models.ExamSession, error)
	Abandon(ctx context.Context, sessionID uint) (*models.ExamSession, error)
	Expire(ctx context.Context, sessionID uint) (*models.ExamSession, error)
	// TimeRemaining returns whole minutes left, nil when the session is
	// terminal or untimed. Polling an overdue session finalizes it as a
	// side effect and returns zero.
	TimeRemaining(ctx context.Context, sessionID uint) (*int, error)
	GetByID(ctx context.Context, sessionID uint) (*models.ExamSession, error)
	History(ctx context.Context, studentID, examID uint) ([]models.ExamSession, error)

	SubmitAnswer(ctx context.Context, sessionID uint, req *SubmitAnswerRequest) (*models.StudentAnswer, error)
	UpdateAnswer(ctx context.Context, sessionID, questionID uint, req *UpdateAnswerRequest) (*models.StudentAnswer, error)
	RemoveAnswer(ctx context.Context, sessionID, questionID uint) error
	ListAnswers(ctx context.Context, sessionID uint) ([]models.StudentAnswer, error)
}

// QuestionService manages question content and structure validation.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	GetByID(ctx context.Context, questionID uint) (*models.Question, error)
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
	Update(ctx context.Context, questionID uint, req *UpdateQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, questionID uint) error

	Validate(ctx context.Context, questionID uint) (*validator.QuestionValidation, error)
	AutoFix(ctx context.Context, questionID uint) (*AutoFixResult, error)
	BulkValidate(ctx context.Context, examID uint) (*validator.ExamValidation, error)
	Reorder(ctx context.Context, examID uint, questionIDs []uint) (*ReorderResult, error)
}

// ExamService manages exam metadata and publication state.
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, creatorID uint) (*models.Exam, error)
	GetByID(ctx context.Context, examID uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, examID uint) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ExamFilters) ([]models.Exam, int64, error)
	Update(ctx context.Context, examID uint, req *UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, examID uint) error

	Publish(ctx context.Context, examID uint) (*models.Exam, error)
	Archive(ctx context.Context, examID uint) (*models.Exam, error)
	Stats(ctx context.Context, examID uint) (*ExamStats, error)
}

// ExportService produces downloadable result reports.
type ExportService interface {
	ExportExamResults(ctx context.Context, examID uint) ([]byte, error)
}
