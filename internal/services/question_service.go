package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== CRUD =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	if _, err := s.repo.Exam().GetByID(ctx, req.ExamID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	question := &models.Question{
		ExamID:       req.ExamID,
		Text:         req.Text,
		QuestionType: req.QuestionType,
		Points:       req.Points,
		Difficulty:   req.Difficulty,
		Explanation:  req.Explanation,
		OrderIndex:   req.OrderIndex,
		IsActive:     true,
	}
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, models.Option{
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: opt.OrderIndex,
		})
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created",
		"question_id", question.ID,
		"exam_id", question.ExamID,
		"question_type", question.QuestionType)

	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, questionID uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByIDWithOptions(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	if _, err := s.repo.Exam().GetByID(ctx, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	questions, err := s.repo.Question().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Update(ctx context.Context, questionID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	if req.Options != nil {
		options := make([]models.Option, 0, len(req.Options))
		for _, opt := range req.Options {
			options = append(options, models.Option{
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: opt.OrderIndex,
			})
		}
		if err := s.repo.Question().ReplaceOptions(ctx, questionID, options); err != nil {
			return nil, fmt.Errorf("failed to replace options: %w", err)
		}
	}

	return s.GetByID(ctx, questionID)
}

func (s *questionService) Delete(ctx context.Context, questionID uint) error {
	if _, err := s.repo.Question().GetByID(ctx, questionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	// Answers reference questions without owning them; deleting a
	// question out from under recorded answers is refused.
	referenced, err := s.repo.Answer().CountByQuestion(ctx, questionID)
	if err != nil {
		return fmt.Errorf("failed to count answers: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: question has recorded answers", ErrConflict)
	}

	if err := s.repo.Question().Delete(ctx, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", questionID)
	return nil
}

// ===== STRUCTURE VALIDATION =====

func (s *questionService) Validate(ctx context.Context, questionID uint) (*validator.QuestionValidation, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	options, err := s.repo.Question().ListOptions(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}

	result := s.validator.Question().Validate(question, options)
	return &result, nil
}

func (s *questionService) AutoFix(ctx context.Context, questionID uint) (*AutoFixResult, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	options, err := s.repo.Question().ListOptions(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}

	var fixes []string
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Renumber option order indexes into a dense 0-based sequence
		// preserving the current relative order.
		sorted := make([]models.Option, len(options))
		copy(sorted, options)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].OrderIndex < sorted[j].OrderIndex
		})
		for i := range sorted {
			if sorted[i].OrderIndex != i {
				sorted[i].OrderIndex = i
				if err := tx.Question().UpdateOption(ctx, &sorted[i]); err != nil {
					return fmt.Errorf("failed to fix option order: %w", err)
				}
				fixes = append(fixes, fmt.Sprintf("Fixed order index for option: %s...", truncate(sorted[i].Text, 30)))
			}
		}

		// True/false questions can be repaired to a full pair.
		if question.QuestionType == models.TrueFalse {
			switch len(options) {
			case 0:
				pair := []models.Option{
					{QuestionID: questionID, Text: "True", IsCorrect: true, OrderIndex: 0},
					{QuestionID: questionID, Text: "False", IsCorrect: false, OrderIndex: 1},
				}
				for i := range pair {
					if err := tx.Question().CreateOption(ctx, &pair[i]); err != nil {
						return fmt.Errorf("failed to create true/false options: %w", err)
					}
				}
				fixes = append(fixes, "Created True/False options")
			case 1:
				existing := strings.ToLower(options[0].Text)
				missing := models.Option{QuestionID: questionID, Text: "True", IsCorrect: true, OrderIndex: 1}
				if strings.Contains(existing, "true") || strings.Contains(existing, "verdad") {
					missing = models.Option{QuestionID: questionID, Text: "False", IsCorrect: false, OrderIndex: 1}
				}
				if err := tx.Question().CreateOption(ctx, &missing); err != nil {
					return fmt.Errorf("failed to create missing option: %w", err)
				}
				fixes = append(fixes, "Added missing True/False option")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(fixes) > 0 {
		s.logger.Info("Question auto-fixed",
			"question_id", questionID,
			"fixes_count", len(fixes))
	}

	return &AutoFixResult{
		QuestionID:   questionID,
		FixesApplied: fixes,
		FixesCount:   len(fixes),
	}, nil
}

func (s *questionService) BulkValidate(ctx context.Context, examID uint) (*validator.ExamValidation, error) {
	if _, err := s.repo.Exam().GetByID(ctx, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	questions, err := s.repo.Question().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	result := &validator.ExamValidation{
		ExamID:              examID,
		TotalQuestions:      len(questions),
		QuestionValidations: []validator.QuestionValidation{},
	}

	if len(questions) == 0 {
		result.IsValid = false
		result.Errors = []string{"Exam has no questions"}
		return result, nil
	}

	for i := range questions {
		qv := s.validator.Question().Validate(&questions[i], questions[i].Options)
		result.QuestionValidations = append(result.QuestionValidations, qv)
		if qv.IsValid {
			result.ValidQuestions++
		} else {
			result.TotalErrors += len(qv.Errors)
		}
	}

	result.InvalidQuestions = result.TotalQuestions - result.ValidQuestions
	result.IsValid = result.TotalErrors == 0

	return result, nil
}

func (s *questionService) Reorder(ctx context.Context, examID uint, questionIDs []uint) (*ReorderResult, error) {
	if _, err := s.repo.Exam().GetByID(ctx, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	orders := make([]repositories.QuestionOrder, 0, len(questionIDs))
	for i, questionID := range questionIDs {
		question, err := s.repo.Question().GetByID(ctx, questionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotFound)
			}
			return nil, fmt.Errorf("failed to get question %d: %w", questionID, err)
		}
		if question.ExamID != examID {
			return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotInExam)
		}
		orders = append(orders, repositories.QuestionOrder{
			QuestionID: questionID,
			OrderIndex: i,
		})
	}

	if err := s.repo.Question().UpdateOrderIndexes(ctx, examID, orders); err != nil {
		return nil, fmt.Errorf("failed to reorder questions: %w", err)
	}

	s.logger.Info("Questions reordered",
		"exam_id", examID,
		"count", len(questionIDs))

	return &ReorderResult{
		ExamID:             examID,
		ReorderedQuestions: len(questionIDs),
		NewOrder:           questionIDs,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
