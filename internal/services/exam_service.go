package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vLorente/exam-scan/internal/cache"
	"github.com/vLorente/exam-scan/internal/events"
	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/validator"
)

const examCacheTTL = 5 * time.Minute

func examCacheKey(examID uint) string {
	return fmt.Sprintf("exam:%d:full", examID)
}

type examService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	events    events.EventPublisher
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, cacheService cache.CacheService, publisher events.EventPublisher) ExamService {
	return &examService{
		repo:      repo,
		logger:    logger,
		validator: v,
		cache:     cacheService,
		events:    publisher,
	}
}

// ===== CRUD =====

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, creatorID uint) (*models.Exam, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	if _, err := s.repo.User().GetByID(ctx, creatorID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	exam := &models.Exam{
		Title:              req.Title,
		Description:        req.Description,
		Subject:            req.Subject,
		Status:             models.ExamDraft,
		DurationMinutes:    req.DurationMinutes,
		MaxAttempts:        req.MaxAttempts,
		PassingScore:       req.PassingScore,
		Instructions:       req.Instructions,
		IsPublic:           req.IsPublic,
		RandomizeQuestions: req.RandomizeQuestions,
		RandomizeOptions:   req.RandomizeOptions,
		CreatorID:          creatorID,
	}
	if exam.MaxAttempts == 0 {
		exam.MaxAttempts = 1
	}

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("Exam created",
		"exam_id", exam.ID,
		"title", exam.Title,
		"creator_id", creatorID)

	return exam, nil
}

func (s *examService) GetByID(ctx context.Context, examID uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

func (s *examService) GetByIDWithQuestions(ctx context.Context, examID uint) (*models.Exam, error) {
	if s.cache != nil {
		var cached models.Exam
		if err := s.cache.Get(ctx, examCacheKey(examID), &cached); err == nil {
			return &cached, nil
		}
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	// Only published exams are cached; drafts change too often to be
	// worth the invalidation traffic.
	if s.cache != nil && exam.Status == models.ExamPublished {
		if err := s.cache.Set(ctx, examCacheKey(examID), exam, examCacheTTL); err != nil {
			s.logger.Warn("Failed to cache exam", "exam_id", examID, "error", err)
		}
	}

	return exam, nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) ([]models.Exam, int64, error) {
	exams, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, total, nil
}

func (s *examService) Update(ctx context.Context, examID uint, req *UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	if exam.Status == models.ExamArchived {
		return nil, ErrExamNotEditable
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = req.DurationMinutes
	}
	if req.MaxAttempts != nil {
		exam.MaxAttempts = *req.MaxAttempts
	}
	if req.PassingScore != nil {
		exam.PassingScore = *req.PassingScore
	}
	if req.Instructions != nil {
		exam.Instructions = req.Instructions
	}
	if req.IsPublic != nil {
		exam.IsPublic = *req.IsPublic
	}
	if req.RandomizeQuestions != nil {
		exam.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.RandomizeOptions != nil {
		exam.RandomizeOptions = *req.RandomizeOptions
	}

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	s.invalidateCache(ctx, examID)
	return exam, nil
}

func (s *examService) Delete(ctx context.Context, examID uint) error {
	if _, err := s.GetByID(ctx, examID); err != nil {
		return err
	}

	if err := s.repo.Exam().Delete(ctx, examID); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	s.invalidateCache(ctx, examID)
	s.logger.Info("Exam deleted", "exam_id", examID)
	return nil
}

// ===== PUBLICATION =====

// Publish moves an exam to published after checking it has at least one
// question and every question passes structure validation.
func (s *examService) Publish(ctx context.Context, examID uint) (*models.Exam, error) {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	if exam.Status == models.ExamArchived {
		return nil, ErrExamInvalidStatus
	}

	questions, err := s.repo.Question().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("exam cannot be published: %w", ErrExamNoQuestions)
	}

	invalid := 0
	for i := range questions {
		qv := s.validator.Question().Validate(&questions[i], questions[i].Options)
		if !qv.IsValid {
			invalid++
		}
	}
	if invalid > 0 {
		return nil, fmt.Errorf("%w: %d questions have invalid structure", ErrValidationFailed, invalid)
	}

	if err := s.repo.Exam().UpdateStatus(ctx, examID, models.ExamPublished); err != nil {
		return nil, fmt.Errorf("failed to publish exam: %w", err)
	}

	s.invalidateCache(ctx, examID)

	exam, err = s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventExamPublished, events.ExamPublishedEvent{
		ExamID:          exam.ID,
		Title:           exam.Title,
		Subject:         exam.Subject,
		QuestionCount:   len(questions),
		DurationMinutes: exam.DurationMinutes,
		MaxAttempts:     exam.MaxAttempts,
		PassingScore:    exam.PassingScore,
		CreatorID:       exam.CreatorID,
	}))

	s.logger.Info("Exam published",
		"exam_id", exam.ID,
		"question_count", len(questions))

	return exam, nil
}

func (s *examService) Archive(ctx context.Context, examID uint) (*models.Exam, error) {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Exam().UpdateStatus(ctx, examID, models.ExamArchived); err != nil {
		return nil, fmt.Errorf("failed to archive exam: %w", err)
	}

	s.invalidateCache(ctx, examID)

	exam, err = s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventExamArchived, events.ExamArchivedEvent{
		ExamID: exam.ID,
		Title:  exam.Title,
	}))

	s.logger.Info("Exam archived", "exam_id", exam.ID)
	return exam, nil
}

// ===== STATS =====

func (s *examService) Stats(ctx context.Context, examID uint) (*ExamStats, error) {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	totalPoints := 0.0
	for _, q := range questions {
		totalPoints += q.Points
	}

	sessions, total, err := s.repo.Session().List(ctx, repositories.SessionFilters{ExamID: examID})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	stats := &ExamStats{
		ExamID:        examID,
		QuestionCount: len(questions),
		TotalPoints:   totalPoints,
		TotalSessions: int(total),
	}

	scoreSum := 0.0
	scored := 0
	passed := 0
	for _, session := range sessions {
		switch session.Status {
		case models.SessionInProgress:
			stats.InProgressSessions++
		case models.SessionCompleted:
			stats.CompletedSessions++
		}
		if session.Score != nil {
			scoreSum += *session.Score
			scored++
			if *session.Score >= exam.PassingScore {
				passed++
			}
		}
	}

	if scored > 0 {
		stats.AverageScore = scoreSum / float64(scored)
		stats.PassRate = float64(passed) / float64(scored) * 100
	}

	return stats, nil
}

func (s *examService) invalidateCache(ctx context.Context, examID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, examCacheKey(examID)); err != nil {
		s.logger.Warn("Failed to invalidate exam cache",
			"exam_id", examID,
			"error", err)
	}
}

func (s *examService) publishEvent(ctx context.Context, event *events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", event.Type,
			"error", err)
	}
}
