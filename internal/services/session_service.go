package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vLorente/exam-scan/internal/events"
	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/validator"
)

// Attempt gate refusal reasons. These strings are part of the API
// surface and kept stable.
const (
	ReasonExamNotFound     = "Exam not found"
	ReasonExamNotPublished = "Exam is not published"
	ReasonActiveSession    = "There is already an active session for this exam"
	ReasonCanStart         = "Can start exam"
)

// ReasonMaxAttempts formats the attempt limit refusal for an exam.
func ReasonMaxAttempts(maxAttempts int) string {
	return fmt.Sprintf("Maximum attempts (%d) reached", maxAttempts)
}

type sessionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher

	// now is the clock used for deadlines and expiry. Injected so tests
	// can run against a fixed time.
	now func() time.Time
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SessionService {
	return NewSessionServiceWithClock(repo, logger, v, publisher, time.Now)
}

// NewSessionServiceWithClock builds a SessionService with an explicit
// clock.
func NewSessionServiceWithClock(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, clock func() time.Time) SessionService {
	return &sessionService{
		repo:      repo,
		logger:    logger,
		validator: v,
		events:    publisher,
		now:       clock,
	}
}

// ===== ATTEMPT GATE =====

func (s *sessionService) CanStart(ctx context.Context, examID, studentID uint) (bool, string, error) {
	return s.evaluateGate(ctx, s.repo, examID, studentID)
}

// evaluateGate runs the gate checks in order; the first failing check
// wins. It is re-evaluated inside the Start transaction so the answer
// is never stale at creation time.
func (s *sessionService) evaluateGate(ctx context.Context, repo repositories.Repository, examID, studentID uint) (bool, string, error) {
	exam, err := repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ReasonExamNotFound, nil
		}
		return false, "", fmt.Errorf("failed to get exam: %w", err)
	}

	if exam.Status != models.ExamPublished {
		return false, ReasonExamNotPublished, nil
	}

	count, err := repo.Session().CountByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return false, "", fmt.Errorf("failed to count sessions: %w", err)
	}
	if count >= int64(exam.MaxAttempts) {
		return false, ReasonMaxAttempts(exam.MaxAttempts), nil
	}

	_, err = repo.Session().GetActive(ctx, studentID, examID)
	if err == nil {
		return false, ReasonActiveSession, nil
	}
	if !repositories.IsNotFoundError(err) {
		return false, "", fmt.Errorf("failed to check active session: %w", err)
	}

	return true, ReasonCanStart, nil
}

// ===== LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, studentID uint) (*models.ExamSession, error) {
	s.logger.Info("Starting exam session",
		"exam_id", req.ExamID,
		"student_id", studentID)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	if _, err := s.repo.User().GetByID(ctx, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	var session *models.ExamSession
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Lock the exam row so concurrent starts serialize here and the
		// gate answer cannot go stale before the insert.
		exam, err := tx.Exam().GetByIDLocked(ctx, req.ExamID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return fmt.Errorf("failed to lock exam: %w", err)
		}

		allowed, reason, err := s.evaluateGate(ctx, tx, req.ExamID, studentID)
		if err != nil {
			return err
		}
		if !allowed {
			return NewPolicyViolationError(reason)
		}

		count, err := tx.Session().CountByStudentAndExam(ctx, studentID, req.ExamID)
		if err != nil {
			return fmt.Errorf("failed to count sessions: %w", err)
		}

		start := s.now()
		var deadline *time.Time
		if exam.IsTimed() {
			t := start.Add(time.Duration(*exam.DurationMinutes) * time.Minute)
			deadline = &t
		}

		session = &models.ExamSession{
			ExamID:        req.ExamID,
			StudentID:     studentID,
			Status:        models.SessionInProgress,
			StartTime:     start,
			EndTime:       deadline,
			AttemptNumber: int(count) + 1,
		}

		if err := tx.Session().Create(ctx, session); err != nil {
			// The partial unique index is the backstop for concurrent
			// starts that raced past the gate.
			if repositories.IsDuplicateKeyError(err) {
				return NewPolicyViolationError(ReasonActiveSession)
			}
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID:     session.ID,
		ExamID:        session.ExamID,
		StudentID:     session.StudentID,
		AttemptNumber: session.AttemptNumber,
		StartTime:     session.StartTime,
		Deadline:      session.EndTime,
	}))

	s.logger.Info("Exam session started",
		"session_id", session.ID,
		"exam_id", session.ExamID,
		"student_id", studentID,
		"attempt_number", session.AttemptNumber)

	return session, nil
}

func (s *sessionService) Finish(ctx context.Context, sessionID uint) (*models.ExamSession, error) {
	return s.finalize(ctx, sessionID, models.SessionCompleted, true)
}

// Abandon closes a session without scoring it. The attempt still counts
// against the exam's attempt limit.
func (s *sessionService) Abandon(ctx context.Context, sessionID uint) (*models.ExamSession, error) {
	return s.finalize(ctx, sessionID, models.SessionAbandoned, false)
}

// Expire force-closes an overdue session, scoring whatever answers were
// submitted before the deadline.
func (s *sessionService) Expire(ctx context.Context, sessionID uint) (*models.ExamSession, error) {
	return s.finalize(ctx, sessionID, models.SessionExpired, true)
}

// finalize performs the single terminal transition of a session. The
// repository-level compare-and-set guarantees exactly one caller wins
// when several race; losers get ErrSessionNotActive, same as a
// sequential second call.
func (s *sessionService) finalize(ctx context.Context, sessionID uint, status models.SessionStatus, withScore bool) (*models.ExamSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	final := repositories.SessionFinalization{
		Status:  status,
		EndTime: s.now(),
	}

	var graded []*models.StudentAnswer
	if withScore {
		questions, err := s.repo.Question().ListByExam(ctx, session.ExamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions: %w", err)
		}

		answers, err := s.repo.Answer().ListBySession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load answers: %w", err)
		}

		graded = make([]*models.StudentAnswer, len(answers))
		for i := range answers {
			graded[i] = &answers[i]
		}

		totals := scoreSession(questions, graded)
		final.Score = &totals.Score
		final.EarnedPoints = &totals.EarnedPoints
		final.TotalPoints = &totals.TotalPoints
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		ok, err := tx.Session().Finalize(ctx, sessionID, final)
		if err != nil {
			return fmt.Errorf("failed to finalize session: %w", err)
		}
		if !ok {
			return ErrSessionNotActive
		}

		for _, answer := range graded {
			if err := tx.Answer().Update(ctx, answer); err != nil {
				return fmt.Errorf("failed to store grading for answer %d: %w", answer.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session, err = s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(finalizeEventType(status), events.SessionFinishedEvent{
		SessionID:    session.ID,
		ExamID:       session.ExamID,
		StudentID:    session.StudentID,
		EndTime:      final.EndTime,
		Score:        session.Score,
		EarnedPoints: session.EarnedPoints,
		TotalPoints:  session.TotalPoints,
	}))

	s.logger.Info("Exam session finalized",
		"session_id", session.ID,
		"status", session.Status)

	return session, nil
}

func finalizeEventType(status models.SessionStatus) events.EventType {
	switch status {
	case models.SessionAbandoned:
		return events.EventSessionAbandoned
	case models.SessionExpired:
		return events.EventSessionExpired
	default:
		return events.EventSessionCompleted
	}
}

func (s *sessionService) TimeRemaining(ctx context.Context, sessionID uint) (*int, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	// Terminal sessions have no time concept, untimed ones never expire.
	if session.Status != models.SessionInProgress {
		return nil, nil
	}
	if session.EndTime == nil {
		return nil, nil
	}

	now := s.now()
	if !now.Before(*session.EndTime) {
		// Expiry on poll: the deadline passed, close and score the
		// session now. A concurrent finalizer may have beaten us; either
		// way the session is done.
		if _, err := s.Finish(ctx, sessionID); err != nil && !IsInvalidState(err) {
			return nil, err
		}
		zero := 0
		return &zero, nil
	}

	minutes := int(session.EndTime.Sub(now) / time.Minute)
	return &minutes, nil
}

func (s *sessionService) GetByID(ctx context.Context, sessionID uint) (*models.ExamSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *sessionService) History(ctx context.Context, studentID, examID uint) ([]models.ExamSession, error) {
	sessions, _, err := s.repo.Session().List(ctx, repositories.SessionFilters{
		StudentID: studentID,
		ExamID:    examID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ===== ANSWERS =====

func (s *sessionService) SubmitAnswer(ctx context.Context, sessionID uint, req *SubmitAnswerRequest) (*models.StudentAnswer, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAnswerTarget(ctx, session, req.QuestionID, req.SelectedOptionID); err != nil {
		return nil, err
	}

	answer, err := s.repo.Answer().GetBySessionAndQuestion(ctx, sessionID, req.QuestionID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get answer: %w", err)
		}
		answer = &models.StudentAnswer{
			SessionID:        sessionID,
			QuestionID:       req.QuestionID,
			SelectedOptionID: req.SelectedOptionID,
			AnsweredAt:       s.now(),
		}
		if err := s.repo.Answer().Create(ctx, answer); err != nil {
			return nil, fmt.Errorf("failed to create answer: %w", err)
		}
		return answer, nil
	}

	answer.SelectedOptionID = req.SelectedOptionID
	answer.AnsweredAt = s.now()
	if err := s.repo.Answer().Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answer, nil
}

func (s *sessionService) UpdateAnswer(ctx context.Context, sessionID, questionID uint, req *UpdateAnswerRequest) (*models.StudentAnswer, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.repo.Answer().GetBySessionAndQuestion(ctx, sessionID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	if err := s.checkAnswerTarget(ctx, session, questionID, req.SelectedOptionID); err != nil {
		return nil, err
	}

	answer.SelectedOptionID = req.SelectedOptionID
	answer.AnsweredAt = s.now()
	if err := s.repo.Answer().Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answer, nil
}

func (s *sessionService) RemoveAnswer(ctx context.Context, sessionID, questionID uint) error {
	if _, err := s.activeSession(ctx, sessionID); err != nil {
		return err
	}

	answer, err := s.repo.Answer().GetBySessionAndQuestion(ctx, sessionID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get answer: %w", err)
	}

	if err := s.repo.Answer().Delete(ctx, answer.ID); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

func (s *sessionService) ListAnswers(ctx context.Context, sessionID uint) ([]models.StudentAnswer, error) {
	if _, err := s.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	answers, err := s.repo.Answer().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// activeSession loads a session and enforces that it can still accept
// answer mutations. An overdue timed session is closed on the spot and
// then refused, same as any other terminal session.
func (s *sessionService) activeSession(ctx context.Context, sessionID uint) (*models.ExamSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	if session.EndTime != nil && !s.now().Before(*session.EndTime) {
		if _, err := s.Finish(ctx, sessionID); err != nil && !IsInvalidState(err) {
			s.logger.Error("Failed to expire overdue session",
				"session_id", sessionID,
				"error", err)
		}
		return nil, ErrSessionNotActive
	}

	return session, nil
}

// checkAnswerTarget verifies the question belongs to the session's exam
// and the selected option belongs to the question.
func (s *sessionService) checkAnswerTarget(ctx context.Context, session *models.ExamSession, questionID uint, selectedOptionID *uint) error {
	question, err := s.repo.Question().GetByIDWithOptions(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if question.ExamID != session.ExamID {
		return ErrQuestionNotInExam
	}

	if selectedOptionID != nil {
		found := false
		for _, opt := range question.Options {
			if opt.ID == *selectedOptionID {
				found = true
				break
			}
		}
		if !found {
			return ErrOptionNotInQuestion
		}
	}

	return nil
}

func (s *sessionService) publishEvent(ctx context.Context, event *events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", event.Type,
			"error", err)
	}
}
