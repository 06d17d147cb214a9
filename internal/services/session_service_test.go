package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vLorente/exam-scan/internal/events"
	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/validator"
	"gorm.io/gorm"
)

var testTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSessionService(repo *MockRepository) (SessionService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewSessionServiceWithClock(repo, testLogger(), validator.New(), publisher, func() time.Time {
		return testTime
	})
	return svc, publisher
}

func intPtr(v int) *int          { return &v }
func uintPtr(v uint) *uint       { return &v }
func floatPtr(v float64) *float64 { return &v }

func publishedExam(maxAttempts int, durationMinutes *int) *models.Exam {
	return &models.Exam{
		ID:              1,
		Title:           "Networks Midterm",
		Status:          models.ExamPublished,
		MaxAttempts:     maxAttempts,
		DurationMinutes: durationMinutes,
		PassingScore:    60,
	}
}

func TestSessionService_CanStart(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
		wantAllow  bool
		wantReason string
	}{
		{
			name: "exam not found",
			setupMocks: func(repo *MockRepository) {
				repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantAllow:  false,
			wantReason: ReasonExamNotFound,
		},
		{
			name: "exam not published",
			setupMocks: func(repo *MockRepository) {
				exam := publishedExam(3, nil)
				exam.Status = models.ExamDraft
				repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(exam, nil)
			},
			wantAllow:  false,
			wantReason: ReasonExamNotPublished,
		},
		{
			name: "max attempts reached wins over active session",
			setupMocks: func(repo *MockRepository) {
				repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(publishedExam(2, nil), nil)
				repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(2), nil)
			},
			wantAllow:  false,
			wantReason: ReasonMaxAttempts(2),
		},
		{
			name: "active session",
			setupMocks: func(repo *MockRepository) {
				repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(publishedExam(3, nil), nil)
				repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(1), nil)
				repo.sessionRepo.On("GetActive", mock.Anything, uint(7), uint(1)).Return(&models.ExamSession{ID: 5, Status: models.SessionInProgress}, nil)
			},
			wantAllow:  false,
			wantReason: ReasonActiveSession,
		},
		{
			name: "can start",
			setupMocks: func(repo *MockRepository) {
				repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(publishedExam(3, nil), nil)
				repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(1), nil)
				repo.sessionRepo.On("GetActive", mock.Anything, uint(7), uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantAllow:  true,
			wantReason: ReasonCanStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			tt.setupMocks(repo)
			svc, _ := newTestSessionService(repo)

			allowed, reason, err := svc.CanStart(context.Background(), 1, 7)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAllow, allowed)
			assert.Equal(t, tt.wantReason, reason)
			repo.assertExpectations(t)
		})
	}
}

func TestSessionService_Start(t *testing.T) {
	repo := newMockRepository()
	exam := publishedExam(3, intPtr(90))

	repo.userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{ID: 7}, nil)
	repo.examRepo.On("GetByIDLocked", mock.Anything, uint(1)).Return(exam, nil)
	repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(exam, nil)
	repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(1), nil)
	repo.sessionRepo.On("GetActive", mock.Anything, uint(7), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *models.ExamSession) bool {
		return s.ExamID == 1 && s.StudentID == 7 && s.Status == models.SessionInProgress
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.ExamSession).ID = 42
	}).Return(nil)

	svc, publisher := newTestSessionService(repo)

	session, err := svc.Start(context.Background(), &StartSessionRequest{ExamID: 1}, 7)

	assert.NoError(t, err)
	assert.Equal(t, uint(42), session.ID)
	assert.Equal(t, 2, session.AttemptNumber)
	assert.Equal(t, testTime, session.StartTime)
	assert.NotNil(t, session.EndTime)
	assert.Equal(t, testTime.Add(90*time.Minute), *session.EndTime)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventSessionStarted, published[0].Type)

	repo.assertExpectations(t)
}

func TestSessionService_Start_UntimedExamHasNoDeadline(t *testing.T) {
	repo := newMockRepository()
	exam := publishedExam(3, nil)

	repo.userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{ID: 7}, nil)
	repo.examRepo.On("GetByIDLocked", mock.Anything, uint(1)).Return(exam, nil)
	repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(exam, nil)
	repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(0), nil)
	repo.sessionRepo.On("GetActive", mock.Anything, uint(7), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc, _ := newTestSessionService(repo)

	session, err := svc.Start(context.Background(), &StartSessionRequest{ExamID: 1}, 7)

	assert.NoError(t, err)
	assert.Nil(t, session.EndTime)
	assert.Equal(t, 1, session.AttemptNumber)
}

func TestSessionService_Start_MaxAttemptsReached(t *testing.T) {
	repo := newMockRepository()
	exam := publishedExam(1, nil)

	repo.userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{ID: 7}, nil)
	repo.examRepo.On("GetByIDLocked", mock.Anything, uint(1)).Return(exam, nil)
	repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(exam, nil)
	repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(1), nil)

	svc, publisher := newTestSessionService(repo)

	session, err := svc.Start(context.Background(), &StartSessionRequest{ExamID: 1}, 7)

	assert.Nil(t, session)
	assert.True(t, IsPolicyViolation(err))
	var policyErr *PolicyViolationError
	assert.ErrorAs(t, err, &policyErr)
	assert.Equal(t, ReasonMaxAttempts(1), policyErr.Reason)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSessionService_Start_DuplicateKeyBecomesPolicyViolation(t *testing.T) {
	repo := newMockRepository()
	exam := publishedExam(3, nil)

	repo.userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{ID: 7}, nil)
	repo.examRepo.On("GetByIDLocked", mock.Anything, uint(1)).Return(exam, nil)
	repo.examRepo.On("GetByID", mock.Anything, uint(1)).Return(exam, nil)
	repo.sessionRepo.On("CountByStudentAndExam", mock.Anything, uint(7), uint(1)).Return(int64(0), nil)
	repo.sessionRepo.On("GetActive", mock.Anything, uint(7), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	svc, _ := newTestSessionService(repo)

	session, err := svc.Start(context.Background(), &StartSessionRequest{ExamID: 1}, 7)

	assert.Nil(t, session)
	var policyErr *PolicyViolationError
	assert.ErrorAs(t, err, &policyErr)
	assert.Equal(t, ReasonActiveSession, policyErr.Reason)
}

func TestSessionService_Start_UnknownStudent(t *testing.T) {
	repo := newMockRepository()
	repo.userRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc, _ := newTestSessionService(repo)

	session, err := svc.Start(context.Background(), &StartSessionRequest{ExamID: 1}, 99)

	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// expectScoring wires the question and answer lookups consumed by a
// scoring finalization: one 10-point question, answered correctly.
func expectScoring(repo *MockRepository, sessionID uint) {
	question := models.Question{
		ID:     11,
		ExamID: 1,
		Points: 10,
		Options: []models.Option{
			{ID: 101, QuestionID: 11, Text: "Right", IsCorrect: true},
			{ID: 102, QuestionID: 11, Text: "Wrong", IsCorrect: false},
		},
	}
	answer := models.StudentAnswer{
		ID:               21,
		SessionID:        sessionID,
		QuestionID:       11,
		SelectedOptionID: uintPtr(101),
	}
	repo.questionRepo.On("ListByExam", mock.Anything, uint(1)).Return([]models.Question{question}, nil)
	repo.answerRepo.On("ListBySession", mock.Anything, sessionID).Return([]models.StudentAnswer{answer}, nil)
	repo.answerRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *models.StudentAnswer) bool {
		return a.ID == 21 && a.IsCorrect != nil && *a.IsCorrect && a.PointsEarned != nil && *a.PointsEarned == 10
	})).Return(nil)
}

func TestSessionService_Finish(t *testing.T) {
	repo := newMockRepository()
	open := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionInProgress, StartTime: testTime.Add(-30 * time.Minute)}
	closed := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionCompleted,
		Score: floatPtr(100), EarnedPoints: floatPtr(10), TotalPoints: floatPtr(10)}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(open, nil).Once()
	expectScoring(repo, 42)
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.SessionFinalization) bool {
		return f.Status == models.SessionCompleted &&
			f.Score != nil && *f.Score == 100 &&
			f.EarnedPoints != nil && *f.EarnedPoints == 10 &&
			f.EndTime.Equal(testTime)
	})).Return(true, nil)
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(closed, nil).Once()

	svc, publisher := newTestSessionService(repo)

	session, err := svc.Finish(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, session.Status)
	assert.Equal(t, 100.0, *session.Score)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventSessionCompleted, published[0].Type)

	repo.assertExpectations(t)
}

func TestSessionService_Finish_AlreadyTerminal(t *testing.T) {
	repo := newMockRepository()
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(&models.ExamSession{
		ID: 42, Status: models.SessionCompleted,
	}, nil)

	svc, _ := newTestSessionService(repo)

	_, err := svc.Finish(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSessionService_Finish_LosesFinalizationRace(t *testing.T) {
	repo := newMockRepository()
	open := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(open, nil)
	expectScoring(repo, 42)
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.Anything).Return(false, nil)

	svc, publisher := newTestSessionService(repo)

	_, err := svc.Finish(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSessionNotActive)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSessionService_Abandon_SkipsScoring(t *testing.T) {
	repo := newMockRepository()
	open := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionInProgress}
	closed := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionAbandoned}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(open, nil).Once()
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.SessionFinalization) bool {
		return f.Status == models.SessionAbandoned && f.Score == nil && f.EarnedPoints == nil
	})).Return(true, nil)
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(closed, nil).Once()

	svc, publisher := newTestSessionService(repo)

	session, err := svc.Abandon(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, session.Status)
	assert.Nil(t, session.Score)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventSessionAbandoned, published[0].Type)
}

func TestSessionService_Expire_ScoresSession(t *testing.T) {
	repo := newMockRepository()
	open := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionInProgress}
	closed := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionExpired, Score: floatPtr(100)}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(open, nil).Once()
	expectScoring(repo, 42)
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.SessionFinalization) bool {
		return f.Status == models.SessionExpired && f.Score != nil
	})).Return(true, nil)
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(closed, nil).Once()

	svc, publisher := newTestSessionService(repo)

	session, err := svc.Expire(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.SessionExpired, session.Status)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventSessionExpired, published[0].Type)
}

func TestSessionService_TimeRemaining(t *testing.T) {
	tests := []struct {
		name    string
		session *models.ExamSession
		want    *int
	}{
		{
			name:    "terminal session has no time concept",
			session: &models.ExamSession{ID: 42, Status: models.SessionCompleted},
			want:    nil,
		},
		{
			name:    "untimed session never expires",
			session: &models.ExamSession{ID: 42, Status: models.SessionInProgress, EndTime: nil},
			want:    nil,
		},
		{
			name: "remaining minutes are floored",
			session: &models.ExamSession{ID: 42, Status: models.SessionInProgress,
				EndTime: timePtr(testTime.Add(30*time.Minute + 59*time.Second))},
			want: intPtr(30),
		},
		{
			name: "one second left floors to zero without expiring",
			session: &models.ExamSession{ID: 42, Status: models.SessionInProgress,
				EndTime: timePtr(testTime.Add(time.Second))},
			want: intPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(tt.session, nil)

			svc, _ := newTestSessionService(repo)

			got, err := svc.TimeRemaining(context.Background(), 42)

			assert.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestSessionService_TimeRemaining_ExpiryOnPoll(t *testing.T) {
	repo := newMockRepository()
	overdue := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionInProgress,
		EndTime: timePtr(testTime.Add(-time.Minute))}
	closed := &models.ExamSession{ID: 42, ExamID: 1, StudentID: 7, Status: models.SessionCompleted, Score: floatPtr(100)}

	// First read sees the overdue session, the embedded Finish re-reads
	// it, finalizes, and reloads the closed record.
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(overdue, nil).Twice()
	expectScoring(repo, 42)
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.SessionFinalization) bool {
		return f.Status == models.SessionCompleted
	})).Return(true, nil)
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(closed, nil).Once()

	svc, publisher := newTestSessionService(repo)

	got, err := svc.TimeRemaining(context.Background(), 42)

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 0, *got)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventSessionCompleted, published[0].Type)

	repo.assertExpectations(t)
}

func TestSessionService_TimeRemaining_PollLosesRaceStillReturnsZero(t *testing.T) {
	repo := newMockRepository()
	overdue := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress,
		EndTime: timePtr(testTime.Add(-time.Minute))}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(overdue, nil)
	expectScoring(repo, 42)
	repo.sessionRepo.On("Finalize", mock.Anything, uint(42), mock.Anything).Return(false, nil)

	svc, _ := newTestSessionService(repo)

	got, err := svc.TimeRemaining(context.Background(), 42)

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 0, *got)
}

func TestSessionService_SubmitAnswer(t *testing.T) {
	repo := newMockRepository()
	session := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}
	question := &models.Question{ID: 11, ExamID: 1, Options: []models.Option{
		{ID: 101, QuestionID: 11},
		{ID: 102, QuestionID: 11},
	}}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(session, nil)
	repo.questionRepo.On("GetByIDWithOptions", mock.Anything, uint(11)).Return(question, nil)
	repo.answerRepo.On("GetBySessionAndQuestion", mock.Anything, uint(42), uint(11)).Return(nil, gorm.ErrRecordNotFound)
	repo.answerRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.StudentAnswer) bool {
		return a.SessionID == 42 && a.QuestionID == 11 && a.SelectedOptionID != nil && *a.SelectedOptionID == 102
	})).Return(nil)

	svc, _ := newTestSessionService(repo)

	answer, err := svc.SubmitAnswer(context.Background(), 42, &SubmitAnswerRequest{
		QuestionID:       11,
		SelectedOptionID: uintPtr(102),
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(11), answer.QuestionID)
	assert.Equal(t, testTime, answer.AnsweredAt)
	repo.assertExpectations(t)
}

func TestSessionService_SubmitAnswer_ReplacesExisting(t *testing.T) {
	repo := newMockRepository()
	session := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}
	question := &models.Question{ID: 11, ExamID: 1, Options: []models.Option{
		{ID: 101, QuestionID: 11},
		{ID: 102, QuestionID: 11},
	}}
	existing := &models.StudentAnswer{ID: 21, SessionID: 42, QuestionID: 11, SelectedOptionID: uintPtr(101)}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(session, nil)
	repo.questionRepo.On("GetByIDWithOptions", mock.Anything, uint(11)).Return(question, nil)
	repo.answerRepo.On("GetBySessionAndQuestion", mock.Anything, uint(42), uint(11)).Return(existing, nil)
	repo.answerRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *models.StudentAnswer) bool {
		return a.ID == 21 && *a.SelectedOptionID == 102
	})).Return(nil)

	svc, _ := newTestSessionService(repo)

	answer, err := svc.SubmitAnswer(context.Background(), 42, &SubmitAnswerRequest{
		QuestionID:       11,
		SelectedOptionID: uintPtr(102),
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(102), *answer.SelectedOptionID)
}

func TestSessionService_SubmitAnswer_RejectsForeignTargets(t *testing.T) {
	tests := []struct {
		name     string
		question *models.Question
		optionID uint
		wantErr  error
	}{
		{
			name:     "question from another exam",
			question: &models.Question{ID: 11, ExamID: 9},
			optionID: 101,
			wantErr:  ErrQuestionNotInExam,
		},
		{
			name: "option from another question",
			question: &models.Question{ID: 11, ExamID: 1, Options: []models.Option{
				{ID: 101, QuestionID: 11},
			}},
			optionID: 999,
			wantErr:  ErrOptionNotInQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			session := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}
			repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(session, nil)
			repo.questionRepo.On("GetByIDWithOptions", mock.Anything, uint(11)).Return(tt.question, nil)

			svc, _ := newTestSessionService(repo)

			_, err := svc.SubmitAnswer(context.Background(), 42, &SubmitAnswerRequest{
				QuestionID:       11,
				SelectedOptionID: uintPtr(tt.optionID),
			})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSessionService_SubmitAnswer_OverdueSessionIsClosedAndRefused(t *testing.T) {
	repo := newMockRepository()
	overdue := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress,
		EndTime: timePtr(testTime.Add(-time.Minute))}
	closed := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionCompleted}

	// activeSession sees the overdue record, the embedded Finish then
	// observes the concurrent close and backs off.
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(overdue, nil).Once()
	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(closed, nil).Once()

	svc, _ := newTestSessionService(repo)

	_, err := svc.SubmitAnswer(context.Background(), 42, &SubmitAnswerRequest{
		QuestionID:       11,
		SelectedOptionID: uintPtr(101),
	})

	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSessionService_UpdateAnswer_RequiresExisting(t *testing.T) {
	repo := newMockRepository()
	session := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(session, nil)
	repo.answerRepo.On("GetBySessionAndQuestion", mock.Anything, uint(42), uint(11)).Return(nil, gorm.ErrRecordNotFound)

	svc, _ := newTestSessionService(repo)

	_, err := svc.UpdateAnswer(context.Background(), 42, 11, &UpdateAnswerRequest{SelectedOptionID: uintPtr(101)})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionService_RemoveAnswer(t *testing.T) {
	repo := newMockRepository()
	session := &models.ExamSession{ID: 42, ExamID: 1, Status: models.SessionInProgress}
	answer := &models.StudentAnswer{ID: 21, SessionID: 42, QuestionID: 11}

	repo.sessionRepo.On("GetByID", mock.Anything, uint(42)).Return(session, nil)
	repo.answerRepo.On("GetBySessionAndQuestion", mock.Anything, uint(42), uint(11)).Return(answer, nil)
	repo.answerRepo.On("Delete", mock.Anything, uint(21)).Return(nil)

	svc, _ := newTestSessionService(repo)

	err := svc.RemoveAnswer(context.Background(), 42, 11)

	assert.NoError(t, err)
	repo.assertExpectations(t)
}

func TestSessionService_History(t *testing.T) {
	repo := newMockRepository()
	sessions := []models.ExamSession{
		{ID: 1, ExamID: 1, StudentID: 7, Status: models.SessionCompleted},
		{ID: 2, ExamID: 1, StudentID: 7, Status: models.SessionAbandoned},
	}
	repo.sessionRepo.On("List", mock.Anything, repositories.SessionFilters{StudentID: 7, ExamID: 1}).
		Return(sessions, int64(2), nil)

	svc, _ := newTestSessionService(repo)

	got, err := svc.History(context.Background(), 7, 1)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func timePtr(t time.Time) *time.Time { return &t }
