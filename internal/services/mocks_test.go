package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
)

// MockExamRepository is a mock implementation of ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDLocked(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockExamRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]models.Exam, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.Exam), args.Get(1).(int64), args.Error(2)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) UpdateOrderIndexes(ctx context.Context, examID uint, orders []repositories.QuestionOrder) error {
	args := m.Called(ctx, examID, orders)
	return args.Error(0)
}

func (m *MockQuestionRepository) ReplaceOptions(ctx context.Context, questionID uint, options []models.Option) error {
	args := m.Called(ctx, questionID, options)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateOption(ctx context.Context, option *models.Option) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetOption(ctx context.Context, id uint) (*models.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Option), args.Error(1)
}

func (m *MockQuestionRepository) UpdateOption(ctx context.Context, option *models.Option) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteOption(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListOptions(ctx context.Context, questionID uint) ([]models.Option, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).([]models.Option), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionRepository) GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) List(ctx context.Context, filters repositories.SessionFilters) ([]models.ExamSession, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.ExamSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) GetActive(ctx context.Context, studentID, examID uint) (*models.ExamSession, error) {
	args := m.Called(ctx, studentID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionRepository) CountByStudentAndExam(ctx context.Context, studentID, examID uint) (int64, error) {
	args := m.Called(ctx, studentID, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Finalize(ctx context.Context, id uint, final repositories.SessionFinalization) (bool, error) {
	args := m.Called(ctx, id, final)
	return args.Bool(0), args.Error(1)
}

// MockAnswerRepository is a mock implementation of AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Create(ctx context.Context, answer *models.StudentAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByID(ctx context.Context, id uint) (*models.StudentAnswer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentAnswer), args.Error(1)
}

func (m *MockAnswerRepository) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.StudentAnswer, error) {
	args := m.Called(ctx, sessionID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentAnswer), args.Error(1)
}

func (m *MockAnswerRepository) Update(ctx context.Context, answer *models.StudentAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnswerRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.StudentAnswer, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.StudentAnswer), args.Error(1)
}

func (m *MockAnswerRepository) CountByQuestion(ctx context.Context, questionID uint) (int64, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockRepository aggregates the entity mocks. WithTransaction runs the
// callback against the same mocks, so expectations set on them cover
// both transactional and direct access.
type MockRepository struct {
	examRepo     *MockExamRepository
	questionRepo *MockQuestionRepository
	sessionRepo  *MockSessionRepository
	answerRepo   *MockAnswerRepository
	userRepo     *MockUserRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		examRepo:     &MockExamRepository{},
		questionRepo: &MockQuestionRepository{},
		sessionRepo:  &MockSessionRepository{},
		answerRepo:   &MockAnswerRepository{},
		userRepo:     &MockUserRepository{},
	}
}

func (m *MockRepository) Exam() repositories.ExamRepository         { return m.examRepo }
func (m *MockRepository) Question() repositories.QuestionRepository { return m.questionRepo }
func (m *MockRepository) Session() repositories.SessionRepository   { return m.sessionRepo }
func (m *MockRepository) Answer() repositories.AnswerRepository     { return m.answerRepo }
func (m *MockRepository) User() repositories.UserRepository         { return m.userRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) assertExpectations(t mock.TestingT) {
	m.examRepo.AssertExpectations(t)
	m.questionRepo.AssertExpectations(t)
	m.sessionRepo.AssertExpectations(t)
	m.answerRepo.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
}
