package postgres

import (
	"context"
	"time"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (r *SessionPostgreSQL) Create(ctx context.Context, session *models.ExamSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	var session models.ExamSession
	err := r.db.WithContext(ctx).First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error) {
	var session models.ExamSession
	err := r.db.WithContext(ctx).
		Preload("Answers").
		First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionPostgreSQL) Update(ctx context.Context, session *models.ExamSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]models.ExamSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExamSession{})

	if filters.StudentID != 0 {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.ExamID != 0 {
		query = query.Where("exam_id = ?", filters.ExamID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var sessions []models.ExamSession
	err := query.Order("start_time DESC").Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *SessionPostgreSQL) GetActive(ctx context.Context, studentID, examID uint) (*models.ExamSession, error) {
	var session models.ExamSession
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND exam_id = ? AND status = ?", studentID, examID, models.SessionInProgress).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionPostgreSQL) CountByStudentAndExam(ctx context.Context, studentID, examID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExamSession{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error
	return count, err
}

// Finalize is a compare-and-set: the WHERE clause on status makes sure
// only one of several racing finalizers wins.
func (r *SessionPostgreSQL) Finalize(ctx context.Context, id uint, final repositories.SessionFinalization) (bool, error) {
	updates := map[string]interface{}{
		"status":     final.Status,
		"end_time":   final.EndTime,
		"updated_at": time.Now(),
	}
	if final.Score != nil {
		updates["score"] = *final.Score
	}
	if final.EarnedPoints != nil {
		updates["earned_points"] = *final.EarnedPoints
	}
	if final.TotalPoints != nil {
		updates["total_points"] = *final.TotalPoints
	}

	result := r.db.WithContext(ctx).
		Model(&models.ExamSession{}).
		Where("id = ? AND status = ?", id, models.SessionInProgress).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
