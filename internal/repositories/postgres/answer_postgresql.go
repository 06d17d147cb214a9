package postgres

import (
	"context"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (r *AnswerPostgreSQL) Create(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *AnswerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudentAnswer, error) {
	var answer models.StudentAnswer
	err := r.db.WithContext(ctx).First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerPostgreSQL) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.StudentAnswer, error) {
	var answer models.StudentAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerPostgreSQL) Update(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *AnswerPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StudentAnswer{}, id).Error
}

func (r *AnswerPostgreSQL) CountByQuestion(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentAnswer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}

func (r *AnswerPostgreSQL) ListBySession(ctx context.Context, sessionID uint) ([]models.StudentAnswer, error) {
	var answers []models.StudentAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}
