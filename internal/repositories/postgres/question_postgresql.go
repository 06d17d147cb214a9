package postgres

import (
	"context"
	"fmt"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (r *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

func (r *QuestionPostgreSQL) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND is_active = ?", examID, true).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("order_index ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionPostgreSQL) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("exam_id = ? AND is_active = ?", examID, true).
		Count(&count).Error
	return count, err
}

func (r *QuestionPostgreSQL) UpdateOrderIndexes(ctx context.Context, examID uint, orders []repositories.QuestionOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			result := tx.Model(&models.Question{}).
				Where("id = ? AND exam_id = ?", o.QuestionID, examID).
				Update("order_index", o.OrderIndex)
			if result.Error != nil {
				return fmt.Errorf("failed to update question %d order: %w", o.QuestionID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("question %d not in exam %d: %w", o.QuestionID, examID, gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
}

func (r *QuestionPostgreSQL) ReplaceOptions(ctx context.Context, questionID uint, options []models.Option) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
			return fmt.Errorf("failed to clear options: %w", err)
		}
		for i := range options {
			options[i].ID = 0
			options[i].QuestionID = questionID
		}
		if len(options) == 0 {
			return nil
		}
		if err := tx.Create(&options).Error; err != nil {
			return fmt.Errorf("failed to insert options: %w", err)
		}
		return nil
	})
}

func (r *QuestionPostgreSQL) CreateOption(ctx context.Context, option *models.Option) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *QuestionPostgreSQL) GetOption(ctx context.Context, id uint) (*models.Option, error) {
	var option models.Option
	err := r.db.WithContext(ctx).First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *QuestionPostgreSQL) UpdateOption(ctx context.Context, option *models.Option) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *QuestionPostgreSQL) DeleteOption(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Option{}, id).Error
}

func (r *QuestionPostgreSQL) ListOptions(ctx context.Context, questionID uint) ([]models.Option, error) {
	var options []models.Option
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("order_index ASC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}
