package postgres

import (
	"context"
	"time"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (r *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}

	calculateComputedFields(&exam)
	return &exam, nil
}

func (r *ExamPostgreSQL) GetByIDLocked(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

func (r *ExamPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *ExamPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Exam{}, id).Error
}

func (r *ExamPostgreSQL) List(ctx context.Context, filters repositories.ExamFilters) ([]models.Exam, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Exam{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Subject != "" {
		query = query.Where("subject = ?", filters.Subject)
	}
	if filters.CreatorID != 0 {
		query = query.Where("creator_id = ?", filters.CreatorID)
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

	var exams []models.Exam
	err := query.Order("created_at DESC").Find(&exams).Error
	if err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

func calculateComputedFields(exam *models.Exam) {
	exam.QuestionsCount = len(exam.Questions)

	total := 0.0
	for _, q := range exam.Questions {
		total += q.Points
	}
	exam.TotalPoints = total
}
