package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportExamResults renders every session of an exam as an xlsx
// workbook, one row per attempt.
func (s *exportService) ExportExamResults(ctx context.Context, examID uint) ([]byte, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	sessions, _, err := s.repo.Session().List(ctx, repositories.SessionFilters{ExamID: examID})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student ID", "Attempt", "Status", "Started At", "Ended At",
		"Score", "Earned Points", "Total Points", "Passed",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, session := range sessions {
		row := []interface{}{
			session.StudentID,
			session.AttemptNumber,
			string(session.Status),
			session.StartTime.Format(time.RFC3339),
			formatTime(session.EndTime),
			formatFloat(session.Score),
			formatFloat(session.EarnedPoints),
			formatFloat(session.TotalPoints),
			formatPassed(session, exam.PassingScore),
		}

		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported exam results",
		"exam_id", examID,
		"sessions", len(sessions))

	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatFloat(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func formatPassed(session models.ExamSession, passingScore float64) string {
	if session.Status != models.SessionCompleted || session.Score == nil {
		return ""
	}
	if *session.Score >= passingScore {
		return "yes"
	}
	return "no"
}
