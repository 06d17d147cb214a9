package services

import (
	"github.com/vLorente/exam-scan/internal/models"
)

// scoreTotals is the outcome of grading one session.
type scoreTotals struct {
	EarnedPoints float64
	TotalPoints  float64
	Score        float64
}

// scoreSession grades every answer against the exam's current questions
// and returns the session totals. Answers are mutated in place:
// IsCorrect and PointsEarned are filled for each graded answer.
//
// TotalPoints is the sum over all questions of the exam, so unanswered
// questions count against the score. An answer whose question is no
// longer part of the exam is graded incorrect and contributes nothing.
func scoreSession(questions []models.Question, answers []*models.StudentAnswer) scoreTotals {
	// Index the correct option set per question.
	correctOptions := make(map[uint]map[uint]bool, len(questions))
	points := make(map[uint]float64, len(questions))

	totals := scoreTotals{}
	for _, q := range questions {
		totals.TotalPoints += q.Points
		points[q.ID] = q.Points

		correct := make(map[uint]bool)
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct[opt.ID] = true
			}
		}
		correctOptions[q.ID] = correct
	}

	for _, answer := range answers {
		isCorrect := false
		earned := 0.0

		if correct, ok := correctOptions[answer.QuestionID]; ok {
			if answer.SelectedOptionID != nil && correct[*answer.SelectedOptionID] {
				isCorrect = true
				earned = points[answer.QuestionID]
			}
		}

		answer.IsCorrect = &isCorrect
		answer.PointsEarned = &earned
		totals.EarnedPoints += earned
	}

	if totals.TotalPoints > 0 {
		totals.Score = totals.EarnedPoints / totals.TotalPoints * 100
	}

	return totals
}
