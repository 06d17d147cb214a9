package validator

import (
	"fmt"
	"strings"

	"github.com/vLorente/exam-scan/internal/models"
)

// QuestionValidation is the outcome of checking one question's structure
// against the rules for its type. Errors block publishing; warnings are
// advisory only and never make the question invalid.
type QuestionValidation struct {
	QuestionID          uint                `json:"question_id"`
	IsValid             bool                `json:"is_valid"`
	Errors              []string            `json:"errors"`
	Warnings            []string            `json:"warnings"`
	QuestionType        models.QuestionType `json:"question_type"`
	OptionsCount        int                 `json:"options_count"`
	CorrectOptionsCount int                 `json:"correct_options_count"`
}

// ExamValidation aggregates the validation of every question in an exam.
type ExamValidation struct {
	ExamID              uint                 `json:"exam_id"`
	IsValid             bool                 `json:"is_valid"`
	TotalQuestions      int                  `json:"total_questions"`
	ValidQuestions      int                  `json:"valid_questions"`
	InvalidQuestions    int                  `json:"invalid_questions"`
	TotalErrors         int                  `json:"total_errors"`
	Errors              []string             `json:"errors,omitempty"`
	QuestionValidations []QuestionValidation `json:"question_validations"`
}

// trueFalseTexts are the accepted option texts for true/false questions,
// compared lowercased and trimmed. Spanish variants included.
var trueFalseTexts = map[string]bool{
	"true":      true,
	"false":     true,
	"verdadero": true,
	"falso":     true,
	"sí":        true,
	"si":        true,
	"no":        true,
}

// IsTrueFalseText reports whether text is an accepted true/false option
// label.
func IsTrueFalseText(text string) bool {
	return trueFalseTexts[strings.ToLower(strings.TrimSpace(text))]
}

// QuestionValidator checks question structure against per-type rules.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// Validate checks a question and its options and returns the full
// validation outcome. It never mutates its inputs.
func (v *QuestionValidator) Validate(question *models.Question, options []models.Option) QuestionValidation {
	var errors, warnings []string

	switch question.QuestionType {
	case models.MultipleChoice:
		errors = append(errors, v.validateMultipleChoice(options)...)
	case models.SingleChoice:
		errors = append(errors, v.validateSingleChoice(options)...)
	case models.TrueFalse:
		errors = append(errors, v.validateTrueFalse(options)...)
	default:
		errors = append(errors, fmt.Sprintf("unsupported question type: %s", question.QuestionType))
	}

	if len(strings.TrimSpace(question.Text)) < 10 {
		warnings = append(warnings, "Question text is very short (less than 10 characters)")
	}

	if question.Points <= 0 {
		errors = append(errors, "Question must have positive points")
	}

	if question.Explanation == nil || *question.Explanation == "" {
		warnings = append(warnings, "Question lacks explanation for students")
	}

	return QuestionValidation{
		QuestionID:          question.ID,
		IsValid:             len(errors) == 0,
		Errors:              errors,
		Warnings:            warnings,
		QuestionType:        question.QuestionType,
		OptionsCount:        len(options),
		CorrectOptionsCount: countCorrect(options),
	}
}

func (v *QuestionValidator) validateMultipleChoice(options []models.Option) []string {
	var errors []string

	if len(options) < 2 {
		errors = append(errors, "Multiple choice question must have at least 2 options")
	}
	if len(options) > 6 {
		errors = append(errors, "Multiple choice question should not have more than 6 options")
	}
	if countCorrect(options) == 0 {
		errors = append(errors, "Multiple choice question must have at least 1 correct option")
	}

	return errors
}

func (v *QuestionValidator) validateSingleChoice(options []models.Option) []string {
	var errors []string

	if len(options) < 2 {
		errors = append(errors, "Single choice question must have at least 2 options")
	}
	if len(options) > 5 {
		errors = append(errors, "Single choice question should not have more than 5 options")
	}
	if countCorrect(options) != 1 {
		errors = append(errors, "Single choice question must have exactly 1 correct option")
	}

	return errors
}

func (v *QuestionValidator) validateTrueFalse(options []models.Option) []string {
	var errors []string

	if len(options) != 2 {
		errors = append(errors, "True/false question must have exactly 2 options")
	}
	if countCorrect(options) != 1 {
		errors = append(errors, "True/false question must have exactly 1 correct option")
	}

	// At least one option label has to be a recognizable true/false text.
	recognized := false
	for _, opt := range options {
		if IsTrueFalseText(opt.Text) {
			recognized = true
			break
		}
	}
	if !recognized {
		errors = append(errors, "True/false question options should be variations of True/False")
	}

	return errors
}

func countCorrect(options []models.Option) int {
	count := 0
	for _, opt := range options {
		if opt.IsCorrect {
			count++
		}
	}
	return count
}
