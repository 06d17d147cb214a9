package services

import (
	"errors"
	"fmt"

	apperrors "github.com/vLorente/exam-scan/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Exam specific errors
	ErrExamNotFound      = errors.New("exam not found")
	ErrExamNotPublished  = errors.New("exam is not published")
	ErrExamNotEditable   = errors.New("exam cannot be edited in current status")
	ErrExamNoQuestions   = errors.New("exam has no questions")
	ErrExamInvalidStatus = errors.New("invalid exam status transition")

	// Question specific errors
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionNotInExam   = errors.New("question does not belong to exam")
	ErrQuestionInvalidType = errors.New("invalid question type")
	ErrOptionNotFound      = errors.New("option not found")
	ErrOptionNotInQuestion = errors.New("option does not belong to question")

	// Session specific errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotActive    = errors.New("session is not in progress")
	ErrSessionInvalidState = errors.New("invalid session state transition")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PolicyViolationError is returned when the attempt gate refuses to
// start a session. Reason is stable, human-readable text suitable for
// API responses.
type PolicyViolationError struct {
	Reason string `json:"reason"`
}

func (pe *PolicyViolationError) Error() string {
	return fmt.Sprintf("policy violation: %s", pe.Reason)
}

func NewPolicyViolationError(reason string) *PolicyViolationError {
	return &PolicyViolationError{Reason: reason}
}

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsPolicyViolation checks if error represents an attempt gate refusal
func IsPolicyViolation(err error) bool {
	var pe *PolicyViolationError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsInvalidState checks if error represents a forbidden state transition
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionInvalidState) ||
		errors.Is(err, ErrExamNotEditable) ||
		errors.Is(err, ErrExamInvalidStatus)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
