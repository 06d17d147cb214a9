package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vLorente/exam-scan/internal/models"
)

type questionPayload struct {
	Text         string              `json:"text" validate:"required"`
	QuestionType models.QuestionType `json:"question_type" validate:"required,question_type"`
	Difficulty   string              `json:"difficulty" validate:"omitempty,difficulty_level"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		payload questionPayload
		wantErr bool
	}{
		{
			name:    "valid payload",
			payload: questionPayload{Text: "text", QuestionType: models.TrueFalse, Difficulty: "easy"},
			wantErr: false,
		},
		{
			name:    "unknown question type",
			payload: questionPayload{Text: "text", QuestionType: "essay"},
			wantErr: true,
		},
		{
			name:    "unknown difficulty",
			payload: questionPayload{Text: "text", QuestionType: models.SingleChoice, Difficulty: "brutal"},
			wantErr: true,
		},
		{
			name:    "missing required field",
			payload: questionPayload{QuestionType: models.SingleChoice},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(&tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_StatusTags(t *testing.T) {
	v := New()

	type statusPayload struct {
		ExamStatus    string `json:"exam_status" validate:"omitempty,exam_status"`
		SessionStatus string `json:"session_status" validate:"omitempty,session_status"`
		Role          string `json:"role" validate:"omitempty,user_role"`
	}

	assert.NoError(t, v.ValidateStruct(&statusPayload{
		ExamStatus:    "published",
		SessionStatus: "in_progress",
		Role:          "teacher",
	}))
	assert.Error(t, v.ValidateStruct(&statusPayload{ExamStatus: "retired"}))
	assert.Error(t, v.ValidateStruct(&statusPayload{SessionStatus: "paused"}))
	assert.Error(t, v.ValidateStruct(&statusPayload{Role: "superuser"}))
}
