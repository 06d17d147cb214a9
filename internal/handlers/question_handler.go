package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vLorente/exam-scan/internal/services"
	"github.com/vLorente/exam-scan/internal/utils"
	"github.com/vLorente/exam-scan/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	validator       *validator.Validator
}

func NewQuestionHandler(
	questionService services.QuestionService,
	v *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		validator:       v,
	}
}

// Create adds a question to an exam
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating question", "exam_id", req.ExamID)

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// Get returns a question with its options
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// Update modifies a question and optionally replaces its options
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question data"
// @Success 200 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) Update(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// Delete removes a question
// @Summary Delete question
// @Tags questions
// @Param id path uint true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", questionID)

	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Validate checks a question's structure
// @Summary Validate question structure
// @Description Runs type-specific structure rules and returns errors and warnings
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} validator.QuestionValidation
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id}/validate [get]
func (h *QuestionHandler) Validate(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	result, err := h.questionService.Validate(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AutoFix repairs common structural problems in a question
// @Summary Auto-fix question
// @Description Renumbers option order and completes true/false pairs
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} services.AutoFixResult
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id}/auto-fix [post]
func (h *QuestionHandler) AutoFix(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	h.LogRequest(c, "Auto-fixing question", "question_id", questionID)

	result, err := h.questionService.AutoFix(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
