package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vLorente/exam-scan/internal/models"
	"github.com/vLorente/exam-scan/internal/repositories"
	"github.com/vLorente/exam-scan/internal/services"
	"github.com/vLorente/exam-scan/internal/utils"
	"github.com/vLorente/exam-scan/internal/validator"
)

type ExamHandler struct {
	BaseHandler
	examService     services.ExamService
	questionService services.QuestionService
	exportService   services.ExportService
	validator       *validator.Validator
}

// CreateExamBody wraps the create request with the creator, since this
// service does not own authentication.
type CreateExamBody struct {
	services.CreateExamRequest
	CreatorID uint `json:"creator_id" validate:"required"`
}

// ReorderRequest carries the full new question order for an exam
type ReorderRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
}

func NewExamHandler(
	examService services.ExamService,
	questionService services.QuestionService,
	exportService services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler:     NewBaseHandler(logger),
		examService:     examService,
		questionService: questionService,
		exportService:   exportService,
		validator:       v,
	}
}

// Create creates a draft exam
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body CreateExamBody true "Exam data"
// @Success 201 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var body CreateExamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.ValidateStruct(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating exam", "title", body.Title, "creator_id", body.CreatorID)

	exam, err := h.examService.Create(c.Request.Context(), &body.CreateExamRequest, body.CreatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// List returns exams matching the query filters
// @Summary List exams
// @Tags exams
// @Produce json
// @Param status query string false "Exam status"
// @Param subject query string false "Subject"
// @Param creator_id query uint false "Creator ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	filters := repositories.ExamFilters{
		Status:    models.ExamStatus(c.Query("status")),
		Subject:   c.Query("subject"),
		CreatorID: parseUintQuery(c, "creator_id", 0),
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
	}

	exams, total, err := h.examService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exams": exams,
		"total": total,
	})
}

// Get returns an exam by ID
// @Summary Get exam
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// GetWithQuestions returns an exam with its questions and options
// @Summary Get exam with questions
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/details [get]
func (h *ExamHandler) GetWithQuestions(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	exam, err := h.examService.GetByIDWithQuestions(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// Update modifies exam metadata
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param exam body services.UpdateExamRequest true "Exam data"
// @Success 200 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [put]
func (h *ExamHandler) Update(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), examID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// Delete removes an exam and everything it owns
// @Summary Delete exam
// @Tags exams
// @Param id path uint true "Exam ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Deleting exam", "exam_id", examID)

	if err := h.examService.Delete(c.Request.Context(), examID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Publish publishes an exam after structure validation
// @Summary Publish exam
// @Description Refuses exams with zero questions or invalid question structures
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /exams/{id}/publish [post]
func (h *ExamHandler) Publish(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Publishing exam", "exam_id", examID)

	exam, err := h.examService.Publish(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// Archive archives an exam
// @Summary Archive exam
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/archive [post]
func (h *ExamHandler) Archive(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Archiving exam", "exam_id", examID)

	exam, err := h.examService.Archive(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// Stats returns aggregate statistics for an exam
// @Summary Exam statistics
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.ExamStats
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/stats [get]
func (h *ExamHandler) Stats(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	stats, err := h.examService.Stats(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListQuestions lists an exam's questions in order
// @Summary List exam questions
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/questions [get]
func (h *ExamHandler) ListQuestions(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	questions, err := h.questionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// BulkValidate validates every question of an exam
// @Summary Bulk validate exam questions
// @Description Aggregates per-question validation and overall publishability
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} validator.ExamValidation
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/validate [get]
func (h *ExamHandler) BulkValidate(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	result, err := h.questionService.BulkValidate(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reorder applies a new question order to an exam
// @Summary Reorder exam questions
// @Tags exams
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param order body ReorderRequest true "New question order"
// @Success 200 {object} services.ReorderResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/questions/reorder [put]
func (h *ExamHandler) Reorder(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	result, err := h.questionService.Reorder(c.Request.Context(), examID, req.QuestionIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResults downloads exam results as an xlsx workbook
// @Summary Export exam results
// @Tags exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Exam ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/export [get]
func (h *ExamHandler) ExportResults(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Exporting exam results", "exam_id", examID)

	data, err := h.exportService.ExportExamResults(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("exam_%d_results.xlsx", examID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
