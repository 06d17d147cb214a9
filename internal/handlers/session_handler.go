package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vLorente/exam-scan/internal/services"
	"github.com/vLorente/exam-scan/internal/utils"
	"github.com/vLorente/exam-scan/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

// StartSessionBody carries the start request; the student is explicit
// because this service does not own authentication.
type StartSessionBody struct {
	ExamID    uint `json:"exam_id" validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
}

// CanStartResponse reports the attempt gate decision
type CanStartResponse struct {
	CanStart bool   `json:"can_start"`
	Reason   string `json:"reason"`
}

// TimeRemainingResponse reports minutes left for an active session;
// TimeRemaining is null for terminal or untimed sessions.
type TimeRemainingResponse struct {
	SessionID     uint `json:"session_id"`
	TimeRemaining *int `json:"time_remaining_minutes"`
}

func NewSessionHandler(
	sessionService services.SessionService,
	v *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      v,
	}
}

// CanStart checks whether a student may start an exam
// @Summary Check attempt gate
// @Description Evaluates whether the student may start a new session on the exam
// @Tags sessions
// @Produce json
// @Param exam_id query uint true "Exam ID"
// @Param student_id query uint true "Student ID"
// @Success 200 {object} CanStartResponse
// @Failure 400 {object} ErrorResponse
// @Router /sessions/can-start [get]
func (h *SessionHandler) CanStart(c *gin.Context) {
	examID := parseUintQuery(c, "exam_id", 0)
	studentID := parseUintQuery(c, "student_id", 0)
	if examID == 0 || studentID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "exam_id and student_id query parameters are required",
		})
		return
	}

	allowed, reason, err := h.sessionService.CanStart(c.Request.Context(), examID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CanStartResponse{CanStart: allowed, Reason: reason})
}

// Start creates a new exam session
// @Summary Start exam session
// @Description Re-runs the attempt gate and creates a new in-progress session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body StartSessionBody true "Start data"
// @Success 201 {object} models.ExamSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/start [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var body StartSessionBody
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

	h.LogRequest(c, "Starting exam session",
		"exam_id", body.ExamID,
		"student_id", body.StudentID)

	session, err := h.sessionService.Start(c.Request.Context(), &services.StartSessionRequest{
		ExamID: body.ExamID,
	}, body.StudentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Get returns a session by ID
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.ExamSession
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Finish finalizes a session and computes its score
// @Summary Finish session
// @Description Closes an in-progress session, scores it and stores the result
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.ExamSession
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/finish [post]
func (h *SessionHandler) Finish(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	h.LogRequest(c, "Finishing exam session", "session_id", sessionID)

	session, err := h.sessionService.Finish(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Abandon closes a session without scoring
// @Summary Abandon session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.ExamSession
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/abandon [post]
func (h *SessionHandler) Abandon(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	h.LogRequest(c, "Abandoning exam session", "session_id", sessionID)

	session, err := h.sessionService.Abandon(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Expire force-closes an overdue session
// @Summary Expire session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.ExamSession
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/expire [post]
func (h *SessionHandler) Expire(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	h.LogRequest(c, "Expiring exam session", "session_id", sessionID)

	session, err := h.sessionService.Expire(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// TimeRemaining returns minutes left on an active session
// @Summary Session time remaining
// @Description Returns whole minutes left; polling an overdue session closes it and returns zero
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} TimeRemainingResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/time-remaining [get]
func (h *SessionHandler) TimeRemaining(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	remaining, err := h.sessionService.TimeRemaining(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, TimeRemainingResponse{
		SessionID:     sessionID,
		TimeRemaining: remaining,
	})
}

// History lists a student's sessions for one exam
// @Summary Session history
// @Tags sessions
// @Produce json
// @Param exam_id query uint true "Exam ID"
// @Param student_id query uint true "Student ID"
// @Success 200 {array} models.ExamSession
// @Failure 400 {object} ErrorResponse
// @Router /sessions/history [get]
func (h *SessionHandler) History(c *gin.Context) {
	examID := parseUintQuery(c, "exam_id", 0)
	studentID := parseUintQuery(c, "student_id", 0)
	if examID == 0 || studentID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "exam_id and student_id query parameters are required",
		})
		return
	}

	sessions, err := h.sessionService.History(c.Request.Context(), studentID, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SubmitAnswer records or replaces the answer for a question
// @Summary Submit answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param answer body services.SubmitAnswerRequest true "Answer data"
// @Success 200 {object} models.StudentAnswer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	answer, err := h.sessionService.SubmitAnswer(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// UpdateAnswer changes the selected option of an existing answer
// @Summary Update answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param question_id path uint true "Question ID"
// @Param answer body services.UpdateAnswerRequest true "Answer data"
// @Success 200 {object} models.StudentAnswer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answers/{question_id} [put]
func (h *SessionHandler) UpdateAnswer(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var req services.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	answer, err := h.sessionService.UpdateAnswer(c.Request.Context(), sessionID, questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// RemoveAnswer deletes the answer for a question
// @Summary Remove answer
// @Tags sessions
// @Param id path uint true "Session ID"
// @Param question_id path uint true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answers/{question_id} [delete]
func (h *SessionHandler) RemoveAnswer(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	if err := h.sessionService.RemoveAnswer(c.Request.Context(), sessionID, questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAnswers lists all answers of a session
// @Summary List session answers
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {array} models.StudentAnswer
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answers [get]
func (h *SessionHandler) ListAnswers(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == 0 {
		return
	}

	answers, err := h.sessionService.ListAnswers(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}
