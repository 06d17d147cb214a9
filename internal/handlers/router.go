package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vLorente/exam-scan/internal/services"
	"github.com/vLorente/exam-scan/internal/utils"
	"github.com/vLorente/exam-scan/internal/validator"
)

type HandlerManager struct {
	examHandler     *ExamHandler
	questionHandler *QuestionHandler
	sessionHandler  *SessionHandler
}

func NewHandlerManager(
	examService services.ExamService,
	questionService services.QuestionService,
	sessionService services.SessionService,
	exportService services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler:     NewExamHandler(examService, questionService, exportService, v, logger),
		questionHandler: NewQuestionHandler(questionService, v, logger),
		sessionHandler:  NewSessionHandler(sessionService, v, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.Create)
			exams.GET("", hm.examHandler.List)
			exams.GET("/:id", hm.examHandler.Get)
			exams.GET("/:id/details", hm.examHandler.GetWithQuestions)
			exams.PUT("/:id", hm.examHandler.Update)
			exams.DELETE("/:id", hm.examHandler.Delete)
			exams.POST("/:id/publish", hm.examHandler.Publish)
			exams.POST("/:id/archive", hm.examHandler.Archive)
			exams.GET("/:id/stats", hm.examHandler.Stats)
			exams.GET("/:id/export", hm.examHandler.ExportResults)

			// Exam question management
			exams.GET("/:id/questions", hm.examHandler.ListQuestions)
			exams.GET("/:id/validate", hm.examHandler.BulkValidate)
			exams.PUT("/:id/questions/reorder", hm.examHandler.Reorder)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.Create)
			questions.GET("/:id", hm.questionHandler.Get)
			questions.PUT("/:id", hm.questionHandler.Update)
			questions.DELETE("/:id", hm.questionHandler.Delete)
			questions.GET("/:id/validate", hm.questionHandler.Validate)
			questions.POST("/:id/auto-fix", hm.questionHandler.AutoFix)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.GET("/can-start", hm.sessionHandler.CanStart)
			sessions.POST("/start", hm.sessionHandler.Start)
			sessions.GET("/history", hm.sessionHandler.History)
			sessions.GET("/:id", hm.sessionHandler.Get)
			sessions.POST("/:id/finish", hm.sessionHandler.Finish)
			sessions.POST("/:id/abandon", hm.sessionHandler.Abandon)
			sessions.POST("/:id/expire", hm.sessionHandler.Expire)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.TimeRemaining)

			// Answer management
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.GET("/:id/answers", hm.sessionHandler.ListAnswers)
			sessions.PUT("/:id/answers/:question_id", hm.sessionHandler.UpdateAnswer)
			sessions.DELETE("/:id/answers/:question_id", hm.sessionHandler.RemoveAnswer)
		}
	}
}

// HealthCheck reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-scan",
	})
}
