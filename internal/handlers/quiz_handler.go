package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"github.com/kiganyamburu/quiz-application/internal/services"
	"github.com/kiganyamburu/quiz-application/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService    services.QuizService
	attemptService services.AttemptService
	validator      *utils.Validator
}

func NewQuizHandler(
	quizService services.QuizService,
	attemptService services.AttemptService,
	validator *utils.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		attemptService: attemptService,
		validator:      validator,
	}
}

// ListQuizzes returns the active quizzes available for taking.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	filters := repositories.QuizFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
		SortBy: c.Query("sort_by"),
	}

	quizzes, total, err := h.quizService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: quizzes, Total: total})
}

// GetQuiz returns a quiz in its taking view. Correct answers are never
// included in the payload.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SubmitQuiz grades a submission and records the attempt. The submitter
// identity comes from the X-User-ID header when present, otherwise from the
// request body.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if headerIdentity := strings.TrimSpace(c.GetHeader("X-User-ID")); headerIdentity != "" {
		req.Identity = headerIdentity
	}

	h.LogRequest(c, "Submitting quiz", "quiz_id", quizID, "identity", req.Identity)

	result, err := h.attemptService.SubmitQuiz(c.Request.Context(), quizID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
