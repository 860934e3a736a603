package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"github.com/kiganyamburu/quiz-application/internal/services"
	"github.com/kiganyamburu/quiz-application/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// GetAttempt returns one recorded attempt with its graded answers.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := ParseUintParam(c, "id")
	if attemptID == 0 {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ListAttempts returns attempts for the identity in the query string,
// newest first.
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	identity := h.requireIdentity(c)
	if identity == "" {
		return
	}

	filters := repositories.AttemptFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if quizID := parseIntQuery(c, "quiz_id", 0); quizID > 0 {
		id := uint(quizID)
		filters.QuizID = &id
	}

	attempts, total, err := h.attemptService.ListByIdentity(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: attempts, Total: total})
}

// GetStats returns aggregate attempt statistics for one identity.
func (h *AttemptHandler) GetStats(c *gin.Context) {
	identity := h.requireIdentity(c)
	if identity == "" {
		return
	}

	stats, err := h.attemptService.Stats(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AttemptHandler) requireIdentity(c *gin.Context) string {
	identity := strings.TrimSpace(c.Query("identity"))
	if identity == "" {
		identity = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	if identity == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing identity",
			Details: "provide an identity query parameter or X-User-ID header",
		})
	}
	return identity
}
