package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiganyamburu/quiz-application/internal/services"
	"github.com/kiganyamburu/quiz-application/internal/utils"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
	exportService      services.ExportService
}

func NewLeaderboardHandler(
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	logger utils.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// GetQuizLeaderboard returns the ranked standings for one quiz.
func (h *LeaderboardHandler) GetQuizLeaderboard(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	entries, err := h.leaderboardService.QuizLeaderboard(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: entries, Total: int64(len(entries))})
}

// GetGlobalLeaderboard returns the ranked standings across all quizzes.
func (h *LeaderboardHandler) GetGlobalLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.GlobalLeaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: entries, Total: int64(len(entries))})
}

// ExportQuizLeaderboard streams one quiz's leaderboard as xlsx or csv.
func (h *LeaderboardHandler) ExportQuizLeaderboard(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))

	var (
		data        []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "xlsx":
		data, err = h.exportService.ExportQuizLeaderboardExcel(c.Request.Context(), quizID)
		contentType = contentTypeXLSX
		filename = fmt.Sprintf("quiz_%d_leaderboard.xlsx", quizID)
	case "csv":
		data, err = h.exportService.ExportQuizLeaderboardCSV(c.Request.Context(), quizID)
		contentType = contentTypeCSV
		filename = fmt.Sprintf("quiz_%d_leaderboard.csv", quizID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Exported quiz leaderboard", "quiz_id", quizID, "format", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ExportGlobalLeaderboard streams the global leaderboard as xlsx.
func (h *LeaderboardHandler) ExportGlobalLeaderboard(c *gin.Context) {
	data, err := h.exportService.ExportGlobalLeaderboardExcel(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="global_leaderboard.xlsx"`)
	c.Data(http.StatusOK, contentTypeXLSX, data)
}
