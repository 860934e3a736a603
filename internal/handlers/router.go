package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kiganyamburu/quiz-application/internal/services"
	"github.com/kiganyamburu/quiz-application/internal/utils"
)

type HandlerManager struct {
	quizHandler        *QuizHandler
	attemptHandler     *AttemptHandler
	leaderboardHandler *LeaderboardHandler
}

func NewHandlerManager(
	quizService services.QuizService,
	attemptService services.AttemptService,
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:        NewQuizHandler(quizService, attemptService, validator, logger),
		attemptHandler:     NewAttemptHandler(attemptService, logger),
		leaderboardHandler: NewLeaderboardHandler(leaderboardService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/submit", hm.quizHandler.SubmitQuiz)
			quizzes.GET("/:id/leaderboard", hm.leaderboardHandler.GetQuizLeaderboard)
			quizzes.GET("/:id/leaderboard/export", hm.leaderboardHandler.ExportQuizLeaderboard)
		}

		leaderboard := v1.Group("/leaderboard")
		{
			leaderboard.GET("", hm.leaderboardHandler.GetGlobalLeaderboard)
			leaderboard.GET("/export", hm.leaderboardHandler.ExportGlobalLeaderboard)
		}

		attempts := v1.Group("/attempts")
		{
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
		}

		v1.GET("/stats", hm.attemptHandler.GetStats)
	}
}
