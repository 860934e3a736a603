package repositories

import (
	"context"
	"errors"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"gorm.io/gorm"
)

// Repository is the aggregate access point for all persistence. WithTransaction
// yields a Repository whose sub-repositories share one database transaction.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Leaderboard() LeaderboardRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// QuizRepository is the read side of quiz content. Authoring happens outside
// this service; the core only loads quizzes with questions and choices resolved.
type QuizRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	Create(ctx context.Context, quiz *models.Quiz) error
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetByIdentity(ctx context.Context, identity string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	StatsByIdentity(ctx context.Context, identity string) (*IdentityAttemptStats, error)
}

type LeaderboardRepository interface {
	// GetForUpdate loads the entry for (quiz, identity) under a row lock so
	// concurrent updates for the same pair serialize.
	GetForUpdate(ctx context.Context, quizID uint, identity string) (*models.LeaderboardEntry, error)
	Create(ctx context.Context, entry *models.LeaderboardEntry) error
	Update(ctx context.Context, entry *models.LeaderboardEntry) error
	ListByQuiz(ctx context.Context, quizID uint, limit int) ([]*models.LeaderboardEntry, error)
	ListByIdentity(ctx context.Context, identity string) ([]*models.LeaderboardEntry, error)

	// LockGlobal takes the identity's global row lock for the surrounding
	// transaction, creating the row when it does not exist yet. Global
	// recomputes for the same identity serialize on this lock, so the
	// per-quiz entries they sum are always read after competing updates
	// commit.
	LockGlobal(ctx context.Context, identity string) error
	ReplaceGlobal(ctx context.Context, entry *models.GlobalLeaderboardEntry) error
	ListGlobal(ctx context.Context, limit int) ([]*models.GlobalLeaderboardEntry, error)
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	IsActive *bool  `json:"is_active"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	SortBy   string `json:"sort_by"` // "created_at", "title"
}

type AttemptFilters struct {
	QuizID    *uint  `json:"quiz_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "score"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

// IdentityAttemptStats aggregates over all attempts of one identity.
type IdentityAttemptStats struct {
	TotalAttempts     int64   `json:"total_attempts"`
	TotalScore        int64   `json:"total_score"`
	AveragePercentage float64 `json:"average_percentage"`
	QuizzesCompleted  int64   `json:"quizzes_completed"`
}

// IsNotFoundError reports whether err represents a missing row
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
