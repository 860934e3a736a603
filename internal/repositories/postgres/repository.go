package postgres

import (
	"context"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db          *gorm.DB
	quiz        repositories.QuizRepository
	attempt     repositories.AttemptRepository
	leaderboard repositories.LeaderboardRepository
}

// NewRepository creates the PostgreSQL-backed repository manager
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:          db,
		quiz:        NewQuizPostgreSQL(db),
		attempt:     NewAttemptPostgreSQL(db),
		leaderboard: NewLeaderboardPostgreSQL(db),
	}
}

func (r *gormRepository) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *gormRepository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *gormRepository) Leaderboard() repositories.LeaderboardRepository {
	return r.leaderboard
}

// WithTransaction runs fn against a repository bound to a single transaction.
// fn returning an error rolls back everything it did.
func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schema for all owned tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizAttempt{},
		&models.LeaderboardEntry{},
		&models.GlobalLeaderboardEntry{},
	)
}
