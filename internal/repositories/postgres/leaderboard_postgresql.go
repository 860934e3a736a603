package postgres

import (
	"context"
	"time"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardPostgreSQL struct {
	db *gorm.DB
}

func NewLeaderboardPostgreSQL(db *gorm.DB) repositories.LeaderboardRepository {
	return &LeaderboardPostgreSQL{db: db}
}

// GetForUpdate locks the (quiz, identity) row for the duration of the
// surrounding transaction. Callers must be inside WithTransaction.
func (l LeaderboardPostgreSQL) GetForUpdate(ctx context.Context, quizID uint, identity string) (*models.LeaderboardEntry, error) {
	var entry models.LeaderboardEntry
	if err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("quiz_id = ? AND identity = ?", quizID, identity).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (l LeaderboardPostgreSQL) Create(ctx context.Context, entry *models.LeaderboardEntry) error {
	return l.db.WithContext(ctx).Create(entry).Error
}

func (l LeaderboardPostgreSQL) Update(ctx context.Context, entry *models.LeaderboardEntry) error {
	return l.db.WithContext(ctx).Save(entry).Error
}

func (l LeaderboardPostgreSQL) ListByQuiz(ctx context.Context, quizID uint, limit int) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	query := l.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("best_score DESC, best_percentage DESC, best_time, identity")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (l LeaderboardPostgreSQL) ListByIdentity(ctx context.Context, identity string) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	if err := l.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("quiz_id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LockGlobal acquires the identity's global row lock inside the surrounding
// transaction. The upsert form takes the lock whether the row exists or not:
// the insert locks a fresh row, the conflict update locks the existing one.
func (l LeaderboardPostgreSQL) LockGlobal(ctx context.Context, identity string) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"identity": identity}),
		}).
		Create(&models.GlobalLeaderboardEntry{Identity: identity, UpdatedAt: time.Now()}).Error
}

// ReplaceGlobal upserts the derived global row for one identity.
func (l LeaderboardPostgreSQL) ReplaceGlobal(ctx context.Context, entry *models.GlobalLeaderboardEntry) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "identity"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "quizzes_completed", "average_percentage", "updated_at",
			}),
		}).
		Create(entry).Error
}

func (l LeaderboardPostgreSQL) ListGlobal(ctx context.Context, limit int) ([]*models.GlobalLeaderboardEntry, error) {
	var entries []*models.GlobalLeaderboardEntry
	query := l.db.WithContext(ctx).
		Order("total_score DESC, quizzes_completed DESC, average_percentage DESC, identity")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
