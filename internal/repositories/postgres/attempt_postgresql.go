package postgres

import (
	"context"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) GetByIdentity(ctx context.Context, identity string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	var attempts []*models.QuizAttempt
	var total int64

	// apply filter first
	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("identity = ?", identity)
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.applyPaginationAndSort(query, filters)

	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a AttemptPostgreSQL) StatsByIdentity(ctx context.Context, identity string) (*repositories.IdentityAttemptStats, error) {
	var stats repositories.IdentityAttemptStats

	err := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Select("COUNT(*) AS total_attempts, "+
			"COALESCE(SUM(score), 0) AS total_score, "+
			"COALESCE(AVG(percentage), 0) AS average_percentage, "+
			"COUNT(DISTINCT quiz_id) AS quizzes_completed").
		Where("identity = ?", identity).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (a AttemptPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	order := "created_at DESC"
	switch filters.SortBy {
	case "score":
		order = "score"
	case "created_at":
		order = "created_at"
	}
	if filters.SortBy != "" && filters.SortOrder == "desc" {
		order += " DESC"
	}
	query = query.Order(order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
