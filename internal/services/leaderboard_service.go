package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/kiganyamburu/quiz-application/internal/cache"
	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
)

const globalLeaderboardKey = "leaderboard:global"

func quizLeaderboardKey(quizID uint) string {
	return fmt.Sprintf("leaderboard:quiz:%d", quizID)
}

// LeaderboardService folds recorded attempts into per-quiz best entries and
// the derived global leaderboard, and serves the ranked read views.
type LeaderboardService interface {
	// Update applies one recorded attempt to the leaderboard state. It must
	// run inside the same transaction that persists the attempt, which is why
	// it receives the transaction-scoped repository from the caller.
	Update(ctx context.Context, repo repositories.Repository, quizID uint, identity string, score int, percentage float64, timeTaken int) error

	QuizLeaderboard(ctx context.Context, quizID uint) ([]models.RankedEntry, error)
	GlobalLeaderboard(ctx context.Context) ([]models.GlobalRankedEntry, error)

	// Invalidate drops cached views touched by an update for quizID.
	Invalidate(ctx context.Context, quizID uint)
}

// LeaderboardOptions bound the served view sizes and cache lifetime.
type LeaderboardOptions struct {
	QuizSize   int
	GlobalSize int
	CacheTTL   time.Duration
}

type leaderboardService struct {
	repo   repositories.Repository
	cache  cache.CacheService // nil disables caching
	logger *slog.Logger
	opts   LeaderboardOptions
}

func NewLeaderboardService(repo repositories.Repository, cacheSvc cache.CacheService, logger *slog.Logger, opts LeaderboardOptions) LeaderboardService {
	if opts.QuizSize <= 0 {
		opts.QuizSize = 50
	}
	if opts.GlobalSize <= 0 {
		opts.GlobalSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	return &leaderboardService{
		repo:   repo,
		cache:  cacheSvc,
		logger: logger,
		opts:   opts,
	}
}

func (s *leaderboardService) Update(ctx context.Context, repo repositories.Repository, quizID uint, identity string, score int, percentage float64, timeTaken int) error {
	lb := repo.Leaderboard()
	now := time.Now()

	entry, err := lb.GetForUpdate(ctx, quizID, identity)
	switch {
	case err == nil:
		entry.AttemptsCount++
		if betterAttempt(score, timeTaken, entry) {
			entry.BestScore = score
			entry.BestPercentage = percentage
			entry.BestTime = timeTaken
		}
		entry.LastAttemptAt = now
		if err := lb.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to update leaderboard entry: %w", err)
		}
	case repositories.IsNotFoundError(err):
		entry = &models.LeaderboardEntry{
			QuizID:         quizID,
			Identity:       identity,
			BestScore:      score,
			BestPercentage: percentage,
			BestTime:       timeTaken,
			AttemptsCount:  1,
			LastAttemptAt:  now,
		}
		if err := lb.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to create leaderboard entry: %w", err)
		}
	default:
		return fmt.Errorf("failed to load leaderboard entry: %w", err)
	}

	return s.recomputeGlobal(ctx, lb, identity)
}

// betterAttempt is the single ordering rule for "best attempt": a strictly
// higher score wins, an equal score wins only with a strictly lower time.
func betterAttempt(score, timeTaken int, entry *models.LeaderboardEntry) bool {
	if score != entry.BestScore {
		return score > entry.BestScore
	}
	return timeTaken < entry.BestTime
}

// recomputeGlobal rebuilds the identity's global row from its per-quiz
// entries. A full recompute rather than an incremental delta keeps the
// derived view consistent with its sources. The global row lock must be
// held before the per-quiz entries are listed: without it, two transactions
// for the same identity on different quizzes could each sum a snapshot that
// misses the other's uncommitted best, and the later commit would overwrite
// the total with a stale value.
func (s *leaderboardService) recomputeGlobal(ctx context.Context, lb repositories.LeaderboardRepository, identity string) error {
	if err := lb.LockGlobal(ctx, identity); err != nil {
		return fmt.Errorf("failed to lock global leaderboard entry: %w", err)
	}

	entries, err := lb.ListByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to list leaderboard entries for identity: %w", err)
	}

	global := &models.GlobalLeaderboardEntry{
		Identity:  identity,
		UpdatedAt: time.Now(),
	}
	var percentageSum float64
	for _, entry := range entries {
		global.TotalScore += entry.BestScore
		percentageSum += entry.BestPercentage
	}
	global.QuizzesCompleted = len(entries)
	if len(entries) > 0 {
		global.AveragePercentage = math.Round(percentageSum/float64(len(entries))*100) / 100
	}

	if err := lb.ReplaceGlobal(ctx, global); err != nil {
		return fmt.Errorf("failed to replace global leaderboard entry: %w", err)
	}
	return nil
}

func (s *leaderboardService) QuizLeaderboard(ctx context.Context, quizID uint) ([]models.RankedEntry, error) {
	key := quizLeaderboardKey(quizID)
	if s.cache != nil {
		var cached []models.RankedEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.Leaderboard().ListByQuiz(ctx, quizID, s.opts.QuizSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz leaderboard: %w", err)
	}
	ranked := RankQuizEntries(entries)

	if s.cache != nil {
		// Cache failures degrade to direct reads, they never fail the query.
		_ = s.cache.Set(ctx, key, ranked, s.opts.CacheTTL)
	}
	return ranked, nil
}

func (s *leaderboardService) GlobalLeaderboard(ctx context.Context) ([]models.GlobalRankedEntry, error) {
	if s.cache != nil {
		var cached []models.GlobalRankedEntry
		if err := s.cache.Get(ctx, globalLeaderboardKey, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.Leaderboard().ListGlobal(ctx, s.opts.GlobalSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list global leaderboard: %w", err)
	}
	ranked := RankGlobalEntries(entries)

	if s.cache != nil {
		_ = s.cache.Set(ctx, globalLeaderboardKey, ranked, s.opts.CacheTTL)
	}
	return ranked, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context, quizID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, quizLeaderboardKey(quizID), globalLeaderboardKey); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache",
			"quiz_id", quizID,
			"error", err)
	}
}

// RankQuizEntries orders per-quiz entries by best score descending, best
// percentage descending, best time ascending, then identity, and assigns
// 1-based ordinal ranks. Ties on all keys still receive distinct ranks.
func RankQuizEntries(entries []*models.LeaderboardEntry) []models.RankedEntry {
	sorted := make([]*models.LeaderboardEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.BestScore != b.BestScore {
			return a.BestScore > b.BestScore
		}
		if a.BestPercentage != b.BestPercentage {
			return a.BestPercentage > b.BestPercentage
		}
		if a.BestTime != b.BestTime {
			return a.BestTime < b.BestTime
		}
		return a.Identity < b.Identity
	})

	ranked := make([]models.RankedEntry, len(sorted))
	for i, entry := range sorted {
		ranked[i] = models.RankedEntry{Rank: i + 1, LeaderboardEntry: *entry}
	}
	return ranked
}

// RankGlobalEntries orders global entries by total score descending, quizzes
// completed descending, average percentage descending, then identity.
func RankGlobalEntries(entries []*models.GlobalLeaderboardEntry) []models.GlobalRankedEntry {
	sorted := make([]*models.GlobalLeaderboardEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.QuizzesCompleted != b.QuizzesCompleted {
			return a.QuizzesCompleted > b.QuizzesCompleted
		}
		if a.AveragePercentage != b.AveragePercentage {
			return a.AveragePercentage > b.AveragePercentage
		}
		return a.Identity < b.Identity
	})

	ranked := make([]models.GlobalRankedEntry, len(sorted))
	for i, entry := range sorted {
		ranked[i] = models.GlobalRankedEntry{Rank: i + 1, GlobalLeaderboardEntry: *entry}
	}
	return ranked
}
