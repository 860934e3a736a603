package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kiganyamburu/quiz-application/internal/events"
	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
	"github.com/kiganyamburu/quiz-application/internal/utils"
)

// SubmitQuizRequest carries one complete submission from the boundary layer.
type SubmitQuizRequest struct {
	Identity  string            `json:"identity" validate:"required,max=100"`
	TimeTaken int               `json:"time_taken" validate:"min=0"` // Seconds
	Answers   []SubmittedAnswer `json:"answers" validate:"dive"`
}

// AttemptResponse is the serializable view of a recorded attempt.
type AttemptResponse struct {
	AttemptID   uint                  `json:"attempt_id"`
	QuizID      uint                  `json:"quiz_id"`
	Identity    string                `json:"identity"`
	Score       int                   `json:"score"`
	TotalPoints int                   `json:"total_points"`
	Percentage  float64               `json:"percentage"`
	TimeTaken   int                   `json:"time_taken"`
	Answers     []models.GradedAnswer `json:"answers"`
	CreatedAt   time.Time             `json:"created_at"`
}

// IdentityStats aggregates one identity's attempt history.
type IdentityStats struct {
	TotalAttempts     int64              `json:"total_attempts"`
	TotalScore        int64              `json:"total_score"`
	AveragePercentage float64            `json:"average_percentage"`
	QuizzesCompleted  int64              `json:"quizzes_completed"`
	RecentAttempts    []*AttemptResponse `json:"recent_attempts"`
}

// AttemptService grades submissions and records them durably. Recording an
// attempt and folding it into the leaderboard happen in one transaction;
// a recorded attempt is immutable.
type AttemptService interface {
	// SubmitQuiz is the single entry point for the request layer: load, grade,
	// record, aggregate.
	SubmitQuiz(ctx context.Context, quizID uint, req *SubmitQuizRequest) (*AttemptResponse, error)

	// Record persists an already-graded result exactly once.
	Record(ctx context.Context, identity string, quizID uint, result *GradingResult, timeTaken int) (*models.QuizAttempt, error)

	GetByID(ctx context.Context, id uint) (*AttemptResponse, error)
	ListByIdentity(ctx context.Context, identity string, filters repositories.AttemptFilters) ([]*AttemptResponse, int64, error)
	Stats(ctx context.Context, identity string) (*IdentityStats, error)
}

type attemptService struct {
	repo        repositories.Repository
	grading     GradingService
	leaderboard LeaderboardService
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *utils.Validator
}

func NewAttemptService(
	repo repositories.Repository,
	grading GradingService,
	leaderboard LeaderboardService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) AttemptService {
	return &attemptService{
		repo:        repo,
		grading:     grading,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
	}
}

func (s *attemptService) SubmitQuiz(ctx context.Context, quizID uint, req *SubmitQuizRequest) (*AttemptResponse, error) {
	s.logger.Info("Submitting quiz",
		"quiz_id", quizID,
		"identity", req.Identity,
		"answers_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetActiveByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	result, err := s.grading.Grade(quiz, req.Answers)
	if err != nil {
		return nil, err
	}

	attempt, err := s.Record(ctx, req.Identity, quizID, result, req.TimeTaken)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz submitted successfully",
		"attempt_id", attempt.ID,
		"quiz_id", quizID,
		"score", attempt.Score,
		"total_points", attempt.TotalPoints)

	return buildAttemptResponse(attempt, result.Answers), nil
}

func (s *attemptService) Record(ctx context.Context, identity string, quizID uint, result *GradingResult, timeTaken int) (*models.QuizAttempt, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, ErrInvalidIdentity
	}
	if timeTaken < 0 {
		return nil, ErrInvalidTimeTaken
	}

	var attempt *models.QuizAttempt
	var err error
	for i := 0; i < leaderboardRetryBudget; i++ {
		attempt, err = s.recordOnce(ctx, identity, quizID, result, timeTaken)
		if err == nil || !isRetryableTxError(err) {
			break
		}
		s.logger.Warn("Retrying attempt transaction after conflict",
			"quiz_id", quizID,
			"identity", identity,
			"error", err)
	}
	if err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%w: %v", ErrLeaderboardConflict, err)
		}
		return nil, err
	}

	// Post-commit effects. Invalidating the cache before returning keeps
	// read-your-own-write for leaderboard queries; publishing is best-effort.
	s.leaderboard.Invalidate(ctx, quizID)
	if s.publisher != nil {
		if err := s.publisher.PublishQuizEvent(ctx, events.NewAttemptRecordedEvent(attempt)); err != nil {
			s.logger.Error("Failed to publish attempt event",
				"attempt_id", attempt.ID,
				"error", err)
		}
		if err := s.publisher.PublishQuizEvent(ctx, events.NewLeaderboardUpdatedEvent(quizID, identity)); err != nil {
			s.logger.Error("Failed to publish leaderboard event",
				"quiz_id", quizID,
				"error", err)
		}
	}

	return attempt, nil
}

// recordOnce runs one attempt-record transaction: insert the immutable
// attempt row and apply its leaderboard effect, or roll back both.
func (s *attemptService) recordOnce(ctx context.Context, identity string, quizID uint, result *GradingResult, timeTaken int) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{
		QuizID:      quizID,
		Identity:    identity,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  result.Percentage,
		TimeTaken:   timeTaken,
	}
	// The stored attempt keeps one verdict per answered question; unanswered
	// questions appear in the grading result but not in the durable record.
	if err := attempt.SetGradedAnswers(answeredOnly(result.Answers)); err != nil {
		return nil, fmt.Errorf("failed to encode graded answers: %w", err)
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Attempt().Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		return s.leaderboard.Update(ctx, txRepo, quizID, identity, result.Score, result.Percentage, timeTaken)
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *attemptService) GetByID(ctx context.Context, id uint) (*AttemptResponse, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	answers, err := attempt.GradedAnswers()
	if err != nil {
		return nil, fmt.Errorf("failed to decode graded answers: %w", err)
	}
	return buildAttemptResponse(attempt, answers), nil
}

func (s *attemptService) ListByIdentity(ctx context.Context, identity string, filters repositories.AttemptFilters) ([]*AttemptResponse, int64, error) {
	attempts, total, err := s.repo.Attempt().GetByIdentity(ctx, identity, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	responses := make([]*AttemptResponse, len(attempts))
	for i, attempt := range attempts {
		answers, err := attempt.GradedAnswers()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode graded answers: %w", err)
		}
		responses[i] = buildAttemptResponse(attempt, answers)
	}
	return responses, total, nil
}

func (s *attemptService) Stats(ctx context.Context, identity string) (*IdentityStats, error) {
	stats, err := s.repo.Attempt().StatsByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt stats: %w", err)
	}

	recent, _, err := s.ListByIdentity(ctx, identity, repositories.AttemptFilters{Limit: 5})
	if err != nil {
		return nil, err
	}

	return &IdentityStats{
		TotalAttempts:     stats.TotalAttempts,
		TotalScore:        stats.TotalScore,
		AveragePercentage: stats.AveragePercentage,
		QuizzesCompleted:  stats.QuizzesCompleted,
		RecentAttempts:    recent,
	}, nil
}

// answeredOnly drops verdicts for questions the attemptor never answered.
func answeredOnly(answers []models.GradedAnswer) []models.GradedAnswer {
	kept := make([]models.GradedAnswer, 0, len(answers))
	for _, answer := range answers {
		if answer.ChoiceID != nil || answer.TextAnswer != nil {
			kept = append(kept, answer)
		}
	}
	return kept
}

func buildAttemptResponse(attempt *models.QuizAttempt, answers []models.GradedAnswer) *AttemptResponse {
	return &AttemptResponse{
		AttemptID:   attempt.ID,
		QuizID:      attempt.QuizID,
		Identity:    attempt.Identity,
		Score:       attempt.Score,
		TotalPoints: attempt.TotalPoints,
		Percentage:  attempt.Percentage,
		TimeTaken:   attempt.TimeTaken,
		Answers:     answers,
		CreatedAt:   attempt.CreatedAt,
	}
}
