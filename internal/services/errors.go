package services

import (
	"errors"
	"strings"

	apperrors "github.com/kiganyamburu/quiz-application/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Not-found conditions
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")

	// Invalid-input conditions
	ErrQuestionNotInQuiz   = errors.New("submitted answer references a question not in the quiz")
	ErrChoiceNotInQuestion = errors.New("submitted choice does not belong to the question")
	ErrInvalidIdentity     = errors.New("attemptor identity must not be empty")
	ErrInvalidTimeTaken    = errors.New("time taken must not be negative")

	// Conflict conditions
	ErrLeaderboardConflict = errors.New("leaderboard update lost a concurrent race")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// IsInvalidInput checks if error represents a rejected input
func IsInvalidInput(err error) bool {
	if errors.Is(err, ErrQuestionNotInQuiz) ||
		errors.Is(err, ErrChoiceNotInQuestion) ||
		errors.Is(err, ErrInvalidIdentity) ||
		errors.Is(err, ErrInvalidTimeTaken) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a lost concurrency race
func IsConflict(err error) bool {
	return errors.Is(err, ErrLeaderboardConflict)
}

// leaderboardRetryBudget bounds how often a submission transaction is retried
// after losing a row-level race before the conflict is surfaced.
const leaderboardRetryBudget = 3

// isRetryableTxError matches the transient failures a concurrent submission
// for the same (quiz, identity) pair can produce: deadlocks, serialization
// failures, and the unique-index race when two transactions create the entry
// at the same time.
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "idx_leaderboard_quiz_identity")
}
