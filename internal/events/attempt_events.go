package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiganyamburu/quiz-application/internal/models"
)

// EventType represents different types of quiz events
type EventType string

const (
	EventAttemptRecorded    EventType = "attempt.recorded"
	EventLeaderboardUpdated EventType = "leaderboard.updated"
)

const eventSource = "quiz-service"

// QuizEvent is the base event structure for all published events
type QuizEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

// AttemptRecordedEvent is emitted after an attempt and its leaderboard effect
// have been committed together.
type AttemptRecordedEvent struct {
	AttemptID   uint    `json:"attempt_id"`
	QuizID      uint    `json:"quiz_id"`
	Identity    string  `json:"identity"`
	Score       int     `json:"score"`
	TotalPoints int     `json:"total_points"`
	Percentage  float64 `json:"percentage"`
	TimeTaken   int     `json:"time_taken"` // seconds
}

// LeaderboardUpdatedEvent signals that an attempt changed the leaderboard
// state for a quiz, so consumers holding derived views can refresh them.
type LeaderboardUpdatedEvent struct {
	QuizID   uint   `json:"quiz_id"`
	Identity string `json:"identity"`
}

// NewLeaderboardUpdatedEvent wraps a leaderboard change in the event envelope
func NewLeaderboardUpdatedEvent(quizID uint, identity string) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      EventLeaderboardUpdated,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: LeaderboardUpdatedEvent{
			QuizID:   quizID,
			Identity: identity,
		},
	}
}

// NewAttemptRecordedEvent wraps a stored attempt in the event envelope
func NewAttemptRecordedEvent(attempt *models.QuizAttempt) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      EventAttemptRecorded,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptRecordedEvent{
			AttemptID:   attempt.ID,
			QuizID:      attempt.QuizID,
			Identity:    attempt.Identity,
			Score:       attempt.Score,
			TotalPoints: attempt.TotalPoints,
			Percentage:  attempt.Percentage,
			TimeTaken:   attempt.TimeTaken,
		},
	}
}
