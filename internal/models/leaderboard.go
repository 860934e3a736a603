package models

import "time"

// LeaderboardEntry tracks the best attempt per (quiz, identity). The best
// attempt is the one with the highest score; equal scores are broken by the
// lower completion time.
type LeaderboardEntry struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	QuizID   uint   `json:"quiz_id" gorm:"not null;uniqueIndex:idx_leaderboard_quiz_identity"`
	Identity string `json:"identity" gorm:"not null;size:100;uniqueIndex:idx_leaderboard_quiz_identity"`

	BestScore      int     `json:"best_score" gorm:"not null"`
	BestPercentage float64 `json:"best_percentage" gorm:"not null"`
	BestTime       int     `json:"best_time" gorm:"not null"` // Seconds
	AttemptsCount  int     `json:"attempts_count" gorm:"not null;default:0"`

	LastAttemptAt time.Time `json:"last_attempt_at"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// GlobalLeaderboardEntry is a materialized view over an identity's per-quiz
// entries. It is rewritten from those entries on every update and must stay
// re-derivable from them.
type GlobalLeaderboardEntry struct {
	Identity          string  `json:"identity" gorm:"primaryKey;size:100"`
	TotalScore        int     `json:"total_score" gorm:"not null"`
	QuizzesCompleted  int     `json:"quizzes_completed" gorm:"not null"`
	AveragePercentage float64 `json:"average_percentage" gorm:"not null"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (GlobalLeaderboardEntry) TableName() string {
	return "global_leaderboard_entries"
}

// RankedEntry is a per-quiz leaderboard row with its 1-based position.
type RankedEntry struct {
	Rank int `json:"rank"`
	LeaderboardEntry
}

// GlobalRankedEntry is a global leaderboard row with its 1-based position.
type GlobalRankedEntry struct {
	Rank int `json:"rank"`
	GlobalLeaderboardEntry
}
