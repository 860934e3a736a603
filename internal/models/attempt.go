package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GradedAnswer is the correctness verdict for one submitted answer. Exactly
// one of ChoiceID / TextAnswer is set for answered questions; both are nil for
// questions the attemptor never answered.
type GradedAnswer struct {
	QuestionID    uint    `json:"question_id"`
	ChoiceID      *uint   `json:"choice_id,omitempty"`
	TextAnswer    *string `json:"text_answer,omitempty"`
	Correct       bool    `json:"correct"`
	PointsAwarded int     `json:"points_awarded"`
}

// QuizAttempt is the durable record of a graded submission. Rows are written
// once and never updated; corrections require a new attempt.
type QuizAttempt struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	QuizID   uint   `json:"quiz_id" gorm:"not null;index"`
	Identity string `json:"identity" gorm:"not null;size:100;index" validate:"required,max=100"`

	Score       int     `json:"score" gorm:"not null"`
	TotalPoints int     `json:"total_points" gorm:"not null"`
	Percentage  float64 `json:"percentage" gorm:"not null"`
	TimeTaken   int     `json:"time_taken" gorm:"not null" validate:"min=0"` // Seconds

	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Quiz Quiz `json:"-" gorm:"foreignKey:QuizID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// GradedAnswers decodes the stored per-question verdicts.
func (a *QuizAttempt) GradedAnswers() ([]GradedAnswer, error) {
	if len(a.Answers) == 0 {
		return nil, nil
	}
	var answers []GradedAnswer
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// SetGradedAnswers encodes the per-question verdicts for storage.
func (a *QuizAttempt) SetGradedAnswers(answers []GradedAnswer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.Answers = data
	return nil
}
