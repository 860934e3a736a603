package models

import (
	"regexp"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	FillBlank      QuestionType = "FILL_BLANK"
)

// blankMarker is the placeholder token inside fill-in-the-blank question text.
var blankMarker = regexp.MustCompile(`\{\{blank\}\}`)

type Quiz struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:255;index" validate:"required,min=1,max=255"`
	Description string  `json:"description" gorm:"type:text"`
	TimeLimit   int     `json:"time_limit" gorm:"default:0" validate:"min=0"` // Minutes, 0 for unlimited
	IsActive    bool    `json:"is_active" gorm:"default:true;index"`
	CreatedBy   *string `json:"created_by" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints sums the point values of every question, answered or not.
func (q *Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}

func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// QuestionByID returns the question with the given id, or nil if it does not
// belong to this quiz.
func (q *Quiz) QuestionByID(id uint) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quiz_id" gorm:"not null;index"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Type   QuestionType `json:"type" gorm:"not null;default:MULTIPLE_CHOICE" validate:"question_type"`
	Points int          `json:"points" gorm:"default:1" validate:"min=1,max=100"`
	Order  int          `json:"order" gorm:"default:0"`

	// Fill-in-the-blank only: accepted alternatives and matching mode.
	BlankAnswers  datatypes.JSONSlice[string] `json:"blank_answers,omitempty" gorm:"type:jsonb"`
	CaseSensitive bool                        `json:"case_sensitive" gorm:"default:false"`

	Explanation string    `json:"explanation" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Choices []Choice `json:"choices" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoice returns the single choice flagged correct, or nil when the
// question has none (an authoring error for multiple-choice questions).
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// ChoiceByID returns the choice with the given id only if it belongs to this
// question. Caller-supplied choice ids are never trusted across questions.
func (q *Question) ChoiceByID(id uint) *Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}

// DisplayText returns the question text with blank markers replaced by
// underscores for rendering.
func (q *Question) DisplayText() string {
	return blankMarker.ReplaceAllString(q.Text, "_____")
}

// BlankPositions returns the [start, end) byte offsets of each blank marker.
func (q *Question) BlankPositions() [][]int {
	return blankMarker.FindAllStringIndex(q.Text, -1)
}

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:500;not null" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`
}

func (Choice) TableName() string {
	return "choices"
}
