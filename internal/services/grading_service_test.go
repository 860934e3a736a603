package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/kiganyamburu/quiz-application/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func blankList(v ...string) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(v)
}

// testQuiz builds a two-question quiz: a 2-point multiple choice question
// (id 10, correct choice 102) and a 3-point fill-in-the-blank question
// (id 20, accepts "Paris"/"paris").
func testQuiz() *models.Quiz {
	return &models.Quiz{
		ID:    1,
		Title: "Geography",
		Questions: []models.Question{
			{
				ID:     10,
				QuizID: 1,
				Text:   "Which continent has the most countries?",
				Type:   models.MultipleChoice,
				Points: 2,
				Order:  1,
				Choices: []models.Choice{
					{ID: 101, QuestionID: 10, Text: "Asia"},
					{ID: 102, QuestionID: 10, Text: "Africa", IsCorrect: true},
					{ID: 103, QuestionID: 10, Text: "Europe"},
				},
			},
			{
				ID:           20,
				QuizID:       1,
				Text:         "The capital of France is {{blank}}.",
				Type:         models.FillBlank,
				Points:       3,
				Order:        2,
				BlankAnswers: blankList("Paris", "paris"),
			},
		},
	}
}

func TestGradingService_Grade_AllCorrect(t *testing.T) {
	svc := NewGradingService()

	result, err := svc.Grade(testQuiz(), []SubmittedAnswer{
		{QuestionID: 10, ChoiceID: uintPtr(102)},
		{QuestionID: 20, TextAnswer: strPtr("  paris ")},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 5, result.TotalPoints)
	assert.Equal(t, 100.0, result.Percentage)
	require.Len(t, result.Answers, 2)
	assert.True(t, result.Answers[0].Correct)
	assert.Equal(t, 2, result.Answers[0].PointsAwarded)
	assert.True(t, result.Answers[1].Correct)
	assert.Equal(t, 3, result.Answers[1].PointsAwarded)
}

func TestGradingService_Grade_UnansweredScoredIncorrect(t *testing.T) {
	svc := NewGradingService()

	result, err := svc.Grade(testQuiz(), []SubmittedAnswer{
		{QuestionID: 10, ChoiceID: uintPtr(102)},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	require.Len(t, result.Answers, 2)

	unanswered := result.Answers[1]
	assert.Equal(t, uint(20), unanswered.QuestionID)
	assert.False(t, unanswered.Correct)
	assert.Equal(t, 0, unanswered.PointsAwarded)
	assert.Nil(t, unanswered.ChoiceID)
	assert.Nil(t, unanswered.TextAnswer)
}

func TestGradingService_Grade_DuplicateKeepsFirst(t *testing.T) {
	svc := NewGradingService()

	result, err := svc.Grade(testQuiz(), []SubmittedAnswer{
		{QuestionID: 10, ChoiceID: uintPtr(101)}, // wrong, arrives first
		{QuestionID: 10, ChoiceID: uintPtr(102)}, // correct, ignored
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Answers[0].Correct)
	assert.Equal(t, uintPtr(101), result.Answers[0].ChoiceID)
}

func TestGradingService_Grade_UnknownQuestionRejected(t *testing.T) {
	svc := NewGradingService()

	_, err := svc.Grade(testQuiz(), []SubmittedAnswer{
		{QuestionID: 999, ChoiceID: uintPtr(102)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuestionNotInQuiz)
	assert.True(t, IsInvalidInput(err))
}

func TestGradingService_Grade_EmptyQuiz(t *testing.T) {
	svc := NewGradingService()

	result, err := svc.Grade(&models.Quiz{ID: 7}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, 0.0, result.Percentage)
	assert.Empty(t, result.Answers)
}

func TestGradingService_Grade_Deterministic(t *testing.T) {
	svc := NewGradingService()
	submissions := []SubmittedAnswer{
		{QuestionID: 20, TextAnswer: strPtr("Paris")},
		{QuestionID: 10, ChoiceID: uintPtr(101)},
	}

	first, err := svc.Grade(testQuiz(), submissions)
	require.NoError(t, err)
	second, err := svc.Grade(testQuiz(), submissions)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Answers follow quiz order, not submission order.
	assert.Equal(t, uint(10), first.Answers[0].QuestionID)
	assert.Equal(t, uint(20), first.Answers[1].QuestionID)
}

func TestMatchChoice(t *testing.T) {
	question := &testQuiz().Questions[0]
	foreign := &models.Question{
		ID:      30,
		Choices: []models.Choice{{ID: 301, QuestionID: 30, IsCorrect: true}},
	}

	tests := []struct {
		name     string
		question *models.Question
		choiceID *uint
		want     bool
	}{
		{"correct choice", question, uintPtr(102), true},
		{"wrong choice", question, uintPtr(101), false},
		{"nil choice", question, nil, false},
		{"unknown id", question, uintPtr(999), false},
		{"correct choice of another question", question, uintPtr(301), false},
		{"foreign question accepts own choice", foreign, uintPtr(301), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchChoice(tt.question, tt.choiceID))
		})
	}
}

func TestMatchBlank(t *testing.T) {
	insensitive := &models.Question{
		Type:         models.FillBlank,
		BlankAnswers: blankList("Paris", "paris"),
	}
	sensitive := &models.Question{
		Type:          models.FillBlank,
		BlankAnswers:  blankList("def"),
		CaseSensitive: true,
	}
	emptyAlternative := &models.Question{
		Type:         models.FillBlank,
		BlankAnswers: blankList("", "  "),
	}
	noAnswers := &models.Question{Type: models.FillBlank}

	tests := []struct {
		name     string
		question *models.Question
		answer   *string
		want     bool
	}{
		{"exact match", insensitive, strPtr("Paris"), true},
		{"case folded match", insensitive, strPtr("PARIS"), true},
		{"trimmed match", insensitive, strPtr("  Paris\t"), true},
		{"no match", insensitive, strPtr("London"), false},
		{"nil answer", insensitive, nil, false},
		{"whitespace only answer", insensitive, strPtr("   "), false},
		{"case sensitive match", sensitive, strPtr("def"), true},
		{"case sensitive mismatch", sensitive, strPtr("DEF"), false},
		{"empty alternatives never match", emptyAlternative, strPtr(""), false},
		{"empty alternatives skip blank input", emptyAlternative, strPtr("anything"), false},
		{"no accepted answers", noAnswers, strPtr("Paris"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchBlank(tt.question, tt.answer))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100.0, Percentage(5, 5))
	assert.Equal(t, 50.0, Percentage(1, 2))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 0.0, Percentage(0, 5))
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(3, 0))
}
