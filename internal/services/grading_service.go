package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/kiganyamburu/quiz-application/internal/models"
)

// SubmittedAnswer is one raw answer as handed over by the boundary layer.
// ChoiceID is set for multiple-choice questions, TextAnswer for
// fill-in-the-blank ones.
type SubmittedAnswer struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	ChoiceID   *uint   `json:"choice_id"`
	TextAnswer *string `json:"text_answer"`
}

// GradingResult is the immutable outcome of grading one submission set.
// Answers follow quiz question order, one entry per question.
type GradingResult struct {
	Score       int                   `json:"score"`
	TotalPoints int                   `json:"total_points"`
	Percentage  float64               `json:"percentage"`
	Answers     []models.GradedAnswer `json:"answers"`
}

// GradingService grades submissions against a fully loaded quiz. It is pure
// and stateless: the same input always yields the same result, and instances
// are safe for concurrent use.
type GradingService interface {
	Grade(quiz *models.Quiz, submissions []SubmittedAnswer) (*GradingResult, error)
}

type gradingService struct{}

func NewGradingService() GradingService {
	return &gradingService{}
}

// Grade walks the quiz in question order and scores every question exactly
// once. Unanswered questions score zero but still appear in the result.
// Duplicate submissions for one question keep the first and ignore the rest.
// A submission naming a question outside the quiz is rejected.
func (s *gradingService) Grade(quiz *models.Quiz, submissions []SubmittedAnswer) (*GradingResult, error) {
	byQuestion := make(map[uint]*SubmittedAnswer, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		if quiz.QuestionByID(sub.QuestionID) == nil {
			return nil, fmt.Errorf("%w: question %d", ErrQuestionNotInQuiz, sub.QuestionID)
		}
		if _, seen := byQuestion[sub.QuestionID]; !seen {
			byQuestion[sub.QuestionID] = sub
		}
	}

	result := &GradingResult{
		Answers: make([]models.GradedAnswer, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		result.TotalPoints += question.Points

		graded := models.GradedAnswer{QuestionID: question.ID}
		if sub, ok := byQuestion[question.ID]; ok {
			switch question.Type {
			case models.MultipleChoice:
				graded.ChoiceID = sub.ChoiceID
				graded.Correct = matchChoice(question, sub.ChoiceID)
			case models.FillBlank:
				graded.TextAnswer = sub.TextAnswer
				graded.Correct = matchBlank(question, sub.TextAnswer)
			}
		}
		if graded.Correct {
			graded.PointsAwarded = question.Points
			result.Score += question.Points
		}
		result.Answers = append(result.Answers, graded)
	}

	result.Percentage = Percentage(result.Score, result.TotalPoints)
	return result, nil
}

// matchChoice reports whether the submitted choice id names the correct
// choice of this question. Ids of choices belonging to other questions never
// match, regardless of their is_correct flag.
func matchChoice(question *models.Question, choiceID *uint) bool {
	if choiceID == nil {
		return false
	}
	choice := question.ChoiceByID(*choiceID)
	return choice != nil && choice.IsCorrect
}

// matchBlank checks a free-text answer against the accepted alternatives.
// The submission is trimmed first; unless the question is case sensitive,
// comparison folds case on both sides. Blank submissions never match, and an
// empty accepted alternative counts as "no accepted answer", not as "blank is
// correct".
func matchBlank(question *models.Question, answer *string) bool {
	if answer == nil {
		return false
	}
	submitted := strings.TrimSpace(*answer)
	if submitted == "" {
		return false
	}

	for _, accepted := range question.BlankAnswers {
		accepted = strings.TrimSpace(accepted)
		if accepted == "" {
			continue
		}
		if question.CaseSensitive {
			if submitted == accepted {
				return true
			}
		} else if strings.EqualFold(submitted, accepted) {
			return true
		}
	}
	return false
}

// Percentage computes score/total*100 rounded to two decimals, and exactly 0
// for quizzes with no points.
func Percentage(score, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(totalPoints)*100*100) / 100
}
