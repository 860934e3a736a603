package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
)

// QuizSummary is the list view: no questions attached.
type QuizSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TimeLimit     int       `json:"time_limit"`
	QuestionCount int       `json:"question_count"`
	TotalPoints   int       `json:"total_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizDetail is the taking view. Choices never expose is_correct, and
// fill-in-the-blank questions never expose their accepted answers.
type QuizDetail struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	TimeLimit   int              `json:"time_limit"`
	TotalPoints int              `json:"total_points"`
	Questions   []QuestionPublic `json:"questions"`
}

type QuestionPublic struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	Type    models.QuestionType `json:"type"`
	Points  int                 `json:"points"`
	Order   int                 `json:"order"`
	Choices []ChoicePublic      `json:"choices,omitempty"`
}

type ChoicePublic struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuizService serves the read side of quizzes for takers.
type QuizService interface {
	List(ctx context.Context, filters repositories.QuizFilters) ([]QuizSummary, int64, error)
	GetByID(ctx context.Context, id uint) (*QuizDetail, error)
}

type quizService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger) QuizService {
	return &quizService{
		repo:   repo,
		logger: logger,
	}
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) ([]QuizSummary, int64, error) {
	if filters.IsActive == nil {
		active := true
		filters.IsActive = &active
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, len(quizzes))
	for i, quiz := range quizzes {
		summaries[i] = QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Description:   quiz.Description,
			TimeLimit:     quiz.TimeLimit,
			QuestionCount: quiz.QuestionCount(),
			TotalPoints:   quiz.TotalPoints(),
			CreatedAt:     quiz.CreatedAt,
		}
	}
	return summaries, total, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*QuizDetail, error) {
	quiz, err := s.repo.Quiz().GetActiveByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	detail := &QuizDetail{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		TimeLimit:   quiz.TimeLimit,
		TotalPoints: quiz.TotalPoints(),
		Questions:   make([]QuestionPublic, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		detail.Questions[i] = publicQuestion(&quiz.Questions[i])
	}
	return detail, nil
}

func publicQuestion(q *models.Question) QuestionPublic {
	pub := QuestionPublic{
		ID:     q.ID,
		Text:   q.DisplayText(),
		Type:   q.Type,
		Points: q.Points,
		Order:  q.Order,
	}
	if q.Type == models.MultipleChoice {
		pub.Choices = make([]ChoicePublic, len(q.Choices))
		for i, c := range q.Choices {
			pub.Choices[i] = ChoicePublic{ID: c.ID, Text: c.Text, Order: c.Order}
		}
	}
	return pub
}
