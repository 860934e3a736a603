package main

import (
	"context"
	"os"

	"gorm.io/datatypes"

	"github.com/kiganyamburu/quiz-application/internal/config"
	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories/postgres"
	"github.com/kiganyamburu/quiz-application/internal/utils"
	"github.com/kiganyamburu/quiz-application/pkg"
)

// Seeds the database with sample quizzes. Safe to run against an empty
// database; re-running creates duplicates, so it is a dev-only tool.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := utils.NewDevelopmentLogger()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	ctx := context.Background()

	for _, quiz := range sampleQuizzes() {
		if err := repo.Quiz().Create(ctx, quiz); err != nil {
			logger.Error("Failed to create quiz", "title", quiz.Title, "error", err)
			os.Exit(1)
		}
		logger.Info("Created quiz", "title", quiz.Title, "questions", len(quiz.Questions))
	}
	logger.Info("Seeding complete")
}

func blanks(alternatives ...string) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(alternatives)
}

func sampleQuizzes() []*models.Quiz {
	return []*models.Quiz{
		{
			Title:       "World Geography Challenge",
			Description: "Test your knowledge of world geography with fill-in-the-blank and multiple choice questions!",
			TimeLimit:   10,
			IsActive:    true,
			Questions: []models.Question{
				{
					Text:         "The capital of France is {{blank}}.",
					Type:         models.FillBlank,
					Points:       2,
					Order:        1,
					BlankAnswers: blanks("Paris", "paris"),
					Explanation:  "Paris has been the capital of France since the 10th century.",
				},
				{
					Text:         "The longest river in the world is the {{blank}} River.",
					Type:         models.FillBlank,
					Points:       2,
					Order:        2,
					BlankAnswers: blanks("Nile", "nile", "Amazon", "amazon"),
					Explanation:  "The Nile and Amazon compete for the title depending on measurement methods.",
				},
				{
					Text:        "Which continent has the most countries?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       3,
					Explanation: "Africa has 54 recognized countries, making it the continent with the most.",
					Choices: []models.Choice{
						{Text: "Asia", Order: 1},
						{Text: "Africa", IsCorrect: true, Order: 2},
						{Text: "Europe", Order: 3},
						{Text: "South America", Order: 4},
					},
				},
				{
					Text:        "What is the smallest country in the world?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       4,
					Explanation: "Vatican City is only about 0.44 square kilometers.",
					Choices: []models.Choice{
						{Text: "Monaco", Order: 1},
						{Text: "Vatican City", IsCorrect: true, Order: 2},
						{Text: "San Marino", Order: 3},
						{Text: "Liechtenstein", Order: 4},
					},
				},
				{
					Text:         "Mt. Everest is located in the {{blank}} mountain range.",
					Type:         models.FillBlank,
					Points:       2,
					Order:        5,
					BlankAnswers: blanks("Himalayas", "Himalaya", "himalaya", "himalayas"),
					Explanation:  "The Himalayas contain many of the world's highest peaks.",
				},
			},
		},
		{
			Title:       "Programming Fundamentals",
			Description: "Test your programming knowledge across multiple languages and concepts!",
			TimeLimit:   15,
			IsActive:    true,
			Questions: []models.Question{
				{
					Text:          "In Python, the keyword to define a function is {{blank}}.",
					Type:          models.FillBlank,
					Points:        2,
					Order:         1,
					BlankAnswers:  blanks("def"),
					CaseSensitive: true,
					Explanation:   "Python uses \"def\" followed by the function name and parentheses.",
				},
				{
					Text:        "Which data structure uses LIFO (Last In, First Out)?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       2,
					Explanation: "A stack operates on LIFO principle, the last element added is the first one removed.",
					Choices: []models.Choice{
						{Text: "Queue", Order: 1},
						{Text: "Stack", IsCorrect: true, Order: 2},
						{Text: "Linked List", Order: 3},
						{Text: "Tree", Order: 4},
					},
				},
				{
					Text:        "What does HTML stand for?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       3,
					Explanation: "HTML stands for HyperText Markup Language.",
					Choices: []models.Choice{
						{Text: "Hyper Text Markup Language", IsCorrect: true, Order: 1},
						{Text: "High Tech Modern Language", Order: 2},
						{Text: "Hyper Transfer Markup Language", Order: 3},
						{Text: "Home Tool Markup Language", Order: 4},
					},
				},
				{
					Text:         "The time complexity of binary search is O({{blank}}).",
					Type:         models.FillBlank,
					Points:       3,
					Order:        4,
					BlankAnswers: blanks("log n", "log(n)", "logn"),
					Explanation:  "Binary search divides the search space in half with each comparison.",
				},
				{
					Text:        "Which of these is NOT a JavaScript framework?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       5,
					Explanation: "Django is a Python web framework, not JavaScript.",
					Choices: []models.Choice{
						{Text: "React", Order: 1},
						{Text: "Vue", Order: 2},
						{Text: "Angular", Order: 3},
						{Text: "Django", IsCorrect: true, Order: 4},
					},
				},
			},
		},
		{
			Title:       "Science Trivia",
			Description: "From biology to physics, test your scientific knowledge!",
			TimeLimit:   12,
			IsActive:    true,
			Questions: []models.Question{
				{
					Text:         "Water is made up of hydrogen and {{blank}}.",
					Type:         models.FillBlank,
					Points:       1,
					Order:        1,
					BlankAnswers: blanks("oxygen", "Oxygen"),
					Explanation:  "Water (H2O) consists of two hydrogen atoms and one oxygen atom.",
				},
				{
					Text:        "What is the chemical symbol for gold?",
					Type:        models.MultipleChoice,
					Points:      2,
					Order:       2,
					Explanation: "Au comes from the Latin word \"aurum\" meaning gold.",
					Choices: []models.Choice{
						{Text: "Go", Order: 1},
						{Text: "Gd", Order: 2},
						{Text: "Au", IsCorrect: true, Order: 3},
						{Text: "Ag", Order: 4},
					},
				},
				{
					Text:         "The speed of light is approximately 300,000 {{blank}} per second.",
					Type:         models.FillBlank,
					Points:       2,
					Order:        3,
					BlankAnswers: blanks("kilometers", "km", "kilometres"),
					Explanation:  "Light travels at about 299,792 kilometers per second in a vacuum.",
				},
				{
					Text:        "Which planet is known as the Red Planet?",
					Type:        models.MultipleChoice,
					Points:      1,
					Order:       4,
					Explanation: "Mars appears red due to iron oxide (rust) on its surface.",
					Choices: []models.Choice{
						{Text: "Venus", Order: 1},
						{Text: "Mars", IsCorrect: true, Order: 2},
						{Text: "Jupiter", Order: 3},
						{Text: "Mercury", Order: 4},
					},
				},
				{
					Text:         "The powerhouse of the cell is the {{blank}}.",
					Type:         models.FillBlank,
					Points:       2,
					Order:        5,
					BlankAnswers: blanks("mitochondria", "mitochondrion"),
					Explanation:  "Mitochondria generate most of the cell's ATP energy.",
				},
			},
		},
	}
}
