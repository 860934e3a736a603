package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
)

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetActiveByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	if args.Error(0) == nil && attempt.ID == 0 {
		attempt.ID = 1
	}
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIdentity(ctx context.Context, identity string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, identity, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) StatsByIdentity(ctx context.Context, identity string) (*repositories.IdentityAttemptStats, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.IdentityAttemptStats), args.Error(1)
}

// MockLeaderboardRepository is a mock implementation of LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) GetForUpdate(ctx context.Context, quizID uint, identity string) (*models.LeaderboardEntry, error) {
	args := m.Called(ctx, quizID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) Create(ctx context.Context, entry *models.LeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) Update(ctx context.Context, entry *models.LeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) ListByQuiz(ctx context.Context, quizID uint, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, quizID, limit)
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) ListByIdentity(ctx context.Context, identity string) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) LockGlobal(ctx context.Context, identity string) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) ReplaceGlobal(ctx context.Context, entry *models.GlobalLeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) ListGlobal(ctx context.Context, limit int) ([]*models.GlobalLeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.GlobalLeaderboardEntry), args.Error(1)
}

// MockRepository bundles the sub-repository mocks behind the Repository
// interface. WithTransaction runs the closure against the same mock, which
// matches how the real manager hands a transaction-scoped view to callers.
type MockRepository struct {
	quizRepo        *MockQuizRepository
	attemptRepo     *MockAttemptRepository
	leaderboardRepo *MockLeaderboardRepository

	txErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		quizRepo:        &MockQuizRepository{},
		attemptRepo:     &MockAttemptRepository{},
		leaderboardRepo: &MockLeaderboardRepository{},
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository               { return m.quizRepo }
func (m *MockRepository) Attempt() repositories.AttemptRepository         { return m.attemptRepo }
func (m *MockRepository) Leaderboard() repositories.LeaderboardRepository { return m.leaderboardRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }
