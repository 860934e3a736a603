package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kiganyamburu/quiz-application/internal/models"
)

func testLeaderboardService(repo *MockRepository) LeaderboardService {
	return NewLeaderboardService(repo, nil, slog.Default(), LeaderboardOptions{})
}

func TestLeaderboardService_Update_FirstAttemptCreatesEntry(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	repo.leaderboardRepo.On("GetForUpdate", mock.Anything, uint(1), "alice").
		Return(nil, gorm.ErrRecordNotFound)
	repo.leaderboardRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.LeaderboardEntry) bool {
		return e.QuizID == 1 && e.Identity == "alice" &&
			e.BestScore == 5 && e.BestTime == 120 && e.AttemptsCount == 1
	})).Return(nil)
	repo.leaderboardRepo.On("LockGlobal", mock.Anything, "alice").Return(nil)
	repo.leaderboardRepo.On("ListByIdentity", mock.Anything, "alice").
		Return([]*models.LeaderboardEntry{
			{QuizID: 1, Identity: "alice", BestScore: 5, BestPercentage: 100},
		}, nil)
	repo.leaderboardRepo.On("ReplaceGlobal", mock.Anything, mock.MatchedBy(func(g *models.GlobalLeaderboardEntry) bool {
		return g.Identity == "alice" && g.TotalScore == 5 &&
			g.QuizzesCompleted == 1 && g.AveragePercentage == 100
	})).Return(nil)

	err := svc.Update(context.Background(), repo, 1, "alice", 5, 100, 120)
	require.NoError(t, err)
	repo.leaderboardRepo.AssertExpectations(t)
}

func TestLeaderboardService_Update_BestScoreMonotonic(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		timeTaken int
		wantScore int
		wantTime  int
	}{
		{"higher score replaces", 8, 200, 8, 200},
		{"lower score keeps best", 3, 10, 5, 120},
		{"equal score faster time replaces", 5, 90, 5, 90},
		{"equal score slower time keeps best", 5, 150, 5, 120},
		{"equal score equal time keeps best", 5, 120, 5, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockRepository()
			svc := testLeaderboardService(repo)

			existing := &models.LeaderboardEntry{
				QuizID: 1, Identity: "alice",
				BestScore: 5, BestPercentage: 50, BestTime: 120, AttemptsCount: 2,
			}
			repo.leaderboardRepo.On("GetForUpdate", mock.Anything, uint(1), "alice").
				Return(existing, nil)
			repo.leaderboardRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.LeaderboardEntry) bool {
				return e.BestScore == tt.wantScore && e.BestTime == tt.wantTime && e.AttemptsCount == 3
			})).Return(nil)
			repo.leaderboardRepo.On("LockGlobal", mock.Anything, "alice").Return(nil)
			repo.leaderboardRepo.On("ListByIdentity", mock.Anything, "alice").
				Return([]*models.LeaderboardEntry{existing}, nil)
			repo.leaderboardRepo.On("ReplaceGlobal", mock.Anything, mock.Anything).Return(nil)

			err := svc.Update(context.Background(), repo, 1, "alice", tt.score, 50, tt.timeTaken)
			require.NoError(t, err)
			repo.leaderboardRepo.AssertExpectations(t)
		})
	}
}

func TestLeaderboardService_Update_GlobalRecomputedFromAllEntries(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	entry := &models.LeaderboardEntry{QuizID: 2, Identity: "bob", BestScore: 4, BestPercentage: 80, BestTime: 60}
	repo.leaderboardRepo.On("GetForUpdate", mock.Anything, uint(2), "bob").Return(entry, nil)
	repo.leaderboardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	repo.leaderboardRepo.On("LockGlobal", mock.Anything, "bob").Return(nil)
	repo.leaderboardRepo.On("ListByIdentity", mock.Anything, "bob").
		Return([]*models.LeaderboardEntry{
			{QuizID: 1, BestScore: 10, BestPercentage: 100},
			{QuizID: 2, BestScore: 4, BestPercentage: 80},
			{QuizID: 3, BestScore: 0, BestPercentage: 0},
		}, nil)
	repo.leaderboardRepo.On("ReplaceGlobal", mock.Anything, mock.MatchedBy(func(g *models.GlobalLeaderboardEntry) bool {
		return g.TotalScore == 14 && g.QuizzesCompleted == 3 && g.AveragePercentage == 60
	})).Return(nil)

	err := svc.Update(context.Background(), repo, 2, "bob", 4, 80, 60)
	require.NoError(t, err)
	repo.leaderboardRepo.AssertExpectations(t)
}

func TestLeaderboardService_Update_LocksGlobalRowBeforeSumming(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	// Two concurrent updates for one identity on different quizzes must not
	// sum per-quiz entries read before the other committed. The global row
	// lock enforces that, so the recompute has to acquire it first.
	var calls []string
	repo.leaderboardRepo.On("GetForUpdate", mock.Anything, uint(1), "alice").
		Return(nil, gorm.ErrRecordNotFound)
	repo.leaderboardRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.leaderboardRepo.On("LockGlobal", mock.Anything, "alice").
		Run(func(mock.Arguments) { calls = append(calls, "lock") }).
		Return(nil)
	repo.leaderboardRepo.On("ListByIdentity", mock.Anything, "alice").
		Run(func(mock.Arguments) { calls = append(calls, "list") }).
		Return([]*models.LeaderboardEntry{
			{QuizID: 1, Identity: "alice", BestScore: 5, BestPercentage: 100},
		}, nil)
	repo.leaderboardRepo.On("ReplaceGlobal", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls = append(calls, "replace") }).
		Return(nil)

	err := svc.Update(context.Background(), repo, 1, "alice", 5, 100, 120)
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "list", "replace"}, calls)
}

func TestLeaderboardService_Update_LockFailureSkipsRecompute(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	entry := &models.LeaderboardEntry{QuizID: 1, Identity: "alice", BestScore: 5, BestTime: 120}
	repo.leaderboardRepo.On("GetForUpdate", mock.Anything, uint(1), "alice").Return(entry, nil)
	repo.leaderboardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	repo.leaderboardRepo.On("LockGlobal", mock.Anything, "alice").
		Return(errors.New("deadlock detected"))

	err := svc.Update(context.Background(), repo, 1, "alice", 7, 70, 90)
	require.Error(t, err)
	repo.leaderboardRepo.AssertNotCalled(t, "ListByIdentity", mock.Anything, "alice")
	repo.leaderboardRepo.AssertNotCalled(t, "ReplaceGlobal", mock.Anything, mock.Anything)
}

func TestRankQuizEntries(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{Identity: "carol", BestScore: 5, BestPercentage: 100, BestTime: 120},
		{Identity: "alice", BestScore: 5, BestPercentage: 100, BestTime: 90},
		{Identity: "bob", BestScore: 8, BestPercentage: 80, BestTime: 300},
		{Identity: "dave", BestScore: 5, BestPercentage: 100, BestTime: 120},
	}

	ranked := RankQuizEntries(entries)
	require.Len(t, ranked, 4)

	// bob leads on score; alice beats carol/dave on time; the carol/dave tie
	// breaks on identity and still yields distinct ordinal ranks.
	assert.Equal(t, "bob", ranked[0].Identity)
	assert.Equal(t, "alice", ranked[1].Identity)
	assert.Equal(t, "carol", ranked[2].Identity)
	assert.Equal(t, "dave", ranked[3].Identity)
	for i, entry := range ranked {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestRankQuizEntries_DoesNotMutateInput(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{Identity: "b", BestScore: 1},
		{Identity: "a", BestScore: 2},
	}
	_ = RankQuizEntries(entries)
	assert.Equal(t, "b", entries[0].Identity)
}

func TestRankGlobalEntries(t *testing.T) {
	entries := []*models.GlobalLeaderboardEntry{
		{Identity: "alice", TotalScore: 10, QuizzesCompleted: 2, AveragePercentage: 75},
		{Identity: "bob", TotalScore: 10, QuizzesCompleted: 3, AveragePercentage: 60},
		{Identity: "carol", TotalScore: 12, QuizzesCompleted: 1, AveragePercentage: 100},
		{Identity: "dave", TotalScore: 10, QuizzesCompleted: 2, AveragePercentage: 75},
	}

	ranked := RankGlobalEntries(entries)
	require.Len(t, ranked, 4)

	assert.Equal(t, "carol", ranked[0].Identity) // highest total score
	assert.Equal(t, "bob", ranked[1].Identity)   // more quizzes completed
	assert.Equal(t, "alice", ranked[2].Identity) // identity breaks the full tie
	assert.Equal(t, "dave", ranked[3].Identity)
	for i, entry := range ranked {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestLeaderboardService_QuizLeaderboard_RanksRepositoryRows(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	repo.leaderboardRepo.On("ListByQuiz", mock.Anything, uint(1), 50).
		Return([]*models.LeaderboardEntry{
			{Identity: "alice", BestScore: 5},
			{Identity: "bob", BestScore: 3},
		}, nil)

	ranked, err := svc.QuizLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "alice", ranked[0].Identity)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestLeaderboardService_GlobalLeaderboard_RanksRepositoryRows(t *testing.T) {
	repo := NewMockRepository()
	svc := testLeaderboardService(repo)

	repo.leaderboardRepo.On("ListGlobal", mock.Anything, 100).
		Return([]*models.GlobalLeaderboardEntry{
			{Identity: "bob", TotalScore: 7},
			{Identity: "alice", TotalScore: 9},
		}, nil)

	ranked, err := svc.GlobalLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "alice", ranked[0].Identity)
	assert.Equal(t, 1, ranked[0].Rank)
}
