package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kiganyamburu/quiz-application/internal/models"
	"github.com/kiganyamburu/quiz-application/internal/repositories"
)

// ExportService renders leaderboards as downloadable files.
type ExportService interface {
	ExportQuizLeaderboardExcel(ctx context.Context, quizID uint) ([]byte, error)
	ExportQuizLeaderboardCSV(ctx context.Context, quizID uint) ([]byte, error)
	ExportGlobalLeaderboardExcel(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo        repositories.Repository
	leaderboard LeaderboardService
	logger      *slog.Logger
}

func NewExportService(repo repositories.Repository, leaderboard LeaderboardService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

var quizLeaderboardHeaders = []string{
	"Rank", "Identity", "Best Score", "Best Percentage", "Best Time (seconds)", "Attempts",
}

var globalLeaderboardHeaders = []string{
	"Rank", "Identity", "Total Score", "Quizzes Completed", "Average Percentage",
}

func (s *exportService) ExportQuizLeaderboardExcel(ctx context.Context, quizID uint) ([]byte, error) {
	quiz, entries, err := s.quizLeaderboardData(ctx, quizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Leaderboard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Leaderboard: %s", quiz.Title))
	for i, header := range quizLeaderboardHeaders {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range entries {
		row := []interface{}{
			entry.Rank,
			entry.Identity,
			entry.BestScore,
			entry.BestPercentage,
			entry.BestTime,
			entry.AttemptsCount,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+3)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportQuizLeaderboardCSV(ctx context.Context, quizID uint) ([]byte, error) {
	_, entries, err := s.quizLeaderboardData(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(quizLeaderboardHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			strconv.Itoa(entry.Rank),
			entry.Identity,
			strconv.Itoa(entry.BestScore),
			strconv.FormatFloat(entry.BestPercentage, 'f', 2, 64),
			strconv.Itoa(entry.BestTime),
			strconv.Itoa(entry.AttemptsCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return []byte(buf.String()), nil
}

func (s *exportService) ExportGlobalLeaderboardExcel(ctx context.Context) ([]byte, error) {
	entries, err := s.leaderboard.GlobalLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Global Leaderboard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range globalLeaderboardHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range entries {
		row := []interface{}{
			entry.Rank,
			entry.Identity,
			entry.TotalScore,
			entry.QuizzesCompleted,
			entry.AveragePercentage,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) quizLeaderboardData(ctx context.Context, quizID uint) (*models.Quiz, []models.RankedEntry, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	entries, err := s.leaderboard.QuizLeaderboard(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, entries, nil
}
