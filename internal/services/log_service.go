package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
)

var (
	ErrLogContentRequired = apierrors.NewValidationError("content is required")
	ErrLogContentTooLong  = apierrors.NewValidationError("content must be at most 5000 characters")
)

// LogService stores users' daily work logs.
type LogService struct {
	logRepo repository.LogRepository
}

func NewLogService(logRepo repository.LogRepository) *LogService {
	return &LogService{logRepo: logRepo}
}

func (s *LogService) CreateEntry(ctx context.Context, userID, content string) (*models.LogEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrLogContentRequired
	}
	if utf8.RuneCountInString(content) > constants.MaxLogEntryLength {
		return nil, ErrLogContentTooLong
	}

	entry := &models.LogEntry{
		UserID:  userID,
		Content: content,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, apierrors.Store("failed to save log entry", err)
	}
	return entry, nil
}

// ListEntries returns the user's most recent entries, newest first.
func (s *LogService) ListEntries(ctx context.Context, userID string, limit int) ([]models.LogEntry, error) {
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	entries, err := s.logRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apierrors.Store("failed to list log entries", err)
	}
	return entries, nil
}
