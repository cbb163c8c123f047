package dto

import (
	"time"

	"github.com/yukikurage/team-task-tracker/internal/models"
)

// LogEntryDTO represents a work log entry in API responses
type LogEntryDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToLogEntryDTO converts a LogEntry model to LogEntryDTO
func ToLogEntryDTO(entry models.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		ID:        entry.ID,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
	}
}

// ToLogEntryDTOs converts log entries, never returning nil
func ToLogEntryDTOs(entries []models.LogEntry) []LogEntryDTO {
	dtos := make([]LogEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToLogEntryDTO(entry)
	}
	return dtos
}
