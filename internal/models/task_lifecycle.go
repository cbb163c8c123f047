package models

import (
	"strings"
	"time"

	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
)

var (
	ErrInvalidStatus          = apierrors.NewValidationError("status must be one of pending, finished, roll, cancel")
	ErrCompletionRequired     = apierrors.NewValidationError("completion details are required to finish a task")
	ErrDateCompletedRequired  = apierrors.NewValidationError("date_completed is required")
	ErrNotesRequired          = apierrors.NewValidationError("notes are required")
	ErrTimeConsumptionInRange = apierrors.NewValidationError("time_consumption must be between 1 and 10")
	ErrDifficultyInRange      = apierrors.NewValidationError("difficulty must be between 1 and 10")
)

// CompletionDetails is the bundle collected when a task is finished.
type CompletionDetails struct {
	DateCompleted   *time.Time
	Notes           string
	TimeConsumption int
	Difficulty      int
}

// Validate checks that every completion field is present and in range.
func (d *CompletionDetails) Validate() error {
	if d == nil {
		return ErrCompletionRequired
	}
	if d.DateCompleted == nil || d.DateCompleted.IsZero() {
		return ErrDateCompletedRequired
	}
	if strings.TrimSpace(d.Notes) == "" {
		return ErrNotesRequired
	}
	if !metricInRange(d.TimeConsumption) {
		return ErrTimeConsumptionInRange
	}
	if !metricInRange(d.Difficulty) {
		return ErrDifficultyInRange
	}
	return nil
}

// Columns returns the column updates that store the details.
func (d *CompletionDetails) Columns() map[string]interface{} {
	return map[string]interface{}{
		"date_completed":   *d.DateCompleted,
		"notes":            d.Notes,
		"time_consumption": d.TimeConsumption,
		"difficulty":       d.Difficulty,
	}
}

func metricInRange(v int) bool {
	return v >= constants.MinMetricValue && v <= constants.MaxMetricValue
}

// Transition checks a move to next and returns every column to write in a
// single update. Pending, roll and cancel are reachable from any status;
// finished is reachable from any status only together with valid
// completion details. Details passed with a non-finished target are ignored.
// An empty map means the task already matches and nothing needs writing.
func (t Task) Transition(next TaskStatus, details *CompletionDetails) (map[string]interface{}, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	if next != TaskStatusFinished {
		if t.Status == next {
			return map[string]interface{}{}, nil
		}
		return map[string]interface{}{"status": next}, nil
	}

	if err := details.Validate(); err != nil {
		return nil, err
	}
	if t.Status == TaskStatusFinished && t.hasCompletion(details) {
		return map[string]interface{}{}, nil
	}

	updates := details.Columns()
	updates["status"] = TaskStatusFinished
	return updates, nil
}

// hasCompletion reports whether the stored details equal d. Dates compare
// by calendar day since the column is a DATE.
func (t Task) hasCompletion(d *CompletionDetails) bool {
	if t.DateCompleted == nil {
		return false
	}
	return t.DateCompleted.Format(constants.DateLayout) == d.DateCompleted.Format(constants.DateLayout) &&
		t.Notes == d.Notes &&
		t.TimeConsumption == d.TimeConsumption &&
		t.Difficulty == d.Difficulty
}
