package utils

import (
	"time"

	"github.com/yukikurage/team-task-tracker/internal/constants"
)

// NextFriday returns the date of the upcoming Friday relative to now,
// truncated to midnight in now's location. When now is already a Friday the
// following week's Friday is returned, so the result is always 1 to 7 days
// ahead.
func NextFriday(now time.Time) time.Time {
	days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return StartOfDay(now).AddDate(0, 0, days)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(constants.DateLayout, value)
}
