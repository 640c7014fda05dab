package views

import (
	"fmt"
	"math"
	"time"

	"taskboard/internal/models"
)

// DueDays returns the signed whole-day distance from today to dueDate.
// ok is false when the date is unset or malformed.
func DueDays(dueDate string, today time.Time) (days int, ok bool) {
	if dueDate == "" || dueDate == models.NoDueDate {
		return 0, false
	}
	due, err := time.ParseInLocation("2006-01-02", dueDate, today.Location())
	if err != nil {
		return 0, false
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	// Round instead of truncate so a DST-shortened day still counts as one
	return int(math.Round(due.Sub(midnight).Hours() / 24)), true
}

// DueLabel returns the long relative due-date description for the
// detail pane. Malformed dates are shown verbatim.
func DueLabel(dueDate string, today time.Time) string {
	if dueDate == "" || dueDate == models.NoDueDate {
		return "No due date"
	}
	days, ok := DueDays(dueDate, today)
	if !ok {
		return dueDate
	}
	switch {
	case days < 0:
		return fmt.Sprintf("Overdue by %d day(s)", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	}
	due, _ := time.ParseInLocation("2006-01-02", dueDate, today.Location())
	return fmt.Sprintf("%s  (+%dd)", due.Format("Jan 2, 2006"), days)
}

// DueShort returns the compact due-date cell for list rows
func DueShort(dueDate string, today time.Time) string {
	if dueDate == "" || dueDate == models.NoDueDate {
		return "–"
	}
	days, ok := DueDays(dueDate, today)
	if !ok {
		return dueDate
	}
	switch {
	case days < 0:
		return fmt.Sprintf("Overdue (%dd)", -days)
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	}
	due, _ := time.ParseInLocation("2006-01-02", dueDate, today.Location())
	return fmt.Sprintf("%s (%dd)", due.Format("Jan 2"), days)
}
