package models

import "fmt"

// NoDueDate is the sentinel stored in due_date for tasks without one.
// Keeping it as a plain text value makes undated tasks filterable with a
// simple equality check.
const NoDueDate = "0"

// Priority is a task priority level. The store accepts any integer, so
// labels for values outside the known range degrade to the raw number.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// Label returns the display name for a priority level
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return fmt.Sprintf("P%d", int(p))
}

// Task represents a single task on the board
type Task struct {
	ID          int64
	Name        string
	Description string
	Priority    Priority
	CreatedAt   string // YYYY-MM-DD HH:MM:SS, display only
	DueDate     string // YYYY-MM-DD, or NoDueDate when unset
	IsComplete  bool
	IsHidden    bool
	MetaData    string // opaque blob, reserved
}

// HasDueDate reports whether the task carries a real due date
func (t Task) HasDueDate() bool {
	return t.DueDate != "" && t.DueDate != NoDueDate
}

// DueDiff is the result of the days-until-due computation for one task
type DueDiff struct {
	ID      int64
	Name    string
	Days    int  // negative = overdue, zero = due today
	Undated bool // true when the task has no due date
}
