package db

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"taskboard/internal/models"
)

const taskColumns = "id, name, description, priority, created_at, due_date, is_complete, is_hidden, meta_data"

// TaskInput carries the caller-supplied fields for a new task. CreatedAt
// may be left empty; the store fills it with the current local time.
// An empty DueDate is normalized to the unset sentinel.
type TaskInput struct {
	Name        string
	Description string
	Priority    models.Priority
	CreatedAt   string
	DueDate     string
	IsComplete  bool
	IsHidden    bool
	MetaData    string
}

// TaskUpdate is a partial update of a task. Nil fields are left
// untouched; the id itself is not updatable. An all-nil update executes
// no statement.
type TaskUpdate struct {
	Name        *string
	Description *string
	Priority    *models.Priority
	DueDate     *string
	IsComplete  *bool
	IsHidden    *bool
	MetaData    *string
}

// CreateTask inserts a new task and returns it with its assigned id
func (db *DB) CreateTask(input TaskInput) (*models.Task, error) {
	created := input.CreatedAt
	if created == "" {
		created = time.Now().Format("2006-01-02 15:04:05")
	}
	due := input.DueDate
	if due == "" {
		due = models.NoDueDate
	}
	meta := input.MetaData
	if meta == "" {
		meta = "{}"
	}

	result, err := db.Exec(`
		INSERT INTO tasks (name, description, priority, created_at, due_date, is_complete, is_hidden, meta_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, input.Name, input.Description, int(input.Priority), created, due, input.IsComplete, input.IsHidden, meta)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// GetTask retrieves a task by id. A missing id returns (nil, nil).
func (db *DB) GetTask(id int64) (*models.Task, error) {
	row := db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t := &models.Task{}
	var meta sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Priority, &t.CreatedAt, &t.DueDate, &t.IsComplete, &t.IsHidden, &meta)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.MetaData = meta.String

	return t, nil
}

// UpdateTask applies the non-nil fields of u to the task with the given
// id. Updating a missing id is a silent no-op; last write wins.
func (db *DB) UpdateTask(id int64, u TaskUpdate) error {
	var set []string
	var args []interface{}

	if u.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, int(*u.Priority))
	}
	if u.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *u.DueDate)
	}
	if u.IsComplete != nil {
		set = append(set, "is_complete = ?")
		args = append(args, *u.IsComplete)
	}
	if u.IsHidden != nil {
		set = append(set, "is_hidden = ?")
		args = append(args, *u.IsHidden)
	}
	if u.MetaData != nil {
		set = append(set, "meta_data = ?")
		args = append(args, *u.MetaData)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	_, err := db.Exec("UPDATE tasks SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	return err
}

// SetComplete flips the completion flag for a task
func (db *DB) SetComplete(id int64, complete bool) error {
	return db.UpdateTask(id, TaskUpdate{IsComplete: &complete})
}

// HideTask soft-deletes a task. The row stays in the table with
// is_hidden set; hiding a missing id is a silent no-op. There is no
// corresponding un-hide.
func (db *DB) HideTask(id int64) error {
	_, err := db.Exec("UPDATE tasks SET is_hidden = 1 WHERE id = ?", id)
	return err
}

// ListIncomplete returns visible tasks not yet completed, ordered by id
func (db *DB) ListIncomplete() ([]models.Task, error) {
	return db.listTasks("is_hidden = 0 AND is_complete = 0")
}

// ListComplete returns visible completed tasks, ordered by id
func (db *DB) ListComplete() ([]models.Task, error) {
	return db.listTasks("is_hidden = 0 AND is_complete = 1")
}

// ListUndated returns every task without a due date, regardless of
// completion or visibility
func (db *DB) ListUndated() ([]models.Task, error) {
	return db.listTasks("due_date = ?", models.NoDueDate)
}

func (db *DB) listTasks(where string, args ...interface{}) ([]models.Task, error) {
	rows, err := db.Query("SELECT "+taskColumns+" FROM tasks WHERE "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var meta sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Priority, &t.CreatedAt, &t.DueDate, &t.IsComplete, &t.IsHidden, &meta); err != nil {
			return nil, err
		}
		t.MetaData = meta.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// DaysUntilDue reports the signed whole-day difference between a task's
// due date and today. Negative means overdue, zero due today. Undated
// tasks are reported distinctly. A missing id returns (nil, nil).
func (db *DB) DaysUntilDue(id int64) (*models.DueDiff, error) {
	task, err := db.GetTask(id)
	if err != nil || task == nil {
		return nil, err
	}

	diff := &models.DueDiff{ID: task.ID, Name: task.Name}
	if !task.HasDueDate() {
		diff.Undated = true
		return diff, nil
	}

	due, err := time.ParseInLocation("2006-01-02", task.DueDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse due date %q: %w", task.DueDate, err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	// Round instead of truncate so a DST-shortened day still counts as one
	diff.Days = int(math.Round(due.Sub(today).Hours() / 24))

	return diff, nil
}
