package db

import (
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "taskboard.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestCreateTaskRoundtrip(t *testing.T) {
	database := newTestDB(t)

	created, err := database.CreateTask(TaskInput{
		Name:        "Write tests",
		Description: "Add coverage",
		Priority:    models.PriorityHigh,
		DueDate:     "2099-01-01",
		MetaData:    `{"origin":"test"}`,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected task ID to be set")
	}
	if created.CreatedAt == "" {
		t.Fatalf("expected created_at to be defaulted")
	}

	got, err := database.GetTask(created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil {
		t.Fatalf("expected task %d to exist", created.ID)
	}
	if *got != *created {
		t.Fatalf("roundtrip mismatch: got %+v, created %+v", got, created)
	}
	if got.Name != "Write tests" || got.Description != "Add coverage" {
		t.Fatalf("unexpected fields: %+v", got)
	}
	if got.Priority != models.PriorityHigh {
		t.Fatalf("expected priority %d, got %d", models.PriorityHigh, got.Priority)
	}
	if got.DueDate != "2099-01-01" {
		t.Fatalf("expected due date 2099-01-01, got %q", got.DueDate)
	}
	if got.IsComplete || got.IsHidden {
		t.Fatalf("expected new task to be incomplete and visible: %+v", got)
	}
	if got.MetaData != `{"origin":"test"}` {
		t.Fatalf("unexpected meta_data %q", got.MetaData)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	database := newTestDB(t)

	created, err := database.CreateTask(TaskInput{Name: "Bare"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.DueDate != models.NoDueDate {
		t.Fatalf("expected unset due date sentinel, got %q", created.DueDate)
	}
	if created.MetaData != "{}" {
		t.Fatalf("expected meta_data default, got %q", created.MetaData)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", created.CreatedAt); err != nil {
		t.Fatalf("expected timestamp-shaped created_at, got %q", created.CreatedAt)
	}
}

func TestCreateTaskHonorsCallerTimestamp(t *testing.T) {
	database := newTestDB(t)

	created, err := database.CreateTask(TaskInput{Name: "Old", CreatedAt: "2020-05-01 09:30:00"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.CreatedAt != "2020-05-01 09:30:00" {
		t.Fatalf("expected caller timestamp kept, got %q", created.CreatedAt)
	}
}

func TestGetTaskMissing(t *testing.T) {
	database := newTestDB(t)

	got, err := database.GetTask(999)
	if err != nil {
		t.Fatalf("get missing task: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing task, got %+v", got)
	}
}

func TestListsPartitionVisibleTasks(t *testing.T) {
	database := newTestDB(t)

	open, err := database.CreateTask(TaskInput{Name: "Open"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := database.CreateTask(TaskInput{Name: "Done", IsComplete: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := database.CreateTask(TaskInput{Name: "Gone", IsHidden: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	incomplete, err := database.ListIncomplete()
	if err != nil {
		t.Fatalf("list incomplete: %v", err)
	}
	complete, err := database.ListComplete()
	if err != nil {
		t.Fatalf("list complete: %v", err)
	}

	if len(incomplete) != 1 || incomplete[0].ID != open.ID {
		t.Fatalf("expected only %d in incomplete, got %+v", open.ID, incomplete)
	}
	if len(complete) != 1 || complete[0].ID != done.ID {
		t.Fatalf("expected only %d in complete, got %+v", done.ID, complete)
	}
	for _, a := range incomplete {
		for _, b := range complete {
			if a.ID == b.ID {
				t.Fatalf("task %d appears in both listings", a.ID)
			}
		}
	}
}

func TestHideTaskRemovesFromListings(t *testing.T) {
	database := newTestDB(t)

	task, err := database.CreateTask(TaskInput{Name: "Doomed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := database.HideTask(task.ID); err != nil {
		t.Fatalf("hide task: %v", err)
	}

	incomplete, err := database.ListIncomplete()
	if err != nil {
		t.Fatalf("list incomplete: %v", err)
	}
	complete, err := database.ListComplete()
	if err != nil {
		t.Fatalf("list complete: %v", err)
	}
	if len(incomplete) != 0 || len(complete) != 0 {
		t.Fatalf("hidden task still listed: %+v %+v", incomplete, complete)
	}

	got, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil || !got.IsHidden {
		t.Fatalf("expected hidden row to survive, got %+v", got)
	}
}

func TestHideMissingTaskIsNoOp(t *testing.T) {
	database := newTestDB(t)

	if err := database.HideTask(12345); err != nil {
		t.Fatalf("hide missing task: %v", err)
	}
}

func TestEmptyUpdateLeavesRowUnchanged(t *testing.T) {
	database := newTestDB(t)

	task, err := database.CreateTask(TaskInput{
		Name:        "Stable",
		Description: "unchanged",
		Priority:    models.PriorityMedium,
		DueDate:     "2030-06-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := database.UpdateTask(task.ID, TaskUpdate{}); err != nil {
		t.Fatalf("empty update: %v", err)
	}

	got, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if *got != *task {
		t.Fatalf("row changed by empty update: before %+v, after %+v", task, got)
	}
}

func TestUpdateAppliesOnlyGivenFields(t *testing.T) {
	database := newTestDB(t)

	task, err := database.CreateTask(TaskInput{
		Name:        "Rename me",
		Description: "keep this",
		Priority:    models.PriorityLow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	complete := true
	if err := database.UpdateTask(task.ID, TaskUpdate{Name: &name, IsComplete: &complete}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Name != "Renamed" || !got.IsComplete {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Description != "keep this" || got.Priority != models.PriorityLow {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.CreatedAt != task.CreatedAt || got.DueDate != task.DueDate {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestUpdateMissingTaskIsNoOp(t *testing.T) {
	database := newTestDB(t)

	name := "ghost"
	if err := database.UpdateTask(4242, TaskUpdate{Name: &name}); err != nil {
		t.Fatalf("update missing task: %v", err)
	}
}

func TestListUndatedIgnoresStateFlags(t *testing.T) {
	database := newTestDB(t)

	undated, err := database.CreateTask(TaskInput{Name: "No date"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	undatedHidden, err := database.CreateTask(TaskInput{Name: "No date, hidden", IsHidden: true, IsComplete: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := database.CreateTask(TaskInput{Name: "Dated", DueDate: "2031-01-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := database.ListUndated()
	if err != nil {
		t.Fatalf("list undated: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 undated tasks, got %d", len(got))
	}
	if got[0].ID != undated.ID || got[1].ID != undatedHidden.ID {
		t.Fatalf("unexpected undated set: %+v", got)
	}
}

func TestBoardScenario(t *testing.T) {
	database := newTestDB(t)

	a, err := database.CreateTask(TaskInput{Name: "A", Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := database.CreateTask(TaskInput{Name: "B", Priority: models.PriorityCritical, DueDate: "2099-01-01"})
	if err != nil {
		t.Fatalf("create B: %v", err)
	}
	if err := database.SetComplete(b.ID, true); err != nil {
		t.Fatalf("complete B: %v", err)
	}
	if err := database.HideTask(b.ID); err != nil {
		t.Fatalf("hide B: %v", err)
	}

	incomplete, err := database.ListIncomplete()
	if err != nil {
		t.Fatalf("list incomplete: %v", err)
	}
	if len(incomplete) != 1 || incomplete[0].ID != a.ID {
		t.Fatalf("expected only A incomplete, got %+v", incomplete)
	}

	complete, err := database.ListComplete()
	if err != nil {
		t.Fatalf("list complete: %v", err)
	}
	if len(complete) != 0 {
		t.Fatalf("expected no visible complete tasks, got %+v", complete)
	}

	undated, err := database.ListUndated()
	if err != nil {
		t.Fatalf("list undated: %v", err)
	}
	if len(undated) != 1 || undated[0].ID != a.ID {
		t.Fatalf("expected only A undated, got %+v", undated)
	}
}

func TestDaysUntilDue(t *testing.T) {
	database := newTestDB(t)

	today, err := database.CreateTask(TaskInput{Name: "Today", DueDate: time.Now().Format("2006-01-02")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tomorrow, err := database.CreateTask(TaskInput{Name: "Tomorrow", DueDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	overdue, err := database.CreateTask(TaskInput{Name: "Late", DueDate: time.Now().AddDate(0, 0, -3).Format("2006-01-02")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	undated, err := database.CreateTask(TaskInput{Name: "Whenever"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	diff, err := database.DaysUntilDue(today.ID)
	if err != nil {
		t.Fatalf("days until due: %v", err)
	}
	if diff.Days != 0 || diff.Undated {
		t.Fatalf("expected 0 days for a task due today, got %+v", diff)
	}
	if diff.ID != today.ID || diff.Name != "Today" {
		t.Fatalf("diff does not identify the task: %+v", diff)
	}

	diff, err = database.DaysUntilDue(tomorrow.ID)
	if err != nil {
		t.Fatalf("days until due: %v", err)
	}
	if diff.Days != 1 {
		t.Fatalf("expected 1 day, got %d", diff.Days)
	}

	diff, err = database.DaysUntilDue(overdue.ID)
	if err != nil {
		t.Fatalf("days until due: %v", err)
	}
	if diff.Days != -3 {
		t.Fatalf("expected -3 days, got %d", diff.Days)
	}

	diff, err = database.DaysUntilDue(undated.ID)
	if err != nil {
		t.Fatalf("days until due: %v", err)
	}
	if !diff.Undated || diff.Days != 0 {
		t.Fatalf("expected undated diff, got %+v", diff)
	}

	diff, err = database.DaysUntilDue(9999)
	if err != nil {
		t.Fatalf("days until due for missing id: %v", err)
	}
	if diff != nil {
		t.Fatalf("expected nil diff for missing id, got %+v", diff)
	}
}

func TestStorePermitsOutOfRangePriority(t *testing.T) {
	database := newTestDB(t)

	created, err := database.CreateTask(TaskInput{Name: "Odd", Priority: 7})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Priority != 7 {
		t.Fatalf("expected priority stored verbatim, got %d", created.Priority)
	}
	if created.Priority.Label() != "P7" {
		t.Fatalf("expected fallback label, got %q", created.Priority.Label())
	}
}

func TestSettingsRoundtrip(t *testing.T) {
	database := newTestDB(t)

	value, err := database.GetSetting("last_filter")
	if err != nil {
		t.Fatalf("get missing setting: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value for missing setting, got %q", value)
	}

	if err := database.SetSetting("last_filter", "complete"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := database.SetSetting("last_filter", "undated"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}

	value, err = database.GetSetting("last_filter")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if value != "undated" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}
