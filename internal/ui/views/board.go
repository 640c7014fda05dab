package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/db"
	"taskboard/internal/models"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Filter selects which slice of the board the list pane shows
type Filter int

const (
	FilterIncomplete Filter = iota
	FilterComplete
	FilterUndated
)

func (f Filter) label() string {
	switch f {
	case FilterComplete:
		return "Completed"
	case FilterUndated:
		return "No due date"
	}
	return "Open"
}

func (f Filter) setting() string {
	switch f {
	case FilterComplete:
		return "complete"
	case FilterUndated:
		return "undated"
	}
	return "incomplete"
}

func filterFromSetting(value string) Filter {
	switch value {
	case "complete":
		return FilterComplete
	case "undated":
		return FilterUndated
	}
	return FilterIncomplete
}

const lastFilterKey = "last_filter"

// BoardView is the two-pane task list/detail view
type BoardView struct {
	db     *db.DB
	tasks  []models.Task
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	cursor  int
	scrollY int
	filter  Filter
	err     error

	// Task creation/editing
	editing      bool
	editingNew   bool
	editName     textinput.Model
	editDesc     textarea.Model
	editPriority textinput.Model
	editDue      textinput.Model
	editFocusIdx int // 0=name, 1=desc, 2=priority, 3=due, 4=save
	formErr      string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

// NewBoardView creates the board view. The last filter mode is restored
// from the settings table.
func NewBoardView(database *db.DB) *BoardView {
	s := styles.NewStyles()

	editName := textinput.New()
	editName.Placeholder = "Task name"
	editName.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 2000
	editDesc.SetWidth(50)
	editDesc.SetHeight(4)
	editDesc.ShowLineNumbers = false

	editPriority := textinput.New()
	editPriority.Placeholder = "0-3"
	editPriority.CharLimit = 1

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (blank = none)"
	editDue.CharLimit = 10

	filter := FilterIncomplete
	if saved, err := database.GetSetting(lastFilterKey); err == nil {
		filter = filterFromSetting(saved)
	}

	return &BoardView{
		db:           database,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		filter:       filter,
		editName:     editName,
		editDesc:     editDesc,
		editPriority: editPriority,
		editDue:      editDue,
	}
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

func (v *BoardView) loadTasks() tea.Msg {
	var tasks []models.Task
	var err error

	switch v.filter {
	case FilterComplete:
		tasks, err = v.db.ListComplete()
	case FilterUndated:
		tasks, err = v.db.ListUndated()
	default:
		tasks, err = v.db.ListIncomplete()
	}
	if err != nil {
		return err
	}
	return tasksLoadedMsg{tasks: tasks}
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.err = nil
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case error:
		// Storage failures surface in the status bar; the action is not retried
		v.err = msg
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(v.tasks) > 0 {
			v.startEditTask(v.tasks[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(v.tasks) > 0 {
			v.confirmingDelete = true
			v.deleteTargetID = v.tasks[v.cursor].ID
			v.deleteTargetName = v.tasks[v.cursor].Name
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(v.tasks) > 0 {
			task := v.tasks[v.cursor]
			if err := v.db.SetComplete(task.ID, !task.IsComplete); err != nil {
				v.err = err
				return v, nil
			}
			return v, v.loadTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter), key.Matches(msg, v.keys.Tab):
		v.filter = (v.filter + 1) % 3
		v.cursor = 0
		v.scrollY = 0
		if err := v.db.SetSetting(lastFilterKey, v.filter.setting()); err != nil {
			v.err = err
		}
		return v, v.loadTasks
	}

	return v, nil
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.db.HideTask(v.deleteTargetID); err != nil {
			v.err = err
			return v, nil
		}
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.formErr = ""
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 5
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 4) % 5
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter advances through the single-line fields; on the save
		// button it commits. The textarea keeps enter for newlines.
		switch v.editFocusIdx {
		case 0, 2, 3:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case 4:
			return v, v.saveTask()
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editName, cmd = v.editName.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case 3:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *BoardView) ensureVisible() {
	visibleItems := v.listHeight()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *BoardView) listHeight() int {
	// header + pane borders + status bar
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

func (v *BoardView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editFocusIdx = 0
	v.formErr = ""
	v.editName.Reset()
	v.editDesc.Reset()
	v.editPriority.SetValue("0")
	v.editDue.Reset()
	v.updateEditFocus()
}

func (v *BoardView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editFocusIdx = 0
	v.formErr = ""
	v.editName.SetValue(task.Name)
	v.editDesc.SetValue(task.Description)
	v.editPriority.SetValue(strconv.Itoa(int(task.Priority)))
	if task.HasDueDate() {
		v.editDue.SetValue(task.DueDate)
	} else {
		v.editDue.Reset()
	}
	v.updateEditFocus()
}

func (v *BoardView) updateEditFocus() {
	v.editName.Blur()
	v.editDesc.Blur()
	v.editPriority.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editName.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editPriority.Focus()
	case 3:
		v.editDue.Focus()
	}
}

// saveTask validates the form and writes the task. Validation lives
// here: the store accepts any well-typed values.
func (v *BoardView) saveTask() tea.Cmd {
	name := strings.TrimSpace(v.editName.Value())
	if name == "" {
		v.formErr = "Task name cannot be empty."
		return nil
	}

	due := strings.TrimSpace(v.editDue.Value())
	if due != "" {
		if _, err := time.Parse("2006-01-02", due); err != nil {
			v.formErr = "Due date must be YYYY-MM-DD."
			return nil
		}
	} else {
		due = models.NoDueDate
	}

	priority, _ := strconv.Atoi(strings.TrimSpace(v.editPriority.Value()))
	priority = clamp(priority, int(models.PriorityLow), int(models.PriorityCritical))

	desc := strings.TrimSpace(v.editDesc.Value())

	if v.editingNew {
		if _, err := v.db.CreateTask(db.TaskInput{
			Name:        name,
			Description: desc,
			Priority:    models.Priority(priority),
			DueDate:     due,
		}); err != nil {
			v.err = err
		}
	} else if len(v.tasks) > 0 {
		p := models.Priority(priority)
		update := db.TaskUpdate{
			Name:        &name,
			Description: &desc,
			Priority:    &p,
			DueDate:     &due,
		}
		if err := v.db.UpdateTask(v.tasks[v.cursor].ID, update); err != nil {
			v.err = err
		}
	}

	v.editing = false
	v.formErr = ""
	return v.loadTasks
}

// View renders the view
func (v *BoardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderPanes())
	b.WriteString("\n")
	b.WriteString(v.renderStatusBar())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	title := s.Title.Render("Task Board")
	filter := s.TitleMuted.Render(fmt.Sprintf("  %s · %d task(s)", v.filter.label(), len(v.tasks)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, filter)
}

func (v *BoardView) renderPanes() string {
	contentWidth := styles.ContentWidth(v.width)
	listWidth := clamp(contentWidth/2, 24, 50)
	detailWidth := max(contentWidth-listWidth-6, 20)

	list := v.styles.PaneFocused.Width(listWidth).Render(v.renderList(listWidth))
	detail := v.styles.Pane.Width(detailWidth).Render(v.renderDetail(detailWidth))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (v *BoardView) renderList(width int) string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks here. Press 'n' to create one.")
	}

	today := time.Now()
	visibleItems := v.listHeight()
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderListItem(v.tasks[i], i == v.cursor, width, today))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *BoardView) renderListItem(task models.Task, selected bool, width int, today time.Time) string {
	s := v.styles
	t := styles.Current

	marker := "○"
	if task.IsComplete {
		marker = "●"
	}
	dot := lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render(marker)

	due := DueShort(task.DueDate, today)
	dueStyle := lipgloss.NewStyle().Foreground(t.ForegroundDim)
	if days, ok := DueDays(task.DueDate, today); ok {
		dueStyle = dueStyle.Foreground(t.DueColor(days))
	}

	nameWidth := max(width-lipgloss.Width(due)-6, 8)
	name := task.Name
	if lipgloss.Width(name) > nameWidth {
		name = name[:nameWidth-1] + "…"
	}

	line := fmt.Sprintf("%s %-*s %s", dot, nameWidth, name, dueStyle.Render(due))
	if selected {
		return s.ListSelected.Width(width - 2).Render(line)
	}
	return s.ListItem.Width(width - 2).Render(line)
}

func (v *BoardView) renderDetail(width int) string {
	s := v.styles
	t := styles.Current

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("Nothing selected")
	}

	task := v.tasks[v.cursor]
	textWidth := clamp(width-2, 16, 70)
	today := time.Now()

	priority := lipgloss.NewStyle().
		Foreground(t.PriorityColor(task.Priority)).
		Bold(true).
		Render(task.Priority.Label())

	dueLabel := DueLabel(task.DueDate, today)
	dueStyle := lipgloss.NewStyle().Foreground(t.Foreground)
	if days, ok := DueDays(task.DueDate, today); ok {
		dueStyle = dueStyle.Foreground(t.DueColor(days))
	}

	status := "Open"
	if task.IsComplete {
		status = "Completed"
	}
	if task.IsHidden {
		status += " · hidden"
	}

	desc := task.Description
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(task.Name),
		"",
		s.DetailLabel.Render("Status"),
		status,
		"",
		s.DetailLabel.Render("Priority"),
		priority,
		"",
		s.DetailLabel.Render("Due"),
		dueStyle.Render(dueLabel),
		"",
		s.DetailLabel.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(desc),
		"",
		s.DetailLabel.Render("Created"),
		s.TitleMuted.Render(task.CreatedAt),
	)
}

func (v *BoardView) renderStatusBar() string {
	s := v.styles

	if v.err != nil {
		return s.StatusErr.Render("error: " + v.err.Error())
	}

	return s.Help.Render(
		fmt.Sprintf("%s toggle done • %s new • %s edit • %s del • %s filter • %s quit",
			s.HelpKey.Render("space"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *BoardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	nameStyle := s.Input
	descStyle := s.Input
	priorityStyle := s.Input
	dueStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		priorityStyle = s.InputFocused
	case 3:
		dueStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	errLine := ""
	if v.formErr != "" {
		errLine = s.StatusErr.Render(v.formErr)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.editName.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		"Priority (0=Low 1=Medium 2=High 3=Critical):",
		priorityStyle.Width(10).Render(v.editPriority.View()),
		"",
		"Due date:",
		dueStyle.Width(inputWidth).Render(v.editDue.View()),
		"",
		btnStyle.Render(" Save "),
		errLine,
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be hidden from every view.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
