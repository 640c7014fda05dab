package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/db"
	"taskboard/internal/ui/views"
)

// App is the root Bubble Tea model. The board view owns all interaction;
// the app keeps the window size and forwards everything else.
type App struct {
	board  *views.BoardView
	width  int
	height int
}

// NewApp creates a new application
func NewApp(database *db.DB) *App {
	return &App{board: views.NewBoardView(database)}
}

func (a *App) Init() tea.Cmd {
	return a.board.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
	}

	_, cmd := a.board.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.board.View()
}
