package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskboard/internal/db"
	"taskboard/internal/models"
)

// Exporter renders the visible board in portable formats
type Exporter struct {
	db *db.DB
}

// NewExporter creates an exporter over the given store
func NewExporter(database *db.DB) *Exporter {
	return &Exporter{db: database}
}

type exportTask struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
	DueDate     string `json:"due_date,omitempty"`
	IsComplete  bool   `json:"is_complete"`
}

// Export renders every visible task, incomplete first, in the requested
// format. Hidden tasks are never exported.
func (e *Exporter) Export(format string) ([]byte, error) {
	open, err := e.db.ListIncomplete()
	if err != nil {
		return nil, err
	}
	done, err := e.db.ListComplete()
	if err != nil {
		return nil, err
	}
	tasks := append(open, done...)

	switch strings.ToLower(format) {
	case "json":
		out := make([]exportTask, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, toExportTask(t))
		}
		return json.MarshalIndent(out, "", "  ")

	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "name", "description", "priority", "created_at", "due_date", "is_complete"})
		for _, t := range tasks {
			due := ""
			if t.HasDueDate() {
				due = t.DueDate
			}
			_ = w.Write([]string{
				strconv.FormatInt(t.ID, 10),
				t.Name,
				t.Description,
				t.Priority.Label(),
				t.CreatedAt,
				due,
				strconv.FormatBool(t.IsComplete),
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil

	case "pdf":
		return renderPDF(tasks)

	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func toExportTask(t models.Task) exportTask {
	out := exportTask{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Priority:    t.Priority.Label(),
		CreatedAt:   t.CreatedAt,
		IsComplete:  t.IsComplete,
	}
	if t.HasDueDate() {
		out.DueDate = t.DueDate
	}
	return out
}

func renderPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Board Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 8, time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		state := "open"
		if t.IsComplete {
			state = "done"
		}
		due := "no due date"
		if t.HasDueDate() {
			due = "due " + t.DueDate
		}
		line := fmt.Sprintf("[%s] %s — %s (%s)", t.Priority.Label(), t.Name, due, state)
		pdf.MultiCell(0, 6, line, "0", "L", false)
		if t.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, t.Description, "0", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
		pdf.Ln(2)
	}

	var buf strings.Builder
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
