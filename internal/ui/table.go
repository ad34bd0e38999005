package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/recfetch/internal/recordings"
)

const recordedLayout = "2006-01-02 15:04:05"

var tableHeaders = []string{"ID", "Type", "Recorded", "Duration", "Device", "State"}

const stateColumn = 5

// RenderRows writes query results as a bordered table. An empty result
// prints a single muted line instead of an empty table.
func RenderRows(w io.Writer, rows []recordings.Summary, theme Theme) error {
	styles := theme.Styles()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, styles.MutedText.Render("No recordings found."))
		return err
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, rowCells(r))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		Headers(tableHeaders...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.Header
			case col == stateColumn && row >= 0 && row < len(data):
				return styles.StateStyle(data[row][col])
			default:
				return styles.Cell
			}
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, styles.FaintText.Render(fmt.Sprintf("%d recording(s)", len(rows))))
	return err
}

func rowCells(r recordings.Summary) []string {
	recorded := ""
	if at := r.RecordedAt(); !at.IsZero() {
		recorded = at.Local().Format(recordedLayout)
	}
	duration := ""
	if r.Duration > 0 {
		duration = humanizeDuration(r.Length())
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Type,
		recorded,
		duration,
		truncate(r.DeviceLabel(), 24),
		r.ProcessingState,
	}
}
