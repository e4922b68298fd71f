package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
	}
}

// AddRow appends a row of values.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// Render produces the formatted table string with leading indent.
// Widths are measured in terminal cells, so "İSTANBUL" lines up with
// "ANKARA".
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlightRow {
			sb.WriteString("  " + Accent(line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

// formatRow pads each cell to its column width.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	}
	return strings.Join(parts, "  ")
}

// MonthTable lays out a monthly table with the first row (today) highlighted.
func MonthTable(table api.MonthlyTable) *Table {
	t := NewTable([]string{"Tarih", "İmsak", "Güneş", "Öğle", "İkindi", "Akşam", "Yatsı"})
	for _, row := range table {
		t.AddRow([]string{
			row.MiladiTarihKisa, row.Imsak, row.Gunes, row.Ogle, row.Ikindi, row.Aksam, row.Yatsi,
		})
	}
	if len(table) > 0 {
		t.SetHighlightRow(0)
	}
	return t
}

// CityTable lists cities with their ids, highlighting selectedID when present.
func CityTable(cities []api.City, selectedID string) *Table {
	t := NewTable([]string{"ID", "Şehir"})
	for i, c := range cities {
		t.AddRow([]string{c.SehirID, c.SehirAdi})
		if c.SehirID == selectedID {
			t.SetHighlightRow(i)
		}
	}
	return t
}
