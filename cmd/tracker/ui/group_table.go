package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GroupTable renders rows in groups whose leading columns are merged: the
// lead cells are printed on the first row of a group only, and a thin rule
// separates consecutive groups.
type GroupTable struct {
	Headers []string
	Merged  int // number of leading columns shared by a group
	// MaxCellWidth truncates wider cells with an ellipsis; 0 disables.
	MaxCellWidth int

	groups []tableGroup
}

type tableGroup struct {
	lead []string
	rows [][]string
}

// NewGroupTable creates a table whose first merged columns are group-level.
func NewGroupTable(headers []string, merged int) *GroupTable {
	if merged > len(headers) {
		merged = len(headers)
	}
	if merged < 0 {
		merged = 0
	}
	return &GroupTable{
		Headers: headers,
		Merged:  merged,
	}
}

// AddGroup appends a group. lead holds the merged columns; each row holds
// the remaining columns. A group with no rows is not rendered.
func (t *GroupTable) AddGroup(lead []string, rows ...[]string) {
	if len(rows) == 0 {
		return
	}
	t.groups = append(t.groups, tableGroup{lead: lead, rows: rows})
}

// Len returns the number of rendered body rows.
func (t *GroupTable) Len() int {
	n := 0
	for _, g := range t.groups {
		n += len(g.rows)
	}
	return n
}

// cells expands one group row into full-width cells. Lead cells are blank
// unless first is set.
func (t *GroupTable) cells(g tableGroup, row []string, first bool) []string {
	out := make([]string, len(t.Headers))
	for i := 0; i < t.Merged; i++ {
		if first && i < len(g.lead) {
			out[i] = g.lead[i]
		}
	}
	for i, c := range row {
		if t.Merged+i < len(out) {
			out[t.Merged+i] = c
		}
	}
	for i := range out {
		out[i] = t.truncate(out[i])
	}
	return out
}

func (t *GroupTable) truncate(s string) string {
	if t.MaxCellWidth <= 0 || lipgloss.Width(s) <= t.MaxCellWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > t.MaxCellWidth {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// View renders the table using the provided styles.
func (t *GroupTable) View(styles Styles) string {
	if len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, g := range t.groups {
		for j, row := range g.rows {
			for i, cell := range t.cells(g, row, j == 0) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	// Cell styles carry one column of padding on each side
	totalWidth := len(t.Headers) - 1
	for i := range colWidths {
		colWidths[i] += 2
		totalWidth += colWidths[i]
	}

	sep := styles.Separator.Render("│")
	var sb strings.Builder

	writeRow := func(style lipgloss.Style, cells []string) {
		for i, c := range cells {
			sb.WriteString(style.Width(colWidths[i]).Render(c))
			if i < len(cells)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	writeRow(styles.TableHeader, t.Headers)
	sb.WriteString(styles.Separator.Render(strings.Repeat("═", totalWidth)) + "\n")

	for gi, g := range t.groups {
		if gi > 0 {
			sb.WriteString(styles.Separator.Render(strings.Repeat("─", totalWidth)) + "\n")
		}
		for j, row := range g.rows {
			writeRow(styles.Cell, t.cells(g, row, j == 0))
		}
	}

	return sb.String()
}
