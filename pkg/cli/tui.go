package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Tabler is implemented by results that can be shown as a Table.
type Tabler interface {
	Table() Table
}

// Table is a boxed table with a title, a header row and a footer note.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string

	// MaxCellWidth truncates longer cells; zero means no limit.
	MaxCellWidth int
}

// Render renders the table to a string.
//
//	╭──────────────────────╮
//	│ title                │
//	├─ header ─┬─ header ──┤
//	│ cell     │ cell      │
//	╰──────────┴───────────╯
//	footer
func (t Table) Render(s Styles) string {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		cols = 1
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		text := row[i]
		if t.MaxCellWidth > 1 && lipgloss.Width(text) > t.MaxCellWidth {
			text = truncateString(text, t.MaxCellWidth-1) + "…"
		}
		return text
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = lipgloss.Width(cell(t.Headers, i))
		for _, row := range t.Rows {
			widths[i] = max(widths[i], lipgloss.Width(cell(row, i)))
		}
	}
	// Inner width: each column plus one space of padding on both sides,
	// plus separators between columns.
	inner := cols - 1
	for _, w := range widths {
		inner += w + 2
	}

	title := s.Title.Render(t.Title)
	if lipgloss.Width(title)+1 > inner {
		widths[cols-1] += lipgloss.Width(title) + 1 - inner
		inner = lipgloss.Width(title) + 1
	}

	bc := s.Border
	var lines []string
	lines = append(lines, bc.Render("╭"+strings.Repeat("─", inner)+"╮"))
	lines = append(lines, bc.Render("│")+title+strings.Repeat(" ", inner-lipgloss.Width(title))+bc.Render("│"))

	sep := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return bc.Render(left + strings.Join(parts, mid) + right)
	}
	row := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(bc.Render("│"))
		for i, w := range widths {
			text := cell(cells, i)
			pad := strings.Repeat(" ", w-lipgloss.Width(text))
			if style != nil {
				text = style.Render(text)
			}
			b.WriteString(" " + text + pad + " ")
			if i < cols-1 {
				b.WriteString(bc.Render("│"))
			}
		}
		b.WriteString(bc.Render("│"))
		return b.String()
	}

	lines = append(lines, sep("├", "┬", "┤"))
	if len(t.Headers) > 0 {
		lines = append(lines, row(t.Headers, &s.Label))
		lines = append(lines, sep("├", "┼", "┤"))
	}
	for _, r := range t.Rows {
		lines = append(lines, row(r, nil))
	}
	lines = append(lines, sep("╰", "┴", "╯"))
	if t.Footer != "" {
		lines = append(lines, s.Help.Render(t.Footer))
	}
	return strings.Join(lines, "\n")
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}
