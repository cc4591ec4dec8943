// Package widgets holds the pane chrome shared by the workspace grid and the
// pinned dock.
package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Dot is the pane's liveness indicator state. Unknown means the session has
// not been probed yet, which renders differently from known-dead.
type Dot int

const (
	DotUnknown Dot = iota
	DotRunning
	DotExited
)

// Tab is one entry of the session strip inside a pane.
type Tab struct {
	Label  string
	Active bool
}

// Pane renders one panel card: rounded border with the title embedded in the
// top edge, an optional session tab strip, then the content lines.
type Pane struct {
	Title    string
	Dot      Dot
	Tabs     []Tab
	Content  string
	Selected bool
	Focused  bool
	Pinned   bool
}

func (p Pane) Render(width, height int) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	border := lipgloss.Color("#585b70")
	if p.Selected {
		border = lipgloss.Color("#89b4fa")
	}
	if p.Focused {
		border = lipgloss.Color("#a6e3a1")
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	contentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))

	innerWidth := width - 2
	contentWidth := innerWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
		innerWidth = contentWidth + 2
		width = innerWidth + 2
	}

	marker := ""
	if p.Pinned {
		marker = "⦿ "
	}
	title := strings.TrimSpace(marker + p.Title)
	titleText := " " + p.dotGlyph() + " " + title + " "
	if ansi.StringWidth(titleText) > innerWidth {
		titleText = " " + p.dotGlyph() + " " + ansi.Truncate(title, max(1, innerWidth-6), "") + " "
	}
	titleW := ansi.StringWidth(titleText)
	dashes := innerWidth - titleW
	if dashes < 0 {
		dashes = 0
	}
	leftDash := 1
	if dashes == 0 {
		leftDash = 0
	} else if leftDash > dashes {
		leftDash = dashes
	}
	rightDash := dashes - leftDash

	v := borderStyle.Render("│")
	top := borderStyle.Render("╭") +
		borderStyle.Render(strings.Repeat("─", leftDash)) +
		titleStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat("─", rightDash)) +
		borderStyle.Render("╮")

	innerHeight := height - 2
	var bodyLines []string
	if len(p.Tabs) > 1 {
		bodyLines = append(bodyLines, tabStrip(p.Tabs, contentWidth))
	}
	if strings.TrimSpace(p.Content) != "" {
		bodyLines = append(bodyLines, strings.Split(p.Content, "\n")...)
	}
	if len(bodyLines) == 0 {
		bodyLines = []string{""}
	}
	// keep the tail in view when the content overflows
	if len(bodyLines) > innerHeight {
		bodyLines = bodyLines[len(bodyLines)-innerHeight:]
	}

	rows := make([]string, 0, innerHeight+2)
	rows = append(rows, top)
	for i := 0; i < innerHeight; i++ {
		line := ""
		if i < len(bodyLines) {
			line = bodyLines[i]
		}
		line = ansi.Truncate(line, contentWidth, "")
		line = contentStyle.Render(line)
		rows = append(rows, v+" "+PadRight(line, contentWidth)+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰")+borderStyle.Render(strings.Repeat("─", innerWidth))+borderStyle.Render("╯"))

	return strings.Join(rows, "\n")
}

func (p Pane) dotGlyph() string {
	switch p.Dot {
	case DotRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Render("●")
	case DotExited:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")).Render("○")
	}
}

// tabStrip lays the session tabs into one line, each label truncated to its
// share of the width.
func tabStrip(tabs []Tab, width int) string {
	if len(tabs) == 0 || width <= 0 {
		return ""
	}
	on := lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))

	each := width/len(tabs) - 1
	if each < 2 {
		each = 2
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := runewidth.Truncate(t.Label, each, "…")
		if t.Active {
			parts = append(parts, on.Render(label))
		} else {
			parts = append(parts, off.Render(label))
		}
	}
	return strings.Join(parts, off.Render("┊"))
}

// Header renders a one-line dock card header: expansion chevron, liveness
// dot, title, dashes to fill.
func Header(title string, dot Dot, expanded bool, width int) string {
	if width <= 0 {
		return ""
	}
	chevron := "▸"
	if expanded {
		chevron = "▾"
	}
	d := Pane{Dot: dot}.dotGlyph()
	label := chevron + " " + d + " " + title
	if ansi.StringWidth(label) > width {
		label = ansi.Truncate(label, width, "…")
	}
	return PadRight(label, width)
}

// PadRight pads s with spaces to width, truncating first if it overflows.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
