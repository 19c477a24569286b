package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants
const (
	// chromeHeight is the vertical space the header, status bar, messages
	// and help bar take away from the row list.
	chromeHeight = 8

	minVisibleRows = 5
)

// visibleRows returns how many launch rows fit in the current terminal.
func (m Model) visibleRows() int {
	rows := m.height - chromeHeight
	if m.adding {
		rows -= 3
	}
	if rows < minVisibleRows {
		rows = minVisibleRows
	}
	return rows
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting ferry..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("ferry — launch dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())

	if m.adding {
		b.WriteString("\n")
		b.WriteString(inputBoxStyle.Render("launch: " + m.input.View()))
	}

	if m.errorMessage != "" {
		b.WriteString("\n")
		b.WriteString(errorMsgStyle.Render(m.errorMessage))
	} else if m.infoMessage != "" {
		b.WriteString("\n")
		b.WriteString(infoMsgStyle.Render(m.infoMessage))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderStatusBar shows aggregate counts and the open queues.
func (m Model) renderStatusBar() string {
	running, finished, failed, canceled := m.counts()
	parts := []string{
		fmt.Sprintf("running %d", running),
		fmt.Sprintf("done %d", finished),
		fmt.Sprintf("failed %d", failed),
		fmt.Sprintf("canceled %d", canceled),
	}
	if names := m.queueNames(); len(names) > 0 {
		parts = append(parts, "queues: "+strings.Join(names, ", "))
	}
	return statusBarStyle.Render(strings.Join(parts, "  │  "))
}

// renderRows renders the visible slice of launch rows.
func (m Model) renderRows() string {
	if len(m.rows) == 0 {
		return rowTargetStyle.Render("  No launches yet. Press 'a' to start one.")
	}

	visible := m.visibleRows()
	start := m.scroll
	if start > len(m.rows)-1 {
		start = len(m.rows) - 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-start)
	for _, row := range m.rows[start:end] {
		lines = append(lines, m.renderRow(row))
	}
	if end < len(m.rows) {
		lines = append(lines, rowTargetStyle.Render(fmt.Sprintf("  … %d more", len(m.rows)-end)))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders a single launch line.
func (m Model) renderRow(row launchRow) string {
	icon := lipgloss.NewStyle().Foreground(statusColor(row.status)).Render(statusIcon(row.status))

	var ts string
	if m.showTimestamps {
		ts = timestampStyle.Render(row.started.Format("15:04:05")) + " "
	}

	elapsed := row.duration
	if row.status == statusRunning {
		elapsed = time.Since(row.started)
	}

	detail := elapsed.Truncate(time.Millisecond).String()
	if row.err != "" {
		detail += "  " + errorMsgStyle.Render(row.err)
	}

	line := fmt.Sprintf("%s %s%s %s  %s",
		icon,
		ts,
		rowLabelStyle.Render(row.label),
		rowTargetStyle.Render("→ "+row.target),
		detail)

	return rowStyle.Render(truncate(line, m.width-2))
}

// renderHelpBar renders the key hints.
func (m Model) renderHelpBar() string {
	if m.adding {
		return helpBarStyle.Render(
			helpKeyStyle.Render("enter") + " launch  " +
				helpKeyStyle.Render("esc") + " cancel")
	}
	return helpBarStyle.Render(
		helpKeyStyle.Render("a") + " add  " +
			helpKeyStyle.Render("c") + " clear done  " +
			helpKeyStyle.Render("j/k") + " scroll  " +
			helpKeyStyle.Render("q") + " quit")
}

// truncate shortens a styled line to maxWidth visual columns, preserving
// ANSI escape sequences.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}
