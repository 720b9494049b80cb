package tui

import (
	"fmt"
	"strings"

	"cinemox-cli/booking"

	"github.com/charmbracelet/lipgloss"
)

type screenBlock struct {
	top string
	mid string
	bot string
}

func (m appModel) renderBookingView() string {
	session := m.controller.Session()
	if session == nil {
		return "No schedule selected."
	}
	cells := session.Cells()
	if len(cells) == 0 {
		return "No seat map data."
	}

	var b strings.Builder
	b.WriteString(m.renderSeatMap(session, cells))
	b.WriteString("\n")

	sum := session.Summary()
	label := lipgloss.NewStyle().Bold(true)
	b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Selected Seats:"), sum.SeatsText))
	b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Total:"), sum.TotalText))
	if session.State() == booking.StateSubmitting {
		b.WriteString("\n" + m.spinner.View() + " Processing booking")
	}
	return b.String()
}

func (m appModel) renderSeatMap(session *booking.Session, cells []booking.SeatCell) string {
	grid := session.Grid()
	cellWidth := 3
	rowWidth := 1

	seatStyleAvailable := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleBooked := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Faint(true)
	seatStyleSelected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	gridWidth := grid.Cols*(cellWidth+1) - 1
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))
	screenBar := screenBarBlock(gridWidth, "SCREEN")

	var b strings.Builder
	pad := strings.Repeat(" ", rowWidth+1)
	b.WriteString(pad + screenBorderStyle.Render(screenBar.top) + "\n")
	b.WriteString(pad + screenStyle.Render(screenBar.mid) + "\n")
	b.WriteString(pad + screenBorderStyle.Render(screenBar.bot) + "\n\n")

	for _, row := range booking.Rows(cells) {
		if len(row) == 0 {
			continue
		}
		rowLabel := string(row[0].Label[:1])
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, rowLabel))
		for i, cell := range row {
			text := strings.TrimPrefix(string(cell.Label), rowLabel)
			if cell.Booked {
				text = "XX"
			}
			rendered := padCell(text, cellWidth)
			switch {
			case cell.Booked:
				rendered = seatStyleBooked.Render(rendered)
			case session.IsSelected(cell.Label):
				rendered = seatStyleSelected.Render(rendered)
			default:
				rendered = seatStyleAvailable.Render(rendered)
			}
			if cell.Index == m.cursor {
				rendered = cursorStyle.Render(rendered)
			}
			b.WriteString(rendered)
			if i < len(row)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %-*s\n", rowWidth, rowLabel))
	}

	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString(fmt.Sprintf("%s available  %s selected  %s booked\n",
		seatStyleAvailable.Render("[ ]"),
		seatStyleSelected.Render("[ ]"),
		seatStyleBooked.Render("XX"),
	))
	return b.String()
}

// firstAvailable places the cursor on the first seat that can be toggled.
func firstAvailable(session *booking.Session) int {
	for _, cell := range session.Cells() {
		if cell.Available() {
			return cell.Index
		}
	}
	return 1
}

// moveCursor steps the 1-based cursor by dRow/dCol, staying on the grid.
func moveCursor(grid booking.Grid, cursor int, dRow int, dCol int) int {
	if grid.Capacity <= 0 || grid.Cols <= 0 {
		return 1
	}
	if cursor < 1 || cursor > grid.Capacity {
		return 1
	}
	row := (cursor - 1) / grid.Cols
	col := (cursor - 1) % grid.Cols
	row += dRow
	col += dCol
	if col < 0 || col >= grid.Cols || row < 0 {
		return cursor
	}
	next := row*grid.Cols + col + 1
	if next > grid.Capacity {
		return cursor
	}
	return next
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
