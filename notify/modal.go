package notify

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal is a yes/no dialog.
type Modal struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Danger      bool
}

func (m Modal) confirmText() string {
	if strings.TrimSpace(m.ConfirmText) == "" {
		return "OK"
	}
	return m.ConfirmText
}

func (m Modal) cancelText() string {
	if strings.TrimSpace(m.CancelText) == "" {
		return "Cancel"
	}
	return m.CancelText
}

// Render draws the modal centered in width columns (0 = no centering).
func (m Modal) Render(width int) string {
	accent := lipgloss.Color("63")
	if m.Danger {
		accent = lipgloss.Color("203")
	}
	chip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(accent).
		Padding(0, 1)

	var parts []string
	if m.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(m.Title), "")
	}
	if m.Message != "" {
		parts = append(parts, m.Message, "")
	}
	actions := lipgloss.JoinHorizontal(
		lipgloss.Top,
		chip.Render("Y"),
		" "+m.confirmText()+"    ",
		lipgloss.NewStyle().Faint(true).Render("N/esc "+m.cancelText()),
	)
	parts = append(parts, actions)

	panelStyle := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
	if width > 56 {
		panelWidth := width - 8
		if panelWidth > 64 {
			panelWidth = 64
		}
		panelStyle = panelStyle.Width(panelWidth)
	}
	panel := panelStyle.Render(strings.Join(parts, "\n"))
	if width > 0 {
		panel = lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
	}
	return panel
}
