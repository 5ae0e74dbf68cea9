package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Spinner cycles through braille frames while a backend call runs.
type Spinner struct {
	frames []string
	frame  int
}

func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	}
}

func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(s.frames)
}

func (s *Spinner) View() string {
	return s.frames[s.frame]
}

// busyLine renders the spinner followed by a status label.
func busyLine(s *Spinner, label string) string {
	spinnerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	return fmt.Sprintf("%s %s %s",
		spinnerStyle.Render(s.View()),
		labelStyle.Render(label),
		hintStyle.Render("[esc to cancel]"))
}
