// Package tui is the terminal front end: one input box, the translation and
// summary beneath it, and key bindings for the session actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/session"
)

const defaultWidth = 80

// Guesser flags input that looks like it is already in the target language.
type Guesser interface {
	Mismatch(text string, dir session.Direction) bool
}

type Options struct {
	// Detector is optional; without one no mismatch warning is shown.
	Detector Guesser
	// Timeout bounds each translate or summarize call. Zero means none.
	Timeout time.Duration
}

type model struct {
	ctx     context.Context
	orch    *orchestrator.Orchestrator
	detect  Guesser
	timeout time.Duration

	input   textarea.Model
	spinner *Spinner

	busy    bool
	pending action
	cancel  context.CancelFunc

	status  string
	warning string
	err     error

	width  int
	height int
}

func initialModel(ctx context.Context, orch *orchestrator.Orchestrator, opts Options) model {
	ta := textarea.New()
	ta.Placeholder = "Type or paste text to translate..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(6)
	ta.SetValue(orch.State().InputText)
	ta.Focus()

	return model{
		ctx:     ctx,
		orch:    orch,
		detect:  opts.Detector,
		timeout: opts.Timeout,
		input:   ta,
		spinner: NewSpinner(),
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 2)
		return m, nil

	case tickMsg:
		if !m.busy {
			return m, nil
		}
		m.spinner.Next()
		return m, tickCmd()

	case actionDoneMsg:
		return m.finishAction(msg), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "esc":
			if m.busy {
				if m.cancel != nil {
					m.cancel()
				}
				m.status = fmt.Sprintf("cancelling %s...", m.pending)
				return m, nil
			}
			return m, tea.Quit
		}

		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+t":
			return m.startAction(actionTranslate)
		case "ctrl+s":
			return m.startAction(actionSummarize)
		case "ctrl+r":
			return m.reset(), nil
		case "ctrl+d", "f2":
			return m.toggleDirection(), nil
		}
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) startAction(a action) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""

	if a == actionTranslate {
		text := m.input.Value()
		if err := m.orch.SetInput(text); err != nil {
			m.err = err
			return m, nil
		}
		m.warning = m.mismatchWarning(text)
		if strings.TrimSpace(text) == "" {
			m.status = "nothing to translate"
			return m, nil
		}
	} else if strings.TrimSpace(m.orch.State().TranslatedText) == "" {
		m.status = "translate something first"
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.busy = true
	m.pending = a
	return m, tea.Batch(runActionCmd(ctx, m.orch, a, m.timeout), tickCmd())
}

func (m model) finishAction(msg actionDoneMsg) model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false

	switch {
	case msg.Err == nil:
		if msg.Action == actionSummarize {
			m.status = "summary ready"
		} else {
			m.status = "translation ready"
		}
	case errors.Is(msg.Err, context.Canceled):
		m.status = fmt.Sprintf("%s cancelled", msg.Action)
	default:
		m.err = msg.Err
	}
	return m
}

func (m model) reset() model {
	if err := m.orch.Reset(); err != nil {
		m.err = err
		return m
	}
	m.input.Reset()
	m.err = nil
	m.warning = ""
	m.status = "cleared"
	return m
}

func (m model) toggleDirection() model {
	dir := m.orch.State().Direction.Other()
	if err := m.orch.ChangeDirection(dir); err != nil {
		m.err = err
		return m
	}
	m.input.SetValue(m.orch.State().InputText)
	m.err = nil
	m.warning = ""
	m.status = "direction: " + dir.Label()
	return m
}

func (m model) mismatchWarning(text string) string {
	if m.detect == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	dir := m.orch.State().Direction
	if !m.detect.Mismatch(text, dir) {
		return ""
	}
	return fmt.Sprintf("input looks like %s already; press ctrl+d to switch to %s",
		strings.ToUpper(dir.TargetLang()), dir.Other().Label())
}

func (m model) View() string {
	st := m.orch.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(st.Direction) + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(m.renderPanel(fmt.Sprintf("Translation (%s)", strings.ToUpper(st.Direction.TargetLang())), st.TranslatedText) + "\n")
	b.WriteString(m.renderPanel(fmt.Sprintf("Summary (%s)", strings.ToUpper(st.Direction.SummaryLang())), st.SummarizedText) + "\n")
	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderHeader(dir session.Direction) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)

	return style.Render("enkor · " + dir.Label())
}

func (m model) renderPanel(title, body string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	bodyStyle := lipgloss.NewStyle().
		Width(m.width - 2).
		Foreground(lipgloss.Color("252"))

	if strings.TrimSpace(body) == "" {
		bodyStyle = bodyStyle.Foreground(lipgloss.Color("240")).Italic(true)
		body = "(empty)"
	}

	return titleStyle.Render(title) + "\n" + bodyStyle.Render(body) + "\n"
}

func (m model) renderStatus() string {
	var lines []string
	if m.busy {
		label := "translating..."
		if m.pending == actionSummarize {
			label = "summarizing..."
		}
		lines = append(lines, busyLine(m.spinner, label))
	} else if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(m.status))
	}
	if m.warning != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("! "+m.warning))
	}
	if m.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter() string {
	info := "ctrl+t: translate • ctrl+s: summarize • ctrl+d: switch direction • ctrl+r: reset • esc: quit"

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	return style.Render(info)
}

// Run shows the terminal UI for orch until the user quits.
func Run(ctx context.Context, orch *orchestrator.Orchestrator, opts Options) error {
	p := tea.NewProgram(
		initialModel(ctx, orch, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := finalModel.(model); ok && m.cancel != nil {
		m.cancel()
	}
	return nil
}
