package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
)

type action int

const (
	actionTranslate action = iota
	actionSummarize
)

func (a action) String() string {
	if a == actionSummarize {
		return "summarize"
	}
	return "translate"
}

type (
	// actionDoneMsg is sent when a translate or summarize call returns.
	actionDoneMsg struct {
		Action action
		Err    error
	}

	// tickMsg drives the spinner while a call is in flight.
	tickMsg time.Time
)

// runActionCmd performs a on the orchestrator off the UI goroutine.
func runActionCmd(ctx context.Context, orch *orchestrator.Orchestrator, a action, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		var err error
		switch a {
		case actionSummarize:
			err = orch.RequestSummarize(ctx)
		default:
			err = orch.RequestTranslate(ctx)
		}
		return actionDoneMsg{Action: a, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
