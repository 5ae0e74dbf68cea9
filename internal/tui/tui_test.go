package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/session"
)

type fakeTranslator struct {
	out   string
	err   error
	block bool
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

type fakeSummarizer struct {
	out string
	err error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text, lang string, n int) (string, error) {
	return f.out, f.err
}

type fakeGuesser bool

func (g fakeGuesser) Mismatch(string, session.Direction) bool { return bool(g) }

func newTestModel(tr *fakeTranslator, sm *fakeSummarizer, opts Options) model {
	orch := orchestrator.New(nil, tr, sm, orchestrator.OrchestratorConfig{})
	return initialModel(context.Background(), orch, opts)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

// awaitDone runs cmd, expanding batches, until the action result arrives.
func awaitDone(t *testing.T, cmd tea.Cmd) actionDoneMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case actionDoneMsg:
			return msg
		}
	}
	t.Fatal("no actionDoneMsg produced")
	return actionDoneMsg{}
}

func TestModelInitialization(t *testing.T) {
	m := newTestModel(&fakeTranslator{}, &fakeSummarizer{}, Options{})

	if m.busy {
		t.Error("new model should not be busy")
	}
	if m.input.Value() != "" {
		t.Errorf("input should start empty, got %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "EN to KO") {
		t.Error("header should show the default direction")
	}
}

func TestTranslateThenSummarize(t *testing.T) {
	tr := &fakeTranslator{out: "안녕하세요.반갑습니다."}
	sm := &fakeSummarizer{out: "안녕하세요."}
	m := newTestModel(tr, sm, Options{})
	m.input.SetValue("Hello. Nice to meet you.")

	m, cmd := update(t, m, key("ctrl+t"))
	if !m.busy {
		t.Fatal("model should be busy while translating")
	}
	m, _ = update(t, m, awaitDone(t, cmd))

	if m.busy {
		t.Error("model should be idle after the translation arrives")
	}
	if got := m.orch.State().TranslatedText; got != "안녕하세요. 반갑습니다." {
		t.Errorf("translated text = %q", got)
	}
	if !strings.Contains(m.View(), "안녕하세요. 반갑습니다.") {
		t.Error("view should show the translation")
	}

	m, cmd = update(t, m, key("ctrl+s"))
	m, _ = update(t, m, awaitDone(t, cmd))

	if got := m.orch.State().SummarizedText; got != "안녕하세요." {
		t.Errorf("summary = %q", got)
	}
	if m.status != "summary ready" {
		t.Errorf("status = %q", m.status)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	tr := &fakeTranslator{out: "x"}
	m := newTestModel(tr, &fakeSummarizer{}, Options{})
	m.input.SetValue("   ")

	m, cmd := update(t, m, key("ctrl+t"))

	if cmd != nil || m.busy {
		t.Error("whitespace input should not start a translation")
	}
	if tr.calls != 0 {
		t.Errorf("translator called %d times", tr.calls)
	}
	if m.status != "nothing to translate" {
		t.Errorf("status = %q", m.status)
	}
}

func TestSummarizeWithoutTranslation(t *testing.T) {
	m := newTestModel(&fakeTranslator{}, &fakeSummarizer{out: "s"}, Options{})

	m, cmd := update(t, m, key("ctrl+s"))

	if cmd != nil || m.busy {
		t.Error("summarize without a translation should be a no-op")
	}
	if m.status != "translate something first" {
		t.Errorf("status = %q", m.status)
	}
}

func TestTranslationErrorShown(t *testing.T) {
	m := newTestModel(&fakeTranslator{err: errors.New("quota exceeded")}, &fakeSummarizer{}, Options{})
	m.input.SetValue("Hello.")

	m, cmd := update(t, m, key("ctrl+t"))
	m, _ = update(t, m, awaitDone(t, cmd))

	var te *orchestrator.TranslationError
	if !errors.As(m.err, &te) {
		t.Fatalf("expected TranslationError, got %v", m.err)
	}
	if !strings.Contains(m.View(), "quota exceeded") {
		t.Error("view should show the error")
	}
}

func TestCancelInFlight(t *testing.T) {
	tr := &fakeTranslator{block: true}
	m := newTestModel(tr, &fakeSummarizer{}, Options{})
	m.input.SetValue("Hello.")

	m, cmd := update(t, m, key("ctrl+t"))
	done := make(chan actionDoneMsg, 1)
	go func() { done <- awaitDone(t, cmd) }()

	m, quit := update(t, m, key("esc"))
	if quit != nil {
		t.Error("esc while busy should cancel, not quit")
	}
	m, _ = update(t, m, <-done)

	if m.busy {
		t.Error("model should be idle after cancellation")
	}
	if m.err != nil {
		t.Errorf("cancellation should not be reported as an error, got %v", m.err)
	}
	if m.status != "translate cancelled" {
		t.Errorf("status = %q", m.status)
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	tr := &fakeTranslator{block: true}
	m := newTestModel(tr, &fakeSummarizer{}, Options{})
	m.input.SetValue("Hello.")

	m, cmd := update(t, m, key("ctrl+t"))
	m, _ = update(t, m, key("ctrl+d"))
	m, _ = update(t, m, key("z"))

	if m.orch.State().Direction != session.EnToKo {
		t.Error("direction should not change while busy")
	}
	if m.input.Value() != "Hello." {
		t.Errorf("input edited while busy: %q", m.input.Value())
	}

	m.cancel()
	update(t, m, awaitDone(t, cmd))
}

func TestToggleDirectionClears(t *testing.T) {
	m := newTestModel(&fakeTranslator{out: "안녕."}, &fakeSummarizer{}, Options{})
	m.input.SetValue("Hi.")
	m, cmd := update(t, m, key("ctrl+t"))
	m, _ = update(t, m, awaitDone(t, cmd))

	m, _ = update(t, m, key("ctrl+d"))

	st := m.orch.State()
	if st.Direction != session.KoToEn {
		t.Errorf("direction = %v", st.Direction)
	}
	if st.InputText != "" || st.TranslatedText != "" || m.input.Value() != "" {
		t.Error("direction change should clear every text field")
	}
	if !strings.Contains(m.View(), "KO to EN") {
		t.Error("header should show the new direction")
	}
}

func TestResetKeepsDirection(t *testing.T) {
	m := newTestModel(&fakeTranslator{out: "Hello."}, &fakeSummarizer{}, Options{})
	m, _ = update(t, m, key("ctrl+d"))
	m.input.SetValue("안녕.")
	m, cmd := update(t, m, key("ctrl+t"))
	m, _ = update(t, m, awaitDone(t, cmd))

	m, _ = update(t, m, key("ctrl+r"))

	st := m.orch.State()
	if st.Direction != session.KoToEn {
		t.Error("reset should keep the direction")
	}
	if st.TranslatedText != "" || m.input.Value() != "" {
		t.Error("reset should clear the text")
	}
}

func TestMismatchWarning(t *testing.T) {
	m := newTestModel(&fakeTranslator{out: "x"}, &fakeSummarizer{}, Options{Detector: fakeGuesser(true)})
	m.input.SetValue("안녕하세요")

	m, cmd := update(t, m, key("ctrl+t"))
	m, _ = update(t, m, awaitDone(t, cmd))

	if !strings.Contains(m.warning, "KO to EN") {
		t.Errorf("warning = %q", m.warning)
	}
}

func TestSpinnerAnimation(t *testing.T) {
	spinner := NewSpinner()
	initialFrame := spinner.View()

	spinner.Next()
	if spinner.View() == initialFrame {
		t.Error("Spinner frame should change after Next()")
	}

	for i := 0; i < 7; i++ {
		spinner.Next()
	}
	if spinner.View() != initialFrame {
		t.Error("Spinner should return to initial frame after full rotation")
	}
}
