// Package orchestrator drives one user session: it turns the five user
// actions (edit input, translate, summarize, reset, change direction) into
// collaborator calls and session mutations.
//
// The orchestrator runs one action at a time. While a collaborator call is in
// flight the phase is Translating or Summarizing and every other action is
// rejected with ErrBusy. Collaborator failures never escape as panics or
// stale results: the affected field is cleared and the error is kept for the
// surface to display.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal/postprocess"
	"github.com/qnjualonzo/enkor/internal/session"
)

// DefaultSentenceCount is the summary length used when none is configured.
const DefaultSentenceCount = 3

// Translator is the translation capability the orchestrator depends on.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Summarizer is the summarization capability the orchestrator depends on.
type Summarizer interface {
	Summarize(ctx context.Context, text, lang string, sentenceCount int) (string, error)
}

// ErrBusy is returned for any action attempted while a call is in flight.
var ErrBusy = errors.New("orchestrator: another action is in progress")

type Phase int

const (
	Idle Phase = iota
	Translating
	Summarizing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Translating:
		return "translating"
	case Summarizing:
		return "summarizing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type OrchestratorConfig struct {
	// SentenceCount is passed to the summarizer; values below 1 mean
	// DefaultSentenceCount.
	SentenceCount int
	Logger        *zap.SugaredLogger
}

// Snapshot is a consistent view of the orchestrator for rendering.
type Snapshot struct {
	Phase Phase
	State session.State
	Err   error
}

type Orchestrator struct {
	mu         sync.Mutex
	sess       *session.Session
	translator Translator
	summarizer Summarizer
	config     OrchestratorConfig
	log        *zap.SugaredLogger

	phase     Phase
	lastErr   error
	observers []func(from, to Phase)
}

// New wires a session to its collaborators. A nil session starts a fresh one.
func New(sess *session.Session, tr Translator, sm Summarizer, config OrchestratorConfig) *Orchestrator {
	if sess == nil {
		sess = session.New()
	}
	if config.SentenceCount < 1 {
		config.SentenceCount = DefaultSentenceCount
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		sess:       sess,
		translator: tr,
		summarizer: sm,
		config:     config,
		log:        log,
	}
}

// Observe registers fn to be called after every phase transition. Observers
// run outside the internal lock and may call Snapshot.
func (o *Orchestrator) Observe(fn func(from, to Phase)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{Phase: o.phase, State: o.sess.Get(), Err: o.lastErr}
}

func (o *Orchestrator) State() session.State {
	return o.Snapshot().State
}

func (o *Orchestrator) Phase() Phase {
	return o.Snapshot().Phase
}

// LastError is the most recent collaborator failure, or nil once a later
// action has started.
func (o *Orchestrator) LastError() error {
	return o.Snapshot().Err
}

// SetInput records the user's edit of the input text.
func (o *Orchestrator) SetInput(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != Idle {
		return ErrBusy
	}
	o.sess.SetInput(text)
	return nil
}

// ChangeDirection switches the translation pairing. Picking the current
// direction does nothing; picking the other one clears every text field.
func (o *Orchestrator) ChangeDirection(d session.Direction) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != Idle {
		return ErrBusy
	}
	if o.sess.SetDirection(d) {
		o.lastErr = nil
		o.log.Debugw("direction changed", "direction", d.String())
	}
	return nil
}

// Reset clears the text fields and keeps the direction.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != Idle {
		return ErrBusy
	}
	o.sess.Reset()
	o.lastErr = nil
	o.log.Debugw("session reset")
	return nil
}

// RequestTranslate translates the input text. Whitespace-only input is
// ignored without calling the translator. On success the normalized
// translation replaces the previous one and the summary is cleared; on
// failure both are cleared and a *TranslationError is returned.
func (o *Orchestrator) RequestTranslate(ctx context.Context) error {
	o.mu.Lock()
	if o.phase != Idle {
		o.mu.Unlock()
		return ErrBusy
	}
	st := o.sess.Get()
	if strings.TrimSpace(st.InputText) == "" {
		o.mu.Unlock()
		o.log.Debugw("translate ignored: empty input")
		return nil
	}
	o.phase = Translating
	o.lastErr = nil
	o.mu.Unlock()
	o.notify(Idle, Translating)

	src, tgt := st.Direction.SourceLang(), st.Direction.TargetLang()
	o.log.Debugw("translate requested", "source", src, "target", tgt, "chars", len(st.InputText))

	out, err := o.callTranslate(ctx, st.InputText, src, tgt)

	var result error
	o.mu.Lock()
	if err != nil {
		o.sess.SetTranslated("")
		result = &TranslationError{Backend: nameOf(o.translator), SourceLang: src, TargetLang: tgt, Err: err}
		o.lastErr = result
	} else {
		o.sess.SetTranslated(postprocess.SpaceSentences(out))
	}
	o.phase = Idle
	o.mu.Unlock()
	o.notify(Translating, Idle)

	if result != nil {
		o.log.Warnw("translation failed", "source", src, "target", tgt, "error", err)
	}
	return result
}

// RequestSummarize summarizes the current translation. An empty translation
// is ignored without calling the summarizer. On failure the summary is
// cleared and a *SummarizationError is returned.
func (o *Orchestrator) RequestSummarize(ctx context.Context) error {
	o.mu.Lock()
	if o.phase != Idle {
		o.mu.Unlock()
		return ErrBusy
	}
	st := o.sess.Get()
	if strings.TrimSpace(st.TranslatedText) == "" {
		o.mu.Unlock()
		o.log.Debugw("summarize ignored: no translation")
		return nil
	}
	o.phase = Summarizing
	o.lastErr = nil
	o.mu.Unlock()
	o.notify(Idle, Summarizing)

	lang := st.Direction.SummaryLang()
	text := postprocess.SpaceSentences(st.TranslatedText)
	o.log.Debugw("summarize requested", "lang", lang, "sentences", o.config.SentenceCount)

	out, err := o.callSummarize(ctx, text, lang)

	var result error
	o.mu.Lock()
	if err != nil {
		o.sess.SetSummarized("")
		result = &SummarizationError{Backend: nameOf(o.summarizer), Lang: lang, Err: err}
		o.lastErr = result
	} else {
		o.sess.SetSummarized(out)
	}
	o.phase = Idle
	o.mu.Unlock()
	o.notify(Summarizing, Idle)

	if result != nil {
		o.log.Warnw("summarization failed", "lang", lang, "error", err)
	}
	return result
}

func (o *Orchestrator) callTranslate(ctx context.Context, text, src, tgt string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translator panicked: %v", r)
		}
	}()
	return o.translator.Translate(ctx, text, src, tgt)
}

func (o *Orchestrator) callSummarize(ctx context.Context, text, lang string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("summarizer panicked: %v", r)
		}
	}()
	return o.summarizer.Summarize(ctx, text, lang, o.config.SentenceCount)
}

func (o *Orchestrator) notify(from, to Phase) {
	o.mu.Lock()
	observers := append([]func(from, to Phase){}, o.observers...)
	o.mu.Unlock()
	for _, fn := range observers {
		fn(from, to)
	}
}

// nameOf returns the collaborator's Name() when it has one.
func nameOf(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
