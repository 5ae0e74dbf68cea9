// Package server exposes the translate/summarize session as a small HTML page.
// Each browser gets its own orchestrator, keyed by a cookie.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/session"
)

const (
	cookieName      = "enkor_session"
	shutdownTimeout = 10 * time.Second
)

// Guesser flags input that looks like it is already in the target language.
type Guesser interface {
	Mismatch(text string, dir session.Direction) bool
}

type Config struct {
	Addr       string
	SessionTTL time.Duration
	// Timeout bounds each translate or summarize call. Zero means none.
	Timeout time.Duration
	// NewOrchestrator builds the orchestrator for a new browser session.
	NewOrchestrator func() *orchestrator.Orchestrator
	Detector        Guesser
	Logger          *zap.SugaredLogger
}

type Server struct {
	config   Config
	registry *registry
	log      *zap.SugaredLogger
}

func New(config Config) *Server {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 30 * time.Minute
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		config:   config,
		registry: newRegistry(config.SessionTTL, config.NewOrchestrator),
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/api/state", s.stateHandler)
	mux.HandleFunc("/translate", s.actionHandler(s.translate))
	mux.HandleFunc("/summarize", s.actionHandler(s.summarize))
	mux.HandleFunc("/reset", s.actionHandler(s.reset))
	mux.HandleFunc("/direction", s.actionHandler(s.direction))
	mux.HandleFunc("/", s.pageHandler)
	return s.loggingMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.evictLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server listening", "addr", s.config.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.log.Errorw("graceful shutdown failed", "error", err)
		if closeErr := server.Close(); closeErr != nil {
			s.log.Errorw("forced close failed", "error", closeErr)
		}
		return err
	}
	return nil
}

func (s *Server) evictLoop(ctx context.Context) {
	interval := s.config.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.evictExpired(); n > 0 {
				s.log.Debugw("evicted idle sessions", "count", n, "remaining", s.registry.len())
			}
		}
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, `{"status":"ok"}`); err != nil {
		s.log.Errorw("failed to write health response", "error", err)
	}
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, e := s.session(w, r)
	snap := e.orch.Snapshot()
	data := pageData{
		Directions: session.Directions,
		Direction:  snap.State.Direction,
		Input:      snap.State.InputText,
		Translated: snap.State.TranslatedText,
		Summarized: snap.State.SummarizedText,
		SourceLang: strings.ToUpper(snap.State.Direction.SourceLang()),
		TargetLang: strings.ToUpper(snap.State.Direction.TargetLang()),
		Notice:     s.registry.takeNotice(e),
	}
	if snap.Err != nil {
		data.Error = snap.Err.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Errorw("failed to render page", "error", err)
	}
}

type stateResponse struct {
	Phase string        `json:"phase"`
	State session.State `json:"state"`
	Error string        `json:"error,omitempty"`
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, e := s.session(w, r)
	s.writeState(w, http.StatusOK, e.orch.Snapshot())
}

type action func(ctx context.Context, r *http.Request, e *sessionEntry) error

// actionHandler runs act for the caller's session. Browsers are redirected
// back to the page; clients asking for JSON get the resulting state.
func (s *Server) actionHandler(act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, e := s.session(w, r)

		ctx := r.Context()
		if s.config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
			defer cancel()
		}

		err := act(ctx, r, e)
		status := http.StatusOK
		switch {
		case err == nil:
		case errors.Is(err, orchestrator.ErrBusy):
			status = http.StatusConflict
			s.registry.setNotice(e, "another action is still running, try again in a moment")
		case isCollaboratorError(err):
			status = http.StatusBadGateway
		default:
			status = http.StatusBadRequest
			s.registry.setNotice(e, err.Error())
		}
		if err != nil {
			s.log.Debugw("action failed", "path", r.URL.Path, "session", id, "error", err)
		}

		if wantsJSON(r) {
			snap := e.orch.Snapshot()
			if status == http.StatusBadRequest || status == http.StatusConflict {
				writeError(w, s.log, status, err)
				return
			}
			s.writeState(w, status, snap)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) translate(ctx context.Context, r *http.Request, e *sessionEntry) error {
	input := r.FormValue("input")
	if err := e.orch.SetInput(input); err != nil {
		return err
	}
	if s.config.Detector != nil && strings.TrimSpace(input) != "" {
		dir := e.orch.State().Direction
		if s.config.Detector.Mismatch(input, dir) {
			s.registry.setNotice(e, fmt.Sprintf("The input looks like it is already in %s. Did you mean %s?",
				strings.ToUpper(dir.TargetLang()), dir.Other().Label()))
		}
	}
	return e.orch.RequestTranslate(ctx)
}

func (s *Server) summarize(ctx context.Context, _ *http.Request, e *sessionEntry) error {
	return e.orch.RequestSummarize(ctx)
}

func (s *Server) reset(_ context.Context, _ *http.Request, e *sessionEntry) error {
	return e.orch.Reset()
}

func (s *Server) direction(_ context.Context, r *http.Request, e *sessionEntry) error {
	dir, err := session.ParseDirection(r.FormValue("direction"))
	if err != nil {
		return err
	}
	return e.orch.ChangeDirection(dir)
}

// session resolves the caller's session and refreshes its cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *sessionEntry) {
	var id string
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}
	id, e := s.registry.get(id)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.SessionTTL.Seconds()),
	})
	return id, e
}

func (s *Server) writeState(w http.ResponseWriter, status int, snap orchestrator.Snapshot) {
	resp := stateResponse{Phase: snap.Phase.String(), State: snap.State}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Errorw("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": err.Error()}
	if encodeErr := json.NewEncoder(w).Encode(payload); encodeErr != nil {
		logger.Errorw("failed to encode error response", "error", encodeErr)
	}
}

func isCollaboratorError(err error) bool {
	var te *orchestrator.TranslationError
	var se *orchestrator.SummarizationError
	return errors.As(err, &te) || errors.As(err, &se)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		s.log.Infow("request", "method", r.Method, "path", r.URL.Path, "status", lrw.statusCode, "duration", time.Since(start))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(statusCode int) {
	lrw.statusCode = statusCode
	lrw.ResponseWriter.WriteHeader(statusCode)
}
