// Package summarizer contains the summarization backends and the adapter
// that exposes them as the orchestrator's Summarize capability.
package summarizer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

type SummarizeRequest struct {
	Text          string `json:"text"`
	Lang          string `json:"lang"`
	SentenceCount int    `json:"sentence_count"`
}

type ServiceResult struct {
	ServiceName string            `json:"service_name"`
	SummaryText string            `json:"summary_text"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Latency     time.Duration     `json:"latency"`
	Error       string            `json:"error,omitempty"`
}

// SummarizationService is one summarization backend. Like the translation
// services it returns a non-nil result even on failure.
type SummarizationService interface {
	Name() string
	Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error)
}

// Adapter turns a SummarizationService into the plain text-in, text-out
// capability the orchestrator calls.
type Adapter struct {
	Service SummarizationService
	Logger  *zap.SugaredLogger
}

func NewAdapter(service SummarizationService, logger *zap.SugaredLogger) *Adapter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Adapter{Service: service, Logger: logger}
}

func (a *Adapter) Name() string {
	return a.Service.Name()
}

func (a *Adapter) Summarize(ctx context.Context, text, lang string, sentenceCount int) (string, error) {
	if a.Service == nil {
		return "", errors.New("no summarization service configured")
	}
	res, err := a.Service.Summarize(ctx, SummarizeRequest{Text: text, Lang: lang, SentenceCount: sentenceCount})
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", errors.New("summarizer returned no result")
	}
	a.Logger.Debugw("summarized",
		"service", res.ServiceName,
		"lang", lang,
		"sentences", sentenceCount,
		"latency", res.Latency,
	)
	return strings.TrimSpace(res.SummaryText), nil
}
