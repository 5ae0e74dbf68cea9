// Package translator contains the translation backends and the adapters
// that turn them into the single Translate capability the orchestrator uses.
package translator

import (
	"context"
	"time"
)

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Confidence     float64           `json:"confidence"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

// TranslationService is one translation backend. Translate returns a
// non-nil result even on failure so callers can log the latency and the
// backend's own error text.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// Translator is the plain text-in, text-out capability built on top of one or
// more services.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// koreanEnglish is the language list for backends that are only used for the
// en/ko pair.
var koreanEnglish = []string{"en", "ko"}
