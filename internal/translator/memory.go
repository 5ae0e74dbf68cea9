package translator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal"
)

// Memory is the part of the store the cache decorator needs.
type Memory interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang, serviceUsed string) (string, bool, error)
	FuzzyGetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang, serviceUsed string, threshold float64) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, serviceUsed string) error
	SaveRequest(ctx context.Context, req internal.Request) error
}

type memoryService struct {
	next           TranslationService
	mem            Memory
	log            *zap.SugaredLogger
	fuzzyThreshold float64
	check          Checker
}

// WithMemory puts a translation memory in front of next. Entries are keyed by
// the backend name, so one backend never answers with another's output. Hits
// skip the backend; misses call it and store the result. With a non-nil
// check, only output that passes is stored and stale hits that fail it are
// ignored. Store errors are logged and otherwise ignored. fuzzyThreshold in
// (0, 1] also accepts near matches.
func WithMemory(next TranslationService, mem Memory, logger *zap.SugaredLogger, fuzzyThreshold float64, check Checker) TranslationService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &memoryService{next: next, mem: mem, log: logger, fuzzyThreshold: fuzzyThreshold, check: check}
}

func (m *memoryService) Name() string {
	return m.next.Name()
}

func (m *memoryService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	start := time.Now()

	if text, ok := m.lookup(ctx, req); ok {
		result := &ServiceResult{
			ServiceName:    m.next.Name(),
			TranslatedText: text,
			Confidence:     1.0,
			Metadata:       map[string]string{"cache": "hit"},
			Latency:        time.Since(start),
		}
		m.record(ctx, req, result, true)
		return result, nil
	}

	result, err := m.next.Translate(ctx, req)
	if result != nil {
		m.record(ctx, req, result, false)
	}
	if err != nil {
		return result, err
	}

	if result.TranslatedText != "" {
		if !m.passes(result.TranslatedText, req.TargetLang) {
			m.log.Debugw("not caching rejected translation", "service", m.next.Name())
			return result, nil
		}
		if serr := m.mem.SaveToMemory(ctx, req.Text, req.SourceLang, req.TargetLang, result.TranslatedText, m.next.Name()); serr != nil {
			m.log.Warnw("failed to save translation memory", "error", serr)
		}
	}
	return result, nil
}

func (m *memoryService) passes(text, targetLang string) bool {
	return m.check == nil || m.check.Check(text, targetLang) == nil
}

func (m *memoryService) lookup(ctx context.Context, req TranslateRequest) (string, bool) {
	text, ok := m.find(ctx, req)
	if ok && !m.passes(text, req.TargetLang) {
		m.log.Debugw("ignoring cached translation that fails the check", "service", m.next.Name())
		return "", false
	}
	return text, ok
}

func (m *memoryService) find(ctx context.Context, req TranslateRequest) (string, bool) {
	service := m.next.Name()
	text, ok, err := m.mem.GetCachedTranslation(ctx, req.Text, req.SourceLang, req.TargetLang, service)
	if err != nil {
		m.log.Warnw("translation memory lookup failed", "error", err)
		return "", false
	}
	if ok {
		m.log.Debugw("translation memory hit", "source", req.SourceLang, "target", req.TargetLang)
		return text, true
	}
	if m.fuzzyThreshold <= 0 {
		return "", false
	}

	text, ok, err = m.mem.FuzzyGetCachedTranslation(ctx, req.Text, req.SourceLang, req.TargetLang, service, m.fuzzyThreshold)
	if err != nil {
		m.log.Warnw("fuzzy memory lookup failed", "error", err)
		return "", false
	}
	if ok {
		m.log.Debugw("fuzzy translation memory hit", "threshold", m.fuzzyThreshold)
	}
	return text, ok
}

func (m *memoryService) record(ctx context.Context, req TranslateRequest, result *ServiceResult, hit bool) {
	err := m.mem.SaveRequest(ctx, internal.Request{
		ID:          uuid.New().String(),
		Kind:        internal.KindTranslate,
		SourceText:  req.Text,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		ServiceName: result.ServiceName,
		ResultText:  result.TranslatedText,
		CacheHit:    hit,
		Latency:     result.Latency,
		Error:       result.Error,
		Timestamp:   time.Now(),
	})
	if err != nil {
		m.log.Warnw("failed to record request", "error", err)
	}
}

func (m *memoryService) IsAvailable(ctx context.Context) error {
	return m.next.IsAvailable(ctx)
}

func (m *memoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return m.next.SupportedLanguages(ctx)
}
