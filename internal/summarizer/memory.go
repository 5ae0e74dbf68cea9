package summarizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal"
)

// Memory is the part of the store the cache decorator needs.
type Memory interface {
	GetCachedSummary(ctx context.Context, sourceText, lang string, sentenceCount int, serviceUsed string) (string, bool, error)
	SaveSummary(ctx context.Context, sourceText, lang string, sentenceCount int, summary, serviceUsed string) error
	SaveRequest(ctx context.Context, req internal.Request) error
}

type memoryService struct {
	next SummarizationService
	mem  Memory
	log  *zap.SugaredLogger
}

// WithMemory caches summaries per text, language, sentence count and
// backend. Store errors are logged and otherwise ignored.
func WithMemory(next SummarizationService, mem Memory, logger *zap.SugaredLogger) SummarizationService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &memoryService{next: next, mem: mem, log: logger}
}

func (m *memoryService) Name() string {
	return m.next.Name()
}

func (m *memoryService) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	start := time.Now()
	n := sentenceCountOrDefault(req.SentenceCount)

	summary, ok, err := m.mem.GetCachedSummary(ctx, req.Text, req.Lang, n, m.next.Name())
	if err != nil {
		m.log.Warnw("summary memory lookup failed", "error", err)
	}
	if err == nil && ok {
		m.log.Debugw("summary memory hit", "lang", req.Lang, "sentences", n)
		result := &ServiceResult{
			ServiceName: m.next.Name(),
			SummaryText: summary,
			Metadata:    map[string]string{"cache": "hit"},
			Latency:     time.Since(start),
		}
		m.record(ctx, req, result, true)
		return result, nil
	}

	result, err := m.next.Summarize(ctx, req)
	if result != nil {
		m.record(ctx, req, result, false)
	}
	if err != nil {
		return result, err
	}

	if result.SummaryText != "" {
		if serr := m.mem.SaveSummary(ctx, req.Text, req.Lang, n, result.SummaryText, m.next.Name()); serr != nil {
			m.log.Warnw("failed to save summary memory", "error", serr)
		}
	}
	return result, nil
}

func (m *memoryService) record(ctx context.Context, req SummarizeRequest, result *ServiceResult, hit bool) {
	err := m.mem.SaveRequest(ctx, internal.Request{
		ID:          uuid.New().String(),
		Kind:        internal.KindSummarize,
		SourceText:  req.Text,
		SourceLang:  req.Lang,
		ServiceName: result.ServiceName,
		ResultText:  result.SummaryText,
		CacheHit:    hit,
		Latency:     result.Latency,
		Error:       result.Error,
		Timestamp:   time.Now(),
	})
	if err != nil {
		m.log.Warnw("failed to record request", "error", err)
	}
}
