package summarizer

import (
	"context"
	"strings"
	"time"
)

// StubSummarizer returns the leading sentences of the text. It is
// deterministic and offline.
type StubSummarizer struct {
	// Err, when set, is returned from every Summarize call.
	Err error
}

func (s *StubSummarizer) Name() string {
	return "stub"
}

func (s *StubSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.Err != nil {
		result.Error = s.Err.Error()
		return result, s.Err
	}

	sentences := SplitSentences(req.Text)
	if n := sentenceCountOrDefault(req.SentenceCount); len(sentences) > n {
		sentences = sentences[:n]
	}
	result.SummaryText = strings.Join(sentences, " ")
	return result, nil
}
