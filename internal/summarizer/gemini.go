package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/qnjualonzo/enkor/internal/postprocess"
)

// GeminiSummarizer calls the Gemini API. Several keys may be configured;
// a key that hits its quota is rotated out for the next attempt.
type GeminiSummarizer struct {
	model   string
	baseURL string

	mu         sync.Mutex
	apiKeys    []string
	currentKey int
}

func NewGeminiSummarizer(apiKeys []string, model, baseURL string) *GeminiSummarizer {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	var keys []string
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return &GeminiSummarizer{model: model, baseURL: baseURL, apiKeys: keys}
}

func (s *GeminiSummarizer) Name() string {
	return "gemini"
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	summary, err := s.callGemini(ctx, buildSummaryPrompt(req.Text, req.Lang, sentenceCountOrDefault(req.SentenceCount)))
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	summary = postprocess.Clean(summary)
	if summary == "" {
		result.Error = "empty summary"
		return result, errors.New("empty response from Gemini")
	}
	result.SummaryText = summary
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}

func (s *GeminiSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.apiKeys)
	if attempts == 0 {
		return "", errors.New("gemini API key required")
	}
	var lastErr error

	for range attempts {
		key := s.key()

		cfg := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		if s.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", errors.New("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *GeminiSummarizer) key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey]
}

func (s *GeminiSummarizer) rotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}
