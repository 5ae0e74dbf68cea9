package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/qnjualonzo/enkor/internal/postprocess"
)

// OllamaSummarizer asks a local Ollama model for an abstractive summary.
type OllamaSummarizer struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func NewOllamaSummarizer(model, baseURL string) *OllamaSummarizer {
	if model == "" {
		model = "qwen2.5:7b"
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaSummarizer{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OllamaSummarizer) Name() string {
	return "ollama"
}

func (s *OllamaSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	reqBody := ollamaRequest{
		Model:   s.model,
		Prompt:  buildSummaryPrompt(req.Text, req.Lang, sentenceCountOrDefault(req.SentenceCount)),
		Stream:  false,
		Options: map[string]any{"temperature": 0.2},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to marshal summary request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to create summary request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("summarizer returned status %d", resp.StatusCode)
		return result, fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to decode summary response: %w", err)
	}

	summary := postprocess.Clean(ollamaResp.Response)
	if summary == "" {
		result.Error = "empty summary"
		return result, fmt.Errorf("model %s returned an empty summary", s.model)
	}

	result.SummaryText = summary
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}
