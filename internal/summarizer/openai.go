package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/qnjualonzo/enkor/internal/postprocess"
)

type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, baseURL, model string) *OpenAISummarizer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAISummarizer{client: openai.NewClientWithConfig(config), model: model}
}

func (s *OpenAISummarizer) Name() string {
	return "openai"
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.Lang, sentenceCountOrDefault(req.SentenceCount))},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		result.Error = "no choices returned"
		return result, fmt.Errorf("no choices returned")
	}

	summary := postprocess.Clean(resp.Choices[0].Message.Content)
	if summary == "" {
		result.Error = "empty summary"
		return result, fmt.Errorf("model %s returned an empty summary", s.model)
	}
	result.SummaryText = summary
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}
