package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/qnjualonzo/enkor/internal/postprocess"
)

type AnthropicSummarizer struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicSummarizer(apiKey, baseURL, model string) *AnthropicSummarizer {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &AnthropicSummarizer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (s *AnthropicSummarizer) Name() string {
	return "anthropic"
}

func (s *AnthropicSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	temperature := float32(0.2)
	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(s.model),
		MultiSystem: []anthropic.MessageSystemPart{{
			Type: "text",
			Text: systemPrompt(req.Lang, sentenceCountOrDefault(req.SentenceCount)),
		}},
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Text)},
		}},
		MaxTokens:   1024,
		Temperature: &temperature,
	})
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("create message: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}

	summary := postprocess.Clean(text.String())
	if summary == "" {
		result.Error = "empty summary"
		return result, errors.New("empty response from Anthropic")
	}
	result.SummaryText = summary
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}
