package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/qnjualonzo/enkor/internal/placeholder"
	"github.com/qnjualonzo/enkor/internal/postprocess"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIService translates through any OpenAI-compatible chat completions
// endpoint. baseURL may point at OpenRouter or a local gateway.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	source := "the detected language"
	if req.SourceLang != "" && req.SourceLang != "auto" {
		source = LanguageName(req.SourceLang)
	}
	system := fmt.Sprintf("You are a professional translator. Translate the user's text from %s to %s. "+
		"Keep the paragraph layout. Respond with the translation only.", source, LanguageName(req.TargetLang))
	protected := placeholder.Protect(req.Text)
	if hint := protected.Hint(); hint != "" {
		system += " " + hint
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: protected.Text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		result.Error = fmt.Sprintf("chat completion failed: %v", err)
		return result, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		result.Error = "no choices returned"
		return result, fmt.Errorf("no choices returned")
	}

	text := postprocess.Clean(resp.Choices[0].Message.Content)
	if text == "" {
		result.Error = "empty response from model"
		return result, fmt.Errorf("empty response from model %s", s.model)
	}

	result.TranslatedText = protected.Restore(text)
	result.Confidence = 0.8
	result.Metadata = placeholderMetadata(protected, text, map[string]string{"model": s.model})
	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai endpoint not available: %w", err)
	}
	return nil
}

func (s *OpenAIService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return koreanEnglish, nil
}
