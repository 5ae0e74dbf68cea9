package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService calls the Cloud Translation API (v2). Credentials come from
// credentialsFile when set, otherwise from Application Default Credentials.
type GoogleService struct {
	credentialsFile string
	apiKey          string
}

func NewGoogleService(credentialsFile, apiKey string) *GoogleService {
	return &GoogleService{credentialsFile: credentialsFile, apiKey: apiKey}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if s.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
	}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	return opts
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	targetTag, err := language.Parse(req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("invalid target language: %v", err)
		return result, fmt.Errorf("invalid target language: %w", err)
	}

	// Text format keeps the API from HTML-escaping quotes and ampersands.
	opts := &translate.Options{Format: translate.Text}
	if req.SourceLang != "" && req.SourceLang != "auto" {
		sourceTag, err := language.Parse(req.SourceLang)
		if err != nil {
			result.Error = fmt.Sprintf("invalid source language: %v", err)
			return result, fmt.Errorf("invalid source language: %w", err)
		}
		opts.Source = sourceTag
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create client: %v", err)
		return result, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, opts)
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.TranslatedText = translations[0].Text
	result.Confidence = 1.0
	if translations[0].Source != language.Und {
		result.Metadata = map[string]string{"detected_source": translations[0].Source.String()}
	}
	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("google translate not available: %w", err)
	}
	return client.Close()
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Tag.String())
	}
	return codes, nil
}
