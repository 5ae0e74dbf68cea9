package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/qnjualonzo/enkor/internal/placeholder"
	"github.com/qnjualonzo/enkor/internal/postprocess"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "qwen2.5:7b"
)

// OllamaTranslator prompts a local Ollama model to translate. The response
// is run through postprocess.Clean since small models like to wrap the
// answer in quotes or a "Here is the translation:" preamble.
type OllamaTranslator struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaTranslator(baseURL, model string) *OllamaTranslator {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OllamaTranslator) Name() string {
	return "ollama"
}

func (s *OllamaTranslator) Model() string {
	return s.model
}

// LanguageName returns the English name of a language code, or the code
// itself when it is not a valid tag.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func translationPrompt(text, sourceLang, targetLang string) string {
	source := "the detected language"
	if sourceLang != "" && sourceLang != "auto" {
		source = LanguageName(sourceLang)
	}
	return fmt.Sprintf(`Translate the following text from %s to %s.
Keep the paragraph layout. Only respond with the translation, nothing else.

Text:
%s`, source, LanguageName(targetLang), text)
}

func (s *OllamaTranslator) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	protected := placeholder.Protect(req.Text)
	prompt := translationPrompt(protected.Text, req.SourceLang, req.TargetLang)
	if hint := protected.Hint(); hint != "" {
		prompt = hint + "\n" + prompt
	}

	response, err := ollamaGenerate(ctx, s.client, s.baseURL, s.model, prompt)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	text := postprocess.Clean(response)
	if text == "" {
		result.Error = "empty response from model"
		return result, fmt.Errorf("empty response from model %s", s.model)
	}

	result.TranslatedText = protected.Restore(text)
	result.Confidence = 0.7
	result.Metadata = placeholderMetadata(protected, text, map[string]string{"model": s.model})
	return result, nil
}

// ollamaGenerate sends a non-streaming /api/generate request and returns the
// raw response text.
func ollamaGenerate(ctx context.Context, client *http.Client, baseURL, model, prompt string) (string, error) {
	ollamaReq := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return ollamaResp.Response, nil
}

func (s *OllamaTranslator) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *OllamaTranslator) SupportedLanguages(ctx context.Context) ([]string, error) {
	return koreanEnglish, nil
}

// placeholderMetadata adds the protected span count to meta, and how many
// markers the model dropped from raw.
func placeholderMetadata(p placeholder.Protected, raw string, meta map[string]string) map[string]string {
	if p.Count() == 0 {
		return meta
	}
	meta["placeholders"] = strconv.Itoa(p.Count())
	if missing := p.Missing(raw); len(missing) > 0 {
		meta["placeholders_lost"] = strconv.Itoa(len(missing))
	}
	return meta
}
