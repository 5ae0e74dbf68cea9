package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qnjualonzo/enkor/internal/chunker"
)

const (
	defaultGTXBaseURL = "https://translate.googleapis.com"
	// The public endpoint rejects long query strings; stay well below.
	gtxMaxRunes = 1800
)

// GTXService uses the keyless public Google Translate endpoint
// (client=gtx), the same one browser extensions and googletrans use.
// Long input is split into pieces and translated piece by piece.
type GTXService struct {
	baseURL string
	client  *http.Client
}

func NewGTXService(baseURL string) *GTXService {
	if baseURL == "" {
		baseURL = defaultGTXBaseURL
	}
	return &GTXService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *GTXService) Name() string {
	return "gtx"
}

func (s *GTXService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "auto"
	}

	pieces := chunker.Split(req.Text, gtxMaxRunes)
	translated := make([]string, len(pieces))
	for i, p := range pieces {
		if p.Text == "" {
			continue
		}
		text, err := s.translatePiece(ctx, p.Text, sourceLang, req.TargetLang)
		if err != nil {
			result.Error = err.Error()
			return result, err
		}
		translated[i] = text
	}

	result.TranslatedText = chunker.Join(pieces, translated)
	result.Confidence = 0.9
	if len(pieces) > 1 {
		result.Metadata = map[string]string{"pieces": fmt.Sprint(len(pieces))}
	}
	return result, nil
}

func (s *GTXService) translatePiece(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/translate_a/single?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (compatible; enkor)")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return parseGTXSegments(payload)
}

// parseGTXSegments reads the first element of the response, a list of
// [translated, original, ...] segments, and concatenates the translations.
func parseGTXSegments(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected response layout: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	return b.String(), nil
}

func (s *GTXService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *GTXService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "ko", "ja", "zh-CN", "zh-TW", "es", "fr", "de", "it", "pt",
		"ru", "uk", "vi", "th", "id", "ar", "hi", "tr", "nl", "pl",
	}, nil
}
