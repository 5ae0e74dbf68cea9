package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qnjualonzo/enkor/internal/chunker"
)

const defaultMyMemoryBaseURL = "https://api.mymemory.translated.net"

// MyMemory caps q at 500 bytes. Hangul is three bytes per rune in UTF-8.
const (
	myMemoryMaxRunesLatin  = 450
	myMemoryMaxRunesHangul = 160
)

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryService(email, baseURL string) *MyMemoryService {
	if baseURL == "" {
		baseURL = defaultMyMemoryBaseURL
	}
	return &MyMemoryService{
		email:   email,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

func (s *MyMemoryService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "en"
	}

	limit := myMemoryMaxRunesLatin
	if sourceLang == "ko" {
		limit = myMemoryMaxRunesHangul
	}

	pieces := chunker.Split(req.Text, limit)
	translated := make([]string, len(pieces))
	var matchSum float64
	for i, p := range pieces {
		if p.Text == "" {
			continue
		}
		text, match, err := s.translatePiece(ctx, p.Text, sourceLang, req.TargetLang)
		if err != nil {
			result.Error = err.Error()
			return result, err
		}
		translated[i] = text
		matchSum += match
	}

	result.TranslatedText = chunker.Join(pieces, translated)
	result.Confidence = clamp01(matchSum / float64(len(pieces)))
	return result, nil
}

func (s *MyMemoryService) translatePiece(ctx context.Context, text, sourceLang, targetLang string) (string, float64, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", sourceLang+"|"+targetLang)
	if s.email != "" {
		params.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if mymemResp.ResponseStatus != http.StatusOK {
		return "", 0, fmt.Errorf("API error: %s (%d)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
	}

	return mymemResp.ResponseData.TranslatedText, mymemResp.ResponseData.Match, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "ko", "ja", "zh", "es", "fr", "de", "it", "pt", "ru",
		"ar", "nl", "pl", "tr", "sv", "th", "vi", "id", "uk",
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
