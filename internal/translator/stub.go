package translator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubService answers from a fixed dictionary and otherwise tags the input
// with the target language, e.g. "[ko] Hello.". It never touches the network
// and is meant for demos and tests.
type StubService struct {
	Dict map[string]string
	// Err, when set, is returned from every Translate call.
	Err error
}

func NewStubService(dict map[string]string) *StubService {
	return &StubService{Dict: dict}
}

func (s *StubService) Name() string {
	return "stub"
}

func (s *StubService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result, err
	}
	if s.Err != nil {
		result.Error = s.Err.Error()
		return result, s.Err
	}

	if out, ok := s.Dict[strings.TrimSpace(req.Text)]; ok {
		result.TranslatedText = out
		result.Confidence = 1.0
		return result, nil
	}

	result.TranslatedText = fmt.Sprintf("[%s] %s", req.TargetLang, req.Text)
	result.Confidence = 0.1
	return result, nil
}

func (s *StubService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *StubService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return koreanEnglish, nil
}
