package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/qnjualonzo/enkor/internal"
)

type fakeMemory struct {
	entries  map[string]string
	fuzzy    string
	requests []internal.Request
	failAll  bool
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{entries: map[string]string{}}
}

func key(text, src, tgt, service string) string { return service + "|" + src + "|" + tgt + "|" + text }

func (m *fakeMemory) GetCachedTranslation(ctx context.Context, text, src, tgt, service string) (string, bool, error) {
	if m.failAll {
		return "", false, errors.New("db locked")
	}
	v, ok := m.entries[key(text, src, tgt, service)]
	return v, ok, nil
}

func (m *fakeMemory) FuzzyGetCachedTranslation(ctx context.Context, text, src, tgt, service string, threshold float64) (string, bool, error) {
	if m.fuzzy == "" {
		return "", false, nil
	}
	return m.fuzzy, true, nil
}

func (m *fakeMemory) SaveToMemory(ctx context.Context, text, src, tgt, final, service string) error {
	if m.failAll {
		return errors.New("db locked")
	}
	m.entries[key(text, src, tgt, service)] = final
	return nil
}

func (m *fakeMemory) SaveRequest(ctx context.Context, req internal.Request) error {
	if m.failAll {
		return errors.New("db locked")
	}
	m.requests = append(m.requests, req)
	return nil
}

func TestWithMemory_MissThenHit(t *testing.T) {
	backend := &scriptedService{name: "gtx", results: []string{"안녕하세요."}}
	mem := newFakeMemory()
	svc := WithMemory(backend, mem, nil, 0, nil)
	req := TranslateRequest{Text: "Hello.", SourceLang: "en", TargetLang: "ko"}

	first, err := svc.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TranslatedText != "안녕하세요." || second.TranslatedText != "안녕하세요." {
		t.Errorf("unexpected translations %q / %q", first.TranslatedText, second.TranslatedText)
	}
	if backend.calls != 1 {
		t.Errorf("expected one backend call, got %d", backend.calls)
	}
	if second.Metadata["cache"] != "hit" {
		t.Errorf("expected cache hit metadata, got %v", second.Metadata)
	}
	if svc.Name() != "gtx" {
		t.Errorf("decorator should keep the backend name, got %q", svc.Name())
	}
	if len(mem.requests) != 2 || mem.requests[0].CacheHit || !mem.requests[1].CacheHit {
		t.Errorf("unexpected request history %+v", mem.requests)
	}
	if mem.requests[0].Kind != internal.KindTranslate {
		t.Errorf("unexpected kind %q", mem.requests[0].Kind)
	}
}

func TestWithMemory_FailureNotCached(t *testing.T) {
	backend := &scriptedService{name: "gtx", errs: []error{errors.New("down")}, results: []string{"", "ok"}}
	mem := newFakeMemory()
	svc := WithMemory(backend, mem, nil, 0, nil)
	req := TranslateRequest{Text: "Hello.", SourceLang: "en", TargetLang: "ko"}

	if _, err := svc.Translate(context.Background(), req); err == nil {
		t.Fatal("expected backend error")
	}
	if len(mem.entries) != 0 {
		t.Errorf("failure must not be cached, got %v", mem.entries)
	}
	if len(mem.requests) != 1 || mem.requests[0].Error == "" {
		t.Errorf("expected failed request in history, got %+v", mem.requests)
	}
}

func TestWithMemory_StoreErrorsBypassed(t *testing.T) {
	backend := &scriptedService{name: "gtx", results: []string{"안녕"}}
	mem := newFakeMemory()
	mem.failAll = true
	svc := WithMemory(backend, mem, nil, 0, nil)

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hi", SourceLang: "en", TargetLang: "ko"})

	if err != nil {
		t.Fatalf("store errors must not surface, got %v", err)
	}
	if result.TranslatedText != "안녕" {
		t.Errorf("unexpected translation %q", result.TranslatedText)
	}
}

func TestWithMemory_Fuzzy(t *testing.T) {
	backend := &scriptedService{name: "gtx", results: []string{"fresh"}}
	mem := newFakeMemory()
	mem.fuzzy = "close enough"

	exact := WithMemory(backend, mem, nil, 0, nil)
	result, _ := exact.Translate(context.Background(), TranslateRequest{Text: "Hello!", SourceLang: "en", TargetLang: "ko"})
	if result.TranslatedText != "fresh" {
		t.Errorf("fuzzy lookup must be off at threshold 0, got %q", result.TranslatedText)
	}

	fuzzy := WithMemory(backend, newFakeMemoryWithFuzzy("close enough"), nil, 0.9, nil)
	result, _ = fuzzy.Translate(context.Background(), TranslateRequest{Text: "Hello?", SourceLang: "en", TargetLang: "ko"})
	if result.TranslatedText != "close enough" {
		t.Errorf("expected fuzzy hit, got %q", result.TranslatedText)
	}
}

func newFakeMemoryWithFuzzy(v string) *fakeMemory {
	m := newFakeMemory()
	m.fuzzy = v
	return m
}

func TestWithMemory_RejectedNotCached(t *testing.T) {
	backend := &scriptedService{name: "gtx", results: []string{"Hello echo", "안녕하세요"}}
	mem := newFakeMemory()
	svc := WithMemory(backend, mem, nil, 0, rejectText("Hello echo"))
	req := TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "ko"}

	first, _ := svc.Translate(context.Background(), req)
	if first.TranslatedText != "Hello echo" {
		t.Errorf("rejected output is still returned to the caller, got %q", first.TranslatedText)
	}
	if len(mem.entries) != 0 {
		t.Errorf("rejected output must not be cached, got %v", mem.entries)
	}

	second, _ := svc.Translate(context.Background(), req)
	if second.TranslatedText != "안녕하세요" || backend.calls != 2 {
		t.Errorf("expected a fresh backend call, got %q after %d calls", second.TranslatedText, backend.calls)
	}
	if mem.entries[key("Hello", "en", "ko", "gtx")] != "안녕하세요" {
		t.Errorf("accepted output should be cached, got %v", mem.entries)
	}
}

func TestWithMemory_StaleRejectedHitIgnored(t *testing.T) {
	backend := &scriptedService{name: "gtx", results: []string{"안녕하세요"}}
	mem := newFakeMemory()
	mem.entries[key("Hello", "en", "ko", "gtx")] = "Hello echo"
	svc := WithMemory(backend, mem, nil, 0, rejectText("Hello echo"))

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "ko"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "안녕하세요" || backend.calls != 1 {
		t.Errorf("expected the backend to replace the stale entry, got %q after %d calls", result.TranslatedText, backend.calls)
	}
}
