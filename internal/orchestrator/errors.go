package orchestrator

import "fmt"

// TranslationError reports a translator failure. The session's translated
// and summarized text are empty after it.
type TranslationError struct {
	Backend    string
	SourceLang string
	TargetLang string
	Err        error
}

func (e *TranslationError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("translation %s→%s via %s failed: %v", e.SourceLang, e.TargetLang, e.Backend, e.Err)
	}
	return fmt.Sprintf("translation %s→%s failed: %v", e.SourceLang, e.TargetLang, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// SummarizationError reports a summarizer failure. The session's summarized
// text is empty after it.
type SummarizationError struct {
	Backend string
	Lang    string
	Err     error
}

func (e *SummarizationError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("summarization (%s) via %s failed: %v", e.Lang, e.Backend, e.Err)
	}
	return fmt.Sprintf("summarization (%s) failed: %v", e.Lang, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
