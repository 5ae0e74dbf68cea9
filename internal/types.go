package internal

import "time"

// Request kinds recorded in the history table.
const (
	KindTranslate = "translate"
	KindSummarize = "summarize"
)

// Request is one backend call as recorded in the request history. For
// summaries TargetLang is empty and SourceLang is the summary language.
type Request struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"`
	SourceText  string        `json:"source_text"`
	SourceLang  string        `json:"source_lang"`
	TargetLang  string        `json:"target_lang"`
	ServiceName string        `json:"service_name"`
	ResultText  string        `json:"result_text"`
	CacheHit    bool          `json:"cache_hit"`
	Latency     time.Duration `json:"latency"`
	Error       string        `json:"error,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
