package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/qnjualonzo/enkor/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; the HTTP surface shares the store across sessions.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL DEFAULT '',
		service_name TEXT NOT NULL,
		result_text TEXT NOT NULL DEFAULT '',
		cache_hit BOOLEAN DEFAULT FALSE,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		final_text TEXT NOT NULL,
		service_used TEXT,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, source_lang, target_lang, service_used)
	);

	-- summary_memory caches summaries per text, language and length
	CREATE TABLE IF NOT EXISTS summary_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		lang TEXT NOT NULL,
		sentence_count INTEGER NOT NULL,
		summary_text TEXT NOT NULL,
		service_used TEXT,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, lang, sentence_count, service_used)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, source_lang, target_lang, service_used);
	CREATE INDEX IF NOT EXISTS idx_summary_lookup ON summary_memory(source_text, lang, sentence_count);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRequest appends one backend call to the request history.
func (s *Store) SaveRequest(ctx context.Context, req internal.Request) error {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, kind, source_text, source_lang, target_lang, service_name, result_text, cache_hit, latency_ms, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.Kind, req.SourceText, req.SourceLang, req.TargetLang, req.ServiceName, req.ResultText, req.CacheHit, req.Latency.Milliseconds(), req.Error, ts)
	return err
}

// RecentRequests returns up to limit history rows, newest first.
func (s *Store) RecentRequests(ctx context.Context, limit int) ([]internal.Request, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, source_text, source_lang, target_lang, service_name, result_text, cache_hit, latency_ms, COALESCE(error, ''), created_at
		 FROM requests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.Request
	for rows.Next() {
		var r internal.Request
		var latencyMs int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.SourceText, &r.SourceLang, &r.TargetLang, &r.ServiceName, &r.ResultText, &r.CacheHit, &latencyMs, &r.Error, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Latency = time.Duration(latencyMs) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetCachedTranslation returns the stored translation of sourceText produced
// by serviceUsed. Invalidated entries are misses.
func (s *Store) GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang, serviceUsed string) (string, bool, error) {
	var finalText string
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT final_text, invalidated FROM translation_memory WHERE source_text = ? AND source_lang = ? AND target_lang = ? AND service_used = ?`,
		normalizeText(sourceText), sourceLang, targetLang, serviceUsed).Scan(&finalText, &invalidated)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND source_lang = ? AND target_lang = ? AND service_used = ?`,
		time.Now(), normalizeText(sourceText), sourceLang, targetLang, serviceUsed)

	return finalText, true, err
}

func (s *Store) SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, serviceUsed string) error {
	id := fmt.Sprintf("mem_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_memory (id, source_text, source_lang, target_lang, final_text, service_used, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		id, normalizeText(sourceText), sourceLang, targetLang, finalText, serviceUsed, time.Now(), time.Now())
	return err
}

// GetCachedSummary returns a stored summary of sourceText produced by
// serviceUsed with the same language and sentence count.
func (s *Store) GetCachedSummary(ctx context.Context, sourceText, lang string, sentenceCount int, serviceUsed string) (string, bool, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary_text FROM summary_memory WHERE source_text = ? AND lang = ? AND sentence_count = ? AND service_used = ?`,
		normalizeText(sourceText), lang, sentenceCount, serviceUsed).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE summary_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND lang = ? AND sentence_count = ? AND service_used = ?`,
		time.Now(), normalizeText(sourceText), lang, sentenceCount, serviceUsed)
	return summary, true, err
}

func (s *Store) SaveSummary(ctx context.Context, sourceText, lang string, sentenceCount int, summary, serviceUsed string) error {
	id := fmt.Sprintf("sum_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO summary_memory (id, source_text, lang, sentence_count, summary_text, service_used, usage_count, last_used, created_at) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, normalizeText(sourceText), lang, sentenceCount, summary, serviceUsed, time.Now(), time.Now())
	return err
}

// MemoryEntry is a row from the translation_memory table.
type MemoryEntry struct {
	ID          string
	SourceText  string
	SourceLang  string
	TargetLang  string
	FinalText   string
	ServiceUsed string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats summarises translation and summary memory usage.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
	SummaryEntries int
	SummaryUsage   int
	Requests       int
	CacheHits      int
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// DeleteMemory permanently removes a memory entry by ID. IDs are unique
// across the translation and summary tables, so both are tried.
func (s *Store) DeleteMemory(ctx context.Context, id string) (bool, error) {
	var total int64
	for _, q := range []string{
		`DELETE FROM translation_memory WHERE id = ?`,
		`DELETE FROM summary_memory WHERE id = ?`,
	} {
		res, err := s.db.ExecContext(ctx, q, id)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		total += n
	}
	return total > 0, nil
}

// ClearMemory removes all translation and summary memory entries. The
// request history is kept.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	var total int64
	for _, q := range []string{`DELETE FROM translation_memory`, `DELETE FROM summary_memory`} {
		res, err := s.db.ExecContext(ctx, q)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ListMemory returns all translation memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, source_lang, target_lang, final_text, COALESCE(service_used, ''), usage_count, invalidated, last_used FROM translation_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.FinalText, &e.ServiceUsed, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// SummaryEntry is a row from the summary_memory table.
type SummaryEntry struct {
	ID            string
	SourceText    string
	Lang          string
	SentenceCount int
	SummaryText   string
	ServiceUsed   string
	UsageCount    int
	LastUsed      time.Time
}

func (s *Store) ListSummaries(ctx context.Context) ([]SummaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, lang, sentence_count, summary_text, COALESCE(service_used, ''), usage_count, last_used FROM summary_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SummaryEntry
	for rows.Next() {
		var e SummaryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.Lang, &e.SentenceCount, &e.SummaryText, &e.ServiceUsed, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// Stats returns summary statistics for the memory tables and request history.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(usage_count), 0) FROM summary_memory`).Scan(
		&stats.SummaryEntries,
		&stats.SummaryUsage,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN cache_hit THEN 1 ELSE 0 END), 0) FROM requests`).Scan(
		&stats.Requests,
		&stats.CacheHits,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison. Korean input pasted from some
// sources arrives as decomposed jamo.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// levenshtein returns the edit distance between two strings (rune-aware).
// Uses a space-optimized two-row DP implementation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min(prev[j], prev[j-1], curr[j-1]) + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// stringSimilarity returns a similarity score in [0, 1] (1 = identical).
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// FuzzyGetCachedTranslation returns a cached translation whose normalised source
// text has at least threshold similarity (0 to 1) to sourceText and that came
// from serviceUsed. Pass threshold ≤ 0
// to disable. Texts longer than 1 000 runes are not fuzzy-matched.
func (s *Store) FuzzyGetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang, serviceUsed string, threshold float64) (string, bool, error) {
	if threshold <= 0 {
		return "", false, nil
	}

	normalized := normalizeText(sourceText)
	const maxFuzzyRunes = 1000
	if len([]rune(normalized)) > maxFuzzyRunes {
		return "", false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, final_text FROM translation_memory
		 WHERE source_lang = ? AND target_lang = ? AND service_used = ? AND NOT invalidated`,
		sourceLang, targetLang, serviceUsed)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	var bestFinal string
	bestScore := 0.0

	for rows.Next() {
		var srcText, finalText string
		if err := rows.Scan(&srcText, &finalText); err != nil {
			return "", false, err
		}

		// The length difference alone bounds the best possible score.
		ls, lr := len([]rune(normalized)), len([]rune(srcText))
		maxL := max(ls, lr)
		diff := ls - lr
		if diff < 0 {
			diff = -diff
		}
		if maxL > 0 && 1.0-float64(diff)/float64(maxL) < threshold {
			continue
		}

		score := stringSimilarity(normalized, srcText)
		if score >= threshold && score > bestScore {
			bestScore = score
			bestFinal = finalText
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	if bestFinal != "" {
		return bestFinal, true, nil
	}
	return "", false, nil
}
