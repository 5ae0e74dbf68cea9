package summarizer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/ramenjuniti/lexrankmmr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LexRankService picks the most central sentences of the text with
// LexRank and MMR. It runs locally and is deterministic.
type LexRankService struct{}

func NewLexRankService() *LexRankService {
	return &LexRankService{}
}

func (s *LexRankService) Name() string {
	return "lexrank"
}

func (s *LexRankService) Summarize(ctx context.Context, req SummarizeRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result, err
	}

	n := req.SentenceCount
	if n < 1 {
		n = 3
	}

	sentences := SplitSentences(req.Text)
	if len(sentences) <= n {
		result.SummaryText = strings.Join(sentences, " ")
		return result, nil
	}

	picked, err := rankSentences(sentences, req.Lang, n)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	result.SummaryText = strings.Join(out, " ")
	result.Metadata = map[string]string{"sentences": fmt.Sprint(len(sentences))}
	return result, nil
}

// rankSentences returns the indexes of the n best sentences in document
// order. lexrankmmr works on "。"-separated lines and hands back the line
// text, so each sentence is reduced to a unique token line and mapped back.
func rankSentences(sentences []string, lang string, n int) ([]int, error) {
	lineIndex := make(map[string]int, len(sentences))
	var lines []string
	for i, sent := range sentences {
		line := tokenLine(sent, lang)
		if line == "" {
			continue
		}
		if _, dup := lineIndex[line]; dup {
			continue
		}
		lineIndex[line] = i
		lines = append(lines, line)
	}

	if len(lines) <= n {
		idx := make([]int, 0, len(lines))
		for _, line := range lines {
			idx = append(idx, lineIndex[line])
		}
		slices.Sort(idx)
		return idx, nil
	}

	data, err := lexrankmmr.New(
		lexrankmmr.MaxLines(n),
		lexrankmmr.MaxCharacters(100000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lexrankmmr: %w", err)
	}
	if err := data.Summarize(strings.Join(lines, "。") + "。"); err != nil {
		return nil, fmt.Errorf("lexrank failed: %w", err)
	}

	var idx []int
	for _, score := range data.LineLimitedSummary {
		if i, ok := lineIndex[strings.TrimSpace(score.Sentence)]; ok && !slices.Contains(idx, i) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("lexrank selected no sentences")
	}
	slices.Sort(idx)
	return idx, nil
}

// SplitSentences cuts text after every terminal mark that is followed by
// whitespace or the end of text, and at line breaks. Sentences are trimmed
// and empty ones dropped.
func SplitSentences(text string) []string {
	var out []string
	rs := []rune(text)
	start := 0
	flush := func(end int) {
		if s := strings.TrimSpace(string(rs[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i, r := range rs {
		switch {
		case r == '\n':
			flush(i + 1)
		case isSentenceEnd(r) && (i+1 == len(rs) || unicode.IsSpace(rs[i+1])):
			flush(i + 1)
		}
	}
	flush(len(rs))
	return out
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

var stopWords = map[string]map[string]bool{
	"en": setOf("a", "an", "the", "and", "or", "but", "of", "to", "in", "on", "at", "for", "with",
		"is", "are", "was", "were", "be", "been", "it", "its", "this", "that", "these", "those",
		"as", "by", "from", "has", "have", "had", "not", "so", "than", "then", "there", "they",
		"we", "you", "he", "she", "i", "his", "her", "their", "our", "my", "will", "would", "can"),
	"ko": setOf("그리고", "그러나", "하지만", "그래서", "또한", "또", "그", "이", "저", "것", "수",
		"등", "및", "더", "잘", "좀", "때", "중", "안", "못", "있다", "없다", "하다", "이다", "있는", "있습니다"),
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// tokenLine lowercases a sentence, removes punctuation and stop words, and
// for English also folds accents. Korean keeps its syllables intact.
func tokenLine(sentence, lang string) string {
	text := strings.ToLower(sentence)
	if lang == "en" {
		// Chains keep state, so one is built per call.
		stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(stripMarks, text); err == nil {
			text = folded
		}
	}
	stops := stopWords[lang]

	var words []string
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if !stops[w] {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}
