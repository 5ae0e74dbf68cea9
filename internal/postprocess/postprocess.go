// Package postprocess tidies text coming back from translation and
// summarization backends.
//
// SpaceSentences is applied to every translation before it is shown or
// summarized. Clean is applied to the raw output of LLM-backed services
// (Ollama, OpenAI, Gemini, Anthropic) before it reaches SpaceSentences.
package postprocess

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SpaceSentences inserts exactly one space after every '.', '!' or '?' that
// is directly followed by a non-whitespace character. Nothing else is
// touched: no trimming, no whitespace collapsing, no Unicode normalization.
//
// The function is idempotent: SpaceSentences(SpaceSentences(s)) ==
// SpaceSentences(s).
func SpaceSentences(text string) string {
	if !strings.ContainsAny(text, ".!?") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	// Bytes are copied through verbatim so invalid UTF-8 survives unchanged.
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
		if !isTerminal(r) || i >= len(text) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(text[i:]); !unicode.IsSpace(next) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Clean removes LLM artifacts from text and returns the trimmed result:
//  1. Thinking / reasoning blocks
//  2. Lead-in echoes ("Here is the translation:", "요약:")
//  3. Quote wrapping
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeLeadIns(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// RE2 has no backreferences, so every tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// An opened tag whose closing tag never arrived (output was cut off).
var truncatedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>).*$`)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// leadInPatterns are anchored at the start and require a colon so that
// legitimate first sentences survive.
var leadInPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s*)?here(?:'s| is| are)(?: the| a)? (?:translated |english |korean |concise |short )?(?:translation|text|summary|sentences)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text|summary)\s*:`),
	regexp.MustCompile(`^(?:번역|번역문|요약|요약문)\s*:`),
}

func removeLeadIns(text string) string {
	for _, re := range leadInPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// removeQuoteWrapping strips one matching pair of outer quotes when the
// whole text is wrapped in them.
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '“' && last == '”') ||
		(first == '「' && last == '」') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
