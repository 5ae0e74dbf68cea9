package postprocess

import (
	"strings"
	"testing"
)

func TestSpaceSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "mixed punctuation",
			input:    "Hello.World!Test?End",
			expected: "Hello. World! Test? End",
		},
		{
			name:     "already spaced",
			input:    "Already. Spaced!",
			expected: "Already. Spaced!",
		},
		{
			name:     "korean translation",
			input:    "안녕하세요.지금 가세요!",
			expected: "안녕하세요. 지금 가세요!",
		},
		{
			name:     "trailing punctuation untouched",
			input:    "End.",
			expected: "End.",
		},
		{
			name:     "newline counts as whitespace",
			input:    "One.\nTwo.",
			expected: "One.\nTwo.",
		},
		{
			name:     "consecutive marks each get a space",
			input:    "a..b",
			expected: "a. . b",
		},
		{
			name:     "decimal numbers are split too",
			input:    "3.14",
			expected: "3. 14",
		},
		{
			name:     "no whitespace collapsing",
			input:    "Wide.   Gap",
			expected: "Wide.   Gap",
		},
		{
			name:     "leading and trailing whitespace preserved",
			input:    "  a.b  ",
			expected: "  a. b  ",
		},
		{
			name:     "full-width space is whitespace",
			input:    "끝.　다음",
			expected: "끝.　다음",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SpaceSentences(tt.input)
			if result != tt.expected {
				t.Errorf("SpaceSentences(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSpaceSentences_NoPunctuationIsIdentity(t *testing.T) {
	inputs := []string{
		"plain words",
		"줄바꿈\n있는 문장",
		"tabs\tand  spaces ",
		"emoji 🙂 text, with commas; and colons:",
	}
	for _, in := range inputs {
		if got := SpaceSentences(in); got != in {
			t.Errorf("SpaceSentences(%q) = %q, want unchanged", in, got)
		}
	}
}

func FuzzSpaceSentences(f *testing.F) {
	seeds := []string{
		"",
		"Hello.World!Test?End",
		"a..b",
		"?!?!",
		"안녕하세요.지금 가세요!",
		"x.\ty",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		once := SpaceSentences(s)
		twice := SpaceSentences(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
		if !strings.ContainsAny(s, ".!?") && once != s {
			t.Fatalf("text without terminal punctuation changed: %q -> %q", s, once)
		}
		if strings.ReplaceAll(once, " ", "") != strings.ReplaceAll(s, " ", "") {
			t.Fatalf("only spaces may be inserted: %q -> %q", s, once)
		}
	})
}

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no blocks", "요약된 문장입니다.", "요약된 문장입니다."},
		{"thinking block", "Some text<thinking>Let me translate this</thinking>More text", "Some textMore text"},
		{"think block", "<think>plan</think>Result", "Result"},
		{"reasoning block", "Start<reasoning>grammar</reasoning>End", "StartEnd"},
		{"multiple blocks", "<think>First</think>middle<think>Second</think>", "middle"},
		{"truncated block", "<thinking>cut off", ""},
		{"truncated in middle", "Before<think>Incomplete", "Before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeThinkingBlocks(tt.input)
			if result != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveLeadIns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no lead-in", "Just a normal translation.", "Just a normal translation."},
		{"here's the translation", "Here's the translation: Actual text", "Actual text"},
		{"here is the summary", "Here is the summary: Short.", "Short."},
		{"here are the sentences", "Here are the sentences: A. B.", "A. B."},
		{"the translation", "The translation: Hello world", "Hello world"},
		{"sure lead-in", "Sure, here's the Korean translation: 안녕", "안녕"},
		{"korean summary label", "요약: 핵심 내용", "핵심 내용"},
		{"korean translation label", "번역문: Hello", "Hello"},
		{"sure alone is content", "Sure enough, it rained.", "Sure enough, it rained."},
		{"not at start", "Before Here's the translation: After", "Before Here's the translation: After"},
		{"no colon", "Here's the translation text", "Here's the translation text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeLeadIns(tt.input)
			if result != tt.expected {
				t.Errorf("removeLeadIns(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveQuoteWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"single char", "a", "a"},
		{"double quotes", "\"Hello world\"", "Hello world"},
		{"single quotes", "'Hello world'", "Hello world"},
		{"curly quotes", "“Hello world”", "Hello world"},
		{"corner brackets", "「안녕하세요」", "안녕하세요"},
		{"unmatched", "\"Hello world'", "\"Hello world'"},
		{"only opening", "\"Hello world", "\"Hello world"},
		{"inner whitespace trimmed", "\"  Hello  \"", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeQuoteWrapping(tt.input)
			if result != tt.expected {
				t.Errorf("removeQuoteWrapping(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"clean text", "Just a normal translation.", "Just a normal translation."},
		{"full pipeline", "<thinking>hmm</thinking>Here's the translation:\n\"Translated text\"", "Translated text"},
		{"summary pipeline", "<think>x</think>Here is the summary: \"Point one. Point two.\"", "Point one. Point two."},
		{"truncated at end", "Text<thinking>Incomplete", "Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clean(tt.input)
			if result != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
