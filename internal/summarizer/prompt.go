package summarizer

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// systemPrompt is shared by the chat-style backends.
func systemPrompt(lang string, sentenceCount int) string {
	return fmt.Sprintf(`You summarize text. Write the summary in %s.
Use at most %d sentences. Keep names and numbers exactly as in the text.
Output ONLY the summary. Do not add a title, a preamble or any explanation.`,
		languageName(lang), sentenceCount)
}

// buildSummaryPrompt is the single-string form for completion endpoints.
func buildSummaryPrompt(text, lang string, sentenceCount int) string {
	return fmt.Sprintf("%s\n\nTEXT:\n%s\n\nSUMMARY:", systemPrompt(lang, sentenceCount), text)
}

func sentenceCountOrDefault(n int) int {
	if n < 1 {
		return 3
	}
	return n
}
