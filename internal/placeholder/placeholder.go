// Package placeholder shields text that must survive an LLM translation
// verbatim (code, markup, URLs, e-mail addresses) behind numbered markers
// such as [PH0] and puts it back afterwards.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`\n]+`")
	reHTMLTag    = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)
	reURL        = regexp.MustCompile("https?://[^\\s<>\"'`]*[^\\s<>\"'`.,!?;:)\\]]")
	reEmail      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protected is text with its verbatim spans swapped for markers.
type Protected struct {
	Text      string
	originals []string
}

// Protect replaces every protected span with a marker, in pattern order:
// fenced code first so inline code inside it is not split, then inline code,
// tags, URLs and addresses.
func Protect(text string) Protected {
	p := Protected{}
	replace := func(match string) string {
		marker := fmt.Sprintf("[PH%d]", len(p.originals))
		p.originals = append(p.originals, match)
		return marker
	}
	for _, re := range []*regexp.Regexp{reFencedCode, reInlineCode, reHTMLTag, reURL, reEmail} {
		text = re.ReplaceAllStringFunc(text, replace)
	}
	p.Text = text
	return p
}

// Count is the number of protected spans.
func (p Protected) Count() int {
	return len(p.originals)
}

// Restore puts the originals back into translated. Markers the model
// invented are left as they are.
func (p Protected) Restore(translated string) string {
	if len(p.originals) == 0 {
		return translated
	}
	return rePlaceholder.ReplaceAllStringFunc(translated, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx >= len(p.originals) {
			return match
		}
		return p.originals[idx]
	})
}

// Missing lists the marker indices that translated no longer contains.
func (p Protected) Missing(translated string) []int {
	var missing []int
	for i := range p.originals {
		if !strings.Contains(translated, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Hint is appended to a prompt when anything was protected.
func (p Protected) Hint() string {
	if len(p.originals) == 0 {
		return ""
	}
	return "Keep every [PHn] marker exactly as written; do not translate, move or remove them."
}
