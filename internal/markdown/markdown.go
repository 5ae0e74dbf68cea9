// Package markdown flattens Markdown input into plain prose so translators
// and the summarizer see sentences instead of markup.
package markdown

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// ToHTML renders md with the common extensions.
func ToHTML(md []byte) string {
	opts := mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	}
	renderer := mdhtml.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

// ToPlainText keeps the text of md and drops its markup. Block elements
// stay separated by a blank line.
func ToPlainText(md []byte) string {
	text := StripHTMLTags(ToHTML(md))
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}

// StripHTMLTags removes anything between < and >. Entities are left as is.
func StripHTMLTags(htmlContent string) string {
	var result bytes.Buffer
	inTag := false

	for _, ch := range htmlContent {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				result.WriteRune(ch)
			}
		}
	}

	return result.String()
}
