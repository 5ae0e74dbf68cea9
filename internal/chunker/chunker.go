// Package chunker splits long text into pieces that fit length-limited
// translation endpoints, preferring paragraph and sentence boundaries, and
// stitches the translated pieces back together with the original spacing.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Piece is one chunk of the input and the whitespace that followed it.
// Lead holds whitespace before the first chunk and is empty elsewhere.
type Piece struct {
	Lead string
	Text string
	Sep  string
}

// Split cuts text into pieces of at most maxRunes runes each. Cuts are tried,
// in order, at:
//  1. a blank line
//  2. '.', '!' or '?' followed by whitespace
//  3. any whitespace
//  4. exactly maxRunes runes
//
// maxRunes <= 0 means unlimited. The whitespace at each cut goes into
// Piece.Sep, so Join reproduces the layout.
func Split(text string, maxRunes int) []Piece {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return []Piece{{Text: text}}
	}

	var pieces []Piece
	var lead string
	rest := text
	for utf8.RuneCountInString(rest) > maxRunes {
		cut := findCut(rest, maxRunes)
		body := strings.TrimRightFunc(rest[:cut], unicode.IsSpace)
		next := strings.TrimLeftFunc(rest[cut:], unicode.IsSpace)
		sep := rest[len(body) : len(rest)-len(next)]
		rest = next

		if body == "" {
			if n := len(pieces); n > 0 {
				pieces[n-1].Sep += sep
			} else {
				lead += sep
			}
			continue
		}
		pieces = append(pieces, Piece{Text: body, Sep: sep})
	}
	if rest != "" || len(pieces) == 0 {
		pieces = append(pieces, Piece{Text: rest})
	}
	pieces[0].Lead = lead
	return pieces
}

// Join concatenates texts (one per piece, usually translations of
// pieces[i].Text) with the separators recorded by Split.
func Join(pieces []Piece, texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		if i < len(pieces) {
			b.WriteString(pieces[i].Lead)
		}
		b.WriteString(t)
		if i < len(pieces) {
			b.WriteString(pieces[i].Sep)
		}
	}
	return b.String()
}

// findCut returns a byte offset in (0, len(s)] at which to cut so that the
// head holds at most maxRunes runes.
func findCut(s string, maxRunes int) int {
	limit := byteOffset(s, maxRunes)
	window := s[:limit]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i
	}

	for i := len(window) - 1; i > 0; i-- {
		if isTerminal(window[i-1]) && isASCIISpace(window[i]) {
			return i
		}
	}

	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		return i
	}

	return limit
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
