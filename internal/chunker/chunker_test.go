package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/qnjualonzo/enkor/internal/chunker"
)

func texts(pieces []chunker.Piece) []string {
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = p.Text
	}
	return out
}

func TestSplit_ShortText(t *testing.T) {
	text := "Hello, world!"
	pieces := chunker.Split(text, 100)
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if pieces[0].Text != text || pieces[0].Sep != "" {
		t.Errorf("unexpected piece %+v", pieces[0])
	}
}

func TestSplit_Unlimited(t *testing.T) {
	text := strings.Repeat("word ", 500)
	if n := len(chunker.Split(text, 0)); n != 1 {
		t.Errorf("expected 1 piece when maxRunes=0, got %d", n)
	}
}

func TestSplit_ParagraphBoundary(t *testing.T) {
	text := "First paragraph text here.\n\nSecond paragraph text here."

	pieces := chunker.Split(text, 40)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %q", len(pieces), texts(pieces))
	}
	if pieces[0].Text != "First paragraph text here." {
		t.Errorf("first piece = %q", pieces[0].Text)
	}
	if pieces[0].Sep != "\n\n" {
		t.Errorf("first separator = %q, want blank line", pieces[0].Sep)
	}
	if pieces[1].Text != "Second paragraph text here." {
		t.Errorf("second piece = %q", pieces[1].Text)
	}
}

func TestSplit_SentenceBoundary(t *testing.T) {
	text := "First sentence ends here. Second sentence follows. Third sentence."

	pieces := chunker.Split(text, 55)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %q", len(pieces), texts(pieces))
	}
	if pieces[0].Text != "First sentence ends here. Second sentence follows." {
		t.Errorf("first piece = %q", pieces[0].Text)
	}
	if pieces[0].Sep != " " {
		t.Errorf("separator = %q", pieces[0].Sep)
	}
}

func TestSplit_WordBoundary(t *testing.T) {
	text := "alpha beta gamma delta epsilon"

	for _, p := range chunker.Split(text, 12) {
		if strings.HasPrefix(p.Text, " ") || strings.HasSuffix(p.Text, " ") {
			t.Errorf("piece %q not trimmed", p.Text)
		}
		if utf8.RuneCountInString(p.Text) > 12 {
			t.Errorf("piece %q longer than limit", p.Text)
		}
	}
}

func TestSplit_HardCutKorean(t *testing.T) {
	text := strings.Repeat("가", 25)

	pieces := chunker.Split(text, 10)

	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		if !utf8.ValidString(p.Text) {
			t.Errorf("piece %d split a rune: %q", i, p.Text)
		}
	}
	if got := utf8.RuneCountInString(pieces[2].Text); got != 5 {
		t.Errorf("last piece has %d runes, want 5", got)
	}
}

func TestJoin_RestoresLayout(t *testing.T) {
	inputs := []string{
		"First paragraph text here.\n\nSecond paragraph text here.",
		"첫 번째 문장입니다. 두 번째 문장입니다. 세 번째 문장입니다. 네 번째 문장입니다.",
		"one two three four five six seven eight nine ten",
		strings.Repeat("x", 33),
		"   " + strings.Repeat("x", 20),
		"  \n  First paragraph text here. Second one.",
	}
	for _, in := range inputs {
		pieces := chunker.Split(in, 16)
		got := chunker.Join(pieces, texts(pieces))
		if got != in {
			t.Errorf("Join(Split(%q)) = %q", in, got)
		}
	}
}

func TestJoin_TranslatedPieces(t *testing.T) {
	pieces := chunker.Split("Hi there.\n\nGo now!", 10)

	got := chunker.Join(pieces, []string{"안녕하세요.", "지금 가세요!"})

	if got != "안녕하세요.\n\n지금 가세요!" {
		t.Errorf("unexpected join %q", got)
	}
}

func TestSplit_LeadingWhitespaceKept(t *testing.T) {
	pieces := chunker.Split("   "+strings.Repeat("x", 20), 10)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %+v", len(pieces), pieces)
	}
	if pieces[0].Lead != "   " || pieces[1].Lead != "" {
		t.Errorf("unexpected leads %q / %q", pieces[0].Lead, pieces[1].Lead)
	}

	got := chunker.Join(pieces, []string{"y", "z"})
	if got != "   yz" {
		t.Errorf("unexpected join %q", got)
	}
}
