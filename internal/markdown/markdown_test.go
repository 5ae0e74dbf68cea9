package markdown

import (
	"strings"
	"testing"
)

func TestToPlainText(t *testing.T) {
	md := "# Title\n\nSome **bold** and _italic_ text with a [link](https://example.com).\n\n- one\n- two\n"

	got := ToPlainText([]byte(md))

	for _, want := range []string{"Title", "Some bold and italic text with a link.", "one", "two"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	for _, gone := range []string{"**", "#", "](", "<"} {
		if strings.Contains(got, gone) {
			t.Errorf("markup %q left in %q", gone, got)
		}
	}
}

func TestToPlainText_Entities(t *testing.T) {
	got := ToPlainText([]byte("Tom & Jerry <3"))

	if got != "Tom & Jerry <3" {
		t.Errorf("entities not unescaped: %q", got)
	}
}

func TestToPlainText_Korean(t *testing.T) {
	got := ToPlainText([]byte("## 제목\n\n*안녕하세요*. 반갑습니다.\n"))

	if !strings.HasPrefix(got, "제목\n\n") || !strings.Contains(got, "안녕하세요. 반갑습니다.") {
		t.Errorf("got %q", got)
	}
}

func TestStripHTMLTags(t *testing.T) {
	got := StripHTMLTags(`<p>Hello <a href="x">world</a></p>`)
	if got != "Hello world" {
		t.Errorf("got %q", got)
	}
}
