package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// monospace 是测试用度量器：每个字符 10 像素。
var monospace = MeasureFunc(func(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
})

func contents(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Content)
	}
	return out
}

func TestWrapGreedyPacksWords(t *testing.T) {
	lines := Wrap("hello world again", 110, monospace)
	got := contents(lines)
	if len(got) != 2 || got[0] != "hello world" || got[1] != "again" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if lines[0].Width != 110 || lines[1].Width != 50 {
		t.Fatalf("unexpected widths: %g, %g", lines[0].Width, lines[1].Width)
	}
}

func TestWrapExactWidthStaysOnLine(t *testing.T) {
	// "ab cd" = 50px, exactly the limit
	got := contents(Wrap("ab cd ef", 50, monospace))
	if len(got) != 2 || got[0] != "ab cd" || got[1] != "ef" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapHonorsExplicitNewlines(t *testing.T) {
	got := contents(Wrap("Unhinged mental health\nhacks I learned in therapy\n(that actually work)", 10000, monospace))
	want := []string{"Unhinged mental health", "hacks I learned in therapy", "(that actually work)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapNewlineBreaksEvenWhenShort(t *testing.T) {
	got := contents(Wrap("a\nb", 1e6, monospace))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("explicit newline ignored: %q", got)
	}
}

func TestWrapKeepsBlankParagraphs(t *testing.T) {
	lines := Wrap("foo\n\nbar", 100, monospace)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" || lines[1].Width != 0 {
		t.Fatalf("expected blank middle line, got %+v", lines[1])
	}
}

func TestWrapCRLF(t *testing.T) {
	got := contents(Wrap("one\r\ntwo\rthree", 1e6, monospace))
	if len(got) != 3 || got[2] != "three" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapCollapsesWhitespace(t *testing.T) {
	got := contents(Wrap("  spaced \t  out  ", 1e6, monospace))
	if len(got) != 1 || got[0] != "spaced out" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapNonBreakingSpaceJoinsWords(t *testing.T) {
	got := contents(Wrap("aa bb\u00a0cc", 50, monospace))
	if len(got) != 2 || got[1] != "bb\u00a0cc" {
		t.Fatalf("NBSP should not break: %q", got)
	}
}

// 单个超宽单词（900px，限制 800px）独占一行，且不截断。
func TestWrapOversizedWordOnItsOwnLine(t *testing.T) {
	word := strings.Repeat("w", 90)
	lines := Wrap("tiny "+word+" end", 800, monospace)
	got := contents(lines)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %q", got)
	}
	if got[0] != "tiny" || got[1] != word || got[2] != "end" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if lines[1].Width != 900 {
		t.Fatalf("oversized word should keep its full width, got %g", lines[1].Width)
	}

	alone := Wrap(word, 800, monospace)
	if len(alone) != 1 || alone[0].Content != word {
		t.Fatalf("single oversized word should be one line: %q", contents(alone))
	}
}

// 任意一行宽度都不超过限制，除非该行只有一个单词。
func TestWrapWidthLimitInvariant(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog while a supercalifragilisticexpialidocious word passes by\nand a second paragraph follows"
	for _, limit := range []float64{40, 80, 120, 200, 333} {
		for i, line := range Wrap(text, limit, monospace) {
			if line.Width > limit && strings.ContainsRune(line.Content, ' ') {
				t.Fatalf("limit %g: line %d %q exceeds limit with width %g", limit, i, line.Content, line.Width)
			}
		}
	}
}

func TestWrapNonPositiveLimitDisablesWrapping(t *testing.T) {
	got := contents(Wrap("a b c d e f", 0, monospace))
	if len(got) != 1 {
		t.Fatalf("expected a single line, got %q", got)
	}
}
