package visualizer

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

func TestColorSequence(t *testing.T) {
	if got := colorSequence(termenv.TrueColor, "#ff0000"); got != "\x1b[38;2;255;0;0m" {
		t.Fatalf("truecolor sequence = %q", got)
	}
	if got := colorSequence(termenv.Ascii, "#ff0000"); got != "" {
		t.Fatalf("ascii sequence = %q, want empty", got)
	}
}

func TestCellPainterSkipsRepeats(t *testing.T) {
	p := cellPainter{profile: termenv.TrueColor}
	var sb strings.Builder
	red := colorful.Color{R: 1}
	p.set(&sb, red)
	p.set(&sb, red)
	p.reset(&sb)
	p.reset(&sb)

	want := "\x1b[38;2;255;0;0m" + "\x1b[0m"
	if sb.String() != want {
		t.Fatalf("painter wrote %q, want %q", sb.String(), want)
	}
}

func TestCellPainterAsciiWritesNothing(t *testing.T) {
	p := cellPainter{profile: termenv.Ascii}
	var sb strings.Builder
	p.set(&sb, colorful.Color{G: 1})
	p.reset(&sb)
	if sb.Len() != 0 {
		t.Fatalf("ascii painter wrote %q", sb.String())
	}
}
