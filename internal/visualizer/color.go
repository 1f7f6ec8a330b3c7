package visualizer

import (
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

var (
	profileOnce sync.Once
	profile     termenv.Profile
	seqCache    sync.Map
)

// cellProfile is the colour depth Braille cells are written with. It
// follows NO_COLOR, COLORTERM and TERM, and is plain ASCII off a terminal.
func cellProfile() termenv.Profile {
	profileOnce.Do(func() {
		profile = termenv.EnvColorProfile()
	})
	return profile
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cellPainter emits foreground colour changes between cells, skipping
// repeats.
type cellPainter struct {
	profile termenv.Profile
	current string
}

func newCellPainter() cellPainter {
	return cellPainter{profile: cellProfile()}
}

func (p *cellPainter) set(sb *strings.Builder, c colorful.Color) {
	if p.profile == termenv.Ascii {
		return
	}
	hex := c.Clamped().Hex()
	if hex == p.current {
		return
	}
	sb.WriteString(colorSequence(p.profile, hex))
	p.current = hex
}

func (p *cellPainter) reset(sb *strings.Builder) {
	if p.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	p.current = ""
}

func colorSequence(profile termenv.Profile, hex string) string {
	key := string(rune('0'+profile)) + hex
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}
	seq := ""
	if s := profile.Color(hex).Sequence(false); s != "" {
		seq = termenv.CSI + s + "m"
	}
	seqCache.Store(key, seq)
	return seq
}
