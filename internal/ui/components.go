package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
)

func newProgress() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#9333EA", "#3B82F6"),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('━', '─'),
	)
}

func progressRatio(elapsed, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(elapsed/total, 0), 1)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// renderVolumeMeter draws level in [0,1] as a row of width cells.
func renderVolumeMeter(level float64, width int) string {
	level = min(max(level, 0), 1)
	filled := int(level*float64(width) + 0.5)
	return strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled)
}

// volumeSpring eases the displayed volume toward the real one.
type volumeSpring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newVolumeSpring(fps int, start float64) volumeSpring {
	return volumeSpring{
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 8.0, 1.0),
		pos:    start,
	}
}

func (s *volumeSpring) update(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos
}
