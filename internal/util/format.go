package util

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSeconds formats a media clock value as m:ss. NaN and infinite
// values, which an element reports before its duration is known, read as 0:00.
func FormatSeconds(sec float64) string {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return FormatDuration(0)
	}
	return FormatDuration(time.Duration(sec * float64(time.Second)))
}

