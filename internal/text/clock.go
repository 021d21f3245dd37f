// Package text implements clock rendering for the two output registers.
package text

import (
	"strings"
	"time"
)

// TechClock renders a time as "3:04 PM": 12-hour, zero-padded minutes,
// locale-style AM/PM. Hours 0 and 12 both render as 12.
func TechClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// ProceduralClock renders a time as "3:04 p.m.": 12-hour, zero-padded
// minutes, lowercase dotted meridiem.
func ProceduralClock(t time.Time) string {
	out := t.Format("3:04 PM")
	out = strings.Replace(out, "AM", "a.m.", 1)
	out = strings.Replace(out, "PM", "p.m.", 1)
	return out
}
