package styles

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// FormatDuration renders a clip length: "0.6s" under a minute, "1:05" above.
// Zero or negative durations render as "".
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		secs := int(d.Round(time.Second).Seconds())
		return fmt.Sprintf("%d:%02d", secs/60, secs%60)
	}
}

// TitleCase upper-cases the first user-perceived character of s, keeping
// any combining marks attached to it.
func TitleCase(s string) string {
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return strings.ToUpper(first) + rest
}

// VolumeBar renders v in [0,1] as a bar of width cells and a percentage.
func VolumeBar(v float64, width int) string {
	v = math.Max(0, math.Min(1, v))
	if width < 1 {
		width = 1
	}
	filled := int(math.Round(v * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		fmt.Sprintf(" %3d%%", int(math.Round(v*100)))
}
