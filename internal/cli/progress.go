package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/domain"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Renders level progress and pool state for the terminal:
//   [=========>....................]  31% | 94 XP to level 8

const barWidth = 30 // Characters for the progress bar

func renderBar(pct float64) string {
	pct = min(max(pct, 0), 100)

	filled := min(int(pct/100*float64(barWidth)), barWidth)
	empty := barWidth - filled

	var bar string
	switch {
	case filled == barWidth:
		bar = strings.Repeat("=", filled)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty)
	default:
		bar = strings.Repeat(".", barWidth)
	}
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct)
}

func levelLine(l domain.Level) string {
	if l.XPToNext == 0 {
		return renderBar(l.Progress) + " | max level"
	}
	return fmt.Sprintf("%s | %d XP to level %d", renderBar(l.Progress), l.XPToNext, l.Level+1)
}

func poolLine(p profile.PoolStatus) string {
	line := fmt.Sprintf("%d/%d", p.Current, p.Max)
	if p.NextInSeconds > 0 {
		line += " | next in " + formatWait(time.Duration(p.NextInSeconds)*time.Second)
	}
	return line
}

func formatWait(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%dh%02dm", secs/3600, (secs%3600)/60)
}
