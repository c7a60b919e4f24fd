package profile

import (
	"fmt"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

// advanceStreak records a completed session on day.
// Same day: no-op. Next day: extend. One missed day: spend the weekly
// freeze if it is still available, else reset. Longer gaps reset silently.
func advanceStreak(s domain.StudyStreak, day time.Time) domain.StudyStreak {
	today := calendarDay(day)

	if !s.LastDate.IsZero() && today.Equal(calendarDay(s.LastDate.In(day.Location()))) {
		return s
	}

	if s.LastDate.IsZero() {
		s.CurrentDays = 1
	} else {
		gap := daysBetween(calendarDay(s.LastDate.In(day.Location())), today)

		switch {
		case gap <= 1:
			s.CurrentDays++

		case gap == 2:
			week := isoWeek(today)
			if !s.FreezeUsed || s.FreezeWeekISO != week {
				s.FreezeUsed = true
				s.FreezeWeekISO = week
				s.CurrentDays++
			} else {
				s.CurrentDays = 1
			}

		default:
			s.CurrentDays = 1
		}
	}

	s.LastDate = today
	if s.CurrentDays > s.LongestDays {
		s.LongestDays = s.CurrentDays
	}
	return s
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b; DST shifts round away.
func daysBetween(a, b time.Time) int {
	return int((b.Sub(a) + 12*time.Hour) / (24 * time.Hour))
}

// isoWeek returns "YYYY-Www" for the given time.
func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
