package profile

import (
	"testing"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	var s domain.StudyStreak

	steps := []struct {
		name    string
		at      time.Time
		current int
		longest int
	}{
		{"first session", day(2025, 6, 30, 9), 1, 1},
		{"same day later", day(2025, 6, 30, 22), 1, 1},
		{"next day", day(2025, 7, 1, 8), 2, 2},
		{"missed one day, freeze", day(2025, 7, 3, 8), 3, 3},
		{"missed again same week", day(2025, 7, 5, 8), 1, 3},
		{"freeze renews next week", day(2025, 7, 7, 8), 2, 3},
		{"long gap resets", day(2025, 7, 12, 8), 1, 3},
	}
	for _, st := range steps {
		s = advanceStreak(s, st.at)
		if s.CurrentDays != st.current || s.LongestDays != st.longest {
			t.Fatalf("%s: streak = %d/%d, want %d/%d",
				st.name, s.CurrentDays, s.LongestDays, st.current, st.longest)
		}
	}
	if s.FreezeWeekISO != "2025-W28" {
		t.Errorf("FreezeWeekISO = %q, want 2025-W28", s.FreezeWeekISO)
	}
}

func TestAdvanceStreak_UsesCalendarDays(t *testing.T) {
	// 23:30 then 00:30 is a new day even though only an hour passed.
	s := advanceStreak(domain.StudyStreak{}, day(2025, 6, 30, 23).Add(30*time.Minute))
	s = advanceStreak(s, day(2025, 7, 1, 0).Add(30*time.Minute))
	if s.CurrentDays != 2 {
		t.Errorf("CurrentDays = %d, want 2", s.CurrentDays)
	}
}

func TestISOWeek(t *testing.T) {
	if got := isoWeek(day(2025, 6, 30, 0)); got != "2025-W27" {
		t.Errorf("isoWeek = %q, want 2025-W27", got)
	}
	if got := isoWeek(day(2024, 12, 30, 0)); got != "2025-W01" {
		t.Errorf("isoWeek = %q, want 2025-W01", got)
	}
}
