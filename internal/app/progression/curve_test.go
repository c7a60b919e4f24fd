package progression

import "testing"

func TestLevelFromXP_Scenarios(t *testing.T) {
	tests := []struct {
		xp       int64
		level    int
		chapter  int
		xpToNext int64
		progress float64
	}{
		{0, 1, 1, 50, 0},
		{25, 1, 1, 25, 50},
		{50, 2, 1, 50, 0},
		{999, 20, 1, 1, 98},
		{1000, 21, 2, 100, 0},
		{1050, 21, 2, 50, 50},
		{3000, 41, 3, 200, 0},
		{22499, 99, 5, 1, 99.8},
		{22500, 100, 5, 0, 100},
		{1_000_000, 100, 5, 0, 100},
	}

	for _, tt := range tests {
		got := LevelFromXP(tt.xp)
		if got.Level != tt.level || got.Chapter != tt.chapter {
			t.Errorf("LevelFromXP(%d) = level %d ch %d, want level %d ch %d",
				tt.xp, got.Level, got.Chapter, tt.level, tt.chapter)
		}
		if got.XPToNext != tt.xpToNext {
			t.Errorf("LevelFromXP(%d).XPToNext = %d, want %d", tt.xp, got.XPToNext, tt.xpToNext)
		}
		if diff := got.Progress - tt.progress; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("LevelFromXP(%d).Progress = %f, want %f", tt.xp, got.Progress, tt.progress)
		}
		if got.XP != tt.xp {
			t.Errorf("LevelFromXP(%d).XP = %d", tt.xp, got.XP)
		}
	}
}

func TestLevelFromXP_NegativeClampsToZero(t *testing.T) {
	got := LevelFromXP(-500)
	if got.Level != 1 || got.XP != 0 || got.Progress != 0 {
		t.Errorf("LevelFromXP(-500) = %+v, want level 1 with 0 XP", got)
	}
}

func TestLevelFromXP_Monotonic(t *testing.T) {
	prev := LevelFromXP(0)
	for xp := int64(1); xp <= 23000; xp += 7 {
		cur := LevelFromXP(xp)
		if cur.Level < prev.Level {
			t.Fatalf("level dropped from %d to %d at xp %d", prev.Level, cur.Level, xp)
		}
		if cur.Progress < 0 || cur.Progress > 100 {
			t.Fatalf("progress %f out of range at xp %d", cur.Progress, xp)
		}
		prev = cur
	}
}

func TestLevelFromXP_Idempotent(t *testing.T) {
	if LevelFromXP(4321) != LevelFromXP(4321) {
		t.Error("same XP produced different levels")
	}
}

func TestChapterFromLevel(t *testing.T) {
	tests := []struct{ level, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {20, 1}, {21, 2}, {40, 2}, {41, 3},
		{61, 4}, {80, 4}, {81, 5}, {100, 5}, {150, 5},
	}
	for _, tt := range tests {
		if got := ChapterFromLevel(tt.level); got != tt.want {
			t.Errorf("ChapterFromLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestXPRequiredForLevel_StepsByChapter(t *testing.T) {
	tu := DefaultTuning()
	tests := []struct {
		level int
		want  int64
	}{
		{1, 50}, {20, 50}, {21, 100}, {41, 200}, {61, 300}, {81, 500}, {99, 500},
	}
	for _, tt := range tests {
		if got := tu.XPRequiredForLevel(tt.level); got != tt.want {
			t.Errorf("XPRequiredForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
	if got := tu.TotalXPForLevel(21); got != 1000 {
		t.Errorf("TotalXPForLevel(21) = %d, want 1000", got)
	}
	if got := tu.TotalXPForLevel(100); got != 22500 {
		t.Errorf("TotalXPForLevel(100) = %d, want 22500", got)
	}
}
