package progression

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

// Serialize captures the manager's state. Pools are reported as they stand
// after crediting recovery up to now.
func (m *Manager) Serialize() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoverLocked(m.clock.Now())
	return domain.Snapshot{
		Level:            m.tuning.LevelFromXP(m.xp),
		HeartSystem:      m.hearts,
		StarSystem:       m.stars,
		StatusAllocation: m.alloc,
	}
}

// Marshal returns Serialize as JSON, the blob handed to the persistence layer.
func (m *Manager) Marshal() ([]byte, error) {
	return json.Marshal(m.Serialize())
}

// Deserialize rebuilds a manager from a snapshot. Anything missing or out of
// range is replaced by its default instead of failing:
//
//   - negative XP becomes 0; the level is always re-derived from XP
//   - a zero-valued pool becomes a full pool for the restored level
//   - a pool's Max is re-derived from the level and Current clamped to it
//   - a missing recovery anchor becomes now
//   - an allocation that breaks the 30-point rule becomes balanced
func Deserialize(s domain.Snapshot, opts ...Option) *Manager {
	m := NewManager(opts...)
	now := m.clock.Now()

	m.xp = max(s.Level.XP, 0)
	level := m.tuning.LevelFromXP(m.xp).Level
	m.hearts = restorePool(m.tuning.Hearts, s.HeartSystem, level, now)
	m.stars = restorePool(m.tuning.Stars, s.StarSystem, level, now)
	if s.StatusAllocation.Valid() {
		m.alloc = s.StatusAllocation
	}
	return m
}

// Restore decodes a persisted blob. It always returns a usable manager; a
// non-nil error only explains which parts were replaced by defaults
// (domain.ErrSnapshotNotFound for an empty blob, domain.ErrCorruptSnapshot
// otherwise) so the caller can log it.
func Restore(blob []byte, opts ...Option) (*Manager, error) {
	if len(strings.TrimSpace(string(blob))) == 0 {
		return NewManager(opts...), domain.ErrSnapshotNotFound
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return NewManager(opts...), fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	var (
		snap domain.Snapshot
		bad  []string
	)
	decode := func(key string, dst any) {
		v, ok := raw[key]
		if !ok {
			bad = append(bad, key+" missing")
			return
		}
		if err := json.Unmarshal(v, dst); err != nil {
			bad = append(bad, key+" malformed")
		}
	}

	// Decode sections independently so one bad field does not discard the rest.
	var lvl domain.Level
	decode("level", &lvl)
	snap.Level.XP = lvl.XP

	var hearts, stars domain.ResourcePool
	decode("heartSystem", &hearts)
	decode("starSystem", &stars)
	snap.HeartSystem, snap.StarSystem = hearts, stars

	var alloc domain.StatusAllocation
	decode("statusAllocation", &alloc)
	if _, ok := raw["statusAllocation"]; ok && !alloc.Valid() {
		bad = append(bad, "statusAllocation invalid")
	}
	snap.StatusAllocation = alloc

	m := Deserialize(snap, opts...)
	if len(bad) > 0 {
		return m, fmt.Errorf("%w: %s", domain.ErrCorruptSnapshot, strings.Join(bad, ", "))
	}
	return m, nil
}

func restorePool(spec PoolSpec, p domain.ResourcePool, level int, now time.Time) domain.ResourcePool {
	if p == (domain.ResourcePool{}) {
		return spec.NewPool(level, now)
	}
	p = spec.Resize(p, level)
	if p.LastRecoveryTime <= 0 {
		p.LastRecoveryTime = now.UnixMilli()
	}
	return p
}
