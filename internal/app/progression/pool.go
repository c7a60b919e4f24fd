package progression

import (
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

// PoolSpec configures one regenerating currency. Hearts and stars share the
// model and differ only in these values.
//
// ResetAnchorOnConsume selects the recovery-clock variant: when true a spend
// restarts the recovery window (hearts); when false the recovery clock runs
// independently of spending (stars).
type PoolSpec struct {
	Kind                 domain.PoolKind `yaml:"kind"`
	RecoveryInterval     time.Duration   `yaml:"recovery_interval"`
	BaseCapacity         int             `yaml:"base_capacity"`
	LevelStep            int             `yaml:"level_step"`
	HardCap              int             `yaml:"hard_cap"`
	ResetAnchorOnConsume bool            `yaml:"reset_anchor_on_consume"`
}

// Capacity returns min(base + (level-1)/step, hardCap).
func (s PoolSpec) Capacity(level int) int {
	if level < 1 {
		level = 1
	}
	c := s.BaseCapacity + (level-1)/s.LevelStep
	if c > s.HardCap {
		c = s.HardCap
	}
	return c
}

// NewPool returns a full pool for level anchored at now.
func (s PoolSpec) NewPool(level int, now time.Time) domain.ResourcePool {
	c := s.Capacity(level)
	return domain.ResourcePool{Current: c, Max: c, LastRecoveryTime: now.UnixMilli()}
}

// Consume spends one unit. It fails without touching the pool when empty.
func (s PoolSpec) Consume(p domain.ResourcePool, now time.Time) (domain.ResourcePool, bool) {
	if p.Current <= 0 {
		return p, false
	}
	p.Current--
	if s.ResetAnchorOnConsume {
		p.LastRecoveryTime = now.UnixMilli()
	}
	return p, true
}

// Recover credits every whole recovery interval elapsed since the anchor and
// advances the anchor by exactly those intervals, so partial progress toward
// the next unit survives irregular call cadences. A full pool only has its
// anchor moved to now: time spent full never counts toward the next unit.
// Calling it twice at the same instant is a no-op the second time.
func (s PoolSpec) Recover(p domain.ResourcePool, now time.Time) domain.ResourcePool {
	if p.Full() {
		p.Current = p.Max
		p.LastRecoveryTime = now.UnixMilli()
		return p
	}

	elapsed := now.Sub(p.Anchor())
	if elapsed < 0 {
		// Clock went backwards; re-anchor rather than stall for the gap.
		p.LastRecoveryTime = now.UnixMilli()
		return p
	}

	ticks := int64(elapsed / s.RecoveryInterval)
	if ticks == 0 {
		return p
	}

	p.Current += int(min(ticks, int64(p.Max-p.Current)))
	p.LastRecoveryTime += ticks * s.RecoveryInterval.Milliseconds()
	return p
}

// TimeUntilNextUnit returns how long until the next unit regenerates,
// or zero when the pool is full.
func (s PoolSpec) TimeUntilNextUnit(p domain.ResourcePool, now time.Time) time.Duration {
	if p.Full() {
		return 0
	}
	elapsed := now.Sub(p.Anchor())
	if elapsed < 0 {
		elapsed = 0
	}
	return s.RecoveryInterval - elapsed%s.RecoveryInterval
}

// Resize re-derives Max for level. Current is kept, only clamped if it
// exceeds the new ceiling; refilling is the caller's decision.
func (s PoolSpec) Resize(p domain.ResourcePool, level int) domain.ResourcePool {
	p.Max = s.Capacity(level)
	if p.Current > p.Max {
		p.Current = p.Max
	}
	if p.Current < 0 {
		p.Current = 0
	}
	return p
}
