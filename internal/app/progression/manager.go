package progression

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

// Manager owns one learner's progression state: cumulative XP, the heart and
// star pools and the status allocation. Every operation locks the manager,
// so timers and request handlers may call it concurrently.
type Manager struct {
	mu     sync.Mutex
	tuning *Tuning
	clock  domain.Clock
	rng    domain.RNG

	xp     int64
	hearts domain.ResourcePool
	stars  domain.ResourcePool
	alloc  domain.StatusAllocation
}

// Option configures a Manager.
type Option func(*Manager)

// WithTuning replaces the default economy tables.
func WithTuning(t *Tuning) Option {
	return func(m *Manager) {
		if t != nil {
			m.tuning = t
		}
	}
}

// WithClock injects the wall clock used for pool recovery.
func WithClock(c domain.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithRNG injects the random source used for draws and reward rolls.
func WithRNG(r domain.RNG) Option {
	return func(m *Manager) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithSeed is WithRNG over a math/rand source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRNG(rand.New(rand.NewSource(seed)))
}

// NewManager returns a fresh level-1 profile: no XP, full pools at base
// capacity and the balanced allocation.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		tuning: defaultTuning,
		clock:  domain.SystemClock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := m.clock.Now()
	m.hearts = m.tuning.Hearts.NewPool(1, now)
	m.stars = m.tuning.Stars.NewPool(1, now)
	m.alloc = DefaultAllocation()
	return m
}

// Tuning returns the economy tables this manager runs on.
func (m *Manager) Tuning() *Tuning { return m.tuning }

// ─── Reads ──────────────────────────────────────────────────────────────────

// Level returns the current level derived from XP.
func (m *Manager) Level() domain.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tuning.LevelFromXP(m.xp)
}

// XP returns cumulative experience.
func (m *Manager) XP() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.xp
}

// HeartSystem returns the heart pool after crediting any elapsed recovery.
func (m *Manager) HeartSystem() domain.ResourcePool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoverLocked(m.clock.Now())
	return m.hearts
}

// StarSystem returns the star pool after crediting any elapsed recovery.
func (m *Manager) StarSystem() domain.ResourcePool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoverLocked(m.clock.Now())
	return m.stars
}

// StatusAllocation returns the committed allocation vector.
func (m *Manager) StatusAllocation() domain.StatusAllocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alloc
}

// TimeUntilNextHeart returns the wait for the next heart, zero when full.
func (m *Manager) TimeUntilNextHeart() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	m.recoverLocked(now)
	return m.tuning.Hearts.TimeUntilNextUnit(m.hearts, now)
}

// TimeUntilNextStar returns the wait for the next star, zero when full.
func (m *Manager) TimeUntilNextStar() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	m.recoverLocked(now)
	return m.tuning.Stars.TimeUntilNextUnit(m.stars, now)
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// AddXP adds experience and reports whether a level was gained. On level-up
// both pools are resized for the new level and refilled when the tuning
// says so. Non-positive amounts change nothing; the total saturates at
// math.MaxInt64 instead of wrapping.
func (m *Manager) AddXP(amount int64) domain.LevelUp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount <= 0 {
		return domain.LevelUp{}
	}

	before := m.tuning.LevelFromXP(m.xp)
	if amount > math.MaxInt64-m.xp {
		m.xp = math.MaxInt64
	} else {
		m.xp += amount
	}
	after := m.tuning.LevelFromXP(m.xp)
	if after.Level <= before.Level {
		return domain.LevelUp{}
	}

	now := m.clock.Now()
	m.recoverLocked(now)
	m.hearts = m.tuning.Hearts.Resize(m.hearts, after.Level)
	m.stars = m.tuning.Stars.Resize(m.stars, after.Level)
	if m.tuning.RefillOnLevelUp {
		m.hearts.Current = m.hearts.Max
		m.stars.Current = m.stars.Max
	}
	return domain.LevelUp{LeveledUp: true, NewLevel: &after}
}

// ConsumeHeart spends one heart. False means none were left and nothing
// changed; the caller must block the gated action.
func (m *Manager) ConsumeHeart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	m.recoverLocked(now)
	var ok bool
	m.hearts, ok = m.tuning.Hearts.Consume(m.hearts, now)
	return ok
}

// ConsumeStar spends one star. False means none were left.
func (m *Manager) ConsumeStar() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	m.recoverLocked(now)
	var ok bool
	m.stars, ok = m.tuning.Stars.Consume(m.stars, now)
	return ok
}

// Recover credits elapsed regeneration to both pools and returns them.
// This is the entry point for periodic timers.
func (m *Manager) Recover() (hearts, stars domain.ResourcePool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoverLocked(m.clock.Now())
	return m.hearts, m.stars
}

// UpdateStatusAllocation commits a new allocation if it is valid. An invalid
// vector is rejected and the previous one stays exactly as it was.
func (m *Manager) UpdateStatusAllocation(a domain.StatusAllocation) bool {
	if !a.Valid() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alloc = a
	return true
}

// ApplyStatusTemplate installs a named preset. Unknown names change nothing.
func (m *Manager) ApplyStatusTemplate(name string) bool {
	a, ok := StatusTemplate(name)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alloc = a
	return true
}

// ─── Draws ──────────────────────────────────────────────────────────────────

// NextQuestionRank draws a rank from the current chapter's table.
func (m *Manager) NextQuestionRank() domain.Rank {
	m.mu.Lock()
	defer m.mu.Unlock()
	chapter := m.tuning.LevelFromXP(m.xp).Chapter
	return m.tuning.DrawRank(chapter, m.rng)
}

// NextSkillField draws a practice field weighted by the allocation.
func (m *Manager) NextSkillField() domain.SkillField {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DrawSkillField(m.alloc, m.rng)
}

// SessionXP runs calc under the manager's lock so it shares the RNG safely.
// It does not add the XP.
func (m *Manager) SessionXP(calc Calculator, res SessionResult) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return calc.SessionXP(res, m.rng)
}

func (m *Manager) recoverLocked(now time.Time) {
	m.hearts = m.tuning.Hearts.Recover(m.hearts, now)
	m.stars = m.tuning.Stars.Recover(m.stars, now)
}
