// Package profile binds one learner's progression.Manager to persistence,
// the XP ledger, metrics and logging. Every mutation is persisted as a full
// snapshot before the call returns.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lingo-quest/lingo/internal/app/progression"
	"github.com/lingo-quest/lingo/internal/domain"
	"github.com/lingo-quest/lingo/internal/infra/metrics"
)

// DefaultKey is the profile key used when none is configured.
const DefaultKey = "default"

// MaxXPGrant bounds a single AddXP call. It is far above the XP needed to
// reach the top level.
const MaxXPGrant int64 = 1_000_000

// Deps are the collaborators of a Service. Store and Ledger may be nil for
// an in-memory profile.
type Deps struct {
	Key    string
	Store  domain.SnapshotStore
	Ledger domain.XPLedger
	Tuning *progression.Tuning
	Clock  domain.Clock
	RNG    domain.RNG
	Seed   int64 // used when RNG is nil; 0 seeds from the clock
	Logger *zap.Logger
}

// Service is the application-level façade over one profile.
type Service struct {
	mu     sync.Mutex
	key    string
	store  domain.SnapshotStore
	ledger domain.XPLedger
	clock  domain.Clock
	log    *zap.Logger

	mgr    *progression.Manager
	streak domain.StudyStreak
	saved  domain.Snapshot
}

// PoolStatus is a pool plus the wait until its next unit.
type PoolStatus struct {
	domain.ResourcePool
	Kind          domain.PoolKind `json:"kind"`
	NextInSeconds int64           `json:"nextInSeconds"`
}

// XPAward describes one XP grant.
type XPAward struct {
	XPAwarded int64               `json:"xpAwarded"`
	LevelUp   domain.LevelUp      `json:"levelUp"`
	Level     domain.Level        `json:"level"`
	Entry     domain.XPEntry      `json:"entry"`
	Streak    *domain.StudyStreak `json:"streak,omitempty"`
}

// SessionReport is what a client sends when a learning session finishes.
type SessionReport struct {
	Strategy      string          `json:"strategy"`
	Rank          domain.Rank     `json:"rank"`
	ComboEligible bool            `json:"comboEligible"`
	Answers       []domain.Answer `json:"answers"`
}

// Open restores the profile stored under deps.Key. A missing or damaged
// snapshot is not an error: the profile starts from defaults and the
// reason is logged. Only a failing store is returned as an error.
func Open(ctx context.Context, deps Deps) (*Service, error) {
	s := &Service{
		key:    deps.Key,
		store:  deps.Store,
		ledger: deps.Ledger,
		clock:  deps.Clock,
		log:    deps.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.clock == nil {
		s.clock = domain.SystemClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("profile", s.key))

	opts := []progression.Option{progression.WithTuning(deps.Tuning), progression.WithClock(s.clock)}
	switch {
	case deps.RNG != nil:
		opts = append(opts, progression.WithRNG(deps.RNG))
	case deps.Seed != 0:
		opts = append(opts, progression.WithSeed(deps.Seed))
	}

	blob, err := s.load(ctx, s.key)
	if err != nil {
		return nil, err
	}
	mgr, rerr := progression.Restore(blob, opts...)
	switch {
	case errors.Is(rerr, domain.ErrSnapshotNotFound):
		s.log.Info("no saved progression, starting fresh")
	case rerr != nil:
		metrics.SnapshotRestoreFallbacks.Inc()
		s.log.Warn("progression snapshot partly restored from defaults", zap.Error(rerr))
	}
	s.mgr = mgr

	streakBlob, err := s.load(ctx, s.streakKey())
	if err != nil {
		return nil, err
	}
	if len(streakBlob) > 0 {
		if err := json.Unmarshal(streakBlob, &s.streak); err != nil {
			s.log.Warn("study streak unreadable, resetting", zap.Error(err))
			s.streak = domain.StudyStreak{}
		}
	}

	s.saved = s.mgr.Serialize()
	s.observe(s.saved)
	lvl := s.saved.Level
	s.log.Info("profile opened",
		zap.Int("level", lvl.Level),
		zap.Int("chapter", lvl.Chapter),
		zap.Int64("xp", lvl.XP))
	return s, nil
}

// Key returns the profile key.
func (s *Service) Key() string { return s.key }

// Tuning returns the economy tables in effect.
func (s *Service) Tuning() *progression.Tuning { return s.mgr.Tuning() }

// ─── Reads ──────────────────────────────────────────────────────────────────

// Level returns the current level.
func (s *Service) Level() domain.Level { return s.mgr.Level() }

// Hearts returns the heart pool after recovery.
func (s *Service) Hearts() PoolStatus {
	return PoolStatus{
		ResourcePool:  s.mgr.HeartSystem(),
		Kind:          domain.PoolHearts,
		NextInSeconds: ceilSeconds(s.mgr.TimeUntilNextHeart()),
	}
}

// Stars returns the star pool after recovery.
func (s *Service) Stars() PoolStatus {
	return PoolStatus{
		ResourcePool:  s.mgr.StarSystem(),
		Kind:          domain.PoolStars,
		NextInSeconds: ceilSeconds(s.mgr.TimeUntilNextStar()),
	}
}

// Allocation returns the committed status allocation.
func (s *Service) Allocation() domain.StatusAllocation { return s.mgr.StatusAllocation() }

// Snapshot returns the serialized state, pools recovered up to now.
func (s *Service) Snapshot() domain.Snapshot { return s.mgr.Serialize() }

// Streak returns the study streak.
func (s *Service) Streak() domain.StudyStreak {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

// Templates returns every preset allocation by name.
func (s *Service) Templates() map[string]domain.StatusAllocation {
	out := make(map[string]domain.StatusAllocation)
	for _, n := range progression.StatusTemplateNames() {
		out[n], _ = progression.StatusTemplate(n)
	}
	return out
}

// History returns the most recent XP ledger entries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.XPEntry, error) {
	if s.ledger == nil {
		return nil, nil
	}
	entries, err := s.ledger.ListXPEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list xp history: %w", err)
	}
	return entries, nil
}

// TotalAwarded sums every award in the XP ledger. It is zero when the
// ledger cannot total.
func (s *Service) TotalAwarded(ctx context.Context) (int64, error) {
	t, ok := s.ledger.(domain.XPTotals)
	if !ok {
		return 0, nil
	}
	total, err := t.TotalXPAwarded(ctx)
	if err != nil {
		return 0, fmt.Errorf("total xp awarded: %w", err)
	}
	return total, nil
}

// LastSaved returns when the progression snapshot was last persisted.
// The zero time means never, or a store that does not track writes.
func (s *Service) LastSaved(ctx context.Context) (time.Time, error) {
	t, ok := s.store.(domain.SnapshotTimes)
	if !ok {
		return time.Time{}, nil
	}
	at, err := t.SnapshotUpdatedAt(ctx, s.key)
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot time: %w", err)
	}
	return at, nil
}

// ─── Resources ──────────────────────────────────────────────────────────────

// ConsumeHeart spends one heart or returns domain.ErrInsufficientHearts.
// If the spend cannot be persisted the in-memory pool still reflects it and
// is returned with the error; the next successful write catches the store up.
func (s *Service) ConsumeHeart(ctx context.Context) (PoolStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mgr.ConsumeHeart() {
		metrics.ResourceConsumed.WithLabelValues(string(domain.PoolHearts), "empty").Inc()
		return s.Hearts(), domain.ErrInsufficientHearts
	}
	metrics.ResourceConsumed.WithLabelValues(string(domain.PoolHearts), "ok").Inc()
	if err := s.persistLocked(ctx); err != nil {
		return s.Hearts(), err
	}
	return s.Hearts(), nil
}

// ConsumeStar spends one star or returns domain.ErrInsufficientStars.
// A persist failure is reported like ConsumeHeart's.
func (s *Service) ConsumeStar(ctx context.Context) (PoolStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mgr.ConsumeStar() {
		metrics.ResourceConsumed.WithLabelValues(string(domain.PoolStars), "empty").Inc()
		return s.Stars(), domain.ErrInsufficientStars
	}
	metrics.ResourceConsumed.WithLabelValues(string(domain.PoolStars), "ok").Inc()
	if err := s.persistLocked(ctx); err != nil {
		return s.Stars(), err
	}
	return s.Stars(), nil
}

// Tick credits elapsed recovery and persists when a pool's count or
// capacity changed. A full pool re-anchors to now on every read; that
// anchor-only move is not written.
// The daemon calls it on a timer.
func (s *Service) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hearts, stars := s.mgr.Recover()
	if sameCount(hearts, s.saved.HeartSystem) && sameCount(stars, s.saved.StarSystem) {
		return nil
	}
	s.log.Debug("resources recovered",
		zap.Int("hearts", hearts.Current),
		zap.Int("stars", stars.Current))
	return s.persistLocked(ctx)
}

func sameCount(a, b domain.ResourcePool) bool {
	return a.Current == b.Current && a.Max == b.Max
}

// ─── XP ─────────────────────────────────────────────────────────────────────

// AddXP grants amount XP outside of a session (manual or achievement).
func (s *Service) AddXP(ctx context.Context, amount int64, source domain.XPSource) (XPAward, error) {
	if amount <= 0 {
		return XPAward{}, fmt.Errorf("%w: got %d", domain.ErrNonPositiveXP, amount)
	}
	if amount > MaxXPGrant {
		return XPAward{}, fmt.Errorf("%w: got %d, limit %d", domain.ErrXPGrantTooLarge, amount, MaxXPGrant)
	}
	if source == "" {
		source = domain.XPManual
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	award, err := s.grantLocked(ctx, amount, source, "", "")
	if err != nil {
		return XPAward{}, err
	}
	metrics.XPAwarded.WithLabelValues(strings.ToLower(string(source))).Add(float64(amount))
	if err := s.persistLocked(ctx); err != nil {
		return XPAward{}, err
	}
	return award, nil
}

// CompleteSession scores a finished session with the named formula,
// grants the XP, extends the study streak and records the award.
func (s *Service) CompleteSession(ctx context.Context, r SessionReport) (XPAward, error) {
	if r.Strategy == "" {
		r.Strategy = progression.StrategyRanked
	}
	calc, err := progression.CalculatorFor(s.mgr.Tuning(), r.Strategy)
	if err != nil {
		return XPAward{}, err
	}
	if r.Rank == "" {
		r.Rank = domain.RankNormal
	}
	if !r.Rank.Valid() {
		return XPAward{}, fmt.Errorf("%w: %q", domain.ErrInvalidRank, r.Rank)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	xp := s.mgr.SessionXP(calc, progression.SessionResult{
		Answers:       r.Answers,
		Rank:          r.Rank,
		ComboEligible: r.ComboEligible,
	})

	rank := r.Rank
	if r.Strategy != progression.StrategyRanked {
		rank = ""
	}
	award, err := s.grantLocked(ctx, int64(xp), domain.XPSession, r.Strategy, rank)
	if err != nil {
		return XPAward{}, err
	}

	s.streak = advanceStreak(s.streak, s.clock.Now())
	streak := s.streak
	award.Streak = &streak

	metrics.XPAwarded.WithLabelValues(r.Strategy).Add(float64(xp))
	metrics.SessionXP.WithLabelValues(r.Strategy).Observe(float64(xp))
	s.log.Info("session completed",
		zap.String("strategy", r.Strategy),
		zap.String("rank", string(r.Rank)),
		zap.Int("answers", len(r.Answers)),
		zap.Int("xp", xp),
		zap.Int("streak_days", streak.CurrentDays))

	if err := s.persistStreakLocked(ctx); err != nil {
		return XPAward{}, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return XPAward{}, err
	}
	return award, nil
}

// grantLocked adds XP and appends the ledger entry. Zero-XP sessions are
// still recorded so history reflects every completed session.
func (s *Service) grantLocked(ctx context.Context, amount int64, source domain.XPSource, strategy string, rank domain.Rank) (XPAward, error) {
	up := s.mgr.AddXP(amount)
	lvl := s.mgr.Level()

	entry := domain.XPEntry{
		SessionID: uuid.NewString(),
		Timestamp: s.clock.Now(),
		Source:    source,
		Strategy:  strategy,
		Rank:      rank,
		Amount:    amount,
		TotalXP:   lvl.XP,
		Level:     lvl.Level,
		LeveledUp: up.LeveledUp,
	}
	if s.ledger != nil {
		id, err := s.ledger.AppendXPEntry(ctx, entry)
		if err != nil {
			return XPAward{}, fmt.Errorf("append xp entry: %w", err)
		}
		entry.ID = id
	}

	if up.LeveledUp {
		metrics.LevelUps.Inc()
		s.log.Info("level up",
			zap.Int("level", up.NewLevel.Level),
			zap.Int("chapter", up.NewLevel.Chapter))
	}
	return XPAward{XPAwarded: amount, LevelUp: up, Level: lvl, Entry: entry}, nil
}

// ─── Allocation & Draws ─────────────────────────────────────────────────────

// UpdateAllocation commits a, or returns domain.ErrInvalidAllocation and
// leaves the previous allocation untouched. A valid allocation stays
// committed in memory even when persisting it fails.
func (s *Service) UpdateAllocation(ctx context.Context, a domain.StatusAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mgr.UpdateStatusAllocation(a) {
		metrics.AllocationUpdates.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: sum is %d", domain.ErrInvalidAllocation, a.Sum())
	}
	metrics.AllocationUpdates.WithLabelValues("ok").Inc()
	return s.persistLocked(ctx)
}

// ApplyTemplate installs a preset allocation by name. Like UpdateAllocation,
// the installed allocation is returned even when persisting it fails.
func (s *Service) ApplyTemplate(ctx context.Context, name string) (domain.StatusAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mgr.ApplyStatusTemplate(name) {
		metrics.AllocationUpdates.WithLabelValues("rejected").Inc()
		return domain.StatusAllocation{}, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, name)
	}
	metrics.AllocationUpdates.WithLabelValues("ok").Inc()
	if err := s.persistLocked(ctx); err != nil {
		return s.mgr.StatusAllocation(), err
	}
	return s.mgr.StatusAllocation(), nil
}

// NextQuestion draws the rank and skill field for the next question.
func (s *Service) NextQuestion() domain.Question {
	q := domain.Question{
		Rank:       s.mgr.NextQuestionRank(),
		SkillField: s.mgr.NextSkillField(),
		Chapter:    s.mgr.Level().Chapter,
	}
	metrics.RankDraws.WithLabelValues(string(q.Rank)).Inc()
	metrics.SkillDraws.WithLabelValues(string(q.SkillField)).Inc()
	return q
}

// ─── Persistence ────────────────────────────────────────────────────────────

func (s *Service) streakKey() string { return s.key + ":streak" }

func (s *Service) load(ctx context.Context, key string) ([]byte, error) {
	if s.store == nil {
		return nil, nil
	}
	blob, err := s.store.LoadSnapshot(ctx, key)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return blob, nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	snap := s.mgr.Serialize()
	s.observe(snap)
	if s.store == nil {
		s.saved = snap
		return nil
	}
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, s.key, blob); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.saved = snap
	return nil
}

func (s *Service) persistStreakLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	blob, err := json.Marshal(s.streak)
	if err != nil {
		return fmt.Errorf("encode streak: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, s.streakKey(), blob); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

func (s *Service) observe(snap domain.Snapshot) {
	metrics.CurrentLevel.Set(float64(snap.Level.Level))
	metrics.ResourceCurrent.WithLabelValues(string(domain.PoolHearts)).Set(float64(snap.HeartSystem.Current))
	metrics.ResourceCurrent.WithLabelValues(string(domain.PoolStars)).Set(float64(snap.StarSystem.Current))
}

func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}
