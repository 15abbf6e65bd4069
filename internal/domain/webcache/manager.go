package webcache

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// DefaultReviseDelay is how long the manager waits after a triggering event
// before revising the strategy.
const DefaultReviseDelay = 200 * time.Millisecond

// Reporter receives telemetry about revisions. It must not block.
type Reporter interface {
	ReportRecompute(strategy Strategy, activeCount, inactiveCount int)
	ReportEnact(result EnactResult)
	ReportGlobalSizeLimit(bytes uint64)
}

// Options configures a Manager
type Options struct {
	Host              ProcessLookup
	Clock             clock.Clock
	Logger            *zap.Logger
	Reporter          Reporter
	GlobalSizeLimit   uint64
	InactiveThreshold time.Duration
	ReviseDelay       time.Duration
	LowEndDevice      bool
}

// Manager tracks renderer cache usage and revises the allocation strategy
type Manager struct {
	enactMu sync.Mutex // Serializes plan+enact; taken before mu

	mu         sync.Mutex
	stats      *StatsStore      // Protected by mu
	active     types.ProcessSet // Protected by mu
	inactive   types.ProcessSet // Protected by mu
	limit      uint64           // Protected by mu
	timer      *clock.Timer     // Protected by mu; non-nil while a revision is pending
	closed     bool             // Protected by mu
	last       *Strategy        // Protected by mu
	recomputes uint64           // Protected by mu

	clock             clock.Clock
	logger            *zap.Logger
	reporter          Reporter
	enactor           *Enactor
	inactiveThreshold time.Duration
	reviseDelay       time.Duration
}

// NewManager creates a new cache manager
func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.InactiveThreshold <= 0 {
		opts.InactiveThreshold = DefaultInactiveThreshold
	}
	if opts.ReviseDelay <= 0 {
		opts.ReviseDelay = DefaultReviseDelay
	}

	m := &Manager{
		stats:             NewStatsStore(opts.Clock),
		active:            types.NewProcessSet(),
		inactive:          types.NewProcessSet(),
		limit:             opts.GlobalSizeLimit,
		clock:             opts.Clock,
		logger:            opts.Logger.Named("webcache"),
		reporter:          opts.Reporter,
		enactor:           &Enactor{Host: opts.Host, LowEndDevice: opts.LowEndDevice},
		inactiveThreshold: opts.InactiveThreshold,
		reviseDelay:       opts.ReviseDelay,
	}

	if m.reporter != nil {
		m.reporter.ReportGlobalSizeLimit(m.limit)
	}
	return m
}

// ProcessAdded starts tracking a renderer. New renderers are active.
func (m *Manager) ProcessAdded(pid types.ProcessID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Add(pid)
	m.inactive.Remove(pid)
	m.active.Insert(pid)
	m.logger.Debug("Renderer added", zap.Int("pid", int(pid)))

	m.reviseLaterLocked()
}

// ProcessRemoved forgets a renderer and frees its share of the budget
func (m *Manager) ProcessRemoved(pid types.ProcessID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active.Remove(pid)
	m.inactive.Remove(pid)
	m.stats.Remove(pid)
	m.logger.Debug("Renderer removed", zap.Int("pid", int(pid)))

	m.reviseLaterLocked()
}

// ObserveActivity records that pid did work. An inactive renderer becomes
// active again and a revision is scheduled; an active one only gets its
// timestamp refreshed.
func (m *Manager) ObserveActivity(pid types.ProcessID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stats.ObserveActivity(pid) {
		return
	}

	m.active.Insert(pid)
	if m.inactive.Remove(pid) {
		m.logger.Debug("Renderer reactivated", zap.Int("pid", int(pid)))
		m.reviseLaterLocked()
	}
}

// ObserveStats records a usage report. It does not trigger a revision.
func (m *Manager) ObserveStats(pid types.ProcessID, stats types.UsageStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ObserveStats(pid, stats)
}

// SetGlobalSizeLimit changes the budget shared by all renderers
func (m *Manager) SetGlobalSizeLimit(bytes uint64) {
	m.mu.Lock()
	m.limit = bytes
	m.reviseLaterLocked()
	m.mu.Unlock()

	m.logger.Info("Global cache size limit changed",
		zap.Uint64("bytes", bytes),
		zap.String("size", humanize.IBytes(bytes)),
	)
	if m.reporter != nil {
		m.reporter.ReportGlobalSizeLimit(bytes)
	}
}

// GlobalSizeLimit returns the budget shared by all renderers
func (m *Manager) GlobalSizeLimit() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

// ClearCache tells every known renderer, active or not, to drop its cache
func (m *Manager) ClearCache(occasion types.ClearOccasion) EnactResult {
	m.mu.Lock()
	pids := append(m.active.Sorted(), m.inactive.Sorted()...)
	m.mu.Unlock()

	result := m.enactor.Clear(pids, occasion)
	m.logger.Debug("Cleared renderer caches",
		zap.Stringer("occasion", occasion),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
	)
	return result
}

// ClearCacheForProcess tells one renderer to drop its cache immediately
func (m *Manager) ClearCacheForProcess(pid types.ProcessID) EnactResult {
	return m.enactor.Clear([]types.ProcessID{pid}, types.ClearInstantly)
}

// Pending reports whether a revision is scheduled
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

// Recompute reclassifies renderers, plans a strategy and pushes it out.
// Messages are sent after mu is released; enactMu keeps overlapping
// revisions delivering in the order they were planned.
func (m *Manager) Recompute() Strategy {
	m.enactMu.Lock()
	defer m.enactMu.Unlock()

	m.mu.Lock()
	rev := m.planLocked()
	m.mu.Unlock()

	return m.enact(rev)
}

// Close cancels any pending revision and waits for one in flight. No timer
// revision runs after Close returns.
func (m *Manager) Close() {
	m.enactMu.Lock()
	defer m.enactMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// revision is a planned strategy plus what is needed to report it
type revision struct {
	strategy      Strategy
	moved         []types.ProcessID
	activeCount   int
	inactiveCount int
	limit         uint64
}

func (m *Manager) planLocked() revision {
	moved := Classify(m.active, m.inactive, m.stats, m.inactiveThreshold, m.clock.Now())
	strategy := Plan(m.limit, m.active, m.inactive, m.stats)
	m.last = &strategy
	m.recomputes++
	return revision{
		strategy:      strategy,
		moved:         moved,
		activeCount:   m.active.Len(),
		inactiveCount: m.inactive.Len(),
		limit:         m.limit,
	}
}

func (m *Manager) enact(rev revision) Strategy {
	strategy := rev.strategy
	for _, pid := range rev.moved {
		m.logger.Debug("Renderer went inactive", zap.Int("pid", int(pid)))
	}

	if m.reporter != nil {
		m.reporter.ReportRecompute(strategy, rev.activeCount, rev.inactiveCount)
	}

	result := m.enactor.Enact(strategy.Allocations)
	if m.reporter != nil {
		m.reporter.ReportEnact(result)
	}

	m.logger.Debug("Cache allocation revised",
		zap.Int("tier", strategy.Tier),
		zap.Stringer("tactics", strategy.Pair),
		zap.String("limit", humanize.IBytes(rev.limit)),
		zap.Int("active", rev.activeCount),
		zap.Int("inactive", rev.inactiveCount),
		zap.String("active_live", humanize.IBytes(strategy.ActiveStats.LiveSize)),
		zap.String("active_dead", humanize.IBytes(strategy.ActiveStats.DeadSize)),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
	)
	return strategy
}

// reviseLaterLocked arms the debounce timer unless one is already pending.
// The pending revision reads current state when it fires, so it is not restarted.
func (m *Manager) reviseLaterLocked() {
	if m.closed || m.timer != nil {
		return
	}
	m.timer = m.clock.AfterFunc(m.reviseDelay, m.revise)
}

func (m *Manager) revise() {
	m.enactMu.Lock()
	defer m.enactMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	rev := m.planLocked()
	m.mu.Unlock()

	m.enact(rev)
}
