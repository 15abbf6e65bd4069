package webcache

import (
	"github.com/benbjohnson/clock"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// StatsStore holds the latest usage report and activity time per process.
// It is not safe for concurrent use; the Manager serializes access.
type StatsStore struct {
	clock   clock.Clock
	entries map[types.ProcessID]*types.StatsEntry
}

// NewStatsStore creates an empty store reading time from clk
func NewStatsStore(clk clock.Clock) *StatsStore {
	if clk == nil {
		clk = clock.New()
	}
	return &StatsStore{
		clock:   clk,
		entries: make(map[types.ProcessID]*types.StatsEntry),
	}
}

// Add creates a zeroed entry for pid stamped with the current time.
// A process host may add the same pid again after recreating it, so an
// existing entry is reset rather than rejected.
func (s *StatsStore) Add(pid types.ProcessID) {
	s.entries[pid] = &types.StatsEntry{LastActivity: s.clock.Now()}
}

// Remove forgets pid. Unknown ids are ignored.
func (s *StatsStore) Remove(pid types.ProcessID) {
	delete(s.entries, pid)
}

// ObserveActivity refreshes the activity time of pid.
// Reports false when pid is unknown (it may already be torn down).
func (s *StatsStore) ObserveActivity(pid types.ProcessID) bool {
	entry, ok := s.entries[pid]
	if !ok {
		return false
	}
	entry.LastActivity = s.clock.Now()
	return true
}

// ObserveStats replaces the usage figures of pid.
// Reports false when pid is unknown.
func (s *StatsStore) ObserveStats(pid types.ProcessID, stats types.UsageStats) bool {
	entry, ok := s.entries[pid]
	if !ok {
		return false
	}
	entry.UsageStats = stats
	return true
}

// Get returns a copy of the entry for pid
func (s *StatsStore) Get(pid types.ProcessID) (types.StatsEntry, bool) {
	entry, ok := s.entries[pid]
	if !ok {
		return types.StatsEntry{}, false
	}
	return *entry, true
}

// Len returns the number of tracked processes
func (s *StatsStore) Len() int {
	return len(s.entries)
}

// IDs returns every tracked pid
func (s *StatsStore) IDs() types.ProcessSet {
	ids := make(types.ProcessSet, len(s.entries))
	for pid := range s.entries {
		ids[pid] = struct{}{}
	}
	return ids
}
