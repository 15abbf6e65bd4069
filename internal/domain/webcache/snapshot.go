package webcache

import (
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// ProcessSnapshot describes one tracked renderer
type ProcessSnapshot struct {
	PID    types.ProcessID `json:"pid"`
	Active bool            `json:"active"`
	types.StatsEntry
}

// Snapshot is a point-in-time view of the manager
type Snapshot struct {
	GlobalSizeLimit uint64            `json:"global_size_limit"`
	Pending         bool              `json:"pending"`
	Recomputes      uint64            `json:"recomputes"`
	LastTier        *int              `json:"last_tier,omitempty"`
	LastPair        *TacticPair       `json:"last_pair,omitempty"`
	ActiveCount     int               `json:"active_count"`
	InactiveCount   int               `json:"inactive_count"`
	Processes       []ProcessSnapshot `json:"processes"`
}

// Snapshot returns the current state, processes ordered by pid
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		GlobalSizeLimit: m.limit,
		Pending:         m.timer != nil,
		Recomputes:      m.recomputes,
		ActiveCount:     m.active.Len(),
		InactiveCount:   m.inactive.Len(),
		Processes:       make([]ProcessSnapshot, 0, m.stats.Len()),
	}
	if m.last != nil {
		tier, pair := m.last.Tier, m.last.Pair
		snap.LastTier = &tier
		snap.LastPair = &pair
	}

	for _, pid := range m.stats.IDs().Sorted() {
		entry, _ := m.stats.Get(pid)
		snap.Processes = append(snap.Processes, ProcessSnapshot{
			PID:        pid,
			Active:     m.active.Contains(pid),
			StatsEntry: entry,
		})
	}
	return snap
}
