package webcache

import (
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// LowEndMaxDeadCapacity caps the dead-object budget of a renderer on
// low-memory devices.
const LowEndMaxDeadCapacity uint64 = 512 * 1024

// Process is a live renderer that accepts cache commands.
// Delivery is fire-and-forget.
type Process interface {
	SetCacheCapacities(minDeadCapacity, maxDeadCapacity, capacity uint64)
	ClearCache(onNavigation bool)
}

// ProcessLookup resolves a pid to its live renderer
type ProcessLookup interface {
	Lookup(pid types.ProcessID) (Process, bool)
}

// EnactResult counts what Enact delivered
type EnactResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// Enactor pushes allocations out to renderers
type Enactor struct {
	Host         ProcessLookup
	LowEndDevice bool
}

// Enact sends each allocation to its process. Processes that have exited
// since the strategy was computed are skipped.
func (e *Enactor) Enact(allocations []types.Allocation) EnactResult {
	var result EnactResult
	for _, alloc := range allocations {
		proc, ok := e.lookup(alloc.PID)
		if !ok {
			result.Skipped++
			continue
		}

		minDead, maxDead := e.DeadCapacities(alloc.Capacity)
		proc.SetCacheCapacities(minDead, maxDead, alloc.Capacity)
		result.Sent++
	}
	return result
}

// DeadCapacities derives the dead-object bounds for capacity. No space is
// reserved for dead objects; they may use up to half of the capacity.
func (e *Enactor) DeadCapacities(capacity uint64) (minDead, maxDead uint64) {
	maxDead = capacity / 2
	if e.LowEndDevice && maxDead > LowEndMaxDeadCapacity {
		maxDead = LowEndMaxDeadCapacity
	}
	return 0, maxDead
}

// Clear asks each pid to drop its cache, skipping exited processes
func (e *Enactor) Clear(pids []types.ProcessID, occasion types.ClearOccasion) EnactResult {
	var result EnactResult
	for _, pid := range pids {
		proc, ok := e.lookup(pid)
		if !ok {
			result.Skipped++
			continue
		}
		proc.ClearCache(occasion == types.ClearOnNavigation)
		result.Sent++
	}
	return result
}

func (e *Enactor) lookup(pid types.ProcessID) (Process, bool) {
	if e.Host == nil {
		return nil, false
	}
	proc, ok := e.Host.Lookup(pid)
	if !ok || proc == nil {
		return nil, false
	}
	return proc, true
}
