package types

import (
	"strconv"
	"time"
)

// ProcessID identifies a renderer process. It is assigned by the process host.
type ProcessID int

// String returns the decimal form of the id
func (p ProcessID) String() string {
	return strconv.Itoa(int(p))
}

// ParseProcessID parses a decimal process id
func ParseProcessID(s string) (ProcessID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return ProcessID(n), nil
}

// UsageStats holds the cache usage a renderer reports about itself.
// The values are trusted as given.
type UsageStats struct {
	Capacity        uint64 `json:"capacity"`
	LiveSize        uint64 `json:"live_size"`
	DeadSize        uint64 `json:"dead_size"`
	MinDeadCapacity uint64 `json:"min_dead_capacity"`
	MaxDeadCapacity uint64 `json:"max_dead_capacity"`
}

// Add accumulates other into s
func (s *UsageStats) Add(other UsageStats) {
	s.Capacity += other.Capacity
	s.LiveSize += other.LiveSize
	s.DeadSize += other.DeadSize
	s.MinDeadCapacity += other.MinDeadCapacity
	s.MaxDeadCapacity += other.MaxDeadCapacity
}

// StatsEntry is the latest usage report of a process plus when it was last active
type StatsEntry struct {
	UsageStats
	LastActivity time.Time `json:"last_activity"`
}

// Allocation is the cache capacity assigned to a single process
type Allocation struct {
	PID      ProcessID `json:"pid"`
	Capacity uint64    `json:"capacity"`
}

// ClearOccasion tells a renderer when to drop its cache
type ClearOccasion int

const (
	ClearInstantly ClearOccasion = iota
	ClearOnNavigation
)

// String returns the string representation of the occasion
func (o ClearOccasion) String() string {
	switch o {
	case ClearInstantly:
		return "instantly"
	case ClearOnNavigation:
		return "on_navigation"
	default:
		return "unknown"
	}
}
