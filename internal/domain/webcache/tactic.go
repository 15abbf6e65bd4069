package webcache

import (
	"fmt"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// Tactic decides how much space a group of processes keeps for the objects
// it already caches before the remaining budget is shared out.
type Tactic int

const (
	// DivideEvenly reserves nothing; all space comes from the shared remainder.
	DivideEvenly Tactic = iota
	// KeepCurrentWithHeadroom keeps live and dead objects plus 50% headroom.
	KeepCurrentWithHeadroom
	// KeepCurrent keeps live and dead objects.
	KeepCurrent
	// KeepLiveWithHeadroom keeps live objects plus 50% headroom.
	KeepLiveWithHeadroom
	// KeepLive keeps live objects only.
	KeepLive
)

// String returns the string representation of the tactic
func (t Tactic) String() string {
	switch t {
	case DivideEvenly:
		return "divide_evenly"
	case KeepCurrentWithHeadroom:
		return "keep_current_with_headroom"
	case KeepCurrent:
		return "keep_current"
	case KeepLiveWithHeadroom:
		return "keep_live_with_headroom"
	case KeepLive:
		return "keep_live"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tactic by name
func (t Tactic) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// RequiredSize returns the bytes tactic reserves for stats.
// Headroom is 3*x/2 with truncating division.
func RequiredSize(tactic Tactic, stats types.UsageStats) uint64 {
	switch tactic {
	case DivideEvenly:
		return 0
	case KeepCurrentWithHeadroom:
		return 3 * RequiredSize(KeepCurrent, stats) / 2
	case KeepCurrent:
		return stats.LiveSize + stats.DeadSize
	case KeepLiveWithHeadroom:
		return 3 * RequiredSize(KeepLive, stats) / 2
	case KeepLive:
		return stats.LiveSize
	default:
		panic(fmt.Sprintf("webcache: unknown allocation tactic %d", int(tactic)))
	}
}

// Aggregate sums the usage of every pid in set. Ids without an entry add nothing.
func Aggregate(set types.ProcessSet, store *StatsStore) types.UsageStats {
	var total types.UsageStats
	for pid := range set {
		if entry, ok := store.Get(pid); ok {
			total.Add(entry.UsageStats)
		}
	}
	return total
}
