package webcache

import (
	"fmt"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// TacticPair is the tactic applied to active and inactive processes in one attempt
type TacticPair struct {
	Active   Tactic `json:"active"`
	Inactive Tactic `json:"inactive"`
}

// String returns "active/inactive"
func (p TacticPair) String() string {
	return p.Active.String() + "/" + p.Inactive.String()
}

// Tiers lists the tactic pairs in descending preference. The first tier never
// evicts anything; later tiers give up dead data of inactive processes, then
// live data, then divide the budget evenly. The active side is always at least
// as generous as the inactive side.
var Tiers = []TacticPair{
	{Active: KeepCurrentWithHeadroom, Inactive: KeepCurrent},
	{Active: KeepCurrentWithHeadroom, Inactive: KeepLive},
	{Active: KeepLiveWithHeadroom, Inactive: DivideEvenly},
	{Active: KeepLive, Inactive: DivideEvenly},
	{Active: DivideEvenly, Inactive: DivideEvenly},
}

// Strategy is a computed allocation for every known process
type Strategy struct {
	Tier          int                `json:"tier"`
	Pair          TacticPair         `json:"pair"`
	ActiveStats   types.UsageStats   `json:"active_stats"`
	InactiveStats types.UsageStats   `json:"inactive_stats"`
	Allocations   []types.Allocation `json:"allocations"`
}

// Attempt tries a single tactic pair against limit. It reports false when the
// reservations of the pair do not fit.
func Attempt(limit uint64, pair TacticPair, active, inactive types.ProcessSet, store *StatsStore) (Strategy, bool) {
	activeStats := Aggregate(active, store)
	inactiveStats := Aggregate(inactive, store)

	activeSize := RequiredSize(pair.Active, activeStats)
	inactiveSize := RequiredSize(pair.Inactive, inactiveStats)
	if limit < activeSize+inactiveSize {
		return Strategy{}, false
	}

	totalExtra := limit - (activeSize + inactiveSize)

	// Active processes split the extra space evenly; the inactive group as a
	// whole gets one extra share.
	shares := uint64(active.Len())
	var inactiveExtra uint64
	if inactive.Len() > 0 {
		shares++
		inactiveExtra = totalExtra / shares
	}
	activeExtra := totalExtra - inactiveExtra

	allocations := make([]types.Allocation, 0, active.Len()+inactive.Len())
	allocations = appendAllocations(allocations, active, pair.Active, activeExtra, store)
	allocations = appendAllocations(allocations, inactive, pair.Inactive, inactiveExtra, store)

	return Strategy{
		Pair:          pair,
		ActiveStats:   activeStats,
		InactiveStats: inactiveStats,
		Allocations:   allocations,
	}, true
}

func appendAllocations(dst []types.Allocation, set types.ProcessSet, tactic Tactic, extra uint64, store *StatsStore) []types.Allocation {
	if set.Len() == 0 {
		return dst
	}

	extraEach := extra / uint64(set.Len())
	for _, pid := range set.Sorted() {
		capacity := extraEach
		if entry, ok := store.Get(pid); ok {
			capacity += RequiredSize(tactic, entry.UsageStats)
		}
		dst = append(dst, types.Allocation{PID: pid, Capacity: capacity})
	}
	return dst
}

// Plan returns the strategy of the first tier in Tiers that fits inside limit.
// The last tier reserves nothing, so it always fits; failing it is a bug.
func Plan(limit uint64, active, inactive types.ProcessSet, store *StatsStore) Strategy {
	for i, pair := range Tiers {
		if strategy, ok := Attempt(limit, pair, active, inactive, store); ok {
			strategy.Tier = i
			return strategy
		}
	}
	panic(fmt.Sprintf("webcache: no cache allocation fits global limit %d", limit))
}
