package webcache

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// DefaultInactiveThreshold is how long a renderer may go unseen before it is
// treated as inactive.
const DefaultInactiveThreshold = 5 * time.Minute

// Classify moves every active process idle for at least threshold into the
// inactive set and returns the ids it moved, ascending. Processes never move
// back here; reactivation happens when activity is observed.
//
// Every active pid must have an entry in store.
func Classify(active, inactive types.ProcessSet, store *StatsStore, threshold time.Duration, now time.Time) []types.ProcessID {
	var idle []types.ProcessID
	for _, pid := range active.Sorted() {
		entry, ok := store.Get(pid)
		if !ok {
			panic(fmt.Sprintf("webcache: active process %d has no stats entry", pid))
		}
		if now.Sub(entry.LastActivity) >= threshold {
			idle = append(idle, pid)
		}
	}

	for _, pid := range idle {
		active.Remove(pid)
		inactive.Insert(pid)
	}
	return idle
}
