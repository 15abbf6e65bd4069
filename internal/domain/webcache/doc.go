// Package webcache divides a global memory budget among the resource caches
// of many renderer processes.
//
// Each renderer reports its cache usage (live and dead bytes). The Manager
// keeps those reports, splits renderers into active and inactive groups by how
// recently they were seen, and periodically computes a Strategy: the first
// tactic pair from a fixed preference list whose reservations fit inside the
// global limit. The resulting capacities are pushed to every renderer that is
// still alive.
//
// Tactic pairs, most generous first:
//
//	a. KeepCurrentWithHeadroom / KeepCurrent
//	b. KeepCurrentWithHeadroom / KeepLive
//	c. KeepLiveWithHeadroom    / DivideEvenly
//	d. KeepLive                / DivideEvenly
//	e. DivideEvenly            / DivideEvenly
//
// Recomputation is debounced: lifecycle events arm a single timer and the
// strategy is revised once when it fires.
//
// Example Usage:
//
//	mgr := webcache.NewManager(webcache.Options{
//	    Host:            registry,
//	    GlobalSizeLimit: 32 << 20,
//	})
//	defer mgr.Close()
//
//	mgr.ProcessAdded(7)
//	mgr.ObserveStats(7, types.UsageStats{LiveSize: 1 << 20})
package webcache
