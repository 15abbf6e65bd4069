// Package types provides shared data structures for the cache manager.
//
// Core Types:
//   - ProcessID: Renderer process identifier
//   - UsageStats: Cache usage reported by one renderer (or summed over a group)
//   - Allocation: Capacity assigned to one renderer by a strategy
//   - ClearOccasion: When a renderer should drop its cache
//   - ProcessSet: Set of renderer ids with deterministic iteration
//
// Example Usage:
//
//	active := types.NewProcessSet(1, 2)
//	for _, pid := range active.Sorted() {
//	    fmt.Println(pid)
//	}
package types
