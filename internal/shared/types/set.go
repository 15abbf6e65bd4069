package types

import "sort"

// ProcessSet is a set of process ids. Iteration through Sorted is ascending,
// which keeps strategies reproducible.
type ProcessSet map[ProcessID]struct{}

// NewProcessSet creates a set holding pids
func NewProcessSet(pids ...ProcessID) ProcessSet {
	s := make(ProcessSet, len(pids))
	for _, pid := range pids {
		s[pid] = struct{}{}
	}
	return s
}

// Insert adds pid and reports whether it was absent
func (s ProcessSet) Insert(pid ProcessID) bool {
	if _, ok := s[pid]; ok {
		return false
	}
	s[pid] = struct{}{}
	return true
}

// Remove deletes pid and reports whether it was present
func (s ProcessSet) Remove(pid ProcessID) bool {
	if _, ok := s[pid]; !ok {
		return false
	}
	delete(s, pid)
	return true
}

// Contains reports whether pid is in the set
func (s ProcessSet) Contains(pid ProcessID) bool {
	_, ok := s[pid]
	return ok
}

// Len returns the number of ids in the set
func (s ProcessSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order
func (s ProcessSet) Sorted() []ProcessID {
	out := make([]ProcessID, 0, len(s))
	for pid := range s {
		out = append(out, pid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
