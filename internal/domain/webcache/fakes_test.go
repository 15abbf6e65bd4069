package webcache

import (
	"sync"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

type capacityCall struct {
	MinDead  uint64
	MaxDead  uint64
	Capacity uint64
}

type fakeProcess struct {
	mu         sync.Mutex
	capacities []capacityCall
	clears     []bool
}

func (p *fakeProcess) SetCacheCapacities(minDead, maxDead, capacity uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capacities = append(p.capacities, capacityCall{MinDead: minDead, MaxDead: maxDead, Capacity: capacity})
}

func (p *fakeProcess) ClearCache(onNavigation bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears = append(p.clears, onNavigation)
}

func (p *fakeProcess) Capacities() []capacityCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capacityCall(nil), p.capacities...)
}

func (p *fakeProcess) Clears() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.clears...)
}

type fakeHost struct {
	mu    sync.Mutex
	procs map[types.ProcessID]*fakeProcess
}

func newFakeHost(pids ...types.ProcessID) *fakeHost {
	h := &fakeHost{procs: make(map[types.ProcessID]*fakeProcess)}
	for _, pid := range pids {
		h.procs[pid] = &fakeProcess{}
	}
	return h
}

func (h *fakeHost) Lookup(pid types.ProcessID) (Process, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	proc, ok := h.procs[pid]
	if !ok {
		return nil, false
	}
	return proc, true
}

func (h *fakeHost) proc(pid types.ProcessID) *fakeProcess {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.procs[pid]
}

type fakeReporter struct {
	mu         sync.Mutex
	strategies []Strategy
	enacts     []EnactResult
	limits     []uint64
}

func (r *fakeReporter) ReportRecompute(strategy Strategy, activeCount, inactiveCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, strategy)
}

func (r *fakeReporter) ReportEnact(result EnactResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enacts = append(r.enacts, result)
}

func (r *fakeReporter) ReportGlobalSizeLimit(bytes uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = append(r.limits, bytes)
}

// gatedHost blocks the first Lookup until release is closed
type gatedHost struct {
	*fakeHost
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedHost(pids ...types.ProcessID) *gatedHost {
	return &gatedHost{
		fakeHost: newFakeHost(pids...),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (h *gatedHost) Lookup(pid types.ProcessID) (Process, bool) {
	h.once.Do(func() {
		close(h.entered)
		<-h.release
	})
	return h.fakeHost.Lookup(pid)
}
