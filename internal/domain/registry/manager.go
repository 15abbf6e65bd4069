package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webcache/internal/domain/webcache"
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// DefaultOutboxSize is the number of undelivered commands kept per renderer
const DefaultOutboxSize = 16

// Lifecycle is notified when renderers come and go
type Lifecycle interface {
	ProcessAdded(pid types.ProcessID)
	ProcessRemoved(pid types.ProcessID)
}

// Manager holds the live renderer handles
type Manager struct {
	mu         sync.Mutex // Orders handle changes with their Lifecycle notifications
	processes  sync.Map   // types.ProcessID -> *Process
	count      int64    // Atomic counter of registered processes
	outboxSize int
	lifecycle  Lifecycle
	logger     *zap.Logger
}

// NewManager creates a new registry
func NewManager(outboxSize int, logger *zap.Logger) *Manager {
	if outboxSize <= 0 {
		outboxSize = DefaultOutboxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		outboxSize: outboxSize,
		logger:     logger.Named("registry"),
	}
}

// WithLifecycle binds the listener notified on register/unregister
func (m *Manager) WithLifecycle(lifecycle Lifecycle) *Manager {
	m.lifecycle = lifecycle
	return m
}

// Register creates a handle for pid. A renderer recreated under the same id
// replaces its previous handle.
func (m *Manager) Register(pid types.ProcessID) *Process {
	m.mu.Lock()
	defer m.mu.Unlock()

	proc := newProcess(pid, m.outboxSize, m.logger)
	if _, existed := m.processes.Swap(pid, proc); existed {
		m.logger.Debug("Renderer re-registered", zap.Int("pid", int(pid)))
	} else {
		atomic.AddInt64(&m.count, 1)
	}

	if m.lifecycle != nil {
		m.lifecycle.ProcessAdded(pid)
	}
	return proc
}

// Unregister drops the handle of pid and reports whether it existed
func (m *Manager) Unregister(pid types.ProcessID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.processes.LoadAndDelete(pid)
	if existed {
		atomic.AddInt64(&m.count, -1)
	}

	if m.lifecycle != nil {
		m.lifecycle.ProcessRemoved(pid)
	}
	return existed
}

// Get returns the concrete handle of pid
func (m *Manager) Get(pid types.ProcessID) (*Process, bool) {
	value, ok := m.processes.Load(pid)
	if !ok {
		return nil, false
	}
	return value.(*Process), true
}

// Lookup resolves pid for the cache manager
func (m *Manager) Lookup(pid types.ProcessID) (webcache.Process, bool) {
	proc, ok := m.Get(pid)
	if !ok {
		return nil, false
	}
	return proc, true
}

// List returns the registered pids in ascending order
func (m *Manager) List() []types.ProcessID {
	var pids []types.ProcessID
	m.processes.Range(func(key, _ any) bool {
		pids = append(pids, key.(types.ProcessID))
		return true
	})
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// Count returns the number of registered renderers
func (m *Manager) Count() int {
	return int(atomic.LoadInt64(&m.count))
}
