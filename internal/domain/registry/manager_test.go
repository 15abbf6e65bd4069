package registry

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webcache/internal/domain/webcache"
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

type recordingLifecycle struct {
	added   []types.ProcessID
	removed []types.ProcessID
}

func (l *recordingLifecycle) ProcessAdded(pid types.ProcessID)   { l.added = append(l.added, pid) }
func (l *recordingLifecycle) ProcessRemoved(pid types.ProcessID) { l.removed = append(l.removed, pid) }

func TestRegisterAndLookup(t *testing.T) {
	lifecycle := &recordingLifecycle{}
	reg := NewManager(4, nil).WithLifecycle(lifecycle)

	first := reg.Register(2)
	reg.Register(1)
	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []types.ProcessID{1, 2}, reg.List())

	proc, ok := reg.Lookup(2)
	require.True(t, ok)
	assert.Same(t, first, proc)

	_, ok = reg.Lookup(3)
	assert.False(t, ok)

	// Recreated renderers replace their handle
	second := reg.Register(2)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, reg.Count())

	assert.True(t, reg.Unregister(2))
	assert.False(t, reg.Unregister(2))
	assert.Equal(t, 1, reg.Count())

	assert.Equal(t, []types.ProcessID{2, 1, 2}, lifecycle.added)
	assert.Equal(t, []types.ProcessID{2, 2}, lifecycle.removed)
}

func TestProcessOutbox(t *testing.T) {
	reg := NewManager(2, nil)
	proc := reg.Register(7)

	proc.SetCacheCapacities(0, 50, 100)
	proc.ClearCache(true)
	proc.ClearCache(false) // outbox full

	assert.Equal(t, int64(1), proc.Dropped())
	assert.Equal(t, []Message{
		{Kind: KindSetCapacities, MaxDeadCapacity: 50, Capacity: 100},
		{Kind: KindClearCache, OnNavigation: true},
	}, proc.Drain())
	assert.Empty(t, proc.Drain())
}

func TestRegistryDrivesManager(t *testing.T) {
	reg := NewManager(DefaultOutboxSize, nil)
	mgr := webcache.NewManager(webcache.Options{Host: reg, GlobalSizeLimit: 1000})
	defer mgr.Close()
	reg.WithLifecycle(mgr)

	a := reg.Register(1)
	reg.Register(2)
	reg.Unregister(2)
	mgr.Recompute()

	assert.Equal(t, []Message{{Kind: KindSetCapacities, MaxDeadCapacity: 500, Capacity: 1000}}, a.Drain())
}

// gatedLifecycle blocks ProcessRemoved until release is closed
type gatedLifecycle struct {
	mu      sync.Mutex
	events  []string
	entered chan struct{}
	release chan struct{}
}

func (l *gatedLifecycle) ProcessAdded(pid types.ProcessID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "added "+pid.String())
}

func (l *gatedLifecycle) ProcessRemoved(pid types.ProcessID) {
	close(l.entered)
	<-l.release
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "removed "+pid.String())
}

func TestReRegisterDuringUnregisterKeepsOrder(t *testing.T) {
	lifecycle := &gatedLifecycle{entered: make(chan struct{}), release: make(chan struct{})}
	reg := NewManager(4, nil).WithLifecycle(lifecycle)
	reg.Register(7)

	unregistered := make(chan struct{})
	go func() {
		defer close(unregistered)
		reg.Unregister(7)
	}()
	<-lifecycle.entered

	registered := make(chan struct{})
	go func() {
		defer close(registered)
		reg.Register(7)
	}()

	select {
	case <-registered:
		t.Fatal("Register completed while Unregister was still notifying")
	case <-time.After(20 * time.Millisecond):
	}

	close(lifecycle.release)
	<-unregistered
	<-registered

	_, ok := reg.Get(7)
	assert.True(t, ok)
	assert.Equal(t, []string{"added 7", "removed 7", "added 7"}, lifecycle.events)
}

func TestReRegisterDuringUnregisterKeepsRendererTracked(t *testing.T) {
	reg := NewManager(DefaultOutboxSize, nil)
	mgr := webcache.NewManager(webcache.Options{Host: reg, GlobalSizeLimit: 1000})
	defer mgr.Close()
	reg.WithLifecycle(mgr)
	reg.Register(7)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Unregister(7)
		}()
		go func() {
			defer wg.Done()
			reg.Register(7)
		}()
		wg.Wait()

		_, registered := reg.Get(7)
		tracked := len(mgr.Snapshot().Processes) == 1
		require.Equal(t, registered, tracked, "iteration %d", i)
	}
}

func TestMessageJSONKeepsZeroCapacities(t *testing.T) {
	data, err := json.Marshal(Message{Kind: KindSetCapacities})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"set_cache_capacities","min_dead_capacity":0,"max_dead_capacity":0,"capacity":0,"on_navigation":false}`, string(data))
}

func TestProcessPID(t *testing.T) {
	reg := NewManager(1, nil)
	assert.Equal(t, types.ProcessID(9), reg.Register(9).PID())
}
