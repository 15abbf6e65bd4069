package registry

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// MessageKind identifies a cache command
type MessageKind string

const (
	KindSetCapacities MessageKind = "set_cache_capacities"
	KindClearCache    MessageKind = "clear_cache"
)

// Message is a cache command addressed to one renderer
type Message struct {
	Kind            MessageKind `json:"kind"`
	MinDeadCapacity uint64      `json:"min_dead_capacity"`
	MaxDeadCapacity uint64      `json:"max_dead_capacity"`
	Capacity        uint64      `json:"capacity"`
	OnNavigation    bool        `json:"on_navigation"`
}

// Process is the handle of one live renderer
type Process struct {
	pid     types.ProcessID
	outbox  chan Message
	dropped int64 // Atomic
	logger  *zap.Logger
}

func newProcess(pid types.ProcessID, outboxSize int, logger *zap.Logger) *Process {
	return &Process{
		pid:    pid,
		outbox: make(chan Message, outboxSize),
		logger: logger,
	}
}

// PID returns the renderer id
func (p *Process) PID() types.ProcessID {
	return p.pid
}

// SetCacheCapacities queues a capacity command
func (p *Process) SetCacheCapacities(minDeadCapacity, maxDeadCapacity, capacity uint64) {
	p.send(Message{
		Kind:            KindSetCapacities,
		MinDeadCapacity: minDeadCapacity,
		MaxDeadCapacity: maxDeadCapacity,
		Capacity:        capacity,
	})
}

// ClearCache queues a clear command
func (p *Process) ClearCache(onNavigation bool) {
	p.send(Message{Kind: KindClearCache, OnNavigation: onNavigation})
}

// Drain removes and returns every queued command
func (p *Process) Drain() []Message {
	var msgs []Message
	for {
		select {
		case msg := <-p.outbox:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// Dropped returns how many commands were discarded because the outbox was full
func (p *Process) Dropped() int64 {
	return atomic.LoadInt64(&p.dropped)
}

func (p *Process) send(msg Message) {
	select {
	case p.outbox <- msg:
	default:
		atomic.AddInt64(&p.dropped, 1)
		p.logger.Debug("Renderer outbox full, dropping command",
			zap.Int("pid", int(p.pid)),
			zap.String("kind", string(msg.Kind)),
		)
	}
}
