package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event is one audited change. Metadata is stored as JSON.
type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

const (
	queueSize    = 100
	writeTimeout = 5 * time.Second
)

// Dispatcher writes events from a single background goroutine so request
// handlers never wait on the audit table.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.logger.Write(ctx, ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "entity", ev.Entity, "error", err)
		}
		cancel()
	}
}

// Dispatch drops the event when the queue is full. A nil Dispatcher
// discards everything.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
