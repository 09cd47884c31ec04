package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Recorder is the best-effort emission path. Record enqueues an entry and
// returns immediately; a single background worker drains the queue and
// writes through the Store. A failed or dropped write is logged and
// otherwise invisible to the caller: audit emission must never change the
// outcome of the action that triggered it.
//
// The single worker also preserves per-actor call order, since all entries
// pass through one goroutine.
type Recorder struct {
	store   Store
	lg      *zap.Logger
	queue   chan Entry
	timeout time.Duration
}

// NewRecorder creates a Recorder with the given queue capacity. Each write
// gets its own timeout, detached from any request context.
func NewRecorder(store Store, lg *zap.Logger, buffer int, timeout time.Duration) *Recorder {
	if buffer <= 0 {
		buffer = 64
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Recorder{
		store:   store,
		lg:      lg,
		queue:   make(chan Entry, buffer),
		timeout: timeout,
	}
}

// Record enqueues an entry without blocking. When the queue is saturated
// the entry is dropped and the drop is logged; audit is not allowed to
// apply backpressure to request handling.
func (r *Recorder) Record(userID, action string, details map[string]any) {
	e := Entry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}
	select {
	case r.queue <- e:
	default:
		r.lg.Warn("audit queue full, dropping entry",
			zap.String("action", action),
			zap.String("user_id", userID),
		)
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is
// already enqueued before returning.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return nil
		case e := <-r.queue:
			r.append(e)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case e := <-r.queue:
			r.append(e)
		default:
			return
		}
	}
}

func (r *Recorder) append(e Entry) {
	// Detached from the triggering request: the entry outlives any caller
	// cancellation and fails only against its own timeout.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.Append(ctx, e); err != nil {
		r.lg.Error("audit append failed",
			zap.String("action", e.Action),
			zap.String("user_id", e.UserID),
			zap.Error(err),
		)
	}
}
