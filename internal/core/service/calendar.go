package service

import (
	"context"
	"sync"
	"sync/atomic"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/port"
)

// DeadlineWindow serves the calendar's visible range. Every window
// change issues a fresh scoped query that replaces the prior result
// set. Each load is tagged with a per-owner monotonic sequence number;
// a result that comes back after the same owner issued a newer load is
// reported stale so the caller discards it instead of rendering
// out-of-order data. Owners never affect each other's sequences.
type DeadlineWindow struct {
	svc  port.TaskService
	seqs sync.Map // owner -> *atomic.Uint64
}

func NewDeadlineWindow(svc port.TaskService) *DeadlineWindow {
	return &DeadlineWindow{svc: svc}
}

func (w *DeadlineWindow) seqFor(owner string) *atomic.Uint64 {
	if seq, ok := w.seqs.Load(owner); ok {
		return seq.(*atomic.Uint64)
	}

	seq, _ := w.seqs.LoadOrStore(owner, new(atomic.Uint64))

	return seq.(*atomic.Uint64)
}

// Load returns the tasks with deadlines inside [from, to] and whether
// the result is still current. Stale results return (nil, false, nil).
func (w *DeadlineWindow) Load(ctx context.Context, owner string, from, to string) ([]domain.Task, bool, error) {
	seq := w.seqFor(owner)
	id := seq.Add(1)

	tasks, err := w.svc.ListByDeadlineRange(ctx, owner, from, to)

	if seq.Load() != id {
		return nil, false, nil
	}

	return tasks, true, err
}
