package processing

import "log/slog"

const workerInboundCapacity = 8

// workItem pairs a Work body with the WorkId the dispatcher already
// allocated for it.
type workItem struct {
	id   WorkId
	work Work
}

// workerResult pairs a WorkResult with its originating WorkId, as published
// on a Dispatcher's shared result channel.
type workerResult struct {
	id     WorkId
	result WorkResult
}

// Worker is a long-lived executor identified by an integer id. It consumes
// Work items from its own inbound queue and publishes results on a result
// channel shared by the whole pool.
type Worker struct {
	id      int
	inbound chan workItem
	out     chan<- workerResult
	done    chan struct{}
	stopped chan struct{}
}

// newWorker starts a worker goroutine that drains inbound and publishes
// each completed item's result on out. out is owned by the caller (the
// Dispatcher); closing inbound (via Close) causes the worker goroutine to
// drain what's queued and return.
func newWorker(id int, out chan<- workerResult) *Worker {
	w := &Worker{
		id:      id,
		inbound: make(chan workItem, workerInboundCapacity),
		out:     out,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w
}

// TryEnqueue attempts a non-blocking send of item onto the worker's inbound
// queue. Returns ErrQueueFull if the queue has no free slot, ErrClosed if
// the worker has been shut down.
func (w *Worker) TryEnqueue(item workItem) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}

	select {
	case w.inbound <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Worker) loop() {
	defer close(w.stopped)
	for item := range w.inbound {
		result := run(item.work)
		w.out <- workerResult{id: item.id, result: result}
		slog.Debug("worker completed work item", "worker_id", w.id, "work_id", item.id)
	}
}

// Close signals the worker to drain its inbound queue and exit, then blocks
// until its goroutine has returned.
func (w *Worker) Close() {
	close(w.done)
	close(w.inbound)
	<-w.stopped
}
