package processing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	dispatcherInboundCapacity = 32
	assignmentRetryDelay      = 250 * time.Millisecond
	enqueueTimeout            = 250 * time.Millisecond
)

// workOrder is what the façade submits: a Work body plus a one-shot channel
// the dispatcher uses to report back the allocated WorkId. ctx is the
// submitting request's context; if it's cancelled before the dispatcher
// reaches the order (the caller "went away"), the order is abandoned.
type workOrder struct {
	work   Work
	idChan chan WorkId
	ctx    context.Context
}

// Dispatcher owns a fixed-size worker pool, allocates monotonically
// increasing WorkIds, round-robin-assigns orders to workers with
// retry-on-full, and collects results into a pollable table.
type Dispatcher struct {
	inbound chan workOrder
	workers []*Worker
	results chan workerResult

	shutdown chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	cond   *sync.Cond
	table  map[WorkId]WorkResult
	nextID WorkId
}

// NewDispatcher starts workerCount workers and the dispatcher's own
// collection loop.
func NewDispatcher(workerCount int) *Dispatcher {
	d := &Dispatcher{
		inbound:  make(chan workOrder, dispatcherInboundCapacity),
		results:  make(chan workerResult, dispatcherInboundCapacity),
		shutdown: make(chan struct{}),
		table:    make(map[WorkId]WorkResult),
	}
	d.cond = sync.NewCond(&d.mu)

	d.workers = make([]*Worker, workerCount)
	for i := range d.workers {
		d.workers[i] = newWorker(i, d.results)
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Enqueue submits work for execution, waiting up to 250ms for the
// dispatcher's inbound queue to accept it. Returns ErrBusy on timeout and
// ErrServiceFailed if the dispatcher has shut down, ctx is done, or the
// dispatcher failed to deliver a WorkId. ctx is retained and consulted again
// at assignment time, so a caller that disconnects while queued does not
// bias the round-robin offset.
func (d *Dispatcher) Enqueue(ctx context.Context, work Work) (WorkId, error) {
	order := workOrder{work: work, idChan: make(chan WorkId, 1), ctx: ctx}

	select {
	case d.inbound <- order:
	case <-time.After(enqueueTimeout):
		return 0, ErrBusy
	case <-d.shutdown:
		return 0, ErrServiceFailed
	case <-ctx.Done():
		return 0, ErrServiceFailed
	}

	select {
	case id, ok := <-order.idChan:
		if !ok {
			return 0, ErrServiceFailed
		}
		return id, nil
	case <-d.shutdown:
		return 0, ErrServiceFailed
	case <-ctx.Done():
		return 0, ErrServiceFailed
	}
}

// GetResult probes the result table for id. With timeout == nil it performs
// a single non-blocking probe. With a timeout it loops: probe, then wait on
// the broadcast notification bounded by the remaining deadline, then
// re-probe; it returns ErrNotAvailable once the deadline elapses. A
// retrieved result is atomically removed from the table.
func (d *Dispatcher) GetResult(id WorkId, timeout *time.Duration) (WorkResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timeout == nil {
		if result, ok := d.table[id]; ok {
			delete(d.table, id)
			return result, nil
		}
		return WorkResult{}, ErrNotAvailable
	}

	deadline := time.Now().Add(*timeout)
	for {
		if result, ok := d.table[id]; ok {
			delete(d.table, id)
			return result, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return WorkResult{}, ErrNotAvailable
		}

		// sync.Cond has no native timed wait: a helper timer broadcasts
		// once the remaining budget elapses so Wait doesn't block past
		// the deadline. It takes the lock first, so it cannot fire
		// before this goroutine has registered in Wait.
		timer := time.AfterFunc(remaining, func() {
			d.mu.Lock()
			d.cond.Broadcast()
			d.mu.Unlock()
		})
		d.cond.Wait()
		timer.Stop()
	}
}

// Shutdown closes the inbound order queue and waits for the dispatcher's
// collection loop and every worker to exit cleanly.
func (d *Dispatcher) Shutdown() {
	close(d.shutdown)
	close(d.inbound)
	d.wg.Wait()
}

// run is the dispatcher's single select loop: it consumes whichever of
// {new order, worker result} is ready. It never executes a work body
// inline; it only ever forwards Work into a Worker's own channel.
func (d *Dispatcher) run() {
	defer d.wg.Done()

	offset := 0
	inbound := d.inbound
	results := d.results
	for {
		select {
		case order, ok := <-inbound:
			if !ok {
				inbound = nil
				go d.closeWorkersThenResults()
				continue
			}
			offset = d.assign(order, offset)

		case res, ok := <-results:
			if !ok {
				return
			}
			d.insertResult(res.id, res.result)
		}
	}
}

// assign allocates the next WorkId, delivers it on the order's one-shot
// channel, and round-robin-assigns the work to a worker with retry-on-full.
// If the order's context is already done, it is dropped without being
// dispatched and the round-robin offset is left unchanged.
func (d *Dispatcher) assign(order workOrder, offset int) int {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.mu.Unlock()

	if order.ctx.Err() != nil {
		close(order.idChan)
		slog.Warn("work order abandoned before assignment", "work_id", id)
		return offset
	}
	order.idChan <- id
	close(order.idChan)

	n := len(d.workers)
	for {
		for i := 0; i < n; i++ {
			w := d.workers[(offset+i)%n]
			if err := w.TryEnqueue(workItem{id: id, work: order.work}); err == nil {
				slog.Info("work item assigned", "work_id", id, "worker_index", (offset+i)%n)
				return (offset + 1) % n
			}
		}
		time.Sleep(assignmentRetryDelay)
	}
}

func (d *Dispatcher) insertResult(id WorkId, result WorkResult) {
	d.mu.Lock()
	if _, dup := d.table[id]; dup {
		d.mu.Unlock()
		panic("processing: duplicate WorkId in result table")
	}
	d.table[id] = result
	d.mu.Unlock()
	d.cond.Broadcast()
}

// closeWorkersThenResults shuts down every worker, then closes the shared
// result channel so run's select loop can observe end-of-stream once any
// in-flight results have been drained.
func (d *Dispatcher) closeWorkersThenResults() {
	for _, w := range d.workers {
		w.Close()
	}
	close(d.results)
}
