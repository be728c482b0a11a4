package processing

import "errors"

var (
	// ErrQueueFull is returned by Worker.TryEnqueue when the worker's
	// inbound queue has no free slot.
	ErrQueueFull = errors.New("processing: worker inbound queue is full")
	// ErrClosed is returned by Worker.TryEnqueue after the worker has been
	// shut down.
	ErrClosed = errors.New("processing: worker is closed")
	// ErrBusy is returned by Dispatcher.Enqueue when the dispatcher's
	// inbound order queue did not accept the order within the enqueue
	// timeout.
	ErrBusy = errors.New("processing: dispatcher is busy")
	// ErrServiceFailed is returned by Dispatcher.Enqueue when the
	// dispatcher has shut down or failed to deliver a WorkId.
	ErrServiceFailed = errors.New("processing: dispatcher service failed")
	// ErrNotAvailable is returned by Dispatcher.GetResult when the result
	// hasn't landed within the given deadline.
	ErrNotAvailable = errors.New("processing: result not available")
)
