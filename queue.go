package outlit

import (
	"sync"
	"time"

	"github.com/outlit/outlit-go/adapters"
)

// DeliverFunc attempts one network delivery of a batch.
type DeliverFunc func(events []Event) error

// EventQueue buffers built events and coordinates batched delivery with an
// at-most-one-flush-in-flight discipline. Delivery failures re-buffer the
// batch at the front of the queue for the next periodic or size-triggered
// flush; the periodic interval is the de facto retry backoff.
type EventQueue struct {
	mu        sync.Mutex
	buf       []Event
	flushing  bool
	maxBatch  int
	maxBuffer int
	deliver   DeliverFunc
	logger    adapters.LoggerAdapter

	interval     time.Duration
	ticker       *time.Ticker
	stopChan     chan struct{}
	wg           sync.WaitGroup
	timerStarted bool
	timerMu      sync.Mutex
}

// NewEventQueue creates a queue. The periodic timer starts lazily on the
// first enqueue so an idle queue costs nothing.
func NewEventQueue(maxBatch, maxBuffer int, interval time.Duration, deliver DeliverFunc, logger adapters.LoggerAdapter) *EventQueue {
	return &EventQueue{
		maxBatch:  maxBatch,
		maxBuffer: maxBuffer,
		deliver:   deliver,
		logger:    logger,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Enqueue appends an event to the tail of the buffer, dropping the oldest
// event when the buffer cap is reached. Reaching the batch size triggers an
// asynchronous flush; failures of that flush are not the caller's problem.
func (q *EventQueue) Enqueue(event Event) {
	q.mu.Lock()
	if len(q.buf) >= q.maxBuffer {
		q.buf = q.buf[1:]
		q.logger.Warn("event buffer full (%d), dropping oldest event", q.maxBuffer)
	}
	q.buf = append(q.buf, event)
	size := len(q.buf)
	q.mu.Unlock()

	q.startTimerIfNeeded()

	if size >= q.maxBatch {
		go func() {
			if err := q.Flush(); err != nil {
				q.logger.Error("size-triggered flush failed: %v", err)
			}
		}()
	}
}

func (q *EventQueue) startTimerIfNeeded() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if q.timerStarted {
		return
	}
	q.ticker = time.NewTicker(q.interval)
	q.timerStarted = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ticker.C:
				if err := q.Flush(); err != nil {
					q.logger.Error("periodic flush failed: %v", err)
				}
			case <-q.stopChan:
				return
			}
		}
	}()
}

// Flush atomically drains the buffer and attempts one delivery of the whole
// snapshot. A flush already in progress or an empty buffer makes this a
// silent no-op. On failure the snapshot is prepended back in front of any
// events enqueued meanwhile, then the error is returned.
func (q *EventQueue) Flush() error {
	q.mu.Lock()
	if q.flushing || len(q.buf) == 0 {
		q.mu.Unlock()
		return nil
	}
	q.flushing = true
	batch := q.buf
	q.buf = nil
	q.mu.Unlock()

	q.logger.Debug("flushing %d events", len(batch))
	err := q.deliver(batch)

	q.mu.Lock()
	q.flushing = false
	if err != nil {
		restored := make([]Event, 0, len(batch)+len(q.buf))
		restored = append(restored, batch...)
		restored = append(restored, q.buf...)
		if overflow := len(restored) - q.maxBuffer; overflow > 0 {
			restored = restored[overflow:]
			q.logger.Warn("event buffer full (%d), dropping %d oldest events", q.maxBuffer, overflow)
		}
		q.buf = restored
	}
	q.mu.Unlock()

	if err != nil {
		q.logger.Error("flush failed, events re-buffered: %v", err)
		return err
	}
	return nil
}

// drain removes and returns the whole buffer without delivering it.
// Used by the best-effort unload path, which bypasses the normal flush.
func (q *EventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.buf
	q.buf = nil
	return batch
}

// Size returns the number of buffered events.
func (q *EventQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Flushing reports whether a delivery is in flight.
func (q *EventQueue) Flushing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushing
}

// Stop halts the periodic timer. Buffered events stay in place; the owner
// decides whether to flush them first. Safe to call more than once.
func (q *EventQueue) Stop() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if !q.timerStarted {
		return
	}
	q.ticker.Stop()
	close(q.stopChan)
	q.wg.Wait()
	q.timerStarted = false
	q.stopChan = make(chan struct{})
}
