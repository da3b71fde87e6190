package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned for work submitted after the dispatcher shut down.
var ErrStopped = errors.New("dispatcher stopped")

const (
	taskQueued int32 = iota
	taskRunning
	taskAbandoned
)

type task struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

// claim marks the task as started by a worker. It fails if the caller
// already gave up on it.
func (t *task) claim() bool {
	return t.state.CompareAndSwap(taskQueued, taskRunning)
}

// abandon withdraws a task nobody has started and returns reason. A task
// already running is waited for and its own result returned, so a change
// fn committed is never reported as failed.
func (t *task) abandon(reason error) error {
	if t.state.CompareAndSwap(taskQueued, taskAbandoned) {
		return reason
	}
	return <-t.done
}

// Dispatcher routes order mutations to a fixed set of workers using
// consistent hashing on the order id, so mutations of one order never run
// concurrently while different orders proceed in parallel.
type Dispatcher struct {
	workers []chan *task
	stopped chan struct{}
	once    sync.Once
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *task, numWorkers),
		stopped: make(chan struct{}),
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan *task, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.once.Do(func() { close(d.stopped) })
	}()
}

// Do runs fn on the worker owning key and waits for its result.
// It blocks while the shard's buffer is full. If ctx ends or the dispatcher
// stops before a worker picks the task up, fn never runs; once fn has
// started, Do returns its result.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	idx := d.shardIndex(key)
	t := &task{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case d.workers[idx] <- t:
		metrics.SerializerQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return t.abandon(ctx.Err())
	case <-d.stopped:
		return t.abandon(ErrStopped)
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *task) {
	depth := metrics.SerializerQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ch:
			depth.Dec()
			if !t.claim() {
				continue
			}
			// the caller's context ended before it could withdraw the task
			if err := t.ctx.Err(); err != nil {
				t.done <- err
				continue
			}
			err := t.fn(t.ctx)
			if err != nil {
				d.log.Debug().Err(err).Int("worker_id", id).Msg("task failed")
			}
			t.done <- err
		}
	}
}
