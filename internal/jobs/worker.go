// small contract description
// inputs: tasks submitted by request handlers, handlers map
// outputs: handler invocations, one attempt each
// error modes: full queue (task dropped), handler errors and panics (logged)
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultWorkers     = 2
	defaultQueueSize   = 64
	defaultTaskTimeout = 15 * time.Second
)

type WorkerPool struct {
	handlers    map[string]Handler
	logger      *slog.Logger
	workerCount int
	taskTimeout time.Duration
	queue       chan *Task
	stop        chan struct{}
	wg          sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

var _ Dispatcher = (*WorkerPool)(nil)

func NewWorkerPool(handlers map[string]Handler, logger *slog.Logger, workerCount, queueSize int, taskTimeout time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if taskTimeout <= 0 {
		taskTimeout = defaultTaskTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		handlers:    handlers,
		logger:      logger,
		workerCount: workerCount,
		taskTimeout: taskTimeout,
		queue:       make(chan *Task, queueSize),
		stop:        make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop refuses new tasks, lets workers finish what is already queued and
// waits for them. Calling Stop more than once is safe.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit enqueues a task without blocking. A full queue drops the task and
// returns ErrQueueFull; the caller is expected to log and move on.
func (p *WorkerPool) Submit(typ string, payload any) error {
	if _, ok := p.handlers[typ]; !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, typ)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	t := &Task{ID: uuid.NewString(), Type: typ, Payload: b, Enqueued: time.Now().UTC()}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- t:
		return nil
	default:
		p.logger.Warn("task dropped, queue full", "type", typ, "task_id", t.ID)
		return ErrQueueFull
	}
}

// Pending reports the number of queued tasks.
func (p *WorkerPool) Pending() int {
	return len(p.queue)
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.drain(ctx)
			p.logger.Info("worker stopping", "id", id)
			return
		case <-ctx.Done():
			p.logger.Info("context canceled, worker exiting", "id", id)
			return
		case t := <-p.queue:
			p.run(ctx, t)
		}
	}
}

func (p *WorkerPool) drain(ctx context.Context) {
	for {
		select {
		case t := <-p.queue:
			p.run(ctx, t)
		default:
			return
		}
	}
}

func (p *WorkerPool) run(ctx context.Context, t *Task) {
	h := p.handlers[t.Type]

	ctx, cancel := context.WithTimeout(ctx, p.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "type", t.Type, "task_id", t.ID, "panic", r)
		}
	}()

	start := time.Now()
	if err := h(ctx, t); err != nil {
		p.logger.Error("task failed", "type", t.Type, "task_id", t.ID, "err", err, "duration", time.Since(start))
		return
	}
	p.logger.Debug("task done", "type", t.Type, "task_id", t.ID, "duration", time.Since(start))
}
