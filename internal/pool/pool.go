package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed  = errors.New("pool is shut down")
	ErrInvalidSize = errors.New("pool size must be positive")
)

// Task is a unit of work executed on a pool slot.
type Task func()

type slot struct {
	id int32
}

// Pool is a fixed-size set of worker slots. Every task occupies one slot
// for its whole runtime. Once shut down, a pool rejects new tasks and
// cannot be reopened; callers create a new one instead.
type Pool struct {
	slots *puddle.Pool[*slot]

	mu    sync.Mutex
	shut  bool
	tasks sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
	drained   chan struct{}

	log *zap.Logger
}

// New creates a pool with the given number of slots.
func New(size int, log *zap.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	var nextID atomic.Int32

	constructor := func(context.Context) (*slot, error) {
		return &slot{id: nextID.Add(1)}, nil
	}

	slots, err := puddle.NewPool(&puddle.Config[*slot]{
		Constructor: constructor,
		Destructor:  func(*slot) {},
		MaxSize:     int32(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Pool{
		slots:   slots,
		closed:  make(chan struct{}),
		drained: make(chan struct{}),
		log:     log.Named("pool"),
	}, nil
}

// Go acquires a free slot and runs the task on its own goroutine. The call
// blocks until a slot is available or the context is done.
func (p *Pool) Go(ctx context.Context, name string, task Task) error {
	p.mu.Lock()
	if p.shut {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.tasks.Add(1)
	p.mu.Unlock()

	res, err := p.slots.Acquire(ctx)
	if err != nil {
		p.tasks.Done()
		if errors.Is(err, puddle.ErrClosedPool) {
			return ErrPoolClosed
		}
		return fmt.Errorf("failed to acquire slot for %s: %w", name, err)
	}

	log := p.log.With(zap.String("task", name), zap.Int32("slot", res.Value().id))

	go func() {
		defer p.tasks.Done()
		defer res.Release()

		defer func() {
			if r := recover(); r != nil {
				log.Error("task panicked", zap.Any("panic", r))
			}
		}()

		log.Debug("task started")
		task()
		log.Debug("task finished")
	}()

	return nil
}

// Busy returns the number of slots currently running a task.
func (p *Pool) Busy() int32 {
	return p.slots.Stat().AcquiredResources()
}

// Size returns the number of slots of the pool.
func (p *Pool) Size() int32 {
	return p.slots.Stat().MaxResources()
}

// IsShutdown reports whether Shutdown has been called.
func (p *Pool) IsShutdown() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// Shutdown closes the pool and waits until every running task has returned
// its slot, or until the context is done. The close keeps progressing in
// the background after a context timeout, so calling Shutdown again waits
// for the same close to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.shut = true
		close(p.closed)
		p.mu.Unlock()

		go func() {
			p.tasks.Wait()
			p.slots.Close()
			close(p.drained)
		}()
	})

	select {
	case <-p.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
