package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const (
	defaultWorkers       = 16
	defaultDetachTimeout = 5 * time.Second
)

// Pool bounds concurrent work shared by page composition and background
// cache population. A zero Pool is not usable; call NewPool.
type Pool struct {
	sem           *semaphore.Weighted
	wg            sync.WaitGroup
	logger        interfaces.Logger
	detachTimeout time.Duration
}

// Option customises a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for detached task failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDetachTimeout bounds each detached task.
func WithDetachTimeout(timeout time.Duration) Option {
	return func(p *Pool) {
		if timeout > 0 {
			p.detachTimeout = timeout
		}
	}
}

// NewPool creates a pool with the given number of concurrent slots.
func NewPool(workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	p := &Pool{
		sem:           semaphore.NewWeighted(int64(workers)),
		logger:        logging.NoOp(),
		detachTimeout: defaultDetachTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes fn on a pool slot, waiting for one to free up unless ctx ends first.
func (p *Pool) Run(ctx context.Context, fn func(context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

// Detach submits best-effort background work. The task outlives ctx
// cancellation, runs under its own timeout, and its failure is only logged.
func (p *Pool) Detach(ctx context.Context, name string, fn func(context.Context) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		runCtx, cancel := context.WithTimeout(base, p.detachTimeout)
		defer cancel()
		if err := p.Run(runCtx, safe(fn)); err != nil {
			p.logger.Warn("tasks.detached.failed", "task", name, "error", err)
			return
		}
		p.logger.Debug("tasks.detached.done", "task", name)
	}()
}

// Wait blocks until every detached task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Group starts a fan-out whose tasks each occupy a pool slot.
func (p *Pool) Group(ctx context.Context) *Group {
	return &Group{pool: p, ctx: ctx}
}

// Group collects tasks and reports the first error. Siblings are not
// cancelled when one fails; they run to completion.
type Group struct {
	pool *Pool
	ctx  context.Context
	eg   errgroup.Group
}

// Go runs fn on a pool slot.
func (g *Group) Go(fn func(context.Context) error) {
	g.eg.Go(func() error {
		return g.pool.Run(g.ctx, safe(fn))
	})
}

// Wait blocks until all tasks complete and returns the first error.
func (g *Group) Wait() error {
	return g.eg.Wait()
}

func safe(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("tasks: panic: %v", r)
			}
		}()
		return fn(ctx)
	}
}
