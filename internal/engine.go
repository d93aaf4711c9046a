package shim

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Engine binds the shim to one goja runtime. Apart from QueueWork's work
// callbacks, everything must happen on the goroutine that owns the runtime.
type Engine struct {
	rt       *goja.Runtime
	host     *host
	config   *engineConfig
	logger   *zap.Logger
	private  *goja.Symbol
	stats    ValueStats
	contexts []*Context
	depth    int
	ticks    []func(ctx *Context) error
	refs     *persistentTable
	weak     *weakQueue
	work     *workQueue
}

// New creates an engine for rt. A nil config means NewConfig().
func New(rt *goja.Runtime, config Config) *Engine {
	if config == nil {
		config = NewConfig()
	}
	cfg, ok := config.(*engineConfig)
	if !ok {
		panic(fmt.Errorf("unsupported config implementation %T", config))
	}

	l := cfg.logger
	if l == nil {
		l = Logger()
	}

	e := &Engine{
		rt:      rt,
		host:    newHost(rt),
		config:  cfg,
		logger:  l,
		private: goja.NewSymbol("shim_private"),
		refs:    newPersistentTable(),
		weak:    &weakQueue{},
	}
	e.work = newWorkQueue(cfg.workerPoolSize, cfg.completionQueueSize, l)
	return e
}

// Runtime returns the wrapped runtime.
func (e *Engine) Runtime() *goja.Runtime {
	return e.rt
}

// Stats returns the value allocation counters.
func (e *Engine) Stats() ValueStats {
	return e.stats
}

// Run opens a top-level context for fn. An exception left pending when fn
// returns is reported as *Exception and wins over fn's own error.
func (e *Engine) Run(fn func(ctx *Context) error) error {
	ctx := e.enter()
	defer e.exit(ctx)

	err := fn(ctx)
	if ctx.exception != nil {
		return &Exception{value: ctx.exception}
	}
	return err
}

// drainTicks runs queued ticks, including ticks queued while draining. It
// stops at the first failure and leaves the rest queued.
func (e *Engine) drainTicks() error {
	for len(e.ticks) > 0 {
		fn := e.ticks[0]
		e.ticks[0] = nil
		e.ticks = e.ticks[1:]

		if err := e.Run(fn); err != nil {
			e.logger.Warn("tick failed", zap.Error(err))
			return fmt.Errorf("could not run tick: %w", err)
		}
	}
	return nil
}
