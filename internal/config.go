package shim

import (
	"go.uber.org/zap"
)

const (
	defaultWorkerPoolSize      = 4
	defaultCompletionQueueSize = 64
	defaultMaxMessageLength    = 512
)

// Config controls engine construction. Each With method returns a copy, the
// receiver is never modified.
type Config interface {
	// WithLogger sets the logger for trace and failure events. When unset
	// the package Logger is used.
	WithLogger(l *zap.Logger) Config

	// WithWorkerPoolSize bounds how many work callbacks run concurrently.
	WithWorkerPoolSize(n int) Config

	// WithCompletionQueueSize sets how many finished work items can wait
	// for the main thread before workers block.
	WithCompletionQueueSize(n int) Config

	// WithMaxMessageLength sets the size of the error message buffer,
	// including the terminator the native API reserves.
	WithMaxMessageLength(n int) Config
}

type engineConfig struct {
	logger              *zap.Logger
	workerPoolSize      int
	completionQueueSize int
	maxMessageLength    int
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return &engineConfig{
		workerPoolSize:      defaultWorkerPoolSize,
		completionQueueSize: defaultCompletionQueueSize,
		maxMessageLength:    defaultMaxMessageLength,
	}
}

func (c *engineConfig) clone() *engineConfig {
	ret := *c
	return &ret
}

func (c *engineConfig) WithLogger(l *zap.Logger) Config {
	ret := c.clone()
	ret.logger = l
	return ret
}

func (c *engineConfig) WithWorkerPoolSize(n int) Config {
	ret := c.clone()
	if n > 0 {
		ret.workerPoolSize = n
	}
	return ret
}

func (c *engineConfig) WithCompletionQueueSize(n int) Config {
	ret := c.clone()
	if n >= 0 {
		ret.completionQueueSize = n
	}
	return ret
}

func (c *engineConfig) WithMaxMessageLength(n int) Config {
	ret := c.clone()
	if n > 0 {
		ret.maxMessageLength = n
	}
	return ret
}
