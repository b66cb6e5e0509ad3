// Package worker provides an asynchronous worker pool for persisting
// answered exchanges using the provided memory.Driver.
//
// The pool decouples recall storage from the API's request hot path so that
// answering a query never waits on the memory backend.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/memory"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// Origin names the surface that produced the exchange.
	Origin string

	// Exchange is the question/answer pair to record.
	Exchange memory.Exchange
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the memory backend for recording exchanges.
	Driver memory.Driver

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool records exchanges asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("origin", job.Origin),
			zap.String("exchange_id", job.Exchange.ID),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("origin", job.Origin),
			zap.String("exchange_id", job.Exchange.ID),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the API server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("memory worker stopped", zap.Uint("worker_id", id))
}

// processJob records a single exchange. Failures are logged, never
// surfaced; the answer has already been served.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	if err := p.config.Driver.Remember(ctx, job.Exchange); err != nil {
		p.logger.Error("async exchange persistence failed",
			zap.String("origin", job.Origin),
			zap.String("exchange_id", job.Exchange.ID),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("exchange remembered",
		zap.String("origin", job.Origin),
		zap.String("exchange_id", job.Exchange.ID),
	)
}
