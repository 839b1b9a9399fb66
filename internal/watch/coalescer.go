package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// TriggerRequeue is the trigger reported for a build started from the queue.
const TriggerRequeue = "requeue"

// BuildFunc runs one build.
type BuildFunc func(ctx context.Context, trigger string) error

// Coalescer serialises build requests. A request while idle starts a build;
// a request while building marks a rebuild as queued; further requests are
// folded into that one. When a build finishes with a rebuild queued, exactly
// one more build runs after the requeue delay. Running builds are never
// interrupted by new requests.
type Coalescer struct {
	build    BuildFunc
	delay    time.Duration
	ctx      context.Context
	recorder metrics.Recorder
	logger   *slog.Logger

	mu       sync.Mutex
	building bool
	queued   bool
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// CoalescerOption configures a Coalescer.
type CoalescerOption func(*Coalescer)

// WithRequeueDelay sets the pause before a queued rebuild starts.
func WithRequeueDelay(d time.Duration) CoalescerOption { return func(c *Coalescer) { c.delay = d } }

// WithCoalescerRecorder sets the metrics recorder.
func WithCoalescerRecorder(r metrics.Recorder) CoalescerOption {
	return func(c *Coalescer) { c.recorder = r }
}

// WithCoalescerLogger sets the logger.
func WithCoalescerLogger(l *slog.Logger) CoalescerOption { return func(c *Coalescer) { c.logger = l } }

// NewCoalescer returns a Coalescer running build. Builds receive ctx without
// its cancellation, so stopping the caller never aborts a build half way.
func NewCoalescer(ctx context.Context, build BuildFunc, opts ...CoalescerOption) *Coalescer {
	c := &Coalescer{
		build:    build,
		delay:    100 * time.Millisecond,
		ctx:      context.WithoutCancel(ctx),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request asks for a build. It never blocks.
func (c *Coalescer) Request(trigger string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.building {
		c.recorder.IncRebuildRequest(trigger, c.queued)
		if !c.queued {
			c.logger.Info("Build in progress; rebuild queued", slog.String("trigger", trigger))
		}
		c.queued = true
		return
	}
	c.recorder.IncRebuildRequest(trigger, false)
	c.building = true
	c.wg.Add(1)
	go c.run(trigger)
}

func (c *Coalescer) run(trigger string) {
	defer c.wg.Done()
	for {
		if err := c.build(c.ctx, trigger); err != nil {
			c.logger.Error("Build failed", slog.String("trigger", trigger), logfields.Error(err))
		}

		c.mu.Lock()
		if !c.queued || c.closed {
			c.building = false
			c.queued = false
			c.mu.Unlock()
			return
		}
		c.queued = false
		c.mu.Unlock()

		if !c.pause() {
			c.mu.Lock()
			c.building = false
			c.mu.Unlock()
			return
		}
		trigger = TriggerRequeue
	}
}

// pause waits out the requeue delay. It returns false when Close is called
// meanwhile.
func (c *Coalescer) pause() bool {
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-c.done:
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// State reports whether a build is running and whether a rebuild is queued.
func (c *Coalescer) State() (building, queued bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.building, c.queued
}

// Close stops accepting requests, drops any queued rebuild and waits for the
// running build to finish.
func (c *Coalescer) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	c.mu.Unlock()
	c.wg.Wait()
}
