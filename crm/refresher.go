// ABOUTME: Periodic dashboard refresh with cancellation of superseded runs
// ABOUTME: Publishes results in start order and drops stale generations
package crm

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/logging"
	"github.com/harperreed/crmboard/metrics"
	"go.uber.org/zap"
)

// RefreshResult is one published dashboard computation.
type RefreshResult struct {
	Generation uint64
	Window     analytics.Window
	Dashboard  analytics.Dashboard
	Err        error
}

// Refresher recomputes the dashboard on an interval or on demand. Starting
// a refresh cancels the one in flight, and a result is only published if no
// newer refresh has started since. publish runs with the refresher locked
// and must not call back into it. Once Run returns the refresher is closed
// and further triggers are ignored.
type Refresher struct {
	svc      *Service
	interval time.Duration
	publish  func(RefreshResult)
	logger   *zap.Logger
	metrics  *metrics.Collector

	mu     sync.Mutex
	window analytics.Window
	gen    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func NewRefresher(svc *Service, window analytics.Window, interval time.Duration, publish func(RefreshResult)) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: interval,
		publish:  publish,
		logger:   svc.logger,
		metrics:  svc.metrics,
		window:   window,
	}
}

// WithLogger replaces the refresher's logger.
func (r *Refresher) WithLogger(logger *zap.Logger) *Refresher {
	r.logger = logging.OrNop(logger)
	return r
}

// SetWindow switches the date window and starts a refresh for it.
func (r *Refresher) SetWindow(ctx context.Context, w analytics.Window) uint64 {
	r.mu.Lock()
	r.window = w
	r.mu.Unlock()
	return r.Trigger(ctx)
}

// Trigger starts a refresh and returns its generation. A closed refresher
// or a done ctx starts nothing and returns the current generation.
func (r *Refresher) Trigger(ctx context.Context) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || ctx.Err() != nil {
		return r.gen
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	window := r.window
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	// Add under mu so close cannot slip between the check and the Wait.
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		d, err := r.svc.Dashboard(runCtx, window)

		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.gen {
			r.metrics.RecordRefreshDropped()
			r.logger.Debug("stale dashboard refresh dropped", zap.Uint64("generation", gen), zap.Uint64("current", r.gen))
			return
		}
		if err != nil {
			r.logger.Warn("dashboard refresh failed", zap.Uint64("generation", gen), zap.Error(err))
		}
		r.publish(RefreshResult{Generation: gen, Window: window, Dashboard: d, Err: err})
	}()
	return gen
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.Trigger(ctx)
	if r.interval <= 0 {
		<-ctx.Done()
		r.close()
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.close()
			return
		case <-ticker.C:
			r.Trigger(ctx)
		}
	}
}

func (r *Refresher) close() {
	r.mu.Lock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.Wait()
}

// Wait blocks until every started refresh has finished.
func (r *Refresher) Wait() {
	r.wg.Wait()
}
