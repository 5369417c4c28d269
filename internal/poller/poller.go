// Package poller drives the fetch cycles that keep the snapshot store fresh.
//
// An automatic ticker refreshes the status on a fixed interval. Refresh runs a
// status cycle and a process cycle concurrently. Each kind has a busy guard,
// so at most one fetch per kind is ever in flight; a tick that finds the
// status fetch still running is skipped.
//
// A failed fetch never blocks the dashboard: the cycle falls back to the
// synthetic generator, tags the result synthetic, and records the error in
// the store. The next successful cycle switches the slot back to live.
package poller

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/store"
	"github.com/rileyhilliard/sysdash/internal/synth"
)

// DefaultInterval is the automatic status refresh period.
const DefaultInterval = 5 * time.Second

// Fetcher retrieves live metrics. *fetch.Client satisfies it.
type Fetcher interface {
	FetchStatus(ctx context.Context) (metrics.SystemStatus, error)
	FetchProcesses(ctx context.Context) ([]metrics.Process, error)
}

// Options configures a Poller.
type Options struct {
	Fetcher      Fetcher
	Generator    synth.Generator
	Store        *store.Store
	Interval     time.Duration
	ProcessCount int
	Logger       logger.Logger
	Now          func() time.Time
}

// RefreshResult reports which cycles a Refresh actually ran.
// A cycle is not started when the same kind is already in flight.
type RefreshResult struct {
	StatusStarted    bool
	ProcessesStarted bool
}

// Poller schedules fetch cycles and writes their results into a store.
type Poller struct {
	fetcher      Fetcher
	gen          synth.Generator
	store        *store.Store
	interval     time.Duration
	processCount int
	log          logger.Logger
	now          func() time.Time

	statusBusy  atomic.Bool
	processBusy atomic.Bool

	// statusDegraded/processDegraded track the last outcome so mode
	// transitions are logged once rather than every cycle.
	statusDegraded  atomic.Bool
	processDegraded atomic.Bool

	// commitMu orders store writes against Stop so nothing lands after it.
	commitMu sync.RWMutex
	tornDown atomic.Bool

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Poller. Fetcher and Store are required.
func New(opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	gen := opts.Generator
	if gen == nil {
		gen = synth.NewRandom()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Poller{
		fetcher:      opts.Fetcher,
		gen:          gen,
		store:        opts.Store,
		interval:     interval,
		processCount: opts.ProcessCount,
		log:          log,
		now:          now,
	}
}

// Interval returns the automatic refresh period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start seeds an empty store with synthetic data, kicks off an initial full
// refresh, and starts the automatic status ticker. Calling Start again is a no-op.
// A poller cannot be restarted after Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.tornDown.Load() {
		return
	}
	p.started = true

	if !p.store.Ready() {
		p.store.Seed(p.gen.Status(), p.gen.Processes(p.processCount), p.now())
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.Refresh(ctx)
	go p.run(ctx)

	p.log.Debug("poller started (interval %s)", p.interval)
}

// run fires a status cycle on every tick until ctx is cancelled.
func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.statusBusy.Load() {
				p.log.Debug("status fetch still in flight, skipping tick")
				continue
			}
			go p.PollStatus(ctx)
		}
	}
}

// Stop cancels the ticker and waits for it to exit. Fetches already in
// flight are allowed to finish but their results are discarded.
// Stop is idempotent.
func (p *Poller) Stop() {
	p.commitMu.Lock()
	p.tornDown.Store(true)
	p.commitMu.Unlock()

	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.log.Debug("poller stopped")
}

// Stopped reports whether Stop has been called.
func (p *Poller) Stopped() bool {
	return p.tornDown.Load()
}

// Refresh runs a status cycle and a process cycle concurrently and waits for
// both. Neither cycle's failure or latency affects the other.
func (p *Poller) Refresh(ctx context.Context) RefreshResult {
	var (
		wg  sync.WaitGroup
		res RefreshResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res.StatusStarted = p.PollStatus(ctx)
	}()
	go func() {
		defer wg.Done()
		res.ProcessesStarted = p.PollProcesses(ctx)
	}()
	wg.Wait()

	return res
}

// PollStatus runs one status fetch cycle and blocks until it completes.
// It returns false without fetching if a status fetch is already in flight
// or the poller has been stopped.
func (p *Poller) PollStatus(ctx context.Context) bool {
	if p.tornDown.Load() || !p.statusBusy.CompareAndSwap(false, true) {
		return false
	}
	defer p.statusBusy.Store(false)

	p.store.BeginStatus()

	fctx, cancel := p.fetchContext(ctx)
	status, err := p.fetcher.FetchStatus(fctx)
	cancel()

	committed := p.commit(func() {
		at := p.now()
		if err != nil {
			if !p.statusDegraded.Swap(true) {
				p.log.Warn("status fetch failed, showing synthetic data: %s", describe(err))
			} else {
				p.log.Debug("status fetch failed again: %s", describe(err))
			}
			p.store.SetStatus(p.gen.Status(), metrics.SourceSynthetic, at, err)
			return
		}
		if p.statusDegraded.Swap(false) {
			p.log.Info("status endpoint recovered, showing live data")
		}
		p.store.SetStatus(status, metrics.SourceLive, at, nil)
	})
	if !committed {
		p.log.Debug("discarding status result after stop")
	}
	return true
}

// PollProcesses runs one process fetch cycle and blocks until it completes.
// It returns false without fetching if a process fetch is already in flight
// or the poller has been stopped.
func (p *Poller) PollProcesses(ctx context.Context) bool {
	if p.tornDown.Load() || !p.processBusy.CompareAndSwap(false, true) {
		return false
	}
	defer p.processBusy.Store(false)

	p.store.BeginProcesses()

	fctx, cancel := p.fetchContext(ctx)
	processes, err := p.fetcher.FetchProcesses(fctx)
	cancel()

	committed := p.commit(func() {
		at := p.now()
		if err != nil {
			if !p.processDegraded.Swap(true) {
				p.log.Warn("process fetch failed, showing synthetic data: %s", describe(err))
			} else {
				p.log.Debug("process fetch failed again: %s", describe(err))
			}
			p.store.SetProcesses(p.gen.Processes(p.processCount), metrics.SourceSynthetic, at, err)
			return
		}
		if p.processDegraded.Swap(false) {
			p.log.Info("process endpoint recovered, showing live data")
		}
		p.store.SetProcesses(processes, metrics.SourceLive, at, nil)
	})
	if !committed {
		p.log.Debug("discarding process result after stop")
	}
	return true
}

// commit runs write unless the poller has been stopped.
func (p *Poller) commit(write func()) bool {
	p.commitMu.RLock()
	defer p.commitMu.RUnlock()
	if p.tornDown.Load() {
		return false
	}
	write()
	return true
}

// fetchContext detaches a fetch from the poller's lifetime so teardown never
// aborts a request mid-flight. The interval bounds the fetch if the fetcher
// applies no timeout of its own.
func (p *Poller) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), p.interval)
}

// describe renders err on one line for logs.
func describe(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Summary()
	}
	return err.Error()
}
