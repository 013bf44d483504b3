package monitoring

import (
	"context"
	"log"
	"sync"
	"time"

	"trainloop/core/models"
)

// JobSource is the upstream read the poller refreshes from
type JobSource interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
}

// Poller keeps a local snapshot of the trainer's pipeline list. While at least
// one pipeline is active it re-reads the list on a fixed cadence; with nothing
// active the ticker stays down and only a manual refresh wakes it. Refreshes
// are single-flight: a tick that fires while one is outstanding is skipped,
// and a completed refresh that was superseded is discarded.
type Poller struct {
	source   JobSource
	interval time.Duration
	onUpdate func([]models.Job)

	mu         sync.Mutex
	jobs       []models.Job
	lastErr    error
	inFlight   bool
	generation uint64
	applied    uint64

	wake     chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller over the given source. onUpdate, if non-nil, is
// invoked with each applied snapshot (outside the poller's lock).
func NewPoller(source JobSource, interval time.Duration, onUpdate func([]models.Job)) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		source:   source,
		interval: interval,
		onUpdate: onUpdate,
		wake:     make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// Start runs the refresh loop until ctx is cancelled or Stop is called.
// It performs one immediate refresh before entering the loop.
func (p *Poller) Start(ctx context.Context) {
	p.Refresh(ctx)

	for {
		var tick <-chan time.Time
		var timer *time.Timer
		if p.hasActiveJobs() {
			timer = time.NewTimer(p.interval)
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return
		case <-p.stopChan:
			stopTimer(timer)
			return
		case <-tick:
			p.Refresh(ctx)
		case <-p.wake:
			// Collection changed; re-evaluate whether to keep ticking.
			stopTimer(timer)
		}
	}
}

// Stop tears the loop down. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

// Refresh performs one upstream read immediately, bypassing the timer.
// Returns false when skipped because another refresh was already in flight.
func (p *Poller) Refresh(ctx context.Context) bool {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	jobs, err := p.source.ListJobs(ctx)

	p.mu.Lock()
	p.inFlight = false
	if gen <= p.applied {
		// A newer refresh already landed; drop this result.
		p.mu.Unlock()
		return false
	}
	p.applied = gen
	if err != nil {
		p.lastErr = err
		p.mu.Unlock()
		log.Printf("WARNING: pipeline refresh failed: %v", err)
		return true
	}
	p.jobs = jobs
	p.lastErr = nil
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(jobs)
	}
	p.notify()
	return true
}

// Snapshot returns a copy of the most recently applied pipeline list
func (p *Poller) Snapshot() []models.Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Job, len(p.jobs))
	copy(out, p.jobs)
	return out
}

// LastError returns the error of the most recent refresh, nil on success
func (p *Poller) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller) hasActiveJobs() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, job := range p.jobs {
		if job.Status.IsActive() {
			return true
		}
	}
	return false
}

// notify nudges the loop without blocking; one pending wakeup is enough
func (p *Poller) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
