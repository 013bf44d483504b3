package monitoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trainloop/core/models"
)

// scriptedSource returns queued responses in order, repeating the last one,
// and counts how many times it was read.
type scriptedSource struct {
	mu        sync.Mutex
	responses [][]models.Job
	err       error
	calls     int
	block     chan struct{} // when set, ListJobs waits on it
}

func (s *scriptedSource) ListJobs(ctx context.Context) ([]models.Job, error) {
	s.mu.Lock()
	s.calls++
	var jobs []models.Job
	if len(s.responses) > 0 {
		jobs = s.responses[0]
		if len(s.responses) > 1 {
			s.responses = s.responses[1:]
		}
	}
	err := s.err
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return jobs, err
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func activeJob(id string) models.Job {
	return models.Job{ID: id, Status: models.JobStatusTraining, CurrentStage: "Training", Progress: 50}
}

func TestPollerStopsWhenNoActiveJobs(t *testing.T) {
	source := &scriptedSource{responses: [][]models.Job{
		{activeJob("p1")},
		{activeJob("p1")},
		{}, // trainer no longer reports the pipeline
	}}

	poller := NewPoller(source, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Start(ctx)

	// Let the poller tick past the transition to an empty collection.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(poller.Snapshot()) == 0 && source.callCount() >= 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(poller.Snapshot()) != 0 {
		t.Fatal("poller never observed the empty collection")
	}

	settled := source.callCount()
	time.Sleep(100 * time.Millisecond)
	if got := source.callCount(); got != settled {
		t.Errorf("timer kept firing after active count dropped to zero: %d extra calls", got-settled)
	}
}

func TestManualRefreshIsSingleFlight(t *testing.T) {
	block := make(chan struct{})
	source := &scriptedSource{
		responses: [][]models.Job{{activeJob("p1")}},
		block:     block,
	}

	poller := NewPoller(source, time.Hour, nil)

	done := make(chan bool)
	go func() { done <- poller.Refresh(context.Background()) }()

	// Wait until the first refresh is in flight.
	deadline := time.Now().Add(time.Second)
	for source.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if poller.Refresh(context.Background()) {
		t.Error("second refresh ran while the first was in flight")
	}

	close(block)
	if !<-done {
		t.Error("first refresh reported skipped")
	}
	if got := source.callCount(); got != 1 {
		t.Errorf("source read %d times, want 1", got)
	}
}

func TestRefreshErrorKeepsSnapshot(t *testing.T) {
	source := &scriptedSource{responses: [][]models.Job{{activeJob("p1")}}}
	poller := NewPoller(source, time.Hour, nil)

	poller.Refresh(context.Background())
	if len(poller.Snapshot()) != 1 {
		t.Fatal("first refresh did not populate snapshot")
	}

	source.mu.Lock()
	source.err = errors.New("trainer down")
	source.mu.Unlock()

	poller.Refresh(context.Background())
	if poller.LastError() == nil {
		t.Error("LastError not set after failed refresh")
	}
	if len(poller.Snapshot()) != 1 {
		t.Error("failed refresh replaced the snapshot")
	}
}

func TestOnUpdateReceivesSnapshot(t *testing.T) {
	source := &scriptedSource{responses: [][]models.Job{{activeJob("p1"), activeJob("p2")}}}

	var mu sync.Mutex
	var seen []models.Job
	poller := NewPoller(source, time.Hour, func(jobs []models.Job) {
		mu.Lock()
		seen = jobs
		mu.Unlock()
	})

	poller.Refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Errorf("onUpdate saw %d jobs, want 2", len(seen))
	}
}
