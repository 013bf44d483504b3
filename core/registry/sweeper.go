package registry

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically re-verifies stored artifacts against their recorded
// checksums and logs any corruption it finds.
type Sweeper struct {
	registry *Registry
	cron     *cron.Cron
	schedule string
}

// NewSweeper creates a sweeper on the given cron schedule (e.g. "@daily")
func NewSweeper(registry *Registry, schedule string) (*Sweeper, error) {
	if schedule == "" {
		schedule = "@daily"
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return &Sweeper{
		registry: registry,
		cron:     cron.New(),
		schedule: schedule,
	}, nil
}

// Start schedules the sweep and starts the cron runner
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() { s.Sweep(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron runner
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one verification pass
func (s *Sweeper) Sweep(ctx context.Context) {
	corrupted, err := s.registry.VerifyAll(ctx)
	if err != nil {
		log.Printf("WARNING: registry integrity sweep failed: %v", err)
		return
	}
	if len(corrupted) == 0 {
		log.Printf("Registry integrity sweep: all artifacts verified")
		return
	}
	for _, entry := range corrupted {
		log.Printf("ERROR: registry artifact corrupted: %s", entry)
	}
}
