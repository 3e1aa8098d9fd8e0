package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/game-hipe/remembering/internal/pkg/logger"
)

// Scheduler manages cron jobs. It drives the periodic maintenance work
// (currently the daily memory retention cleanup).
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	mu   sync.Mutex
}

var (
	schedulerInstance *Scheduler
	once              sync.Once
)

// NewScheduler creates a new singleton instance of the cron scheduler.
func NewScheduler(log logger.Logger) *Scheduler {
	once.Do(func() {
		c := cron.New(cron.WithSeconds())
		c.Start()
		schedulerInstance = &Scheduler{
			cron: c,
			log:  log,
		}
	})
	return schedulerInstance
}

// AddJob adds a new job to the scheduler.
// spec follows the cron format with seconds (e.g. "0 0 4 * * *").
func (s *Scheduler) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, cmd)
	if err != nil {
		s.log.Error("Failed to add cron job", err)
		return 0, fmt.Errorf("failed to add cron job: %w", err)
	}
	s.log.Info(fmt.Sprintf("Added cron job %d with spec %q", id, spec))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info("Cron scheduler stopped.")
	}
}
