package scheduler

import (
	"context"
	"time"

	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler drives the recurring background jobs. The decay run re-enters
// the same service layer the interactive handlers use; the cron expression
// comes from configuration rather than hard-coded control flow.
type Scheduler struct {
	cron     *cron.Cron
	decay    *services.DecayService
	schedule string
	log      *logrus.Logger
}

// New creates a new Scheduler
func New(decay *services.DecayService, schedule string, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		decay:    decay,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the decay job and starts the cron loop in its own
// goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDecay); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("decay scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("scheduler shutdown timed out")
	}
}

func (s *Scheduler) runDecay() {
	runID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"job": "monthly_decay", "run_id": runID})
	log.Info("scheduled decay run starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	processed, err := s.decay.Run(ctx)
	if err != nil {
		log.WithError(err).Error("scheduled decay run failed")
		return
	}
	log.WithFields(logrus.Fields{
		"processed": processed,
		"duration":  time.Since(start).String(),
	}).Info("scheduled decay run finished")
}
