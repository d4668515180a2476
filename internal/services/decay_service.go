package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cesarbot/kudos-backend/internal/levels"
	"github.com/cesarbot/kudos-backend/internal/metrics"
	"github.com/cesarbot/kudos-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// DecayService applies the monthly inactivity penalty. Users who gave no
// bananas during the just-completed month lose a fixed number of points,
// floored at zero, with their level recomputed through the same progression
// model as awards.
type DecayService struct {
	userRepo repositories.UserRepository
	statRepo repositories.MonthlyStatRepository
	notifier *NotificationService
	log      *logrus.Logger
	penalty  int
	now      func() time.Time
}

// NewDecayService creates a new DecayService
func NewDecayService(
	userRepo repositories.UserRepository,
	statRepo repositories.MonthlyStatRepository,
	notifier *NotificationService,
	log *logrus.Logger,
	penalty int,
) *DecayService {
	return &DecayService{
		userRepo: userRepo,
		statRepo: statRepo,
		notifier: notifier,
		log:      log,
		penalty:  penalty,
		now:      time.Now,
	}
}

// Run executes the decay for the month preceding the current one.
func (s *DecayService) Run(ctx context.Context) (int, error) {
	year, month := previousPeriod(s.now())
	return s.RunForPeriod(ctx, year, month)
}

// RunForPeriod executes the decay for an explicit (year, month). One user's
// failure is logged and isolated; it never aborts the rest of the batch.
func (s *DecayService) RunForPeriod(ctx context.Context, year, month int) (int, error) {
	s.log.WithFields(logrus.Fields{"year": year, "month": month}).Info("running monthly banana decay")

	inactive, err := s.statRepo.FindInactiveUserIDs(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("list inactive users for %d-%02d: %w", year, month, err)
	}

	processed := 0
	for _, userID := range inactive {
		if err := s.decayUser(ctx, userID); err != nil {
			s.log.WithError(err).WithField("user", userID).Error("decay failed for user")
			continue
		}
		processed++
	}
	metrics.DecayRuns.Inc()

	s.log.WithField("processed", processed).Info("monthly banana decay finished")
	return processed, nil
}

func (s *DecayService) decayUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	newPoints := user.Points - s.penalty
	if newPoints < 0 {
		newPoints = 0
	}
	newLevel := levels.LevelForPoints(newPoints)
	if err := s.userRepo.SetBalance(ctx, userID, newPoints, newLevel); err != nil {
		return fmt.Errorf("apply penalty: %w", err)
	}
	metrics.DecayPenalties.Inc()

	s.notifier.SendDecayNotice(ctx, userID, s.penalty)
	return nil
}

// previousPeriod returns the (year, month) of the calendar month before t.
// Computed by hand because AddDate normalizes day overflow (Mar 31 minus one
// month would land in March again).
func previousPeriod(t time.Time) (int, int) {
	year, month := t.Year(), int(t.Month())
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
