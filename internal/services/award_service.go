package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cesarbot/kudos-backend/internal/levels"
	"github.com/cesarbot/kudos-backend/internal/metrics"
	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// AwardRequest carries one inbound "mention" event: sender recognized
// recipient with some free-text reason in a channel.
type AwardRequest struct {
	SenderID    string
	RecipientID string
	Reason      string
	ChannelID   string
	MessageTS   string
}

// AwardService orchestrates a single banana transfer: validate, record the
// mutation atomically, evaluate the level transition, fan out notifications,
// then run the giver-prize sub-flow. Errors bubble up to the event handler,
// which logs and swallows them so one bad event never destabilizes the next.
type AwardService struct {
	userRepo           repositories.UserRepository
	txRepo             repositories.TransactionRepository
	statRepo           repositories.MonthlyStatRepository
	notifier           *NotificationService
	log                *logrus.Logger
	giverPrizeInterval int64
	unlockLevel        int
	now                func() time.Time
}

// NewAwardService creates a new AwardService
func NewAwardService(
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	statRepo repositories.MonthlyStatRepository,
	notifier *NotificationService,
	log *logrus.Logger,
	giverPrizeInterval int,
	unlockLevel int,
) *AwardService {
	return &AwardService{
		userRepo:           userRepo,
		txRepo:             txRepo,
		statRepo:           statRepo,
		notifier:           notifier,
		log:                log,
		giverPrizeInterval: int64(giverPrizeInterval),
		unlockLevel:        unlockLevel,
		now:                time.Now,
	}
}

// ProcessAward runs the full award workflow for one mention event.
func (s *AwardService) ProcessAward(ctx context.Context, req AwardRequest) error {
	// Validating
	if req.SenderID == "" || req.RecipientID == "" {
		metrics.AwardsRejected.Inc()
		return ErrMalformedAward
	}
	if req.SenderID == req.RecipientID {
		metrics.AwardsRejected.Inc()
		s.notifier.RejectSelfAward(ctx, req.ChannelID, req.SenderID)
		return ErrSelfAward
	}

	// Accounts are created lazily on first reference.
	if _, err := s.userRepo.GetOrCreate(ctx, req.SenderID); err != nil {
		return fmt.Errorf("get sender %s: %w", req.SenderID, err)
	}
	if _, err := s.userRepo.GetOrCreate(ctx, req.RecipientID); err != nil {
		return fmt.Errorf("get recipient %s: %w", req.RecipientID, err)
	}

	// Recording: atomic +1, ledger append, both monthly counters.
	recipient, err := s.userRepo.IncrementPoints(ctx, req.RecipientID, 1)
	if err != nil {
		return fmt.Errorf("increment points for %s: %w", req.RecipientID, err)
	}

	// Evaluating: the level is always recomputed from the balance, never
	// bumped independently.
	change := levels.DetectChange(recipient.Points-1, recipient.Points)
	if change.NewLevel != recipient.Level {
		if err := s.userRepo.SetLevel(ctx, req.RecipientID, change.NewLevel); err != nil {
			return fmt.Errorf("set level for %s: %w", req.RecipientID, err)
		}
	}

	now := s.now()
	tx := &models.Transaction{
		FromUser:  req.SenderID,
		ToUser:    req.RecipientID,
		Reason:    req.Reason,
		Channel:   req.ChannelID,
		Timestamp: now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	year, month := now.Year(), int(now.Month())
	if err := s.statRepo.IncrementGiven(ctx, req.SenderID, year, month); err != nil {
		return fmt.Errorf("update given stats for %s: %w", req.SenderID, err)
	}
	if err := s.statRepo.IncrementReceived(ctx, req.RecipientID, year, month); err != nil {
		return fmt.Errorf("update received stats for %s: %w", req.RecipientID, err)
	}
	metrics.AwardsProcessed.Inc()

	// Notifying: state is durable at this point, deliveries are best-effort.
	if change.LeveledUp() {
		metrics.LevelUps.Inc()
		s.notifier.AnnounceLevelUp(ctx, req.ChannelID, req.RecipientID, change.NewLevel, recipient.Points)
		if change.NewLevel >= s.unlockLevel {
			s.notifier.SendCustomizationUnlock(ctx, req.RecipientID)
		}
	} else {
		s.notifier.AcknowledgeAward(ctx, req.ChannelID, req.MessageTS)
	}

	s.evaluateGiverPrize(ctx, req.SenderID)

	if err := s.userRepo.TouchLastAwardGiven(ctx, req.SenderID, now); err != nil {
		return fmt.Errorf("touch last award given for %s: %w", req.SenderID, err)
	}
	return nil
}

// evaluateGiverPrize grants the sender a bonus banana on every Nth outgoing
// transfer. The bonus goes through the same increment-and-recompute path as
// a regular award but is not itself a transfer, so it never retriggers the
// prize. Failures here are logged and do not abort the enclosing workflow.
func (s *AwardService) evaluateGiverPrize(ctx context.Context, senderID string) {
	count, err := s.txRepo.CountByFromUser(ctx, senderID)
	if err != nil {
		s.log.WithError(err).WithField("user", senderID).Error("giver prize: counting transactions failed")
		return
	}
	if count == 0 || count%s.giverPrizeInterval != 0 {
		return
	}

	giver, err := s.userRepo.IncrementPoints(ctx, senderID, 1)
	if err != nil {
		s.log.WithError(err).WithField("user", senderID).Error("giver prize: bonus award failed")
		return
	}
	change := levels.DetectChange(giver.Points-1, giver.Points)
	if change.NewLevel != giver.Level {
		if err := s.userRepo.SetLevel(ctx, senderID, change.NewLevel); err != nil {
			s.log.WithError(err).WithField("user", senderID).Error("giver prize: level update failed")
			return
		}
	}
	metrics.BonusAwards.Inc()

	if change.LeveledUp() {
		metrics.LevelUps.Inc()
		// No origin channel for a self-triggered bonus; the celebration goes
		// to the giver's own DM channel.
		s.notifier.AnnounceLevelUp(ctx, senderID, senderID, change.NewLevel, giver.Points)
		if change.NewLevel >= s.unlockLevel {
			s.notifier.SendCustomizationUnlock(ctx, senderID)
		}
	}

	s.notifier.SendGiverMilestone(ctx, senderID, count)
}
