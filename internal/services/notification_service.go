package services

import (
	"context"
	"fmt"

	"github.com/cesarbot/kudos-backend/internal/levels"
	"github.com/cesarbot/kudos-backend/internal/metrics"
	"github.com/cesarbot/kudos-backend/pkg/chatgateway"
	"github.com/sirupsen/logrus"
)

// NotificationService formats and delivers all user-facing messages through
// the chat gateway. Every call is best-effort: failures are logged and
// counted, never propagated, so committed state is never rolled back over a
// delivery problem.
type NotificationService struct {
	gateway chatgateway.Gateway
	log     *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(gateway chatgateway.Gateway, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		gateway: gateway,
		log:     log,
	}
}

func (s *NotificationService) deliver(kind string, err error) {
	if err == nil {
		return
	}
	metrics.NotificationFailures.Inc()
	s.log.WithError(err).WithField("notification", kind).Warn("notification delivery failed")
}

// AnnounceLevelUp broadcasts a celebration to the channel, naming the new
// level, its title and avatar, and the running banana total.
func (s *NotificationService) AnnounceLevelUp(ctx context.Context, channelID, userID string, newLevel, totalPoints int) {
	text := fmt.Sprintf(
		"🎉 Congratulations <@%s>! You've evolved to *Level %d - %s* %s!\n🍌 Total bananas: %d",
		userID, newLevel, levels.TitleForLevel(newLevel), levels.AvatarForLevel(newLevel), totalPoints,
	)
	s.deliver("level_up", s.gateway.PostMessage(ctx, channelID, text))
}

// SendCustomizationUnlock DMs the user that the avatar studio is open.
func (s *NotificationService) SendCustomizationUnlock(ctx context.Context, userID string) {
	text := "🎨 You've unlocked the *Avatar Studio*! Use `/avatar` to customize your pet monkey with new colors and accessories!"
	s.deliver("customization_unlock", s.gateway.PostDirectMessage(ctx, userID, text))
}

// AcknowledgeAward marks the original message with a banana reaction when no
// level boundary was crossed.
func (s *NotificationService) AcknowledgeAward(ctx context.Context, channelID, messageTS string) {
	s.deliver("acknowledge", s.gateway.AddReaction(ctx, channelID, messageTS, "banana"))
}

// RejectSelfAward tells the sender, and only the sender, that self-awards
// are not allowed.
func (s *NotificationService) RejectSelfAward(ctx context.Context, channelID, userID string) {
	text := "🚫 You can't give bananas to yourself! Share the love with teammates 🍌"
	s.deliver("self_award_rejection", s.gateway.PostEphemeral(ctx, channelID, userID, text))
}

// SendGiverMilestone DMs the sender a small congratulation for reaching a
// giving milestone.
func (s *NotificationService) SendGiverMilestone(ctx context.Context, userID string, count int64) {
	text := fmt.Sprintf(
		"🎁 *Banana Prize!* You've given %d bananas to teammates! Here's a bonus banana for being such a great helper! 🍌+1",
		count,
	)
	s.deliver("giver_milestone", s.gateway.PostDirectMessage(ctx, userID, text))
}

// SendDecayNotice DMs an inactive user about the monthly penalty.
func (s *NotificationService) SendDecayNotice(ctx context.Context, userID string, penalty int) {
	text := fmt.Sprintf(
		"🍌 Hey there! You lost %d bananas this month for not sharing any recognition. Remember, giving bananas helps build our team culture! Try giving some kudos this month! 😊",
		penalty,
	)
	s.deliver("decay_notice", s.gateway.PostDirectMessage(ctx, userID, text))
}
