package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type awardFixture struct {
	userRepo *fakeUserRepo
	txRepo   *fakeTxRepo
	statRepo *fakeStatRepo
	gateway  *fakeGateway
	service  *AwardService
}

func newAwardFixture(t *testing.T) *awardFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	txRepo := newFakeTxRepo()
	statRepo := newFakeStatRepo(userRepo)
	gateway := newFakeGateway()
	notifier := NewNotificationService(gateway, testLogger())

	service := NewAwardService(userRepo, txRepo, statRepo, notifier, testLogger(), 3, 2)
	service.now = func() time.Time {
		return time.Date(2026, time.May, 15, 10, 0, 0, 0, time.UTC)
	}

	return &awardFixture{
		userRepo: userRepo,
		txRepo:   txRepo,
		statRepo: statRepo,
		gateway:  gateway,
		service:  service,
	}
}

func (f *awardFixture) award(t *testing.T, sender, recipient string) {
	t.Helper()
	err := f.service.ProcessAward(context.Background(), AwardRequest{
		SenderID:    sender,
		RecipientID: recipient,
		Reason:      "for helping out",
		ChannelID:   "C123",
		MessageTS:   "1715760000.000100",
	})
	require.NoError(t, err)
}

func TestProcessAwardIncrementsRecipient(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")

	assert.Equal(t, 1, f.userRepo.points("U2"))
	assert.Equal(t, 0, f.userRepo.points("U1"))

	txs, err := f.txRepo.FindByFromUser(context.Background(), "U1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "U2", txs[0].ToUser)
	assert.Equal(t, "for helping out", txs[0].Reason)
	assert.Equal(t, "C123", txs[0].Channel)
}

func TestProcessAwardUpdatesMonthlyStats(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")
	f.award(t, "U1", "U2")

	given := f.statRepo.stats[statKey("U1", 2026, 5)]
	require.NotNil(t, given)
	assert.Equal(t, 2, given.Given)

	received := f.statRepo.stats[statKey("U2", 2026, 5)]
	require.NotNil(t, received)
	assert.Equal(t, 2, received.Received)
}

func TestProcessAwardFirstBananaLevelsUp(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")

	// One banana crosses the level-2 threshold.
	assert.Equal(t, 2, f.userRepo.level("U2"))

	messages := f.gateway.callsOfKind("message")
	require.Len(t, messages, 1)
	assert.Equal(t, "C123", messages[0].channel)
	assert.Contains(t, messages[0].text, "<@U2>")
	assert.Contains(t, messages[0].text, "Level 2")

	dms := f.gateway.callsOfKind("dm")
	require.Len(t, dms, 1)
	assert.Equal(t, "U2", dms[0].user)
	assert.Contains(t, dms[0].text, "Avatar Studio")

	assert.Empty(t, f.gateway.callsOfKind("reaction"))
}

func TestProcessAwardWithinLevelAddsReaction(t *testing.T) {
	f := newAwardFixture(t)
	require.NoError(t, f.userRepo.SetBalance(context.Background(), "U2", 1, 2))

	f.award(t, "U1", "U2")

	assert.Equal(t, 2, f.userRepo.points("U2"))
	assert.Equal(t, 2, f.userRepo.level("U2"))

	reactions := f.gateway.callsOfKind("reaction")
	require.Len(t, reactions, 1)
	assert.Equal(t, "banana", reactions[0].name)
	assert.Equal(t, "1715760000.000100", reactions[0].ts)

	assert.Empty(t, f.gateway.callsOfKind("message"))
}

func TestProcessAwardRejectsSelfAward(t *testing.T) {
	f := newAwardFixture(t)

	err := f.service.ProcessAward(context.Background(), AwardRequest{
		SenderID:    "U1",
		RecipientID: "U1",
		ChannelID:   "C123",
	})
	require.ErrorIs(t, err, ErrSelfAward)

	// Nothing is created or mutated.
	assert.False(t, f.userRepo.exists("U1"))
	count, err := f.txRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	ephemerals := f.gateway.callsOfKind("ephemeral")
	require.Len(t, ephemerals, 1)
	assert.Equal(t, "U1", ephemerals[0].user)
	assert.Equal(t, "C123", ephemerals[0].channel)
}

func TestProcessAwardRejectsMalformedRequest(t *testing.T) {
	f := newAwardFixture(t)

	err := f.service.ProcessAward(context.Background(), AwardRequest{SenderID: "U1"})
	require.ErrorIs(t, err, ErrMalformedAward)

	err = f.service.ProcessAward(context.Background(), AwardRequest{RecipientID: "U2"})
	require.ErrorIs(t, err, ErrMalformedAward)

	assert.False(t, f.userRepo.exists("U1"))
	assert.False(t, f.userRepo.exists("U2"))
}

func TestProcessAwardTouchesLastAwardGiven(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")

	f.userRepo.mu.Lock()
	sender := f.userRepo.users["U1"]
	f.userRepo.mu.Unlock()
	require.NotNil(t, sender.LastAwardGiven)
	assert.Equal(t, time.Date(2026, time.May, 15, 10, 0, 0, 0, time.UTC), *sender.LastAwardGiven)
}

func TestGiverPrizeEveryThirdAward(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")
	f.award(t, "U1", "U3")
	assert.Equal(t, 0, f.userRepo.points("U1"))

	f.award(t, "U1", "U4")
	assert.Equal(t, 1, f.userRepo.points("U1"))

	f.award(t, "U1", "U2")
	f.award(t, "U1", "U3")
	assert.Equal(t, 1, f.userRepo.points("U1"))

	f.award(t, "U1", "U4")
	assert.Equal(t, 2, f.userRepo.points("U1"))

	// Only outgoing transfers count toward the milestone.
	count, err := f.txRepo.CountByFromUser(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestGiverPrizeSendsMilestoneAndDMLevelUp(t *testing.T) {
	f := newAwardFixture(t)

	f.award(t, "U1", "U2")
	f.award(t, "U1", "U3")
	f.award(t, "U1", "U4")

	// The bonus banana lifted the sender to level 2; with no origin channel
	// the celebration lands in the sender's own DM.
	assert.Equal(t, 2, f.userRepo.level("U1"))

	var senderAnnouncement bool
	for _, call := range f.gateway.callsOfKind("message") {
		if call.channel == "U1" {
			senderAnnouncement = true
			assert.Contains(t, call.text, "<@U1>")
		}
	}
	assert.True(t, senderAnnouncement, "level-up for the giver prize should go to the sender's DM channel")

	var milestone bool
	for _, call := range f.gateway.callsOfKind("dm") {
		if call.user == "U1" && call.text != "" {
			milestone = true
		}
	}
	assert.True(t, milestone, "giver milestone DM missing")
}

func TestGiverPrizeNotRetriggeredByBonus(t *testing.T) {
	f := newAwardFixture(t)

	// Nine transfers earn exactly three bonus bananas. If the bonus were a
	// transfer itself the counts would drift.
	recipients := []string{"U2", "U3", "U4"}
	for i := 0; i < 9; i++ {
		f.award(t, "U1", recipients[i%3])
	}

	assert.Equal(t, 3, f.userRepo.points("U1"))
	count, err := f.txRepo.CountByFromUser(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func TestProcessAwardSurvivesNotificationFailure(t *testing.T) {
	f := newAwardFixture(t)
	f.gateway.err = errors.New("slack is down")

	f.award(t, "U1", "U2")

	// Durable state is unaffected by delivery problems.
	assert.Equal(t, 1, f.userRepo.points("U2"))
	assert.Equal(t, 2, f.userRepo.level("U2"))
	count, err := f.txRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProcessAwardPropagatesStorageFailure(t *testing.T) {
	f := newAwardFixture(t)
	f.userRepo.failIncrement = errors.New("connection reset")

	err := f.service.ProcessAward(context.Background(), AwardRequest{
		SenderID:    "U1",
		RecipientID: "U2",
		ChannelID:   "C123",
	})
	require.Error(t, err)

	count, err := f.txRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
