package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cesarbot/kudos-backend/internal/models"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu             sync.Mutex
	users          map[string]*models.User
	failIncrement  error
	failSetBalance map[string]error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:          make(map[string]*models.User),
		failSetBalance: make(map[string]error),
	}
}

func (r *fakeUserRepo) getOrCreateLocked(userID string) *models.User {
	user, ok := r.users[userID]
	if !ok {
		user = &models.User{
			UserID:       userID,
			Points:       0,
			Level:        1,
			AvatarConfig: models.DefaultAvatarConfig(),
			CreatedAt:    time.Now(),
		}
		r.users[userID] = user
	}
	return user
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) GetOrCreate(ctx context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyUser(r.getOrCreateLocked(userID)), nil
}

func (r *fakeUserRepo) IncrementPoints(ctx context.Context, userID string, delta int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIncrement != nil {
		return nil, r.failIncrement
	}
	user := r.getOrCreateLocked(userID)
	user.Points += delta
	return copyUser(user), nil
}

func (r *fakeUserRepo) SetBalance(ctx context.Context, userID string, points, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failSetBalance[userID]; err != nil {
		return err
	}
	user := r.getOrCreateLocked(userID)
	user.Points = points
	user.Level = level
	return nil
}

func (r *fakeUserRepo) SetLevel(ctx context.Context, userID string, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getOrCreateLocked(userID).Level = level
	return nil
}

func (r *fakeUserRepo) TouchLastAwardGiven(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getOrCreateLocked(userID).LastAwardGiven = &at
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userID, imageURL, prompt string, cfg models.AvatarConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.getOrCreateLocked(userID)
	user.AvatarImageURL = imageURL
	user.AvatarPrompt = prompt
	user.AvatarConfig = cfg
	return nil
}

func (r *fakeUserRepo) FindTop(ctx context.Context, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Points > users[j].Points })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUserRepo) Rank(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.users[userID]
	if !ok {
		return 0, fmt.Errorf("user %s not found", userID)
	}
	rank := 1
	for _, user := range r.users {
		if user.Points > target.Points {
			rank++
		}
	}
	return rank, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// points returns the stored balance, creating nothing.
func (r *fakeUserRepo) points(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		return user.Points
	}
	return 0
}

func (r *fakeUserRepo) level(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		return user.Level
	}
	return 0
}

func (r *fakeUserRepo) exists(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok
}

// fakeTxRepo is an in-memory TransactionRepository.
type fakeTxRepo struct {
	mu  sync.Mutex
	txs []*models.Transaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{}
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *tx
	r.txs = append(r.txs, &c)
	return nil
}

func (r *fakeTxRepo) CountByFromUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.txs {
		if tx.FromUser == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTxRepo) FindByFromUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var txs []*models.Transaction
	for _, tx := range r.txs {
		if tx.FromUser == userID {
			c := *tx
			txs = append(txs, &c)
		}
	}
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (r *fakeTxRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.txs)), nil
}

// fakeStatRepo is an in-memory MonthlyStatRepository. It shares the user
// repo so absent rollups count as inactivity, like the Mongo implementation.
type fakeStatRepo struct {
	mu       sync.Mutex
	stats    map[string]*models.MonthlyStat
	userRepo *fakeUserRepo
}

func newFakeStatRepo(userRepo *fakeUserRepo) *fakeStatRepo {
	return &fakeStatRepo{
		stats:    make(map[string]*models.MonthlyStat),
		userRepo: userRepo,
	}
}

func statKey(userID string, year, month int) string {
	return fmt.Sprintf("%s/%d/%02d", userID, year, month)
}

func (r *fakeStatRepo) upsertLocked(userID string, year, month int) *models.MonthlyStat {
	key := statKey(userID, year, month)
	stat, ok := r.stats[key]
	if !ok {
		stat = &models.MonthlyStat{UserID: userID, Year: year, Month: month}
		r.stats[key] = stat
	}
	return stat
}

func (r *fakeStatRepo) IncrementGiven(ctx context.Context, userID string, year, month int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(userID, year, month).Given++
	return nil
}

func (r *fakeStatRepo) IncrementReceived(ctx context.Context, userID string, year, month int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(userID, year, month).Received++
	return nil
}

func (r *fakeStatRepo) FindInactiveUserIDs(ctx context.Context, year, month int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userRepo.mu.Lock()
	defer r.userRepo.mu.Unlock()

	var inactive []string
	for userID := range r.userRepo.users {
		stat, ok := r.stats[statKey(userID, year, month)]
		if !ok || stat.Given == 0 {
			inactive = append(inactive, userID)
		}
	}
	sort.Strings(inactive)
	return inactive, nil
}

func (r *fakeStatRepo) TotalReceived(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, stat := range r.stats {
		if stat.UserID == userID {
			total += stat.Received
		}
	}
	return total, nil
}

// gatewayCall records one outbound notification.
type gatewayCall struct {
	kind    string // message, dm, reaction, ephemeral
	channel string
	user    string
	text    string
	ts      string
	name    string
}

// fakeGateway records notifications and optionally fails every call.
type fakeGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
	err   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

func (g *fakeGateway) record(call gatewayCall) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.calls = append(g.calls, call)
	return nil
}

func (g *fakeGateway) PostMessage(ctx context.Context, channelID, text string) error {
	return g.record(gatewayCall{kind: "message", channel: channelID, text: text})
}

func (g *fakeGateway) PostDirectMessage(ctx context.Context, userID, text string) error {
	return g.record(gatewayCall{kind: "dm", user: userID, text: text})
}

func (g *fakeGateway) AddReaction(ctx context.Context, channelID, messageTS, name string) error {
	return g.record(gatewayCall{kind: "reaction", channel: channelID, ts: messageTS, name: name})
}

func (g *fakeGateway) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	return g.record(gatewayCall{kind: "ephemeral", channel: channelID, user: userID, text: text})
}

func (g *fakeGateway) UserDisplayName(ctx context.Context, userID string) (string, error) {
	return "user-" + userID, nil
}

func (g *fakeGateway) callsOfKind(kind string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gatewayCall
	for _, call := range g.calls {
		if call.kind == kind {
			out = append(out, call)
		}
	}
	return out
}
