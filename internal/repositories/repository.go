package repositories

import (
	"context"
	"time"

	"github.com/cesarbot/kudos-backend/internal/models"
)

// UserRepository defines the interface for user account persistence. All
// balance mutation goes through these methods; callers are responsible for
// recomputing the derived level after any points change.
type UserRepository interface {
	// GetOrCreate returns the user, creating it lazily with a zero balance
	// and level 1 the first time the ID is referenced.
	GetOrCreate(ctx context.Context, userID string) (*models.User, error)
	// IncrementPoints atomically adds delta to the balance and returns the
	// post-update document, so concurrent awards never lose an update.
	IncrementPoints(ctx context.Context, userID string, delta int) (*models.User, error)
	// SetBalance overwrites points and level together.
	SetBalance(ctx context.Context, userID string, points, level int) error
	// SetLevel updates the derived level for the current balance.
	SetLevel(ctx context.Context, userID string, level int) error
	TouchLastAwardGiven(ctx context.Context, userID string, at time.Time) error
	UpdateAvatar(ctx context.Context, userID, imageURL, prompt string, cfg models.AvatarConfig) error
	FindTop(ctx context.Context, limit int) ([]*models.User, error)
	// Rank returns the 1-based position of the user ordered by points.
	Rank(ctx context.Context, userID string) (int, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines the interface for the append-only award
// ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	// CountByFromUser returns the user's lifetime outgoing transfer count.
	CountByFromUser(ctx context.Context, userID string) (int64, error)
	FindByFromUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

// MonthlyStatRepository defines the interface for per-period activity
// rollups.
type MonthlyStatRepository interface {
	IncrementGiven(ctx context.Context, userID string, year, month int) error
	IncrementReceived(ctx context.Context, userID string, year, month int) error
	// FindInactiveUserIDs returns every known user whose given count for the
	// period is zero or who has no rollup document for it at all.
	FindInactiveUserIDs(ctx context.Context, year, month int) ([]string, error)
	// TotalReceived sums the received counters across all periods.
	TotalReceived(ctx context.Context, userID string) (int, error)
}
