package services

import (
	"context"
	"time"

	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/repositories"
)

// UserService handles profile and cosmetic customization. It never touches
// points or levels; those only move through the award and decay paths.
type UserService struct {
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, txRepo repositories.TransactionRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		txRepo:   txRepo,
	}
}

// GetProfile returns the user's account, creating it lazily on first lookup
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetOrCreate(ctx, userID)
}

// UpdateAvatar stores the cosmetic avatar customization
func (s *UserService) UpdateAvatar(ctx context.Context, userID, imageURL, prompt string, cfg models.AvatarConfig) error {
	if _, err := s.userRepo.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.UpdateAvatar(ctx, userID, imageURL, prompt, cfg)
}

// RecentAwardsGiven returns the user's most recent outgoing transfers
func (s *UserService) RecentAwardsGiven(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	return s.txRepo.FindByFromUser(ctx, userID, limit)
}

// Stats summarizes the stored population for the admin API.
type Stats struct {
	Users        int64     `json:"users"`
	Transactions int64     `json:"transactions"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// GetStats counts users and ledger entries
func (s *UserService) GetStats(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Transactions: txs, GeneratedAt: time.Now()}, nil
}
