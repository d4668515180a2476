package mongodb

import (
	"context"
	"time"

	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB operations for the award ledger
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// Create appends a transaction to the ledger
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = primitive.NewObjectID()
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, tx)
	return err
}

// CountByFromUser returns the lifetime number of outgoing transfers
func (r *TransactionRepository) CountByFromUser(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"fromUser": userID})
}

// FindByFromUser retrieves the most recent outgoing transfers for a user
func (r *TransactionRepository) FindByFromUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"fromUser": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err = cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	return txs, nil
}

// Count returns the total number of ledger entries
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
