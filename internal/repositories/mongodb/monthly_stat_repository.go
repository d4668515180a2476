package mongodb

import (
	"context"

	"github.com/cesarbot/kudos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure MonthlyStatRepository implements the interface
var _ repositories.MonthlyStatRepository = (*MonthlyStatRepository)(nil)

// MonthlyStatRepository handles MongoDB operations for the per-period
// given/received rollups. It also reads the users collection to find
// accounts with no rollup document at all for a period.
type MonthlyStatRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewMonthlyStatRepository creates a new MonthlyStatRepository
func NewMonthlyStatRepository(db *mongo.Database) *MonthlyStatRepository {
	return &MonthlyStatRepository{
		collection: db.Collection("monthly_stats"),
		users:      db.Collection("users"),
	}
}

func (r *MonthlyStatRepository) increment(ctx context.Context, userID string, year, month int, field string) error {
	filter := bson.M{"userId": userID, "year": year, "month": month}
	update := bson.M{"$inc": bson.M{field: 1}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// IncrementGiven bumps the given counter for the period, creating the rollup
// document on first activity
func (r *MonthlyStatRepository) IncrementGiven(ctx context.Context, userID string, year, month int) error {
	return r.increment(ctx, userID, year, month, "given")
}

// IncrementReceived bumps the received counter for the period
func (r *MonthlyStatRepository) IncrementReceived(ctx context.Context, userID string, year, month int) error {
	return r.increment(ctx, userID, year, month, "received")
}

// FindInactiveUserIDs returns every known user who gave nothing in the
// period. Users without a rollup document for the period count as inactive,
// not exempt.
func (r *MonthlyStatRepository) FindInactiveUserIDs(ctx context.Context, year, month int) ([]string, error) {
	activeFilter := bson.M{
		"year":  year,
		"month": month,
		"given": bson.M{"$gte": 1},
	}
	active, err := r.collection.Distinct(ctx, "userId", activeFilter)
	if err != nil {
		return nil, err
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$nin": active}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		UserID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.UserID)
	}
	return ids, nil
}

// TotalReceived sums the received counters across all periods for a user
func (r *MonthlyStatRepository) TotalReceived(ctx context.Context, userID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$received"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
