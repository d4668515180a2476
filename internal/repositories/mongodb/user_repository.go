package mongodb

import (
	"context"
	"time"

	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// GetOrCreate returns the user document, inserting a fresh one with a zero
// balance on first reference. The upsert makes lazy creation race-safe.
func (r *UserRepository) GetOrCreate(ctx context.Context, userID string) (*models.User, error) {
	now := time.Now()
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"points":       0,
			"level":        1,
			"avatarConfig": models.DefaultAvatarConfig(),
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// IncrementPoints atomically applies the delta and returns the post-update
// document. The caller recomputes the level from the returned balance.
func (r *UserRepository) IncrementPoints(ctx context.Context, userID string, delta int) (*models.User, error) {
	now := time.Now()
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{"points": delta},
		"$set": bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"level":        1,
			"avatarConfig": models.DefaultAvatarConfig(),
			"createdAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetBalance overwrites points and level together
func (r *UserRepository) SetBalance(ctx context.Context, userID string, points, level int) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"points":    points,
		"level":     level,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// SetLevel updates only the derived level
func (r *UserRepository) SetLevel(ctx context.Context, userID string, level int) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"level":     level,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// TouchLastAwardGiven stamps the date of the user's most recent outgoing
// award
func (r *UserRepository) TouchLastAwardGiven(ctx context.Context, userID string, at time.Time) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"lastAwardGiven": at,
		"updatedAt":      time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateAvatar stores the cosmetic avatar fields
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID, imageURL, prompt string, cfg models.AvatarConfig) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"avatarImageUrl": imageURL,
		"avatarPrompt":   prompt,
		"avatarConfig":   cfg,
		"updatedAt":      time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// FindTop retrieves the highest-balance users, ordered by points descending
func (r *UserRepository) FindTop(ctx context.Context, limit int) ([]*models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Rank returns the 1-based leaderboard position of the user
func (r *UserRepository) Rank(ctx context.Context, userID string) (int, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return 0, err
	}
	ahead, err := r.collection.CountDocuments(ctx, bson.M{"points": bson.M{"$gt": user.Points}})
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// Count returns the total number of known users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
