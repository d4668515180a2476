package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is the immutable record of one banana transfer. Append-only:
// it serves as the audit trail and as the counting basis for the giver
// prize (count of transactions where FromUser == user).
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FromUser  string             `bson:"fromUser" json:"fromUser"`
	ToUser    string             `bson:"toUser" json:"toUser"`
	Reason    string             `bson:"reason" json:"reason"`
	Channel   string             `bson:"channel" json:"channel"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
