package models

import (
	"time"
)

// AvatarConfig holds the cosmetic customization for a user's pet monkey.
// Presentation only, never part of the points/level invariants.
type AvatarConfig struct {
	Color       string   `bson:"color" json:"color"`
	Accessories []string `bson:"accessories" json:"accessories"`
}

// DefaultAvatarConfig is applied to users created lazily on first reference.
func DefaultAvatarConfig() AvatarConfig {
	return AvatarConfig{Color: "yellow", Accessories: []string{}}
}

// User represents a recognized teammate. The Slack user ID is the primary
// key. Level is always derived from Points via the levels package; the store
// must never hold a level inconsistent with the balance.
type User struct {
	UserID          string       `bson:"_id" json:"userId"`
	Points          int          `bson:"points" json:"points"`
	Level           int          `bson:"level" json:"level"`
	LastAwardGiven  *time.Time   `bson:"lastAwardGiven,omitempty" json:"lastAwardGiven,omitempty"`
	AvatarConfig    AvatarConfig `bson:"avatarConfig" json:"avatarConfig"`
	AvatarImageURL  string       `bson:"avatarImageUrl,omitempty" json:"avatarImageUrl,omitempty"`
	AvatarPrompt    string       `bson:"avatarPrompt,omitempty" json:"avatarPrompt,omitempty"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt"`
}
