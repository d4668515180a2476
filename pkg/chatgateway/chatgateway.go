package chatgateway

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Gateway represents the outbound chat platform interface. All calls are
// best-effort from the caller's point of view: state must already be durable
// before any of these are attempted, and a failure never rolls state back.
type Gateway interface {
	// PostMessage posts a public message to a channel.
	PostMessage(ctx context.Context, channelID, text string) error
	// PostDirectMessage sends a private message to a user.
	PostDirectMessage(ctx context.Context, userID, text string) error
	// AddReaction attaches an emoji marker to an existing message.
	AddReaction(ctx context.Context, channelID, messageTS, name string) error
	// PostEphemeral posts a message in a channel visible only to one user.
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	// UserDisplayName resolves a user ID to a human-readable name.
	UserDisplayName(ctx context.Context, userID string) (string, error)
}

// SlackGateway delivers notifications through the Slack Web API.
type SlackGateway struct {
	client *slack.Client
}

// NewSlackGateway creates a new SlackGateway
func NewSlackGateway(botToken string) *SlackGateway {
	return &SlackGateway{
		client: slack.New(botToken),
	}
}

// PostMessage posts a public message to a channel
func (g *SlackGateway) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := g.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	return err
}

// PostDirectMessage sends a private message. Slack opens the IM conversation
// implicitly when the user ID is used as the channel.
func (g *SlackGateway) PostDirectMessage(ctx context.Context, userID, text string) error {
	_, _, err := g.client.PostMessageContext(ctx, userID, slack.MsgOptionText(text, false))
	return err
}

// AddReaction attaches an emoji reaction to the referenced message
func (g *SlackGateway) AddReaction(ctx context.Context, channelID, messageTS, name string) error {
	return g.client.AddReactionContext(ctx, name, slack.ItemRef{
		Channel:   channelID,
		Timestamp: messageTS,
	})
}

// PostEphemeral posts a channel message visible only to the given user
func (g *SlackGateway) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := g.client.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	return err
}

// UserDisplayName resolves the user's display name, falling back to the real
// name and then the raw ID
func (g *SlackGateway) UserDisplayName(ctx context.Context, userID string) (string, error) {
	info, err := g.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", err
	}
	if info.Profile.DisplayName != "" {
		return info.Profile.DisplayName, nil
	}
	if info.RealName != "" {
		return info.RealName, nil
	}
	return info.Name, nil
}

// MockGateway simulates a chat gateway for local runs and testing
type MockGateway struct {
	Name string
}

// NewMockGateway creates a new MockGateway
func NewMockGateway(name string) *MockGateway {
	return &MockGateway{Name: name}
}

// PostMessage simulates a channel post
func (g *MockGateway) PostMessage(ctx context.Context, channelID, text string) error {
	fmt.Printf("[%s Mock Gateway] PostMessage to %s: %s\n", g.Name, channelID, text)
	return nil
}

// PostDirectMessage simulates a DM
func (g *MockGateway) PostDirectMessage(ctx context.Context, userID, text string) error {
	fmt.Printf("[%s Mock Gateway] PostDirectMessage to %s: %s\n", g.Name, userID, text)
	return nil
}

// AddReaction simulates an emoji reaction
func (g *MockGateway) AddReaction(ctx context.Context, channelID, messageTS, name string) error {
	fmt.Printf("[%s Mock Gateway] AddReaction :%s: on %s@%s\n", g.Name, name, channelID, messageTS)
	return nil
}

// PostEphemeral simulates an ephemeral post
func (g *MockGateway) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	fmt.Printf("[%s Mock Gateway] PostEphemeral to %s in %s: %s\n", g.Name, userID, channelID, text)
	return nil
}

// UserDisplayName returns a deterministic mock name
func (g *MockGateway) UserDisplayName(ctx context.Context, userID string) (string, error) {
	return "mock-" + userID, nil
}
