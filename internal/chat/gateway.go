package chat

import (
	"context"
	"errors"
)

// ErrUserNotFound means a user id no longer resolves on the platform.
// Wishlist code treats it as skip-and-log, never as fatal.
var ErrUserNotFound = errors.New("user not found")

// ErrNotConnected means the gateway socket is down.
var ErrNotConnected = errors.New("not connected")

// ChannelInfo describes one chat channel visible to the bot.
type ChannelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Gateway is the chat platform as the bot consumes it. The concrete
// implementation is the websocket Client; tests substitute a fake.
type Gateway interface {
	// SendMessage posts text and returns the new message id.
	SendMessage(ctx context.Context, channelID, text string) (string, error)
	// FetchMessage returns the current text of a message.
	FetchMessage(ctx context.Context, channelID, messageID string) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, text string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// ResolveUser turns a user id into a pingable mention, or ErrUserNotFound.
	ResolveUser(ctx context.Context, userID string) (string, error)
	// ResolveRole turns a role name into a pingable mention for the guild
	// owning channelID.
	ResolveRole(ctx context.Context, channelID, name string) (string, error)
	ListChannels(ctx context.Context) ([]ChannelInfo, error)
	// SelfID is the bot's own user id, known after connect.
	SelfID() string
}
