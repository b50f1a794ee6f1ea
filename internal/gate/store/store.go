package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Credentials and resume tokens have independent
// lifecycles, so there is no cross-repo transaction.
type Store interface {
	Channels() Channels
	ResumeTokens() ResumeTokens

	ApplyMigrations() error

	// Close releases the underlying connections.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// ChannelRecord is a vault row as stored. SealedConfig is opaque to the
// store; the vault service seals and opens it.
type ChannelRecord struct {
	UserID       string
	Channel      string
	Status       domain.ChannelStatus
	SealedConfig []byte
	UpdatedAt    time.Time
}

// ChannelListing is a vault row without its configuration.
type ChannelListing struct {
	Channel   string
	Status    domain.ChannelStatus
	UpdatedAt time.Time
}

type Channels interface {
	// UpsertChannel inserts or fully replaces the row for
	// (rec.UserID, rec.Channel).
	UpsertChannel(ctx context.Context, rec ChannelRecord) error

	// GetChannel returns ErrNotFound when no row exists.
	GetChannel(ctx context.Context, userID, channel string) (ChannelRecord, error)

	// ListChannels never selects the configuration column.
	ListChannels(ctx context.Context, userID string) ([]ChannelListing, error)
}

type ResumeTokens interface {
	// CreateResumeToken returns ErrAlreadyExists if tokenHash is taken.
	CreateResumeToken(ctx context.Context, tokenHash string, action domain.PendingAction) error

	// ConsumeResumeToken atomically fetches and deletes the record.
	// Returns ErrNotFound when it does not exist or was already consumed.
	ConsumeResumeToken(ctx context.Context, tokenHash string) (domain.PendingAction, error)
}
