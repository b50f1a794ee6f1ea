package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
)

type channelsRepo struct {
	db *sql.DB
}

func (r *channelsRepo) UpsertChannel(ctx context.Context, rec store.ChannelRecord) error {
	const q = `
INSERT INTO user_channels (user_id, channel, status, config, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, channel) DO UPDATE SET
    status = EXCLUDED.status,
    config = EXCLUDED.config,
    updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.Channel, string(rec.Status), rec.SealedConfig, rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("postgres: upsert channel %q: %w", rec.Channel, err)
	}
	return nil
}

func (r *channelsRepo) GetChannel(ctx context.Context, userID, channel string) (store.ChannelRecord, error) {
	const q = `
SELECT status, config, updated_at
FROM user_channels
WHERE user_id = $1 AND channel = $2`

	rec := store.ChannelRecord{UserID: userID, Channel: channel}
	var status string
	err := r.db.QueryRowContext(ctx, q, userID, channel).
		Scan(&status, &rec.SealedConfig, &rec.UpdatedAt)
	if err != nil {
		return store.ChannelRecord{}, mapNotFound(err)
	}
	rec.Status = domain.ChannelStatus(status)
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func (r *channelsRepo) ListChannels(ctx context.Context, userID string) ([]store.ChannelListing, error) {
	const q = `
SELECT channel, status, updated_at
FROM user_channels
WHERE user_id = $1
ORDER BY channel`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list channels: %w", err)
	}
	defer rows.Close()

	var out []store.ChannelListing
	for rows.Next() {
		var (
			l      store.ChannelListing
			status string
		)
		if err := rows.Scan(&l.Channel, &status, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan channel: %w", err)
		}
		l.Status = domain.ChannelStatus(status)
		l.UpdatedAt = l.UpdatedAt.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
