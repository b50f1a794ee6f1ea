package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
)

type channelsRepo struct {
	s *Store
}

func (r *channelsRepo) UpsertChannel(ctx context.Context, rec store.ChannelRecord) error {
	const q = `
INSERT INTO user_channels (user_id, channel, status, config, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, channel) DO UPDATE SET
    status = excluded.status,
    config = excluded.config,
    updated_at = excluded.updated_at`

	_, err := r.s.writer.ExecContext(ctx, q,
		rec.UserID, rec.Channel, string(rec.Status), rec.SealedConfig, rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("sqlite: upsert channel %q: %w", rec.Channel, err)
	}
	return nil
}

func (r *channelsRepo) GetChannel(ctx context.Context, userID, channel string) (store.ChannelRecord, error) {
	const q = `
SELECT status, config, updated_at
FROM user_channels
WHERE user_id = ? AND channel = ?`

	rec := store.ChannelRecord{UserID: userID, Channel: channel}
	var status string
	err := r.s.reader.QueryRowContext(ctx, q, userID, channel).
		Scan(&status, &rec.SealedConfig, &rec.UpdatedAt)
	if err != nil {
		return store.ChannelRecord{}, mapNotFound(err)
	}
	rec.Status = domain.ChannelStatus(status)
	return rec, nil
}

func (r *channelsRepo) ListChannels(ctx context.Context, userID string) ([]store.ChannelListing, error) {
	const q = `
SELECT channel, status, updated_at
FROM user_channels
WHERE user_id = ?
ORDER BY channel`

	rows, err := r.s.reader.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list channels: %w", err)
	}
	defer rows.Close()

	var out []store.ChannelListing
	for rows.Next() {
		var (
			l      store.ChannelListing
			status string
		)
		if err := rows.Scan(&l.Channel, &status, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan channel: %w", err)
		}
		l.Status = domain.ChannelStatus(status)
		out = append(out, l)
	}
	return out, rows.Err()
}
