package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

var ErrInvalidChannelRequest = errors.New("user_id and channel are required")

// VaultService stores per-user channel credentials. Configurations are
// sealed before they reach the store and only opened by Get.
type VaultService struct {
	Store  store.Store
	Sealer *cryptox.Sealer
	Now    func() time.Time
}

// additionalData binds a sealed blob to its row.
func additionalData(userID, channel string) []byte {
	return []byte(userID + "\x00" + channel)
}

func (s *VaultService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the configuration for a connected channel. A missing or
// disconnected row is reported as (nil, false, nil).
func (s *VaultService) Get(ctx context.Context, userID, channel string) (map[string]string, bool, error) {
	if userID == "" || channel == "" {
		return nil, false, nil
	}

	rec, err := s.Store.Channels().GetChannel(ctx, userID, channel)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load channel",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		return nil, false, fmt.Errorf("vault: get %q: %w", channel, err)
	}
	if rec.Status != domain.ChannelConnected {
		return nil, false, nil
	}

	plain, err := s.Sealer.Open(rec.SealedConfig, additionalData(userID, channel))
	if err != nil {
		return nil, false, fmt.Errorf("vault: open %q: %w", channel, err)
	}

	cfg := map[string]string{}
	if err := json.Unmarshal(plain, &cfg); err != nil {
		return nil, false, fmt.Errorf("vault: decode %q: %w", channel, err)
	}
	return cfg, true, nil
}

// Save marks the channel connected with cfg, replacing any previous
// configuration.
func (s *VaultService) Save(ctx context.Context, userID, channel string, cfg map[string]string) error {
	log := slogx.FromContext(ctx)

	// 1. Validate the key.
	if userID == "" || channel == "" {
		return ErrInvalidChannelRequest
	}
	if cfg == nil {
		cfg = map[string]string{}
	}

	// 2. Encode and seal.
	plain, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("vault: encode %q: %w", channel, err)
	}
	sealed, err := s.Sealer.Seal(plain, additionalData(userID, channel))
	if err != nil {
		log.Error("failed to seal channel config", slog.Any("error", err))
		return fmt.Errorf("vault: seal %q: %w", channel, err)
	}

	// 3. Upsert.
	err = s.Store.Channels().UpsertChannel(ctx, store.ChannelRecord{
		UserID:       userID,
		Channel:      channel,
		Status:       domain.ChannelConnected,
		SealedConfig: sealed,
		UpdatedAt:    s.now(),
	})
	if err != nil {
		log.Error("failed to save channel",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		return fmt.Errorf("vault: save %q: %w", channel, err)
	}

	log.Info("channel connected",
		slog.String("channel", channel),
		slog.Int("fields", len(cfg)),
	)
	return nil
}

// List returns the status of every channel the user has saved.
func (s *VaultService) List(ctx context.Context, userID string) (map[string]domain.ChannelStatusInfo, error) {
	rows, err := s.Store.Channels().ListChannels(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}

	out := make(map[string]domain.ChannelStatusInfo, len(rows))
	for _, r := range rows {
		out[r.Channel] = domain.ChannelStatusInfo{Status: r.Status, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}
