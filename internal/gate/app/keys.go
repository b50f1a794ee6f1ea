package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/aussiebroadwan/gate/pkg/paramstore"
)

// ephemeralKeySize is the length of a generated dev master key.
const ephemeralKeySize = 32

var ErrNoMasterKey = errors.New("no vault master key configured")

// Master key sources, as logged at startup.
const (
	KeySourceFile      = "file"
	KeySourceSSM       = "ssm"
	KeySourceEnv       = "env"
	KeySourceEphemeral = "ephemeral"
)

// LoadMasterKey returns vault key material and where it came from.
//
// Sources, first match wins:
//   - GATE_MASTER_KEY_PATH: file contents, surrounding whitespace trimmed.
//   - GATE_MASTER_KEY_SSM_PARAM: a SecureString read through params. A nil
//     params builds a client from the default AWS credential chain.
//   - GATE_MASTER_KEY: the variable itself.
//
// With none configured, ENV=dev gets a random key that lives only as long
// as the process; stored credentials become unreadable on restart. Any
// other environment fails.
func LoadMasterKey(ctx context.Context, cfg Config, params paramstore.Getter, logger *slog.Logger) ([]byte, string, error) {
	switch {
	case cfg.MasterKeyPath != "":
		raw, err := os.ReadFile(cfg.MasterKeyPath)
		if err != nil {
			return nil, "", fmt.Errorf("read master key file: %w", err)
		}
		material := bytes.TrimSpace(raw)
		if len(material) == 0 {
			return nil, "", fmt.Errorf("master key file %s: %w", cfg.MasterKeyPath, cryptox.ErrEmptyKeyMaterial)
		}
		return material, KeySourceFile, nil

	case cfg.MasterKeySSMParam != "":
		if params == nil {
			client, err := paramstore.NewFromEnvironment(ctx)
			if err != nil {
				return nil, "", err
			}
			params = client
		}
		value, err := params.GetParameter(ctx, cfg.MasterKeySSMParam)
		if err != nil {
			return nil, "", err
		}
		if value == "" {
			return nil, "", fmt.Errorf("ssm parameter %s: %w", cfg.MasterKeySSMParam, cryptox.ErrEmptyKeyMaterial)
		}
		return []byte(value), KeySourceSSM, nil

	case cfg.MasterKey != "":
		return []byte(cfg.MasterKey), KeySourceEnv, nil
	}

	if cfg.Env != "dev" {
		return nil, "", ErrNoMasterKey
	}

	material := make([]byte, ephemeralKeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, "", fmt.Errorf("generate ephemeral master key: %w", err)
	}
	logger.Warn("no vault master key configured, using an ephemeral key; saved channels will not survive a restart")
	return material, KeySourceEphemeral, nil
}

// InitSealer loads the master key and derives the vault sealer from it.
func InitSealer(ctx context.Context, cfg Config, params paramstore.Getter, logger *slog.Logger) (*cryptox.Sealer, error) {
	material, source, err := LoadMasterKey(ctx, cfg, params, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load vault master key: %w", err)
	}

	sealer, err := cryptox.NewSealer(material)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault sealer: %w", err)
	}

	logger.Info("vault sealer ready", slog.String("key_source", source))
	return sealer, nil
}
