// Package store persists stations, cities and players. Every save is a JSON
// document wrapped in a versioned envelope, whatever the backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/config"
	"github.com/appengine-ltd/sky-colony/internal/game"
)

const formatVersion = 1

type Kind string

const (
	KindStation Kind = "station"
	KindCity    Kind = "city"
	KindPlayer  Kind = "player"
)

var ErrNotFound = errors.New("save not found")

// Store is a game.Saver that can also read its saves back.
type Store interface {
	game.Saver
	LoadStation(ctx context.Context, id string) (*game.Station, error)
	LoadCity(ctx context.Context, id string) (*game.City, error)
	LoadPlayer(ctx context.Context, id string) (*game.Player, error)
	Close() error
}

type envelope struct {
	FormatVersion int             `json:"format_version"`
	Kind          Kind            `json:"kind"`
	ID            string          `json:"id"`
	SavedAt       time.Time       `json:"saved_at"`
	Data          json.RawMessage `json:"data"`
}

func encode(kind Kind, id string, v any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	return json.MarshalIndent(envelope{
		FormatVersion: formatVersion,
		Kind:          kind,
		ID:            id,
		SavedAt:       now.UTC(),
		Data:          data,
	}, "", "  ")
}

func decode(kind Kind, raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("parse %s save: %w", kind, err)
	}
	if env.FormatVersion > formatVersion {
		return fmt.Errorf("%s save has format version %d, newest supported is %d", kind, env.FormatVersion, formatVersion)
	}
	if env.Kind != kind {
		return fmt.Errorf("expected %s save, found %s", kind, env.Kind)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", kind, env.ID, err)
	}
	return nil
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.DSN, logger)
	case "sqlite", "postgres":
		return OpenSQL(ctx, cfg.Backend, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
