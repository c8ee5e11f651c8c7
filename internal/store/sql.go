package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/game"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const createSavesTable = `CREATE TABLE IF NOT EXISTS saves (
	kind TEXT NOT NULL,
	id TEXT NOT NULL,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, id)
)`

const upsertSave = `INSERT INTO saves (kind, id, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

const selectSave = `SELECT payload FROM saves WHERE kind = $1 AND id = $2`

// SQLStore keeps every save in a single table keyed by kind and id. The
// same statements run on SQLite and PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
	now    func() time.Time
}

func OpenSQL(ctx context.Context, driver, dsn string, logger *slog.Logger) (*SQLStore, error) {
	log := logger.With("component", "store", "backend", driver)
	log.Info("Connecting to save database", "operation", "connect")

	if driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSavesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create saves table: %w", err)
	}
	return &SQLStore{db: db, driver: driver, log: log, now: time.Now}, nil
}

func (s *SQLStore) SaveStation(ctx context.Context, st *game.Station) error {
	return s.save(ctx, KindStation, st.ID, st)
}

func (s *SQLStore) SaveCity(ctx context.Context, c *game.City) error {
	return s.save(ctx, KindCity, c.ID, c)
}

func (s *SQLStore) SavePlayer(ctx context.Context, p *game.Player) error {
	return s.save(ctx, KindPlayer, p.ID, p)
}

func (s *SQLStore) LoadStation(ctx context.Context, id string) (*game.Station, error) {
	var st game.Station
	if err := s.load(ctx, KindStation, id, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SQLStore) LoadCity(ctx context.Context, id string) (*game.City, error) {
	var c game.City
	if err := s.load(ctx, KindCity, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) LoadPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	if err := s.load(ctx, KindPlayer, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) save(ctx context.Context, kind Kind, id string, v any) error {
	now := s.now().UTC()
	data, err := encode(kind, id, v, now)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertSave, string(kind), id, string(data), now); err != nil {
		s.log.Error("Failed to save", "operation", "save", "kind", kind, "id", id, "error", err)
		return fmt.Errorf("save %s %s: %w", kind, id, err)
	}
	s.log.Debug("saved", "operation", "save", "kind", kind, "id", id)
	return nil
}

func (s *SQLStore) load(ctx context.Context, kind Kind, id string, v any) error {
	var payload string
	err := s.db.QueryRowContext(ctx, selectSave, string(kind), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	return decode(kind, []byte(payload), v)
}
