package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/game"
)

// FileStore keeps one JSON file per save under dir/<kind>/<id>.json.
type FileStore struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save directory: %w", err)
	}
	return &FileStore{
		dir: dir,
		log: logger.With("component", "store", "backend", "file"),
		now: time.Now,
	}, nil
}

func (s *FileStore) path(kind Kind, id string) string {
	return filepath.Join(s.dir, string(kind), filepath.Base(id)+".json")
}

func (s *FileStore) SaveStation(ctx context.Context, st *game.Station) error {
	return s.save(ctx, KindStation, st.ID, st)
}

func (s *FileStore) SaveCity(ctx context.Context, c *game.City) error {
	return s.save(ctx, KindCity, c.ID, c)
}

func (s *FileStore) SavePlayer(ctx context.Context, p *game.Player) error {
	return s.save(ctx, KindPlayer, p.ID, p)
}

func (s *FileStore) LoadStation(ctx context.Context, id string) (*game.Station, error) {
	var st game.Station
	if err := s.load(ctx, KindStation, id, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *FileStore) LoadCity(ctx context.Context, id string) (*game.City, error) {
	var c game.City
	if err := s.load(ctx, KindCity, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FileStore) LoadPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	if err := s.load(ctx, KindPlayer, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) save(ctx context.Context, kind Kind, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(kind, id, v, s.now())
	if err != nil {
		return err
	}
	path := s.path(kind, id)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write %s %s: %w", kind, id, err)
	}
	s.log.Debug("saved", "operation", "save", "kind", kind, "id", id, "path", path)
	return nil
}

func (s *FileStore) load(ctx context.Context, kind Kind, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.path(kind, id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return decode(kind, data, v)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "save-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}
