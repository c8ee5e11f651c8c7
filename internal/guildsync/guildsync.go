// Package guildsync pulls server confirmed research into a local station so
// progress made elsewhere is not lost on catch-up.
package guildsync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/config"
	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/redis/go-redis/v9"
)

// Source reports tech items the server has confirmed as completed.
type Source interface {
	CompletedTech(ctx context.Context, stationID string) ([]string, error)
}

// Publisher records locally completed tech on the server.
type Publisher interface {
	PublishCompleted(ctx context.Context, stationID string, items []game.TechItem) error
}

func completedKey(stationID string) string {
	return fmt.Sprintf("colony:%s:tech:completed", stationID)
}

type setClient interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

// RedisSource keeps completed tech in one Redis set per station.
type RedisSource struct {
	client setClient
	log    *slog.Logger
}

// Connect dials Redis when sync is enabled. A disabled config returns a nil
// source and no error.
func Connect(ctx context.Context, cfg config.SyncConfig, logger *slog.Logger) (*RedisSource, error) {
	log := logger.With("component", "guildsync", "operation", "connect")
	if !cfg.Enabled {
		log.Info("Sync disabled, running offline")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.Error("Failed to ping Redis", "error", err)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info("Redis connection established", "addr", cfg.Addr)
	return &RedisSource{client: rdb, log: logger.With("component", "guildsync")}, nil
}

func (r *RedisSource) CompletedTech(ctx context.Context, stationID string) ([]string, error) {
	items, err := r.client.SMembers(ctx, completedKey(stationID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read completed tech: %w", err)
	}
	slices.Sort(items)
	return items, nil
}

func (r *RedisSource) PublishCompleted(ctx context.Context, stationID string, items []game.TechItem) error {
	if len(items) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(items))
	for _, item := range items {
		members = append(members, string(item))
	}
	if err := r.client.SAdd(ctx, completedKey(stationID), members...).Err(); err != nil {
		return fmt.Errorf("publish completed tech: %w", err)
	}
	r.log.Debug("published completed tech", "operation", "publish", "station_id", stationID, "count", len(items))
	return nil
}

func (r *RedisSource) Close() error {
	if c, ok := r.client.(*redis.Client); ok {
		return c.Close()
	}
	return nil
}

// StaticSource serves a fixed list per station. It stands in for the server
// when running offline and in tests.
type StaticSource map[string][]string

func (s StaticSource) CompletedTech(_ context.Context, stationID string) ([]string, error) {
	return slices.Clone(s[stationID]), nil
}

func (s StaticSource) PublishCompleted(_ context.Context, stationID string, items []game.TechItem) error {
	for _, item := range items {
		if !slices.Contains(s[stationID], string(item)) {
			s[stationID] = append(s[stationID], string(item))
		}
	}
	return nil
}

// Reconcile marks every confirmed item as complete in the station's tree and
// returns the items it applied. Names the catalog does not know are skipped.
func Reconcile(ctx context.Context, src Source, station *game.Station, logger *slog.Logger) ([]game.TechItem, error) {
	log := logger.With("component", "guildsync", "operation", "reconcile", "station_id", station.ID)
	names, err := src.CompletedTech(ctx, station.ID)
	if err != nil {
		return nil, err
	}

	items := make([]game.TechItem, 0, len(names))
	for _, name := range names {
		item, err := game.ParseTechItem(name)
		if err != nil {
			log.Warn("ignoring unknown tech from server", "item", name)
			continue
		}
		items = append(items, item)
	}
	station.Tree.AccountForItems(items)
	log.Info("reconciled completed tech", "count", len(items))
	return items, nil
}
