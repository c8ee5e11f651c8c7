package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "COLONY_"

type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
	Alerts  AlertsConfig  `yaml:"alerts"`
}

type GameConfig struct {
	Seed          int64 `yaml:"seed"`
	game.Settings `yaml:",inline"`
}

// StorageConfig selects where saves go. Backend is one of "file", "sqlite"
// or "postgres"; DSN is the directory for "file" and the connection string
// otherwise.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

type SyncConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json"`
}

type AlertsConfig struct {
	RulesFile string `yaml:"rules_file"`
}

func Default() Config {
	return Config{
		Game: GameConfig{
			Seed:     1,
			Settings: game.DefaultSettings(),
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			DSN:     defaultSavePath(),
		},
		Sync: SyncConfig{
			Addr: "localhost:6379",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path, any .env files
// and finally the process environment. A missing YAML file or .env file is
// not an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	env := map[string]string{}
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read env file %s: %w", file, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) {
			env[k] = v
		}
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	lookup := func(key string) (string, bool) {
		v, ok := env[envPrefix+key]
		return v, ok && v != ""
	}

	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		c.Game.Seed = seed
	}
	if v, ok := lookup("ACCOUNTING_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sACCOUNTING_INTERVAL: %w", envPrefix, err)
		}
		c.Game.AccountingInterval = d
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_CATCH_UP_TICKS", &c.Game.MaxCatchUpTicks},
		{"STATION_AIR_VOLUME", &c.Game.StationAirVolume},
		{"STARTER_MONEY", &c.Game.StarterMoney},
		{"MESSAGE_BOARD_SIZE", &c.Game.MessageBoardSize},
		{"REDIS_DB", &c.Sync.DB},
	}
	for _, field := range ints {
		v, ok := lookup(field.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, field.key, err)
		}
		*field.dst = n
	}
	if v, ok := lookup("STORAGE_BACKEND"); ok {
		c.Storage.Backend = v
	}
	if v, ok := lookup("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := lookup("SYNC_ENABLED"); ok {
		c.Sync.Enabled = v == "true"
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		c.Sync.Addr = v
	}
	if v, ok := lookup("REDIS_PASSWORD"); ok {
		c.Sync.Password = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("LOG_JSON"); ok {
		c.Logging.JSONFormat = v == "true"
	}
	if v, ok := lookup("ALERT_RULES"); ok {
		c.Alerts.RulesFile = v
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage dsn is required")
	}
	if c.Game.AccountingInterval <= 0 {
		return fmt.Errorf("accounting interval must be positive")
	}
	if c.Game.MaxCatchUpTicks < 0 {
		return fmt.Errorf("max catch up ticks must not be negative")
	}
	if c.Game.StationAirVolume <= 0 {
		return fmt.Errorf("station air volume must be positive")
	}
	if c.Game.MessageBoardSize <= 0 {
		return fmt.Errorf("message board size must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Sync.Enabled && c.Sync.Addr == "" {
		return fmt.Errorf("sync addr is required when sync is enabled")
	}
	return nil
}

// Save writes cfg as YAML, replacing path atomically.
func Save(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "config-*.tmp")
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
	if err := tmp.Chmod(0o600); err != nil {
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
