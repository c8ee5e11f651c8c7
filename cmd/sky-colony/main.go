package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/alerts"
	"github.com/appengine-ltd/sky-colony/internal/config"
	"github.com/appengine-ltd/sky-colony/internal/console"
	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/appengine-ltd/sky-colony/internal/guildsync"
	"github.com/appengine-ltd/sky-colony/internal/logger"
	"github.com/appengine-ltd/sky-colony/internal/store"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath string
	envFile    string
	slot       string
	name       string
	city       string
}

func main() {
	var (
		showVersion bool
		opts        options
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&opts.configPath, "config", "", "path to the YAML config file (default: user config dir)")
	flag.StringVar(&opts.envFile, "env", ".env", "path to an optional .env file")
	flag.StringVar(&opts.slot, "slot", "default", "save slot to load or create")
	flag.StringVar(&opts.name, "name", "Commander", "player name for a new save")
	flag.StringVar(&opts.city, "city", "", "name of the city founded with a new save (none when empty)")
	flag.Parse()

	if showVersion {
		fmt.Printf("Sky Colony %s (%s) %s\n", version, commit, date)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		opts.configPath = path
	}
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := store.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	gc := game.NewGameContext(cfg.Game.Settings, cfg.Game.Seed, st, log)
	colony, err := loadColony(ctx, gc, st, opts, time.Now())
	if err != nil {
		return err
	}

	var publisher guildsync.Publisher
	src, err := guildsync.Connect(ctx, cfg.Sync, log)
	if err != nil {
		log.Warn("server sync unavailable, running offline", "error", err)
	}
	if src != nil {
		defer src.Close()
		if _, err := guildsync.Reconcile(ctx, src, colony.Station, log); err != nil {
			log.Warn("failed to reconcile completed tech", "error", err)
		}
		publisher = src
	}

	rules := alerts.DefaultRules()
	if cfg.Alerts.RulesFile != "" {
		extra, err := alerts.LoadRules(cfg.Alerts.RulesFile)
		if err != nil {
			return err
		}
		rules = append(rules, extra...)
	}
	engine, err := alerts.NewEngine(rules, log)
	if err != nil {
		return err
	}

	return console.New(gc, colony, engine, publisher).Run(ctx, os.Stdin, os.Stdout)
}

// loadColony restores the player, station and city saved under the slot,
// creating whichever is missing. A city is only founded when opts.city names
// one.
func loadColony(ctx context.Context, gc *game.GameContext, st store.Store, opts options, now time.Time) (*game.Colony, error) {
	log := gc.Logger.With("component", "main", "operation", "load_colony", "slot", opts.slot)

	player, err := st.LoadPlayer(ctx, opts.slot)
	if errors.Is(err, store.ErrNotFound) {
		player = game.NewPlayer(gc, opts.name)
		player.ID = opts.slot
		if err := st.SavePlayer(ctx, player); err != nil {
			return nil, err
		}
		log.Info("created player", "name", player.Name)
	} else if err != nil {
		return nil, err
	}

	// New saves are written once under the slot id, not under their
	// generated id.
	detached := *gc
	detached.Saver = nil

	station, err := st.LoadStation(ctx, opts.slot)
	if errors.Is(err, store.ErrNotFound) {
		station = game.NewStation(&detached, now)
		station.ID = opts.slot
		if err := st.SaveStation(ctx, station); err != nil {
			return nil, err
		}
		log.Info("created station")
	} else if err != nil {
		return nil, err
	}

	colony := &game.Colony{Player: player, Station: station}
	city, err := st.LoadCity(ctx, opts.slot)
	switch {
	case err == nil:
		colony.City = city
	case errors.Is(err, store.ErrNotFound) && opts.city != "":
		city = game.NewCity(&detached, opts.city, player.ID, 0, now)
		city.ID = opts.slot
		if err := st.SaveCity(ctx, city); err != nil {
			return nil, err
		}
		colony.City = city
		log.Info("founded city", "city", city.Name)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	log.Debug("colony ready", slog.Int("crew", len(station.People)), slog.Int("money", player.Money), slog.Bool("city", colony.City != nil))
	return colony, nil
}
