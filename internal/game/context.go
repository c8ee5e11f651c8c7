package game

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Settings are the tunables of a running game.
type Settings struct {
	AccountingInterval time.Duration `yaml:"accounting_interval" json:"accounting_interval"`
	MaxCatchUpTicks    int           `yaml:"max_catch_up_ticks" json:"max_catch_up_ticks"`
	StationAirVolume   int           `yaml:"station_air_volume" json:"station_air_volume"`
	StarterMoney       int           `yaml:"starter_money" json:"starter_money"`
	MessageBoardSize   int           `yaml:"message_board_size" json:"message_board_size"`
}

func DefaultSettings() Settings {
	return Settings{
		AccountingInterval: time.Hour,
		MaxCatchUpTicks:    48,
		StationAirVolume:   1000,
		StarterMoney:       2000,
		MessageBoardSize:   50,
	}
}

// Saver persists game state. Implementations live outside this package.
type Saver interface {
	SaveStation(ctx context.Context, s *Station) error
	SaveCity(ctx context.Context, c *City) error
	SavePlayer(ctx context.Context, p *Player) error
}

// GameContext carries the process wide collaborators every simulation
// entry point needs. Build it once at startup.
type GameContext struct {
	Settings Settings
	Board    *MessageBoard
	People   *PersonGenerator
	DNA      *DNAGenerator
	Matcher  DNAMatcher
	Saver    Saver
	Logger   *slog.Logger
}

func NewGameContext(settings Settings, seed int64, saver Saver, logger *slog.Logger) *GameContext {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GameContext{
		Settings: settings,
		Board:    NewMessageBoard(settings.MessageBoardSize),
		People:   NewPersonGenerator(seed),
		DNA:      NewDNAGenerator(seed),
		Matcher:  LevenshteinMatcher{},
		Saver:    saver,
		Logger:   logger,
	}
}

func (gc *GameContext) log(operation string) *slog.Logger {
	return gc.Logger.With("component", "game", "operation", operation)
}

// Save failures are logged and otherwise ignored; the in-memory state stays
// authoritative.
func (gc *GameContext) persistStation(s *Station) {
	if gc.Saver == nil {
		return
	}
	if err := gc.Saver.SaveStation(context.Background(), s); err != nil {
		gc.log("save_station").Error("failed to save station", "station_id", s.ID, "error", err)
	}
}

func (gc *GameContext) persistCity(c *City) {
	if gc.Saver == nil {
		return
	}
	if err := gc.Saver.SaveCity(context.Background(), c); err != nil {
		gc.log("save_city").Error("failed to save city", "city_id", c.ID, "error", err)
	}
}

func (gc *GameContext) persistPlayer(p *Player) {
	if gc.Saver == nil {
		return
	}
	if err := gc.Saver.SavePlayer(context.Background(), p); err != nil {
		gc.log("save_player").Error("failed to save player", "player_id", p.ID, "error", err)
	}
}
