package console

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/alerts"
	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/appengine-ltd/sky-colony/internal/guildsync"
)

var testNow = time.Date(2031, 3, 4, 9, 0, 0, 0, time.UTC)

type countingSaver struct {
	stations, cities, players int
}

func (s *countingSaver) SaveStation(context.Context, *game.Station) error {
	s.stations++
	return nil
}

func (s *countingSaver) SaveCity(context.Context, *game.City) error {
	s.cities++
	return nil
}

func (s *countingSaver) SavePlayer(context.Context, *game.Player) error {
	s.players++
	return nil
}

func newTestConsole(t *testing.T, saver game.Saver) (*Console, *time.Time) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gc := game.NewGameContext(game.DefaultSettings(), 1, saver, logger)
	colony := &game.Colony{
		Player:  game.NewPlayer(gc, "Commander"),
		Station: game.NewStation(gc, testNow),
	}
	engine, err := alerts.NewEngine(alerts.DefaultRules(), logger)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	c := New(gc, colony, engine, nil)
	now := testNow
	c.Now = func() time.Time { return now }
	return c, &now
}

func TestStepExecutesParsedCommands(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	reply, quit := c.Step(context.Background(), "inv")
	if quit || !strings.Contains(reply, "Food") {
		t.Fatalf("expected inventory listing, got %q", reply)
	}
	if reply, _ := c.Step(context.Background(), "xyzzy plugh"); !strings.Contains(reply, "couldn't map") {
		t.Fatalf("expected parser clarify, got %q", reply)
	}
}

func TestClarifyThenPickOption(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	reply, _ := c.Step(context.Background(), "research modul")
	if !strings.Contains(reply, "1) research module4") {
		t.Fatalf("expected numbered options, got %q", reply)
	}
	reply, _ = c.Step(context.Background(), "1")
	if strings.Contains(reply, "Did you mean") || !strings.Contains(reply, "Cannot do that now") {
		t.Fatalf("expected chosen option to run, got %q", reply)
	}
	if len(c.pending) != 0 {
		t.Fatalf("expected pending options cleared")
	}
}

func TestCatchUpRaisesAlerts(t *testing.T) {
	c, now := newTestConsole(t, nil)
	ledger := &c.Colony.Station.Ledger
	ledger.ConsumeContainers(game.IngredientFood, ledger.IngredientAmount(game.IngredientFood))
	*now = testNow.Add(time.Hour)

	reply, _ := c.Step(context.Background(), "messages")
	if !strings.Contains(reply, "Food stores will run out soon.") {
		t.Fatalf("expected low food alert in inbox, got %q", reply)
	}
}

func TestSaveAndQuit(t *testing.T) {
	saver := &countingSaver{}
	c, _ := newTestConsole(t, saver)
	if reply, quit := c.Step(context.Background(), "save"); quit || reply != "Game saved." {
		t.Fatalf("expected save confirmation, got %q", reply)
	}
	if reply, quit := c.Step(context.Background(), "exit"); !quit || !strings.Contains(reply, "Game saved.") {
		t.Fatalf("expected quit with save, got %q", reply)
	}
	if saver.stations != 2 || saver.players != 2 {
		t.Fatalf("expected two saves each, got %+v", saver)
	}
}

func TestCityCaughtUpAndSaved(t *testing.T) {
	saver := &countingSaver{}
	c, now := newTestConsole(t, saver)
	c.Colony.City = game.NewCity(c.GC, "Tycho", c.Colony.Player.ID, 1, testNow)
	created := saver.cities
	*now = testNow.Add(2 * time.Hour)

	if reply, _ := c.Step(context.Background(), "save"); reply != "Game saved." {
		t.Fatalf("expected save confirmation, got %q", reply)
	}
	if !c.Colony.City.AccountingDate.Equal(*now) {
		t.Fatalf("expected city caught up before the command, got %v", c.Colony.City.AccountingDate)
	}
	if saver.cities != created+2 {
		t.Fatalf("expected city saved by accounting and by save, got %d after %d", saver.cities, created)
	}
}

func TestPublishesCompletedTech(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	src := guildsync.StaticSource{}
	c.Publisher = src
	c.Colony.Station.Tree.AccountForItems([]game.TechItem{game.TechCuppola})

	c.Step(context.Background(), "status")
	if !slices.Contains(src[c.Colony.Station.ID], string(game.TechCuppola)) {
		t.Fatalf("expected cuppola published, got %v", src[c.Colony.Station.ID])
	}
}

func TestRunReadsUntilQuit(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	var out strings.Builder
	in := strings.NewReader("help\nquit\nstatus\n")
	if err := c.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "online") || !strings.Contains(text, "Commands:") || !strings.Contains(text, "shutting down") {
		t.Fatalf("unexpected transcript %q", text)
	}
	if strings.Contains(text, "Lab 1") {
		t.Fatalf("expected input after quit to be ignored")
	}
}
