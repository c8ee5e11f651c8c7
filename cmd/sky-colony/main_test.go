package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/appengine-ltd/sky-colony/internal/store"
)

func TestLoadColonyCreatesThenRestores(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	st, err := store.NewFileStore(dir, logger)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	gc := game.NewGameContext(game.DefaultSettings(), 1, st, logger)
	opts := options{slot: "alpha", name: "Ada", city: "Tycho"}
	now := time.Date(2031, 3, 4, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := loadColony(ctx, gc, st, opts, now)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Station.ID != "alpha" || first.Player.ID != "alpha" || first.Player.Name != "Ada" {
		t.Fatalf("expected new colony in slot alpha, got %+v %+v", first.Player, first.Station.ID)
	}
	if first.City == nil || first.City.ID != "alpha" || first.City.OwnerID != "alpha" {
		t.Fatalf("expected a city founded in slot alpha, got %+v", first.City)
	}
	for _, kind := range []string{"station", "city"} {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil {
			t.Fatalf("read %s saves: %v", kind, err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected one %s save under the slot id, got %d", kind, len(entries))
		}
	}
	first.Player.Money = 123
	if err := st.SavePlayer(ctx, first.Player); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := loadColony(ctx, gc, st, opts, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.Player.Money != 123 {
		t.Fatalf("expected saved player restored, got %+v", second.Player)
	}
	if len(second.Station.People) != len(first.Station.People) {
		t.Fatalf("expected the same crew after restore")
	}
	if second.City == nil || second.City.Name != "Tycho" {
		t.Fatalf("expected saved city restored, got %+v", second.City)
	}
}

func TestLoadColonyWithoutCityName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.NewFileStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	gc := game.NewGameContext(game.DefaultSettings(), 1, st, logger)

	colony, err := loadColony(context.Background(), gc, st, options{slot: "beta", name: "Bo"}, time.Now())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if colony.City != nil {
		t.Fatalf("expected no city without a name, got %+v", colony.City)
	}
}
