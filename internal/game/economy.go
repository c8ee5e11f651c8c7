package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Money      int    `json:"money"`
	Experience int    `json:"experience"`
}

func NewPlayer(gc *GameContext, name string) *Player {
	return &Player{ID: uuid.NewString(), Name: name, Money: gc.Settings.StarterMoney}
}

const maxBoxesPerOrder = 100

// OrderFromEarth buys full storage boxes of an orderable ingredient, at most
// maxBoxesPerOrder per delivery.
func OrderFromEarth(gc *GameContext, player *Player, ledger *Ledger, ingredient Ingredient, boxes int, now time.Time) error {
	if boxes <= 0 {
		return fmt.Errorf("order of %d boxes: %w", boxes, ErrUnknownItem)
	}
	if !ingredient.Orderable() {
		return fmt.Errorf("%s: %w", ingredient.Name(), ErrNotOrderable)
	}
	if boxes > maxBoxesPerOrder {
		return fmt.Errorf("order of %d boxes, limit %d: %w", boxes, maxBoxesPerOrder, ErrOrderTooLarge)
	}
	unit := ingredient.Price() * ingredient.BoxCapacity()
	if unit > 0 && boxes > player.Money/unit {
		return fmt.Errorf("%d boxes of %s at %d each: %w", boxes, ingredient.Name(), unit, ErrInsufficientFunds)
	}
	cost := unit * boxes

	player.Money -= cost
	for range boxes {
		ledger.AddStorageBox(NewStorageBox(ingredient, ingredient.BoxCapacity()))
	}
	gc.Board.Post(MessageSystem, fmt.Sprintf("Delivered %d boxes of %s from Earth.", boxes, ingredient.Name()), now)
	gc.log("order_from_earth").Info("order delivered", "ingredient", ingredient, "boxes", boxes, "cost", cost)
	gc.persistPlayer(player)
	return nil
}
