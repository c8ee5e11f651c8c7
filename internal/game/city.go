package game

import (
	"time"

	"github.com/google/uuid"
)

const (
	cityAirVolume     = 5000
	cityStarterPeople = 6
)

// City is a surface settlement. It shares the habitat accounting with
// stations but has no tech tree of its own.
type City struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
	Habitat
	Posdex int `json:"posdex"`
}

func NewCity(gc *GameContext, name, ownerID string, posdex int, now time.Time) *City {
	c := &City{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: ownerID,
		Posdex:  posdex,
	}
	c.Ledger.Components = NewTrussComponents()
	c.Ledger.AddTank(TankH2O)
	c.Ledger.AddTank(TankO2)
	c.Ledger.AddBattery(NewBattery(true))
	c.Ledger.AddStorageBox(NewStorageBox(IngredientFood, IngredientFood.BoxCapacity()))
	c.Ledger.AddStorageBox(NewStorageBox(IngredientWasteLiquid, 0))
	c.Ledger.AddStorageBox(NewStorageBox(IngredientWasteSolid, 0))
	c.Air = NewAirComposition(cityAirVolume)
	c.People = gc.People.GenerateN(cityStarterPeople)
	c.AddPeripheral(PeripheralScrubberCO2)
	c.AddPeripheral(PeripheralWaterFilter)
	c.Labs = []Lab{{ID: "lab-1"}}
	c.AccountingDate = now
	gc.persistCity(c)
	return c
}

func (c *City) RunAccounting(gc *GameContext, now time.Time) []AccountingReport {
	reports := c.Habitat.RunAccounting(gc, now)
	if len(reports) > 0 {
		gc.persistCity(c)
	}
	return reports
}
