package game

import (
	"slices"

	"github.com/google/uuid"
)

// MaxTanks bounds how many tanks a single ledger can hold.
const MaxTanks = 24

const batteryCapacity = 100

type Tank struct {
	ID       string   `json:"id"`
	Type     TankType `json:"type"`
	Current  int      `json:"current"`
	Capacity int      `json:"capacity"`
}

type StorageBox struct {
	ID       string     `json:"id"`
	Type     Ingredient `json:"type"`
	Current  int        `json:"current"`
	Capacity int        `json:"capacity"`
}

type Battery struct {
	ID       string `json:"id"`
	Current  int    `json:"current"`
	Capacity int    `json:"capacity"`
}

// Ledger is the inventory of a station truss or a city: reservoirs of gas,
// ingredients and energy plus the structural slots of the truss.
// Reservoirs are filled and drained in slice order.
type Ledger struct {
	Tanks      []Tank           `json:"tanks,omitempty"`
	Boxes      []StorageBox     `json:"boxes,omitempty"`
	Batteries  []Battery        `json:"batteries,omitempty"`
	Components []TrussComponent `json:"components,omitempty"`
}

func NewTank(t TankType) Tank {
	capacity := t.Capacity()
	current := capacity
	if t == TankEmpty {
		current = 0
	}
	return Tank{ID: uuid.NewString(), Type: t, Current: current, Capacity: capacity}
}

func NewStorageBox(ingredient Ingredient, current int) StorageBox {
	capacity := ingredient.BoxCapacity()
	return StorageBox{
		ID:       uuid.NewString(),
		Type:     ingredient,
		Current:  clamp(current, 0, capacity),
		Capacity: capacity,
	}
}

func NewBattery(full bool) Battery {
	b := Battery{ID: uuid.NewString(), Capacity: batteryCapacity}
	if full {
		b.Current = batteryCapacity
	}
	return b
}

func (l *Ledger) TotalEnergy() int {
	total := 0
	for _, b := range l.Batteries {
		total += b.Current
	}
	return total
}

func (l *Ledger) EnergyCapacity() int {
	total := 0
	for _, b := range l.Batteries {
		total += b.Capacity
	}
	return total
}

// ConsumeEnergy drains batteries in order. Nothing is drained when the total
// charge cannot cover amount.
func (l *Ledger) ConsumeEnergy(amount int) bool {
	if amount <= 0 {
		return true
	}
	if l.TotalEnergy() < amount {
		return false
	}
	remaining := amount
	for i := range l.Batteries {
		if remaining == 0 {
			break
		}
		take := min(l.Batteries[i].Current, remaining)
		l.Batteries[i].Current -= take
		remaining -= take
	}
	return true
}

// ChargeBatteries returns the energy that did not fit.
func (l *Ledger) ChargeBatteries(amount int) int {
	if amount <= 0 {
		return 0
	}
	remaining := amount
	for i := range l.Batteries {
		if remaining == 0 {
			break
		}
		room := l.Batteries[i].Capacity - l.Batteries[i].Current
		put := min(room, remaining)
		if put <= 0 {
			continue
		}
		l.Batteries[i].Current += put
		remaining -= put
	}
	return remaining
}

// RefillTanks fills matching tanks to capacity one after the other and
// returns the leftover. A non-positive amount is returned unchanged.
func (l *Ledger) RefillTanks(t TankType, amount int) int {
	if amount <= 0 {
		return amount
	}
	remaining := amount
	for i := range l.Tanks {
		if remaining == 0 {
			break
		}
		tank := &l.Tanks[i]
		if tank.Type != t {
			continue
		}
		put := min(tank.Capacity-tank.Current, remaining)
		if put <= 0 {
			continue
		}
		tank.Current += put
		remaining -= put
	}
	return remaining
}

// RefillContainers is RefillTanks for storage boxes.
func (l *Ledger) RefillContainers(ingredient Ingredient, amount int) int {
	if amount <= 0 {
		return amount
	}
	remaining := amount
	for i := range l.Boxes {
		if remaining == 0 {
			break
		}
		box := &l.Boxes[i]
		if box.Type != ingredient {
			continue
		}
		put := min(box.Capacity-box.Current, remaining)
		if put <= 0 {
			continue
		}
		box.Current += put
		remaining -= put
	}
	return remaining
}

// ConsumeTank draws up to amount from matching tanks and returns what was drawn.
func (l *Ledger) ConsumeTank(t TankType, amount int) int {
	if amount <= 0 {
		return 0
	}
	drawn := 0
	for i := range l.Tanks {
		if drawn == amount {
			break
		}
		tank := &l.Tanks[i]
		if tank.Type != t {
			continue
		}
		take := min(tank.Current, amount-drawn)
		tank.Current -= take
		drawn += take
	}
	return drawn
}

// ConsumeContainers draws up to amount from matching boxes and returns what was drawn.
func (l *Ledger) ConsumeContainers(ingredient Ingredient, amount int) int {
	if amount <= 0 {
		return 0
	}
	drawn := 0
	for i := range l.Boxes {
		if drawn == amount {
			break
		}
		box := &l.Boxes[i]
		if box.Type != ingredient {
			continue
		}
		take := min(box.Current, amount-drawn)
		box.Current -= take
		drawn += take
	}
	return drawn
}

func (l *Ledger) TankAmount(t TankType) int {
	total := 0
	for _, tank := range l.Tanks {
		if tank.Type == t {
			total += tank.Current
		}
	}
	return total
}

func (l *Ledger) IngredientAmount(ingredient Ingredient) int {
	total := 0
	for _, box := range l.Boxes {
		if box.Type == ingredient {
			total += box.Current
		}
	}
	return total
}

// ValidateResources returns the ingredients the boxes cannot cover, sorted.
// An empty result means every requirement is satisfied.
func (l *Ledger) ValidateResources(required map[Ingredient]int) []Ingredient {
	lacking := make([]Ingredient, 0)
	for ingredient, qty := range required {
		if l.IngredientAmount(ingredient) < qty {
			lacking = append(lacking, ingredient)
		}
	}
	slices.Sort(lacking)
	return lacking
}

// ConsumeIngredients drains every requirement or nothing at all.
func (l *Ledger) ConsumeIngredients(required map[Ingredient]int) []Ingredient {
	if lacking := l.ValidateResources(required); len(lacking) > 0 {
		return lacking
	}
	for ingredient, qty := range required {
		l.ConsumeContainers(ingredient, qty)
	}
	return nil
}

func (l *Ledger) AddTank(t TankType) bool {
	if len(l.Tanks) >= MaxTanks {
		return false
	}
	l.Tanks = append(l.Tanks, NewTank(t))
	return true
}

func (l *Ledger) AddBattery(b Battery) {
	l.Batteries = append(l.Batteries, b)
}

func (l *Ledger) AddStorageBox(b StorageBox) {
	l.Boxes = append(l.Boxes, b)
}

// ThrowAway removes the tank, box or battery with the given id.
func (l *Ledger) ThrowAway(id string) bool {
	if idx := slices.IndexFunc(l.Tanks, func(t Tank) bool { return t.ID == id }); idx >= 0 {
		l.Tanks = slices.Delete(l.Tanks, idx, idx+1)
		return true
	}
	if idx := slices.IndexFunc(l.Boxes, func(b StorageBox) bool { return b.ID == id }); idx >= 0 {
		l.Boxes = slices.Delete(l.Boxes, idx, idx+1)
		return true
	}
	if idx := slices.IndexFunc(l.Batteries, func(b Battery) bool { return b.ID == id }); idx >= 0 {
		l.Batteries = slices.Delete(l.Batteries, idx, idx+1)
		return true
	}
	return false
}

func clamp(number, min, max int) int {
	if number < min {
		return min
	}

	if number > max {
		return max
	}

	return number
}
