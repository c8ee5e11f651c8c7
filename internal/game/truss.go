package game

import "fmt"

type SlotType string

const (
	SlotSolar    SlotType = "solar"
	SlotRadiator SlotType = "radiator"
	SlotRoboArm  SlotType = "roboarm"
)

// ParseSlotType maps a part name such as "solar panel" or "robotic arm" to
// its slot type.
func ParseSlotType(raw string) (SlotType, error) {
	switch normalizeCatalogID(raw) {
	case "solar", "solar_panel", "panel":
		return SlotSolar, nil
	case "radiator":
		return SlotRadiator, nil
	case "roboarm", "robo_arm", "robotic_arm", "arm":
		return SlotRoboArm, nil
	default:
		return "", fmt.Errorf("truss part %q: %w", raw, ErrUnknownItem)
	}
}

// Slot layout: indices [0,6) solar, [6,10) radiator, [10,12) robotic arm.
const (
	solarSlots    = 6
	radiatorSlots = 4
	roboArmSlots  = 2
	TrussSlots    = solarSlots + radiatorSlots + roboArmSlots
)

type TrussComponent struct {
	Index       int      `json:"index"`
	AllowedType SlotType `json:"allowed_type"`
	ItemID      string   `json:"item_id,omitempty"`
}

func (c TrussComponent) Occupied() bool {
	return c.ItemID != ""
}

func slotTypeForIndex(index int) SlotType {
	switch {
	case index < 0:
		panic(fmt.Sprintf("truss slot index %d out of range", index))
	case index < solarSlots:
		return SlotSolar
	case index < solarSlots+radiatorSlots:
		return SlotRadiator
	case index < TrussSlots:
		return SlotRoboArm
	default:
		panic(fmt.Sprintf("truss slot index %d out of range", index))
	}
}

func NewTrussComponents() []TrussComponent {
	out := make([]TrussComponent, TrussSlots)
	for i := range out {
		out[i] = TrussComponent{Index: i, AllowedType: slotTypeForIndex(i)}
	}
	return out
}

func (l *Ledger) component(index int) (*TrussComponent, error) {
	for i := range l.Components {
		if l.Components[i].Index == index {
			return &l.Components[i], nil
		}
	}
	return nil, fmt.Errorf("truss slot %d: %w", index, ErrNotFound)
}

func (l *Ledger) Insert(index int, part SlotType, itemID string) error {
	c, err := l.component(index)
	if err != nil {
		return err
	}
	if c.Occupied() {
		return fmt.Errorf("truss slot %d: %w", index, ErrSlotOccupied)
	}
	if c.AllowedType != part {
		return fmt.Errorf("truss slot %d takes %s not %s: %w", index, c.AllowedType, part, ErrSlotTypeMismatch)
	}
	c.ItemID = itemID
	return nil
}

// Remove frees the slot and returns the id of the item that occupied it.
func (l *Ledger) Remove(index int, part SlotType) (string, error) {
	c, err := l.component(index)
	if err != nil {
		return "", err
	}
	if c.AllowedType != part {
		return "", fmt.Errorf("truss slot %d holds %s not %s: %w", index, c.AllowedType, part, ErrSlotTypeMismatch)
	}
	if !c.Occupied() {
		return "", fmt.Errorf("truss slot %d: %w", index, ErrSlotEmpty)
	}
	id := c.ItemID
	c.ItemID = ""
	return id, nil
}

func (l *Ledger) FirstFreeSlot(part SlotType) (int, bool) {
	for _, c := range l.Components {
		if c.AllowedType == part && !c.Occupied() {
			return c.Index, true
		}
	}
	return 0, false
}

func (l *Ledger) CountSlots(part SlotType) int {
	count := 0
	for _, c := range l.Components {
		if c.AllowedType == part && c.Occupied() {
			count++
		}
	}
	return count
}
