package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

type PeripheralType string

const (
	PeripheralScrubberCO2   PeripheralType = "scrubber_co2"
	PeripheralElectrolizer  PeripheralType = "electrolizer"
	PeripheralMethanizer    PeripheralType = "methanizer"
	PeripheralCondensator   PeripheralType = "condensator"
	PeripheralWaterFilter   PeripheralType = "water_filter"
	PeripheralBioSolidifier PeripheralType = "bio_solidifier"
)

type peripheralSpec struct {
	Name       string
	EnergyCost int
}

var peripheralCatalog = map[PeripheralType]peripheralSpec{
	PeripheralScrubberCO2:   {Name: "CO2 Scrubber", EnergyCost: 4},
	PeripheralElectrolizer:  {Name: "Electrolizer", EnergyCost: 10},
	PeripheralMethanizer:    {Name: "Methanizer", EnergyCost: 8},
	PeripheralCondensator:   {Name: "Condensator", EnergyCost: 3},
	PeripheralWaterFilter:   {Name: "Water Filter", EnergyCost: 3},
	PeripheralBioSolidifier: {Name: "Bio Solidifier", EnergyCost: 5},
}

// peripheralOrder is the order peripherals run in during an accounting tick.
var peripheralOrder = []PeripheralType{
	PeripheralScrubberCO2,
	PeripheralElectrolizer,
	PeripheralMethanizer,
	PeripheralCondensator,
	PeripheralWaterFilter,
	PeripheralBioSolidifier,
}

func (p PeripheralType) Name() string {
	if spec, ok := peripheralCatalog[p]; ok {
		return spec.Name
	}
	return string(p)
}

// EnergyCost is drawn once per accounting tick while powered on.
func (p PeripheralType) EnergyCost() int {
	return peripheralCatalog[p].EnergyCost
}

// ParsePeripheralType accepts an id, a display name or a single word that
// names exactly one peripheral ("scrubber").
func ParsePeripheralType(raw string) (PeripheralType, error) {
	id := normalizeCatalogID(raw)
	var partial []PeripheralType
	for _, t := range peripheralOrder {
		name := normalizeCatalogID(t.Name())
		if id == string(t) || id == name {
			return t, nil
		}
		if id != "" && (slices.Contains(strings.Split(string(t), "_"), id) || slices.Contains(strings.Split(name, "_"), id)) {
			partial = append(partial, t)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}
	return "", fmt.Errorf("peripheral %q: %w", raw, ErrUnknownItem)
}

func AllPeripheralTypes() []PeripheralType {
	out := make([]PeripheralType, len(peripheralOrder))
	copy(out, peripheralOrder)
	return out
}

type Peripheral struct {
	ID      string         `json:"id"`
	Type    PeripheralType `json:"type"`
	PowerOn bool           `json:"power_on"`
}

func NewPeripheral(t PeripheralType) Peripheral {
	return Peripheral{ID: uuid.NewString(), Type: t, PowerOn: true}
}

func (p Peripheral) String() string {
	state := "off"
	if p.PowerOn {
		state = "on"
	}
	return fmt.Sprintf("%s (%s)", p.Type.Name(), state)
}
