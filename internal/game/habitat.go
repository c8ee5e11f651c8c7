package game

import (
	"fmt"
	"slices"
	"time"
)

// Habitat is everything a pressurised location owns: its inventory, its
// air, its crew and the machines that keep them alive. Stations and cities
// both embed one.
type Habitat struct {
	Ledger         Ledger         `json:"ledger"`
	Air            AirComposition `json:"air"`
	People         []Person       `json:"people,omitempty"`
	Peripherals    []Peripheral   `json:"peripherals,omitempty"`
	BioBoxes       []BioBox       `json:"bio_boxes,omitempty"`
	Labs           []Lab          `json:"labs,omitempty"`
	AccountingDate time.Time      `json:"accounting_date"`
}

func (h *Habitat) Lab(id string) (*Lab, error) {
	for i := range h.Labs {
		if h.Labs[i].ID == id {
			return &h.Labs[i], nil
		}
	}
	return nil, fmt.Errorf("lab %q: %w", id, ErrNotFound)
}

func (h *Habitat) Person(id string) (*Person, error) {
	for i := range h.People {
		if h.People[i].ID == id {
			return &h.People[i], nil
		}
	}
	return nil, fmt.Errorf("person %q: %w", id, ErrNotFound)
}

// BioBox uses the 1-based number shown to players.
func (h *Habitat) BioBox(number int) (*BioBox, error) {
	if number < 1 || number > len(h.BioBoxes) {
		return nil, fmt.Errorf("bio box %d: %w", number, ErrNotFound)
	}
	return &h.BioBoxes[number-1], nil
}

func (h *Habitat) IdlePeople(now time.Time) []Person {
	out := make([]Person, 0, len(h.People))
	for _, p := range h.People {
		if p.Healthy && !p.IsBusy(now) {
			out = append(out, p)
		}
	}
	return out
}

// workers resolves ids to people and rejects anyone already busy.
func (h *Habitat) workers(ids []string, now time.Time) ([]Person, error) {
	out := make([]Person, 0, len(ids))
	for _, id := range ids {
		p, err := h.Person(id)
		if err != nil {
			return nil, err
		}
		if p.IsBusy(now) {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrWorkerBusy)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (h *Habitat) assignWorkers(ids []string, until time.Time) {
	for i := range h.People {
		if slices.Contains(ids, h.People[i].ID) {
			busy := until
			h.People[i].BusyUntil = &busy
		}
	}
}

func (h *Habitat) releaseWorkers(ids []string) {
	for i := range h.People {
		if slices.Contains(ids, h.People[i].ID) {
			h.People[i].BusyUntil = nil
		}
	}
}

func (h *Habitat) AddPeripheral(t PeripheralType) Peripheral {
	p := NewPeripheral(t)
	h.Peripherals = append(h.Peripherals, p)
	return p
}

// SetPeripheralPower switches every peripheral of type t and reports how
// many were switched.
func (h *Habitat) SetPeripheralPower(t PeripheralType, on bool) int {
	count := 0
	for i := range h.Peripherals {
		if h.Peripherals[i].Type == t {
			h.Peripherals[i].PowerOn = on
			count++
		}
	}
	return count
}
