package game

import (
	"fmt"
	"time"
)

const (
	solarOutputPerPanel = 12

	scrubberBatch     = 5
	electrolizerWater = 4
	methanizerBatch   = 3
	condensatorBatch  = 5
	waterFilterBatch  = 5
	solidifierBatch   = 3
	waterPerPerson    = 2
	foodPerPerson     = 1
	shortageHappiness = 5
	badAirHappiness   = 10
)

type AccountingReport struct {
	Date           time.Time  `json:"date"`
	EnergyProduced int        `json:"energy_produced"`
	EnergyConsumed int        `json:"energy_consumed"`
	EnergyStored   int        `json:"energy_stored"`
	EnergyCapacity int        `json:"energy_capacity"`
	AirQuality     AirQuality `json:"air_quality"`
	O2Needed       int        `json:"o2_needed"`
	Water          int        `json:"water"`
	Food           int        `json:"food"`
	Headcount      int        `json:"headcount"`
	Problems       []string   `json:"problems,omitempty"`
}

// RunAccounting replays every whole interval elapsed since the last
// accounting date, at most MaxCatchUpTicks of them; older intervals are
// dropped. A habitat that was never accounted only records now.
func (h *Habitat) RunAccounting(gc *GameContext, now time.Time) []AccountingReport {
	interval := gc.Settings.AccountingInterval
	if interval <= 0 {
		return nil
	}
	if h.AccountingDate.IsZero() {
		h.AccountingDate = now
		return nil
	}

	ticks := int(now.Sub(h.AccountingDate) / interval)
	if ticks <= 0 {
		return nil
	}
	skipped := 0
	if limit := gc.Settings.MaxCatchUpTicks; limit > 0 && ticks > limit {
		skipped = ticks - limit
		ticks = limit
		gc.log("accounting").Info("dropping accounting ticks", "skipped", skipped, "replayed", ticks)
	}

	start := h.AccountingDate.Add(time.Duration(skipped) * interval)
	reports := make([]AccountingReport, 0, ticks)
	for i := 1; i <= ticks; i++ {
		date := start.Add(time.Duration(i) * interval)
		report := h.tick(gc, date)
		for _, problem := range report.Problems {
			gc.Board.Post(MessageAlert, problem, date)
		}
		reports = append(reports, report)
	}
	h.AccountingDate = start.Add(time.Duration(ticks) * interval)
	return reports
}

func (h *Habitat) tick(gc *GameContext, date time.Time) AccountingReport {
	report := AccountingReport{Date: date}
	h.Air.Clamp()

	report.EnergyProduced = h.Ledger.CountSlots(SlotSolar) * solarOutputPerPanel
	h.Ledger.ChargeBatteries(report.EnergyProduced)

	for _, kind := range peripheralOrder {
		for _, p := range h.Peripherals {
			if p.Type != kind || !p.PowerOn {
				continue
			}
			cost := kind.EnergyCost()
			if !h.Ledger.ConsumeEnergy(cost) {
				report.Problems = append(report.Problems, fmt.Sprintf("no power for %s", kind.Name()))
				continue
			}
			report.EnergyConsumed += cost
			h.runPeripheral(kind)
		}
	}

	report.Problems = append(report.Problems, h.sustainPeople()...)

	report.AirQuality = h.Air.AirQuality()
	report.O2Needed = h.Air.NeedsOxygen()
	report.EnergyStored = h.Ledger.TotalEnergy()
	report.EnergyCapacity = h.Ledger.EnergyCapacity()
	report.Water = h.Ledger.TankAmount(TankH2O)
	report.Food = h.Ledger.IngredientAmount(IngredientFood)
	report.Headcount = len(h.People)
	return report
}

func (h *Habitat) runPeripheral(kind PeripheralType) {
	l := &h.Ledger
	switch kind {
	case PeripheralScrubberCO2:
		if h.Air.FilterCO2(scrubberBatch) {
			l.RefillTanks(TankCO2, scrubberBatch)
		}
	case PeripheralElectrolizer:
		// 2 H2O -> 2 H2 + O2
		water := l.ConsumeTank(TankH2O, electrolizerWater)
		o2 := water / 2
		toAir := min(o2, h.Air.NeedsOxygen())
		h.Air.AddO2(toAir)
		l.RefillTanks(TankO2, o2-toAir)
		l.RefillTanks(TankH2, water)
	case PeripheralMethanizer:
		// CO2 + 4 H2 -> CH4 + 2 H2O
		batch := min(methanizerBatch, l.TankAmount(TankCO2), l.TankAmount(TankH2)/4)
		if batch <= 0 {
			return
		}
		l.ConsumeTank(TankCO2, batch)
		l.ConsumeTank(TankH2, batch*4)
		l.RefillTanks(TankCH4, batch)
		l.RefillTanks(TankH2O, batch*2)
	case PeripheralCondensator:
		take := min(condensatorBatch, h.Air.H2O)
		h.Air.H2O -= take
		h.Air.H2O += l.RefillTanks(TankH2O, take)
	case PeripheralWaterFilter:
		drawn := l.ConsumeContainers(IngredientWasteLiquid, waterFilterBatch)
		l.RefillContainers(IngredientWasteLiquid, l.RefillTanks(TankH2O, drawn))
	case PeripheralBioSolidifier:
		drawn := l.ConsumeContainers(IngredientWasteSolid, solidifierBatch)
		l.RefillContainers(IngredientWasteSolid, l.RefillContainers(IngredientFertilizer, drawn))
	}
}

func (h *Habitat) sustainPeople() []string {
	if len(h.People) == 0 {
		return nil
	}
	var problems []string
	l := &h.Ledger

	h.Air.Breathe(len(h.People))

	thirsty, hungry := 0, 0
	for i := range h.People {
		p := &h.People[i]
		water := l.ConsumeTank(TankH2O, waterPerPerson)
		if water < waterPerPerson {
			thirsty++
			p.Happiness -= shortageHappiness
		}
		food := l.ConsumeContainers(IngredientFood, foodPerPerson)
		if food < foodPerPerson {
			hungry++
			p.Happiness -= shortageHappiness
		}
		l.RefillContainers(IngredientWasteLiquid, water)
		l.RefillContainers(IngredientWasteSolid, food)
	}
	if thirsty > 0 {
		problems = append(problems, fmt.Sprintf("water shortage for %d people", thirsty))
	}
	if hungry > 0 {
		problems = append(problems, fmt.Sprintf("food shortage for %d people", hungry))
	}

	switch h.Air.AirQuality() {
	case AirBad:
		problems = append(problems, "air quality is bad")
		for i := range h.People {
			h.People[i].Happiness -= badAirHappiness
		}
	case AirLethal:
		problems = append(problems, "air quality is lethal")
		for i := range h.People {
			h.People[i].Healthy = false
		}
	}

	for i := range h.People {
		h.People[i].Happiness = clamp(h.People[i].Happiness, 0, 100)
	}
	return problems
}
