package game

import (
	"strings"
	"testing"
	"time"
)

func TestRunAccountingInitialisesDate(t *testing.T) {
	gc := newTestContext(t)
	var h Habitat
	if reports := h.RunAccounting(gc, testNow); reports != nil {
		t.Fatalf("expected no reports on first accounting, got %d", len(reports))
	}
	if !h.AccountingDate.Equal(testNow) {
		t.Fatalf("expected accounting date set to now, got %v", h.AccountingDate)
	}
}

func TestRunAccountingReplaysWholeIntervals(t *testing.T) {
	gc, s := newTestStation(t, nil)
	reports := s.RunAccounting(gc, testNow.Add(3*time.Hour+20*time.Minute))
	if len(reports) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(reports))
	}
	if !s.AccountingDate.Equal(testNow.Add(3 * time.Hour)) {
		t.Fatalf("expected accounting date to advance by whole intervals, got %v", s.AccountingDate)
	}
	if !reports[2].Date.Equal(s.AccountingDate) {
		t.Fatalf("expected last report at the accounting date, got %v", reports[2].Date)
	}
	if reports := s.RunAccounting(gc, testNow.Add(3*time.Hour+40*time.Minute)); len(reports) != 0 {
		t.Fatalf("expected no tick inside the same interval, got %d", len(reports))
	}
}

func TestRunAccountingCapsCatchUp(t *testing.T) {
	gc, s := newTestStation(t, nil)
	gc.Settings.MaxCatchUpTicks = 5

	reports := s.RunAccounting(gc, testNow.Add(10*time.Hour))
	if len(reports) != 5 {
		t.Fatalf("expected 5 replayed ticks, got %d", len(reports))
	}
	if !reports[0].Date.Equal(testNow.Add(6 * time.Hour)) {
		t.Fatalf("expected oldest ticks dropped, first report at %v", reports[0].Date)
	}
	if !s.AccountingDate.Equal(testNow.Add(10 * time.Hour)) {
		t.Fatalf("expected accounting date at now, got %v", s.AccountingDate)
	}
}

func TestAccountingTickEnergyAndBreathing(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Ledger.ConsumeEnergy(100)
	o2 := s.Air.O2
	water := s.Ledger.TankAmount(TankH2O)
	food := s.Ledger.IngredientAmount(IngredientFood)

	reports := s.RunAccounting(gc, testNow.Add(time.Hour))
	if len(reports) != 1 {
		t.Fatalf("expected one tick, got %d", len(reports))
	}
	r := reports[0]
	if r.EnergyProduced != starterPanels*solarOutputPerPanel {
		t.Fatalf("expected %d solar energy, got %d", starterPanels*solarOutputPerPanel, r.EnergyProduced)
	}
	want := PeripheralScrubberCO2.EnergyCost() + PeripheralCondensator.EnergyCost()
	if r.EnergyConsumed != want {
		t.Fatalf("expected %d consumed by starter peripherals, got %d", want, r.EnergyConsumed)
	}
	if r.EnergyStored != 300+r.EnergyProduced-r.EnergyConsumed {
		t.Fatalf("unexpected stored energy %d", r.EnergyStored)
	}
	if s.Air.O2 != o2-3*breatheO2PerPerson {
		t.Fatalf("expected crew to breathe %d O2, got %d -> %d", 3*breatheO2PerPerson, o2, s.Air.O2)
	}
	if s.Ledger.IngredientAmount(IngredientFood) != food-3*foodPerPerson {
		t.Fatalf("expected each person to eat")
	}
	if s.Ledger.IngredientAmount(IngredientWasteSolid) != 3*foodPerPerson {
		t.Fatalf("expected solid waste from eating, got %d", s.Ledger.IngredientAmount(IngredientWasteSolid))
	}
	if r.Water > water {
		t.Fatalf("expected water not to increase beyond condensation, got %d -> %d", water, r.Water)
	}
	if r.Headcount != 3 || len(r.Problems) != 0 {
		t.Fatalf("expected a calm tick for 3 people, got %+v", r)
	}
}

func TestAccountingReportsShortages(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Ledger.ConsumeContainers(IngredientFood, s.Ledger.IngredientAmount(IngredientFood))

	reports := s.RunAccounting(gc, testNow.Add(time.Hour))
	if !hasProblem(reports[0], "food shortage") {
		t.Fatalf("expected food shortage, got %v", reports[0].Problems)
	}
	for _, p := range s.People {
		if p.Happiness != 80-shortageHappiness {
			t.Fatalf("expected happiness to drop by %d, got %d", shortageHappiness, p.Happiness)
		}
	}
	found := false
	for _, msg := range gc.Board.Unread() {
		if msg.Type == MessageAlert && strings.Contains(msg.Text, "food shortage") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shortage posted to the message board")
	}
}

func TestAccountingPeripheralWithoutPower(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Ledger.ConsumeEnergy(s.Ledger.TotalEnergy())
	for i := 0; i < starterPanels; i++ {
		if _, err := s.Ledger.Remove(i, SlotSolar); err != nil {
			t.Fatalf("remove panel: %v", err)
		}
	}
	reports := s.RunAccounting(gc, testNow.Add(time.Hour))
	if !hasProblem(reports[0], "no power for CO2 Scrubber") {
		t.Fatalf("expected power problem, got %v", reports[0].Problems)
	}
	if reports[0].EnergyConsumed != 0 {
		t.Fatalf("expected nothing consumed, got %d", reports[0].EnergyConsumed)
	}
}

func TestAccountingLethalAirMakesCrewSick(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Air = AirComposition{O2: 40, N2: 960}

	reports := s.RunAccounting(gc, testNow.Add(time.Hour))
	if reports[0].AirQuality != AirLethal || !hasProblem(reports[0], "lethal") {
		t.Fatalf("expected lethal air, got %+v", reports[0])
	}
	for _, p := range s.People {
		if p.Healthy {
			t.Fatalf("expected %s to be sick", p.Name)
		}
	}
}

func TestAccountingFloorsNegativeGases(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Air = AirComposition{O2: 210, CO2: -20, N2: 780, H2O: -3}

	s.RunAccounting(gc, testNow.Add(time.Hour))
	a := s.Air
	if a.CO2 < 0 || a.H2O < 0 || a.H2 < 0 || a.CH4 < 0 {
		t.Fatalf("expected no negative gases after a tick, got %+v", a)
	}
}

func TestElectrolizerFeedsOxygenDeficit(t *testing.T) {
	var h Habitat
	h.Ledger.AddTank(TankH2O)
	h.Ledger.AddTank(TankEmpty)
	h.Air = AirComposition{O2: 200, N2: 800}
	h.runPeripheral(PeripheralElectrolizer)

	if h.Air.O2 != 202 {
		t.Fatalf("expected 2 O2 released into the air, got %d", h.Air.O2)
	}
	if h.Ledger.TankAmount(TankH2O) != TankH2O.Capacity()-electrolizerWater {
		t.Fatalf("expected %d water split", electrolizerWater)
	}
}

func TestScrubberStoresCO2(t *testing.T) {
	var h Habitat
	tank := NewTank(TankCO2)
	tank.Current = 0
	h.Ledger.Tanks = []Tank{tank}
	h.Air = AirComposition{O2: 200, CO2: 80, N2: 720}
	h.runPeripheral(PeripheralScrubberCO2)
	if h.Air.CO2 != 75 || h.Ledger.TankAmount(TankCO2) != scrubberBatch {
		t.Fatalf("expected CO2 moved from air to tank, air %d tank %d", h.Air.CO2, h.Ledger.TankAmount(TankCO2))
	}
}

func TestCityAccounting(t *testing.T) {
	saver := &recordingSaver{}
	gc := NewGameContext(DefaultSettings(), 1, saver, nil)
	c := NewCity(gc, "Tycho", "player-1", 7, testNow)
	if saver.cities != 1 {
		t.Fatalf("expected city saved on creation")
	}
	reports := c.RunAccounting(gc, testNow.Add(2*time.Hour))
	if len(reports) != 2 || reports[1].Headcount != cityStarterPeople {
		t.Fatalf("expected two ticks for %d people, got %d", cityStarterPeople, len(reports))
	}
	if saver.cities != 2 {
		t.Fatalf("expected city saved after accounting, got %d saves", saver.cities)
	}
}

func hasProblem(r AccountingReport, fragment string) bool {
	for _, p := range r.Problems {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	return false
}
