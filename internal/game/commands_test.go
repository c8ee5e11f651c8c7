package game

import (
	"strings"
	"testing"
	"time"
)

func newColonyForCommands(t *testing.T) (*GameContext, *Colony) {
	t.Helper()
	gc, s := newTestStation(t, nil)
	return gc, &Colony{Player: NewPlayer(gc, "Commander"), Station: s}
}

func TestCommandHelpAndUnknown(t *testing.T) {
	gc, c := newColonyForCommands(t)
	if res := c.ExecuteCommand(gc, "help", testNow); !res.Handled || !strings.Contains(res.Message, "research") {
		t.Fatalf("expected help text, got %+v", res)
	}
	if res := c.ExecuteCommand(gc, "dance", testNow); res.Handled {
		t.Fatalf("expected unknown command to be unhandled")
	}
	if res := c.ExecuteCommand(gc, "   ", testNow); res.Handled {
		t.Fatalf("expected blank command to be unhandled")
	}
}

func TestCommandCraftCollectFlow(t *testing.T) {
	gc, c := newColonyForCommands(t)

	res := c.ExecuteCommand(gc, "craft tank", testNow)
	if !strings.Contains(res.Message, "Crafting Tank in lab-1") {
		t.Fatalf("expected crafting confirmation, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "status", testNow)
	if !strings.Contains(res.Message, "Lab 1: Tank") || !strings.Contains(res.Message, "Lab 2: idle") {
		t.Fatalf("expected lab status, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "collect 1", testNow.Add(time.Minute))
	if !strings.Contains(res.Message, "Failed") {
		t.Fatalf("expected early collect to fail, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "collect 1", testNow.Add(RecipeTank.Duration()))
	if !strings.Contains(res.Message, "tank") {
		t.Fatalf("expected tank message, got %q", res.Message)
	}
	if c.Player.Experience != 10 {
		t.Fatalf("expected experience for crafting, got %d", c.Player.Experience)
	}
}

func TestCommandResearchLockedAndAvailable(t *testing.T) {
	gc, c := newColonyForCommands(t)

	res := c.ExecuteCommand(gc, "research module5", testNow)
	if !strings.Contains(res.Message, "Cannot do that now") {
		t.Fatalf("expected locked research message, got %q", res.Message)
	}
	c.Station.Tree.PollAndAdvance(c.Station.Tree.Root(), testNow)
	res = c.ExecuteCommand(gc, "tree", testNow)
	if !strings.Contains(res.Message, "Module 5") {
		t.Fatalf("expected module 5 available, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "research module5 2", testNow)
	if !strings.Contains(res.Message, "Researching Module 5 in lab-2") {
		t.Fatalf("expected research to start in lab 2, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "cancel 2", testNow)
	if !strings.Contains(res.Message, "won't get the costs back") {
		t.Fatalf("expected cancel warning, got %q", res.Message)
	}
}

func TestCommandReportsShortfalls(t *testing.T) {
	gc, c := newColonyForCommands(t)
	res := c.ExecuteCommand(gc, "craft battery", testNow)
	if !strings.Contains(res.Message, "Not enough Lithium") {
		t.Fatalf("expected lithium shortfall, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "craft warp drive", testNow)
	if !strings.Contains(res.Message, "Unknown recipe") {
		t.Fatalf("expected unknown recipe, got %q", res.Message)
	}
}

func TestCommandOrderAndInventory(t *testing.T) {
	gc, c := newColonyForCommands(t)
	money := c.Player.Money

	res := c.ExecuteCommand(gc, "order lithium 1", testNow)
	if !strings.Contains(res.Message, "Ordered 1 boxes of Lithium") {
		t.Fatalf("expected order confirmation, got %q", res.Message)
	}
	if c.Player.Money >= money {
		t.Fatalf("expected money spent")
	}
	res = c.ExecuteCommand(gc, "inventory", testNow)
	if !strings.Contains(res.Message, "Lithium 20") {
		t.Fatalf("expected lithium in inventory, got %q", res.Message)
	}
	res = c.ExecuteCommand(gc, "craft battery", testNow)
	if !strings.Contains(res.Message, "Crafting Battery") {
		t.Fatalf("expected battery crafting after order, got %q", res.Message)
	}
}

func TestCommandOrderRejectsHugeBoxCount(t *testing.T) {
	gc, c := newColonyForCommands(t)
	money := c.Player.Money
	boxes := len(c.Station.Ledger.Boxes)

	res := c.ExecuteCommand(gc, "order aluminium 46116860184273880", testNow)
	if !strings.Contains(res.Message, "order too large") {
		t.Fatalf("expected order rejected, got %q", res.Message)
	}
	if c.Player.Money != money || len(c.Station.Ledger.Boxes) != boxes {
		t.Fatalf("expected money and boxes unchanged")
	}
}

func TestCommandBioBoxCycle(t *testing.T) {
	gc, c := newColonyForCommands(t)
	if res := c.ExecuteCommand(gc, "grow", testNow); !strings.Contains(res.Message, "not found") {
		t.Fatalf("expected missing box, got %q", res.Message)
	}
	c.Station.BioBoxes = append(c.Station.BioBoxes, NewBioBox("BANANA", 10))
	c.Station.BioBoxes[0].Population = []string{"BANANA", "BANANA"}

	if res := c.ExecuteCommand(gc, "multiply 1", testNow); !strings.Contains(res.Message, "4 perfect BANANA") {
		t.Fatalf("expected multiply result, got %q", res.Message)
	}
	c.Station.Ledger.ConsumeContainers(IngredientFood, 50)
	if res := c.ExecuteCommand(gc, "harvest", testNow); !strings.Contains(res.Message, "Harvested 20 food") {
		t.Fatalf("expected harvest result, got %q", res.Message)
	}
}

func TestCommandPowerSwitchesPeripherals(t *testing.T) {
	gc, c := newColonyForCommands(t)

	res := c.ExecuteCommand(gc, "power scrubber off", testNow)
	if !strings.Contains(res.Message, "1 CO2 Scrubber switched off") {
		t.Fatalf("expected scrubber switched off, got %q", res.Message)
	}
	for _, p := range c.Station.Peripherals {
		if p.Type == PeripheralScrubberCO2 && p.PowerOn {
			t.Fatalf("expected scrubber powered off")
		}
	}
	reports := c.Station.RunAccounting(gc, testNow.Add(time.Hour))
	if reports[0].EnergyConsumed != PeripheralCondensator.EnergyCost() {
		t.Fatalf("expected only the condensator to draw power, got %d", reports[0].EnergyConsumed)
	}

	if res := c.ExecuteCommand(gc, "power methanizer on", testNow); res.Message != "No Methanizer installed." {
		t.Fatalf("expected missing methanizer, got %q", res.Message)
	}
	if res := c.ExecuteCommand(gc, "power toaster off", testNow); !strings.Contains(res.Message, "Unknown peripheral") {
		t.Fatalf("expected unknown peripheral, got %q", res.Message)
	}
	if res := c.ExecuteCommand(gc, "power scrubber sideways", testNow); !strings.Contains(res.Message, "Usage") {
		t.Fatalf("expected usage, got %q", res.Message)
	}
}

func TestCommandMountAndUnmountParts(t *testing.T) {
	gc, c := newColonyForCommands(t)

	res := c.ExecuteCommand(gc, "unmount solar slot 1", testNow)
	if !strings.Contains(res.Message, "taken off truss slot 1") {
		t.Fatalf("expected panel unmounted, got %q", res.Message)
	}
	if c.Station.Ledger.CountSlots(SlotSolar) != starterPanels-1 || len(c.Station.SpareParts) != 1 {
		t.Fatalf("expected one panel moved to spares, got %d mounted %v spare", c.Station.Ledger.CountSlots(SlotSolar), c.Station.SpareParts)
	}

	res = c.ExecuteCommand(gc, "mount solar panel", testNow)
	if !strings.Contains(res.Message, "mounted on truss slot 1") {
		t.Fatalf("expected spare mounted in the first free slot, got %q", res.Message)
	}
	if c.Station.Ledger.CountSlots(SlotSolar) != starterPanels || len(c.Station.SpareParts) != 0 {
		t.Fatalf("expected spare back on the truss, got %v", c.Station.SpareParts)
	}

	if res := c.ExecuteCommand(gc, "mount radiator", testNow); !strings.Contains(res.Message, "Failed") {
		t.Fatalf("expected mounting without a spare to fail, got %q", res.Message)
	}
	if res := c.ExecuteCommand(gc, "unmount solar", testNow); !strings.Contains(res.Message, "Usage") {
		t.Fatalf("expected unmount to need a slot, got %q", res.Message)
	}
	c.ExecuteCommand(gc, "unmount radiator 1", testNow)
	if len(c.Station.SpareParts) != 0 || c.Station.Ledger.CountSlots(SlotSolar) != starterPanels {
		t.Fatalf("expected a radiator unmount from a solar slot to change nothing")
	}
}

func TestCommandAccountAndMessages(t *testing.T) {
	gc, c := newColonyForCommands(t)
	if res := c.ExecuteCommand(gc, "account", testNow.Add(2*time.Hour)); !strings.Contains(res.Message, "Ran 2 accounting ticks") {
		t.Fatalf("expected two ticks, got %q", res.Message)
	}
	gc.Board.Post(MessageSystem, "supply drop incoming", testNow)
	if res := c.ExecuteCommand(gc, "messages", testNow); !strings.Contains(res.Message, "supply drop incoming") {
		t.Fatalf("expected message listed, got %q", res.Message)
	}
	if res := c.ExecuteCommand(gc, "messages", testNow); res.Message != "No new messages." {
		t.Fatalf("expected inbox cleared, got %q", res.Message)
	}
}

func TestCommandAccountIncludesCity(t *testing.T) {
	gc, c := newColonyForCommands(t)
	c.City = NewCity(gc, "Tycho", c.Player.ID, 3, testNow)

	res := c.ExecuteCommand(gc, "account", testNow.Add(2*time.Hour))
	if !strings.Contains(res.Message, "Ran 2 accounting ticks") || !strings.Contains(res.Message, "City Tycho: 2 ticks") {
		t.Fatalf("expected station and city ticks, got %q", res.Message)
	}
	if !c.City.AccountingDate.Equal(testNow.Add(2 * time.Hour)) {
		t.Fatalf("expected city accounting date advanced, got %v", c.City.AccountingDate)
	}
	if res := c.ExecuteCommand(gc, "status", testNow.Add(2*time.Hour)); !strings.Contains(res.Message, "City Tycho: 6 people") {
		t.Fatalf("expected city in status, got %q", res.Message)
	}

	reports := c.RunAccounting(gc, testNow.Add(3*time.Hour))
	if len(reports) != 1 || !c.City.AccountingDate.Equal(testNow.Add(3*time.Hour)) {
		t.Fatalf("expected colony accounting to advance station and city, got %d reports, city at %v", len(reports), c.City.AccountingDate)
	}
}

func TestSelectWorkersCoversSkills(t *testing.T) {
	_, s := newTestStation(t, nil)
	ids := selectWorkers(map[Skill]int{SkillMechanic: 1, SkillElectric: 1}, s.People)
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Fatalf("expected p1 and p2, got %v", ids)
	}
	if ids := selectWorkers(map[Skill]int{SkillDatacomm: 1}, s.People); len(ids) != 0 {
		t.Fatalf("expected nobody for datacomm, got %v", ids)
	}
}

func TestExtractNumber(t *testing.T) {
	n, rest := extractNumber([]string{"solar", "panel", "2"}, 1)
	if n != 2 || strings.Join(rest, " ") != "solar panel" {
		t.Fatalf("expected 2 and solar panel, got %d %v", n, rest)
	}
	n, rest = extractNumber([]string{"module5"}, 1)
	if n != 1 || len(rest) != 1 {
		t.Fatalf("expected fallback 1, got %d %v", n, rest)
	}
}
