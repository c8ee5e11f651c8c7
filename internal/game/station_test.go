package game

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type recordingSaver struct {
	stations int
	cities   int
	players  int
	err      error
}

func (r *recordingSaver) SaveStation(context.Context, *Station) error {
	r.stations++
	return r.err
}

func (r *recordingSaver) SaveCity(context.Context, *City) error {
	r.cities++
	return r.err
}

func (r *recordingSaver) SavePlayer(context.Context, *Player) error {
	r.players++
	return r.err
}

// newTestStation replaces the generated crew with people whose skills the
// tests can rely on.
func newTestStation(t *testing.T, saver Saver) (*GameContext, *Station) {
	t.Helper()
	gc := NewGameContext(DefaultSettings(), 42, saver, nil)
	s := NewStation(gc, testNow)
	s.People = []Person{
		{ID: "p1", Name: "Mechanic", Skills: map[Skill]int{SkillMechanic: 3, SkillHandy: 2}, Happiness: 80, Healthy: true},
		{ID: "p2", Name: "Engineer", Skills: map[Skill]int{SkillElectric: 2, SkillSystemOS: 2}, Happiness: 80, Healthy: true},
		{ID: "p3", Name: "Biologist", Skills: map[Skill]int{SkillBiologic: 2, SkillMaterial: 2, SkillMedic: 1}, Happiness: 80, Healthy: true},
	}
	return gc, s
}

func TestNewStationStarterInventory(t *testing.T) {
	gc := newTestContext(t)
	s := NewStation(gc, testNow)
	if len(s.People) != starterPeople || len(s.Labs) != starterLabs {
		t.Fatalf("expected %d people and %d labs, got %d and %d", starterPeople, starterLabs, len(s.People), len(s.Labs))
	}
	if s.Ledger.CountSlots(SlotSolar) != starterPanels {
		t.Fatalf("expected %d solar panels, got %d", starterPanels, s.Ledger.CountSlots(SlotSolar))
	}
	if s.Ledger.TotalEnergy() != starterBatteries*batteryCapacity {
		t.Fatalf("expected full batteries, got %d", s.Ledger.TotalEnergy())
	}
	if s.Air.Volume() == 0 || s.Air.AirQuality() != AirGreat {
		t.Fatalf("expected breathable air, got %+v", s.Air)
	}
	if s.Tree == nil || !s.Tree.IsResearchComplete(s.Tree.Root(), testNow) {
		t.Fatalf("expected a tree with a finished root")
	}
}

func TestStartRecipeCraftAndCollect(t *testing.T) {
	saver := &recordingSaver{}
	gc, s := newTestStation(t, saver)
	aluminium := s.Ledger.IngredientAmount(IngredientAluminium)
	tanks := len(s.Ledger.Tanks)

	activity, err := s.StartRecipe(gc, "lab-1", RecipeTank, []string{"p1"}, testNow)
	if err != nil {
		t.Fatalf("start recipe: %v", err)
	}
	if s.Ledger.IngredientAmount(IngredientAluminium) != aluminium-3 {
		t.Fatalf("expected 3 aluminium consumed, got %d left", s.Ledger.IngredientAmount(IngredientAluminium))
	}
	p1, _ := s.Person("p1")
	if !p1.IsBusy(testNow) {
		t.Fatalf("expected worker busy while crafting")
	}

	if _, err := s.StartRecipe(gc, "lab-1", RecipeTank, []string{"p1"}, testNow); !errors.Is(err, ErrLabBusy) {
		t.Fatalf("expected ErrLabBusy, got %v", err)
	}
	if _, err := s.CollectActivity(gc, "lab-1", testNow.Add(time.Minute)); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("expected ErrNotFinished, got %v", err)
	}

	result, err := s.CollectActivity(gc, "lab-1", activity.DateEnds)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if result.Kind.Recipe != RecipeTank || len(s.Ledger.Tanks) != tanks+1 {
		t.Fatalf("expected a new tank, got %d tanks (%+v)", len(s.Ledger.Tanks), result)
	}
	lab, _ := s.Lab("lab-1")
	if lab.Busy() {
		t.Fatalf("expected lab idle after collect")
	}
	if p1, _ := s.Person("p1"); p1.IsBusy(activity.DateEnds.Add(-time.Second)) {
		t.Fatalf("expected worker released after collect")
	}
	if saver.stations < 2 {
		t.Fatalf("expected station saved on start and collect, got %d saves", saver.stations)
	}
	if len(gc.Board.Unread()) == 0 {
		t.Fatalf("expected collect to post a message")
	}
}

func TestStartRecipeChecksBeforeConsuming(t *testing.T) {
	gc, s := newTestStation(t, nil)
	aluminium := s.Ledger.IngredientAmount(IngredientAluminium)

	if _, err := s.StartRecipe(gc, "lab-1", RecipeModule, []string{"p1"}, testNow); !errors.Is(err, ErrNotUnlocked) {
		t.Fatalf("expected module to be locked behind research, got %v", err)
	}

	var skills *SkillShortfallError
	if _, err := s.StartRecipe(gc, "lab-1", RecipeTank, []string{"p2"}, testNow); !errors.As(err, &skills) {
		t.Fatalf("expected SkillShortfallError, got %v", err)
	}
	if !slices.Equal(skills.Missing, []Skill{SkillHandy}) {
		t.Fatalf("expected handy missing, got %v", skills.Missing)
	}

	var resources *ResourceShortfallError
	if _, err := s.StartRecipe(gc, "lab-1", RecipeBattery, []string{"p2"}, testNow); !errors.As(err, &resources) {
		t.Fatalf("expected ResourceShortfallError, got %v", err)
	}
	if !slices.Equal(resources.Lacking, []Ingredient{IngredientLithium}) {
		t.Fatalf("expected lithium lacking, got %v", resources.Lacking)
	}

	if s.Ledger.IngredientAmount(IngredientAluminium) != aluminium {
		t.Fatalf("expected nothing consumed by rejected recipes")
	}
	if lab, _ := s.Lab("lab-1"); lab.Busy() {
		t.Fatalf("expected lab still idle")
	}
}

func TestStartRecipeRejectsBusyWorker(t *testing.T) {
	gc, s := newTestStation(t, nil)
	if _, err := s.StartRecipe(gc, "lab-1", RecipeTank, []string{"p1"}, testNow); err != nil {
		t.Fatalf("start recipe: %v", err)
	}
	if _, err := s.StartRecipe(gc, "lab-2", RecipeRadiator, []string{"p1"}, testNow); !errors.Is(err, ErrWorkerBusy) {
		t.Fatalf("expected ErrWorkerBusy, got %v", err)
	}
}

func TestStartResearchLifecycle(t *testing.T) {
	gc, s := newTestStation(t, nil)

	if _, err := s.StartResearch(gc, "lab-1", TechModule5, []string{"p1"}, testNow); !errors.Is(err, ErrNotUnlocked) {
		t.Fatalf("expected ErrNotUnlocked before the root is polled, got %v", err)
	}

	s.Tree.PollAndAdvance(s.Tree.Root(), testNow)
	energy := s.Ledger.TotalEnergy()
	steel := s.Ledger.IngredientAmount(IngredientSteel)

	activity, err := s.StartResearch(gc, "lab-1", TechModule5, []string{"p1"}, testNow)
	if err != nil {
		t.Fatalf("start research: %v", err)
	}
	if s.Ledger.TotalEnergy() != energy-TechModule5.EnergyCost() {
		t.Fatalf("expected %d energy spent, got %d left", TechModule5.EnergyCost(), s.Ledger.TotalEnergy())
	}
	if s.Ledger.IngredientAmount(IngredientSteel) != steel-4 {
		t.Fatalf("expected 4 steel spent")
	}
	node, _ := s.Tree.Node(mustSearch(t, s.Tree, TechModule5))
	if node.DateStarted == nil || !node.DateStarted.Equal(testNow) {
		t.Fatalf("expected node started now, got %v", node.DateStarted)
	}

	if _, err := s.StartResearch(gc, "lab-2", TechModule5, []string{"p3"}, testNow); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	result, err := s.CollectActivity(gc, "lab-1", activity.DateEnds)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !slices.Equal(result.Unlocked, []TechItem{TechModule6, TechNode2}) {
		t.Fatalf("expected module6 and node2 unlocked, got %v", result.Unlocked)
	}
	s.Ledger.AddStorageBox(NewStorageBox(IngredientAluminium, 20))
	if _, err := s.StartRecipe(gc, "lab-1", RecipeModule, []string{"p1"}, activity.DateEnds); err != nil {
		t.Fatalf("expected module recipe available after research, got %v", err)
	}
}

func TestStartResearchNeedsEnergyBeforeConsuming(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Tree.PollAndAdvance(s.Tree.Root(), testNow)
	s.Ledger.ConsumeEnergy(s.Ledger.TotalEnergy() - 10)
	aluminium := s.Ledger.IngredientAmount(IngredientAluminium)

	if _, err := s.StartResearch(gc, "lab-1", TechModule5, []string{"p1"}, testNow); !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("expected ErrInsufficientEnergy, got %v", err)
	}
	if s.Ledger.IngredientAmount(IngredientAluminium) != aluminium || s.Ledger.TotalEnergy() != 10 {
		t.Fatalf("expected no resources consumed")
	}
	if node, _ := s.Tree.Node(mustSearch(t, s.Tree, TechModule5)); node.DateStarted != nil {
		t.Fatalf("expected node not started")
	}
}

func TestCancelResearchKeepsCostsAndFreesNode(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Tree.PollAndAdvance(s.Tree.Root(), testNow)
	if _, err := s.StartResearch(gc, "lab-1", TechModule5, []string{"p1"}, testNow); err != nil {
		t.Fatalf("start research: %v", err)
	}
	energy := s.Ledger.TotalEnergy()

	if err := s.CancelActivity(gc, "lab-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if s.Ledger.TotalEnergy() != energy {
		t.Fatalf("expected no refund on cancel")
	}
	if node, _ := s.Tree.Node(mustSearch(t, s.Tree, TechModule5)); node.DateStarted != nil {
		t.Fatalf("expected cancelled node to be startable again")
	}
	if p1, _ := s.Person("p1"); p1.IsBusy(testNow) {
		t.Fatalf("expected worker released")
	}
	if err := s.CancelActivity(gc, "lab-1"); !errors.Is(err, ErrLabIdle) {
		t.Fatalf("expected ErrLabIdle on idle lab, got %v", err)
	}
}

func TestSolarPanelOutcomeMountsOrStores(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.Ledger.AddStorageBox(NewStorageBox(IngredientSolarCell, 10))

	msg := s.applyOutcome(gc, RecipeSolarPanel)
	if s.Ledger.CountSlots(SlotSolar) != starterPanels+1 {
		t.Fatalf("expected panel mounted, got %q", msg)
	}
	for {
		if _, ok := s.Ledger.FirstFreeSlot(SlotSolar); !ok {
			break
		}
		s.applyOutcome(gc, RecipeSolarPanel)
	}
	s.applyOutcome(gc, RecipeSolarPanel)
	if !slices.Equal(s.SpareParts, []SlotType{SlotSolar}) {
		t.Fatalf("expected one spare panel, got %v", s.SpareParts)
	}
	if err := s.UnmountPart(0, SlotSolar); err != nil {
		t.Fatalf("unmount: %v", err)
	}
	if err := s.MountSpare(0, SlotSolar); err != nil {
		t.Fatalf("mount spare: %v", err)
	}
	if len(s.SpareParts) != 1 {
		t.Fatalf("expected one spare left, got %v", s.SpareParts)
	}
}

func TestStructureOutcomeAddsModuleAndAir(t *testing.T) {
	gc, s := newTestStation(t, nil)
	volume := s.Air.Volume()
	s.applyOutcome(gc, RecipeModule)
	if s.Modules != 2 || s.Air.Volume() <= volume {
		t.Fatalf("expected a second module with more air, got %d modules volume %d", s.Modules, s.Air.Volume())
	}
}

func TestBioBoxOutcomeUsesKnownDNA(t *testing.T) {
	gc, s := newTestStation(t, nil)
	s.applyOutcome(gc, RecipeBioBox)
	box, err := s.BioBox(1)
	if err != nil {
		t.Fatalf("bio box: %v", err)
	}
	if !slices.Contains(perfectDNAOptions, box.PerfectDNA) {
		t.Fatalf("unexpected perfect DNA %q", box.PerfectDNA)
	}
}

func TestSaveFailureDoesNotFailOperation(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	gc, s := newTestStation(t, saver)
	if _, err := s.StartRecipe(gc, "lab-1", RecipeTank, []string{"p1"}, testNow); err != nil {
		t.Fatalf("expected operation to succeed despite save failure, got %v", err)
	}
	if saver.stations != 1 {
		t.Fatalf("expected one save attempt, got %d", saver.stations)
	}
}
