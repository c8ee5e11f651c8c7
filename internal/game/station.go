package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	starterBatteries = 4
	starterPeople    = 3
	starterLabs      = 2
	starterPanels    = 2
)

var starterTanks = []TankType{TankO2, TankO2, TankH2O, TankH2O, TankN2, TankEmpty, TankEmpty}

var starterBoxes = map[Ingredient]int{
	IngredientAluminium: 20,
	IngredientSteel:     20,
	IngredientCopper:    10,
	IngredientGlass:     10,
	IngredientPolimer:   10,
	IngredientFood:      100,
}

// Station is the orbital truss: a habitat plus the tech tree it researches.
type Station struct {
	ID string `json:"id"`
	Habitat
	Tree       *TechTree  `json:"tree"`
	Modules    int        `json:"modules"`
	SpareParts []SlotType `json:"spare_parts,omitempty"`
}

// ActivityResult describes a collected lab activity.
type ActivityResult struct {
	Kind     ActivityKind `json:"kind"`
	Message  string       `json:"message"`
	Unlocked []TechItem   `json:"unlocked,omitempty"`
}

func NewStation(gc *GameContext, now time.Time) *Station {
	s := &Station{
		ID:      uuid.NewString(),
		Tree:    NewTechTree(now),
		Modules: 1,
	}
	s.Ledger.Components = NewTrussComponents()
	for _, t := range starterTanks {
		s.Ledger.AddTank(t)
	}
	for range starterBatteries {
		s.Ledger.AddBattery(NewBattery(true))
	}
	for _, ingredient := range AllIngredients() {
		if qty, ok := starterBoxes[ingredient]; ok {
			s.Ledger.AddStorageBox(NewStorageBox(ingredient, qty))
		}
	}
	s.Ledger.AddStorageBox(NewStorageBox(IngredientWasteLiquid, 0))
	s.Ledger.AddStorageBox(NewStorageBox(IngredientWasteSolid, 0))
	s.Ledger.AddStorageBox(NewStorageBox(IngredientFertilizer, 0))
	for i := range starterPanels {
		if err := s.Ledger.Insert(i, SlotSolar, uuid.NewString()); err != nil {
			panic(err)
		}
	}

	s.Air = NewAirComposition(gc.Settings.StationAirVolume)
	s.People = gc.People.GenerateN(starterPeople)
	s.AddPeripheral(PeripheralScrubberCO2)
	s.AddPeripheral(PeripheralCondensator)
	for i := range starterLabs {
		s.Labs = append(s.Labs, Lab{ID: fmt.Sprintf("lab-%d", i+1)})
	}
	s.AccountingDate = now
	return s
}

// StartRecipe begins crafting in an idle lab. Nothing is consumed unless
// every check passes.
func (s *Station) StartRecipe(gc *GameContext, labID string, recipe Recipe, workerIDs []string, now time.Time) (*LabActivity, error) {
	log := gc.log("start_recipe")
	lab, err := s.Lab(labID)
	if err != nil {
		return nil, err
	}
	if lab.Busy() {
		return nil, fmt.Errorf("%s: %w", labID, ErrLabBusy)
	}
	if gate, ok := recipe.TechGate(); ok && !s.Tree.IsItemComplete(gate, now) {
		log.Warn("recipe locked behind research", "recipe", recipe, "tech", gate)
		return nil, fmt.Errorf("%s needs %s: %w", recipe.Name(), gate.Name(), ErrNotUnlocked)
	}
	workers, err := s.workers(workerIDs, now)
	if err != nil {
		return nil, err
	}
	if missing := ValidateSkills(recipe.Skills(), workers); len(missing) > 0 {
		return nil, &SkillShortfallError{Missing: missing}
	}
	if lacking := s.Ledger.ConsumeIngredients(recipe.Ingredients()); len(lacking) > 0 {
		return nil, &ResourceShortfallError{Lacking: lacking}
	}

	activity := NewLabActivity(RecipeActivity(recipe), labID, workerIDs, now)
	lab.Activity = activity
	s.assignWorkers(workerIDs, activity.DateEnds)
	log.Info("recipe started", "recipe", recipe, "lab", labID, "ends", activity.DateEnds)
	gc.persistStation(s)
	return activity, nil
}

// StartResearch begins research on an unlocked, unstarted node. Skills,
// ingredients and energy are all checked before anything is consumed.
func (s *Station) StartResearch(gc *GameContext, labID string, item TechItem, workerIDs []string, now time.Time) (*LabActivity, error) {
	log := gc.log("start_research")
	lab, err := s.Lab(labID)
	if err != nil {
		return nil, err
	}
	if lab.Busy() {
		return nil, fmt.Errorf("%s: %w", labID, ErrLabBusy)
	}
	id, ok := s.Tree.Search(item)
	if !ok {
		return nil, fmt.Errorf("tech %q: %w", item, ErrUnknownItem)
	}
	node, _ := s.Tree.Node(id)
	if !node.Unlocked {
		log.Warn("research on locked node rejected", "tech", item)
		return nil, fmt.Errorf("%s: %w", item.Name(), ErrNotUnlocked)
	}
	if node.DateStarted != nil {
		log.Warn("research already started", "tech", item)
		return nil, fmt.Errorf("%s: %w", item.Name(), ErrAlreadyStarted)
	}
	workers, err := s.workers(workerIDs, now)
	if err != nil {
		return nil, err
	}
	if missing := ValidateSkills(item.Skills(), workers); len(missing) > 0 {
		return nil, &SkillShortfallError{Missing: missing}
	}
	if lacking := s.Ledger.ValidateResources(item.Ingredients()); len(lacking) > 0 {
		return nil, &ResourceShortfallError{Lacking: lacking}
	}
	if s.Ledger.TotalEnergy() < item.EnergyCost() {
		return nil, fmt.Errorf("%s needs %d energy: %w", item.Name(), item.EnergyCost(), ErrInsufficientEnergy)
	}

	s.Ledger.ConsumeIngredients(item.Ingredients())
	s.Ledger.ConsumeEnergy(item.EnergyCost())
	if err := s.Tree.StartResearch(id, now); err != nil {
		return nil, err
	}

	activity := NewLabActivity(TechActivity(item), labID, workerIDs, now)
	lab.Activity = activity
	s.assignWorkers(workerIDs, activity.DateEnds)
	log.Info("research started", "tech", item, "lab", labID, "ends", activity.DateEnds)
	gc.persistStation(s)
	return activity, nil
}

// CollectActivity finishes the lab's activity once its end date has passed,
// applies what it produced and frees the lab and its workers.
func (s *Station) CollectActivity(gc *GameContext, labID string, now time.Time) (ActivityResult, error) {
	lab, err := s.Lab(labID)
	if err != nil {
		return ActivityResult{}, err
	}
	activity := lab.Activity
	if activity == nil {
		return ActivityResult{}, fmt.Errorf("%s: %w", labID, ErrLabIdle)
	}
	if !activity.IsFinished(now) {
		return ActivityResult{}, fmt.Errorf("%s ready in %s: %w", activity.Kind.Name(), activity.Remaining(now).Round(time.Minute), ErrNotFinished)
	}

	result := ActivityResult{Kind: activity.Kind}
	switch activity.Kind.Type {
	case ActivityRecipe:
		result.Message = s.applyOutcome(gc, activity.Kind.Recipe)
	case ActivityTech:
		id, ok := s.Tree.Search(activity.Kind.Tech)
		if ok && s.Tree.PollAndAdvance(id, now) {
			node, _ := s.Tree.Node(id)
			for _, child := range node.Children {
				n, _ := s.Tree.Node(child)
				result.Unlocked = append(result.Unlocked, n.Item)
			}
		}
		result.Message = fmt.Sprintf("Research on %s complete.", activity.Kind.Tech.Name())
	}

	s.releaseWorkers(activity.WorkerIDs)
	lab.Activity = nil
	gc.Board.Post(MessageAchievement, result.Message, now)
	gc.log("collect_activity").Info("activity collected", "activity", activity.Kind.Name(), "lab", labID)
	gc.persistStation(s)
	return result, nil
}

// CancelActivity drops the lab's activity. Spent resources are not refunded.
// A cancelled research node can be started again.
func (s *Station) CancelActivity(gc *GameContext, labID string) error {
	lab, err := s.Lab(labID)
	if err != nil {
		return err
	}
	activity := lab.Activity
	if activity == nil {
		return fmt.Errorf("%s: %w", labID, ErrLabIdle)
	}
	if activity.Kind.Type == ActivityTech {
		if id, ok := s.Tree.Search(activity.Kind.Tech); ok {
			s.Tree.Nodes[id].DateStarted = nil
		}
	}
	s.releaseWorkers(activity.WorkerIDs)
	lab.Activity = nil
	gc.log("cancel_activity").Info("activity cancelled", "activity", activity.Kind.Name(), "lab", labID)
	gc.persistStation(s)
	return nil
}

func (s *Station) applyOutcome(gc *GameContext, recipe Recipe) string {
	outcome := recipe.Outcome()
	switch outcome.Kind {
	case OutcomeStructure:
		s.Modules++
		s.Air.MergeWith(outcome.AirVolume)
		return fmt.Sprintf("%s attached to the station.", recipe.Name())
	case OutcomeTank:
		if !s.Ledger.AddTank(TankEmpty) {
			return fmt.Sprintf("Tank built but the station already holds %d tanks.", MaxTanks)
		}
		return "New empty tank ready."
	case OutcomeBattery:
		s.Ledger.AddBattery(NewBattery(false))
		return "New battery installed."
	case OutcomePeripheral:
		s.AddPeripheral(outcome.Peripheral)
		return fmt.Sprintf("%s installed and powered on.", outcome.Peripheral.Name())
	case OutcomeTrussPart:
		if index, ok := s.Ledger.FirstFreeSlot(outcome.Part); ok {
			if err := s.Ledger.Insert(index, outcome.Part, uuid.NewString()); err == nil {
				return fmt.Sprintf("%s mounted on truss slot %d.", recipe.Name(), index+1)
			}
		}
		s.SpareParts = append(s.SpareParts, outcome.Part)
		return fmt.Sprintf("%s stored as a spare part, no free slot.", recipe.Name())
	case OutcomeBioBox:
		s.BioBoxes = append(s.BioBoxes, NewBioBox(gc.DNA.Pick(perfectDNAOptions), defaultPopulationLimit))
		return fmt.Sprintf("Bio box %d ready to grow.", len(s.BioBoxes))
	default:
		return fmt.Sprintf("%s finished.", recipe.Name())
	}
}

// MountSpare moves a spare part into the given truss slot.
func (s *Station) MountSpare(index int, part SlotType) error {
	at := -1
	for i, spare := range s.SpareParts {
		if spare == part {
			at = i
			break
		}
	}
	if at < 0 {
		return fmt.Errorf("spare %s: %w", part, ErrNotFound)
	}
	if err := s.Ledger.Insert(index, part, uuid.NewString()); err != nil {
		return err
	}
	s.SpareParts = append(s.SpareParts[:at], s.SpareParts[at+1:]...)
	return nil
}

// UnmountPart takes a part off the truss and keeps it as a spare.
func (s *Station) UnmountPart(index int, part SlotType) error {
	if _, err := s.Ledger.Remove(index, part); err != nil {
		return err
	}
	s.SpareParts = append(s.SpareParts, part)
	return nil
}

// RunAccounting runs the habitat accounting and saves the station when any
// tick ran.
func (s *Station) RunAccounting(gc *GameContext, now time.Time) []AccountingReport {
	reports := s.Habitat.RunAccounting(gc, now)
	if len(reports) > 0 {
		gc.persistStation(s)
	}
	return reports
}

// IsInvalidTransition reports whether err is a rejected state change as
// opposed to a shortage.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrNotUnlocked) ||
		errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrLabBusy) ||
		errors.Is(err, ErrLabIdle) ||
		errors.Is(err, ErrSlotOccupied)
}
