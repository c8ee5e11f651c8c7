package game

import (
	"fmt"
	"maps"
	"time"
)

type Recipe string

const (
	RecipeModule        Recipe = "module"
	RecipeNode          Recipe = "node"
	RecipeTank          Recipe = "tank"
	RecipeBattery       Recipe = "battery"
	RecipeSolarPanel    Recipe = "solar_panel"
	RecipeRadiator      Recipe = "radiator"
	RecipeRoboarm       Recipe = "roboarm"
	RecipeScrubberCO2   Recipe = "scrubber_co2"
	RecipeElectrolizer  Recipe = "electrolizer"
	RecipeMethanizer    Recipe = "methanizer"
	RecipeCondensator   Recipe = "condensator"
	RecipeWaterFilter   Recipe = "water_filter"
	RecipeBioSolidifier Recipe = "bio_solidifier"
	RecipeBioBox        Recipe = "bio_box"
)

type OutcomeKind string

const (
	OutcomeStructure  OutcomeKind = "structure"
	OutcomeTank       OutcomeKind = "tank"
	OutcomeBattery    OutcomeKind = "battery"
	OutcomePeripheral OutcomeKind = "peripheral"
	OutcomeTrussPart  OutcomeKind = "truss_part"
	OutcomeBioBox     OutcomeKind = "bio_box"
)

// RecipeOutcome describes what a finished recipe adds to its station.
type RecipeOutcome struct {
	Kind       OutcomeKind
	Peripheral PeripheralType
	Part       SlotType
	AirVolume  int
}

type RecipeSpec struct {
	ID          Recipe
	Name        string
	Ingredients map[Ingredient]int
	Skills      map[Skill]int
	Duration    time.Duration
	TechGate    TechItem
	Outcome     RecipeOutcome
}

var recipeCatalog = []RecipeSpec{
	{
		ID:          RecipeModule,
		Name:        "Module",
		Ingredients: map[Ingredient]int{IngredientAluminium: 15, IngredientSteel: 10, IngredientGlass: 4},
		Skills:      map[Skill]int{SkillMechanic: 2, SkillHandy: 1},
		Duration:    4 * time.Hour,
		TechGate:    TechModule5,
		Outcome:     RecipeOutcome{Kind: OutcomeStructure, AirVolume: 400},
	},
	{
		ID:          RecipeNode,
		Name:        "Node",
		Ingredients: map[Ingredient]int{IngredientAluminium: 8, IngredientSteel: 6},
		Skills:      map[Skill]int{SkillMechanic: 1},
		Duration:    2 * time.Hour,
		TechGate:    TechNode2,
		Outcome:     RecipeOutcome{Kind: OutcomeStructure, AirVolume: 120},
	},
	{
		ID:          RecipeTank,
		Name:        "Tank",
		Ingredients: map[Ingredient]int{IngredientAluminium: 3, IngredientPolimer: 2},
		Skills:      map[Skill]int{SkillHandy: 1},
		Duration:    30 * time.Minute,
		Outcome:     RecipeOutcome{Kind: OutcomeTank},
	},
	{
		ID:          RecipeBattery,
		Name:        "Battery",
		Ingredients: map[Ingredient]int{IngredientLithium: 4, IngredientCopper: 2, IngredientPolimer: 1},
		Skills:      map[Skill]int{SkillElectric: 1},
		Duration:    45 * time.Minute,
		Outcome:     RecipeOutcome{Kind: OutcomeBattery},
	},
	{
		ID:          RecipeSolarPanel,
		Name:        "Solar Panel",
		Ingredients: map[Ingredient]int{IngredientSolarCell: 4, IngredientGlass: 2, IngredientAluminium: 2},
		Skills:      map[Skill]int{SkillElectric: 1, SkillHandy: 1},
		Duration:    time.Hour,
		Outcome:     RecipeOutcome{Kind: OutcomeTrussPart, Part: SlotSolar},
	},
	{
		ID:          RecipeRadiator,
		Name:        "Radiator",
		Ingredients: map[Ingredient]int{IngredientCopper: 4, IngredientAluminium: 3},
		Skills:      map[Skill]int{SkillMechanic: 1},
		Duration:    time.Hour,
		Outcome:     RecipeOutcome{Kind: OutcomeTrussPart, Part: SlotRadiator},
	},
	{
		ID:          RecipeRoboarm,
		Name:        "Robotic Arm",
		Ingredients: map[Ingredient]int{IngredientDCMotor: 3, IngredientSteel: 4, IngredientCircuitBoard: 2, IngredientSensor: 1},
		Skills:      map[Skill]int{SkillMechanic: 2, SkillSystemOS: 1},
		Duration:    3 * time.Hour,
		TechGate:    TechRobotics,
		Outcome:     RecipeOutcome{Kind: OutcomeTrussPart, Part: SlotRoboArm},
	},
	{
		ID:          RecipeScrubberCO2,
		Name:        "CO2 Scrubber",
		Ingredients: map[Ingredient]int{IngredientCeramic: 3, IngredientCopper: 1, IngredientSensor: 1},
		Skills:      map[Skill]int{SkillMechanic: 1},
		Duration:    time.Hour,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralScrubberCO2},
	},
	{
		ID:          RecipeElectrolizer,
		Name:        "Electrolizer",
		Ingredients: map[Ingredient]int{IngredientCopper: 3, IngredientCircuitBoard: 1, IngredientPolimer: 2},
		Skills:      map[Skill]int{SkillElectric: 2},
		Duration:    90 * time.Minute,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralElectrolizer},
	},
	{
		ID:          RecipeMethanizer,
		Name:        "Methanizer",
		Ingredients: map[Ingredient]int{IngredientSteel: 4, IngredientCeramic: 2, IngredientCircuitBoard: 1},
		Skills:      map[Skill]int{SkillMechanic: 1, SkillMaterial: 1},
		Duration:    2 * time.Hour,
		TechGate:    TechMethanation,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralMethanizer},
	},
	{
		ID:          RecipeCondensator,
		Name:        "Condensator",
		Ingredients: map[Ingredient]int{IngredientCopper: 2, IngredientAluminium: 2},
		Skills:      map[Skill]int{SkillHandy: 1},
		Duration:    time.Hour,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralCondensator},
	},
	{
		ID:          RecipeWaterFilter,
		Name:        "Water Filter",
		Ingredients: map[Ingredient]int{IngredientPolimer: 3, IngredientSilica: 4},
		Skills:      map[Skill]int{SkillMaterial: 1},
		Duration:    time.Hour,
		TechGate:    TechRecycling,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralWaterFilter},
	},
	{
		ID:          RecipeBioSolidifier,
		Name:        "Bio Solidifier",
		Ingredients: map[Ingredient]int{IngredientSteel: 3, IngredientDCMotor: 1},
		Skills:      map[Skill]int{SkillBiologic: 1, SkillMechanic: 1},
		Duration:    90 * time.Minute,
		TechGate:    TechRecycling,
		Outcome:     RecipeOutcome{Kind: OutcomePeripheral, Peripheral: PeripheralBioSolidifier},
	},
	{
		ID:          RecipeBioBox,
		Name:        "Bio Box",
		Ingredients: map[Ingredient]int{IngredientGlass: 3, IngredientFertilizer: 5, IngredientSensor: 1},
		Skills:      map[Skill]int{SkillBiologic: 2},
		Duration:    2 * time.Hour,
		TechGate:    TechBioLab,
		Outcome:     RecipeOutcome{Kind: OutcomeBioBox},
	},
}

func RecipeCatalog() []RecipeSpec {
	out := make([]RecipeSpec, 0, len(recipeCatalog))
	for _, spec := range recipeCatalog {
		spec.Ingredients = maps.Clone(spec.Ingredients)
		spec.Skills = maps.Clone(spec.Skills)
		out = append(out, spec)
	}
	return out
}

func AllRecipes() []Recipe {
	out := make([]Recipe, 0, len(recipeCatalog))
	for _, spec := range recipeCatalog {
		out = append(out, spec.ID)
	}
	return out
}

func (r Recipe) spec() (RecipeSpec, bool) {
	for _, spec := range recipeCatalog {
		if spec.ID == r {
			return spec, true
		}
	}
	return RecipeSpec{}, false
}

func (r Recipe) Name() string {
	if spec, ok := r.spec(); ok {
		return spec.Name
	}
	return string(r)
}

func (r Recipe) Ingredients() map[Ingredient]int {
	spec, _ := r.spec()
	return maps.Clone(spec.Ingredients)
}

func (r Recipe) Skills() map[Skill]int {
	spec, _ := r.spec()
	return maps.Clone(spec.Skills)
}

func (r Recipe) Duration() time.Duration {
	spec, _ := r.spec()
	return spec.Duration
}

func (r Recipe) TechGate() (TechItem, bool) {
	spec, _ := r.spec()
	return spec.TechGate, spec.TechGate != ""
}

func (r Recipe) Outcome() RecipeOutcome {
	spec, _ := r.spec()
	return spec.Outcome
}

func ParseRecipe(raw string) (Recipe, error) {
	id := Recipe(normalizeCatalogID(raw))
	if _, ok := id.spec(); !ok {
		return "", fmt.Errorf("recipe %q: %w", raw, ErrUnknownItem)
	}
	return id, nil
}
