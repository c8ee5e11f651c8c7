package game

import (
	"fmt"
	"strings"
)

type Ingredient string

const (
	IngredientAluminium    Ingredient = "aluminium"
	IngredientCopper       Ingredient = "copper"
	IngredientSteel        Ingredient = "steel"
	IngredientIron         Ingredient = "iron"
	IngredientGlass        Ingredient = "glass"
	IngredientPolimer      Ingredient = "polimer"
	IngredientLithium      Ingredient = "lithium"
	IngredientSilica       Ingredient = "silica"
	IngredientCeramic      Ingredient = "ceramic"
	IngredientSensor       Ingredient = "sensor"
	IngredientCircuitBoard Ingredient = "circuit_board"
	IngredientDCMotor      Ingredient = "dc_motor"
	IngredientSolarCell    Ingredient = "solar_cell"
	IngredientFood         Ingredient = "food"
	IngredientFertilizer   Ingredient = "fertilizer"
	IngredientWasteLiquid  Ingredient = "waste_liquid"
	IngredientWasteSolid   Ingredient = "waste_solid"
)

type IngredientSpec struct {
	ID          Ingredient
	Name        string
	Orderable   bool
	BoxCapacity int
	Price       int
}

var ingredientCatalog = []IngredientSpec{
	{ID: IngredientAluminium, Name: "Aluminium", Orderable: true, BoxCapacity: 20, Price: 10},
	{ID: IngredientCopper, Name: "Copper", Orderable: true, BoxCapacity: 20, Price: 12},
	{ID: IngredientSteel, Name: "Steel", Orderable: true, BoxCapacity: 20, Price: 8},
	{ID: IngredientIron, Name: "Iron", Orderable: true, BoxCapacity: 20, Price: 5},
	{ID: IngredientGlass, Name: "Glass", Orderable: true, BoxCapacity: 20, Price: 6},
	{ID: IngredientPolimer, Name: "Polimer", Orderable: true, BoxCapacity: 20, Price: 6},
	{ID: IngredientLithium, Name: "Lithium", Orderable: true, BoxCapacity: 20, Price: 18},
	{ID: IngredientSilica, Name: "Silica", Orderable: true, BoxCapacity: 20, Price: 4},
	{ID: IngredientCeramic, Name: "Ceramic", Orderable: true, BoxCapacity: 20, Price: 9},
	{ID: IngredientSensor, Name: "Sensor", Orderable: true, BoxCapacity: 10, Price: 30},
	{ID: IngredientCircuitBoard, Name: "Circuit Board", Orderable: true, BoxCapacity: 10, Price: 35},
	{ID: IngredientDCMotor, Name: "DC Motor", Orderable: true, BoxCapacity: 10, Price: 28},
	{ID: IngredientSolarCell, Name: "Solar Cell", Orderable: true, BoxCapacity: 10, Price: 25},
	{ID: IngredientFood, Name: "Food", Orderable: true, BoxCapacity: 100, Price: 2},
	{ID: IngredientFertilizer, Name: "Fertilizer", Orderable: true, BoxCapacity: 50, Price: 3},
	{ID: IngredientWasteLiquid, Name: "Liquid Waste", Orderable: false, BoxCapacity: 100},
	{ID: IngredientWasteSolid, Name: "Solid Waste", Orderable: false, BoxCapacity: 100},
}

func IngredientCatalog() []IngredientSpec {
	out := make([]IngredientSpec, len(ingredientCatalog))
	copy(out, ingredientCatalog)
	return out
}

func AllIngredients() []Ingredient {
	out := make([]Ingredient, 0, len(ingredientCatalog))
	for _, spec := range ingredientCatalog {
		out = append(out, spec.ID)
	}
	return out
}

func (i Ingredient) spec() (IngredientSpec, bool) {
	for _, spec := range ingredientCatalog {
		if spec.ID == i {
			return spec, true
		}
	}
	return IngredientSpec{}, false
}

func (i Ingredient) Name() string {
	if spec, ok := i.spec(); ok {
		return spec.Name
	}
	return string(i)
}

func (i Ingredient) Orderable() bool {
	spec, ok := i.spec()
	return ok && spec.Orderable
}

func (i Ingredient) BoxCapacity() int {
	spec, _ := i.spec()
	return spec.BoxCapacity
}

func (i Ingredient) Price() int {
	spec, _ := i.spec()
	return spec.Price
}

func ParseIngredient(raw string) (Ingredient, error) {
	id := Ingredient(normalizeCatalogID(raw))
	if _, ok := id.spec(); !ok {
		return "", fmt.Errorf("ingredient %q: %w", raw, ErrUnknownItem)
	}
	return id, nil
}

type Skill string

const (
	SkillBiologic Skill = "biologic"
	SkillDatacomm Skill = "datacomm"
	SkillElectric Skill = "electric"
	SkillMaterial Skill = "material"
	SkillMechanic Skill = "mechanic"
	SkillMedic    Skill = "medic"
	SkillHandy    Skill = "handy"
	SkillSystemOS Skill = "system_os"
)

func AllSkills() []Skill {
	return []Skill{
		SkillBiologic,
		SkillDatacomm,
		SkillElectric,
		SkillMaterial,
		SkillMechanic,
		SkillMedic,
		SkillHandy,
		SkillSystemOS,
	}
}

type TankType string

const (
	TankO2    TankType = "o2"
	TankCO2   TankType = "co2"
	TankN2    TankType = "n2"
	TankH2    TankType = "h2"
	TankCH4   TankType = "ch4"
	TankH2O   TankType = "h2o"
	TankAir   TankType = "air"
	TankEmpty TankType = "empty"
)

func AllTankTypes() []TankType {
	return []TankType{TankO2, TankCO2, TankN2, TankH2, TankCH4, TankH2O, TankAir, TankEmpty}
}

func (t TankType) Capacity() int {
	switch t {
	case TankH2O:
		return 250
	default:
		return 100
	}
}

func ParseTankType(raw string) (TankType, error) {
	id := TankType(normalizeCatalogID(raw))
	for _, t := range AllTankTypes() {
		if t == id {
			return t, nil
		}
	}
	return "", fmt.Errorf("tank %q: %w", raw, ErrUnknownItem)
}

func normalizeCatalogID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}
