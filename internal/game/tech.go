package game

import (
	"fmt"
	"maps"
	"time"
)

type TechItem string

const (
	TechModule4     TechItem = "module4"
	TechModule5     TechItem = "module5"
	TechModule6     TechItem = "module6"
	TechModule7     TechItem = "module7"
	TechModule8     TechItem = "module8"
	TechModule9     TechItem = "module9"
	TechNode2       TechItem = "node2"
	TechNode3       TechItem = "node3"
	TechNode4       TechItem = "node4"
	TechCuppola     TechItem = "cuppola"
	TechAntenna     TechItem = "antenna"
	TechAntennaUp   TechItem = "antenna_up"
	TechAirlock     TechItem = "airlock"
	TechGarage      TechItem = "garage"
	TechGarageArm   TechItem = "garage_arm"
	TechRobotics    TechItem = "robotics"
	TechMethanation TechItem = "methanation"
	TechRecycling   TechItem = "recycling"
	TechBioLab      TechItem = "bio_lab"
	TechGenetics    TechItem = "genetics"
)

type TechSpec struct {
	ID          TechItem
	Name        string
	Description string
	Ingredients map[Ingredient]int
	EnergyCost  int
	Duration    time.Duration
	Skills      map[Skill]int
}

var techCatalog = []TechSpec{
	{ID: TechModule4, Name: "Module 4", Description: "First habitation module past the docking node.", Duration: time.Hour},
	{
		ID: TechModule5, Name: "Module 5", Description: "Unlocks building habitation modules.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 6, IngredientSteel: 4},
		EnergyCost:  40, Duration: 2 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 1},
	},
	{
		ID: TechModule6, Name: "Module 6", Description: "Extends the station spine.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 8, IngredientSteel: 6},
		EnergyCost:  60, Duration: 4 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 2},
	},
	{
		ID: TechModule7, Name: "Module 7", Description: "Adds a second lab bay.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 10, IngredientSteel: 8, IngredientGlass: 2},
		EnergyCost:  80, Duration: 6 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 2, SkillHandy: 1},
	},
	{
		ID: TechModule8, Name: "Module 8", Description: "Heavy module with reinforced truss mounts.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 12, IngredientSteel: 10, IngredientCeramic: 2},
		EnergyCost:  100, Duration: 8 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 3},
	},
	{
		ID: TechModule9, Name: "Module 9", Description: "Final module of the station ring.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 14, IngredientSteel: 12, IngredientCeramic: 4},
		EnergyCost:  120, Duration: 12 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 3, SkillSystemOS: 1},
	},
	{
		ID: TechNode2, Name: "Node 2", Description: "Unlocks building connection nodes.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 4},
		EnergyCost:  20, Duration: time.Hour,
		Skills: map[Skill]int{SkillHandy: 1},
	},
	{
		ID: TechNode3, Name: "Node 3", Description: "Second docking port.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 6, IngredientSteel: 2},
		EnergyCost:  30, Duration: 2 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 1},
	},
	{
		ID: TechNode4, Name: "Node 4", Description: "Third docking port.",
		Ingredients: map[Ingredient]int{IngredientAluminium: 8, IngredientSteel: 4},
		EnergyCost:  40, Duration: 3 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 2},
	},
	{
		ID: TechCuppola, Name: "Cuppola", Description: "Observation dome.",
		Ingredients: map[Ingredient]int{IngredientGlass: 6, IngredientAluminium: 4},
		EnergyCost:  30, Duration: 2 * time.Hour,
		Skills: map[Skill]int{SkillHandy: 1, SkillMaterial: 1},
	},
	{
		ID: TechAntenna, Name: "Antenna", Description: "Long range link with Earth.",
		Ingredients: map[Ingredient]int{IngredientCopper: 4, IngredientCircuitBoard: 1},
		EnergyCost:  40, Duration: 3 * time.Hour,
		Skills: map[Skill]int{SkillDatacomm: 1, SkillElectric: 1},
	},
	{
		ID: TechAntennaUp, Name: "Antenna Upgrade", Description: "Higher bandwidth for guild traffic.",
		Ingredients: map[Ingredient]int{IngredientCopper: 6, IngredientCircuitBoard: 2, IngredientSensor: 1},
		EnergyCost:  60, Duration: 6 * time.Hour,
		Skills: map[Skill]int{SkillDatacomm: 2},
	},
	{
		ID: TechAirlock, Name: "Airlock", Description: "External access without venting the station.",
		Ingredients: map[Ingredient]int{IngredientSteel: 6, IngredientSensor: 1},
		EnergyCost:  50, Duration: 4 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 1, SkillSystemOS: 1},
	},
	{
		ID: TechGarage, Name: "Garage", Description: "Builds and launches space vehicles.",
		Ingredients: map[Ingredient]int{IngredientSteel: 10, IngredientAluminium: 6},
		EnergyCost:  80, Duration: 6 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 2},
	},
	{
		ID: TechGarageArm, Name: "Garage Arm", Description: "Robotic arm for the garage bay.",
		Ingredients: map[Ingredient]int{IngredientDCMotor: 2, IngredientSteel: 4},
		EnergyCost:  60, Duration: 4 * time.Hour,
		Skills: map[Skill]int{SkillMechanic: 2, SkillElectric: 1},
	},
	{
		ID: TechRobotics, Name: "Robotics", Description: "Unlocks building robotic arms for the truss.",
		Ingredients: map[Ingredient]int{IngredientCircuitBoard: 2, IngredientDCMotor: 2},
		EnergyCost:  80, Duration: 6 * time.Hour,
		Skills: map[Skill]int{SkillSystemOS: 2, SkillMechanic: 1},
	},
	{
		ID: TechMethanation, Name: "Methanation", Description: "Unlocks the methanizer (CO2 + H2 -> CH4 + H2O).",
		Ingredients: map[Ingredient]int{IngredientCeramic: 4, IngredientSteel: 2},
		EnergyCost:  60, Duration: 4 * time.Hour,
		Skills: map[Skill]int{SkillMaterial: 2},
	},
	{
		ID: TechRecycling, Name: "Recycling", Description: "Unlocks the water filter and bio solidifier.",
		Ingredients: map[Ingredient]int{IngredientPolimer: 4, IngredientSilica: 4},
		EnergyCost:  40, Duration: 3 * time.Hour,
		Skills: map[Skill]int{SkillMaterial: 1, SkillBiologic: 1},
	},
	{
		ID: TechBioLab, Name: "Bio Lab", Description: "Unlocks bio boxes.",
		Ingredients: map[Ingredient]int{IngredientGlass: 4, IngredientSensor: 1},
		EnergyCost:  50, Duration: 4 * time.Hour,
		Skills: map[Skill]int{SkillBiologic: 1},
	},
	{
		ID: TechGenetics, Name: "Genetics", Description: "Faster DNA evolution in bio boxes.",
		Ingredients: map[Ingredient]int{IngredientSensor: 2, IngredientCircuitBoard: 1},
		EnergyCost:  70, Duration: 8 * time.Hour,
		Skills: map[Skill]int{SkillBiologic: 2, SkillMedic: 1},
	},
}

type techBranch struct {
	Item     TechItem
	Children []techBranch
}

var techTreeLayout = techBranch{
	Item: TechModule4,
	Children: []techBranch{
		{
			Item: TechModule5,
			Children: []techBranch{
				{
					Item: TechModule6,
					Children: []techBranch{
						{Item: TechModule7, Children: []techBranch{{Item: TechModule8, Children: []techBranch{{Item: TechModule9}}}}},
						{Item: TechBioLab, Children: []techBranch{{Item: TechGenetics}}},
					},
				},
				{Item: TechNode2, Children: []techBranch{{Item: TechNode3, Children: []techBranch{{Item: TechNode4}}}}},
			},
		},
		{
			Item: TechCuppola,
			Children: []techBranch{
				{Item: TechAntenna, Children: []techBranch{{Item: TechAntennaUp}}},
				{Item: TechAirlock},
				{Item: TechRecycling},
			},
		},
		{
			Item: TechGarage,
			Children: []techBranch{
				{Item: TechGarageArm, Children: []techBranch{{Item: TechRobotics}}},
				{Item: TechMethanation},
			},
		},
	},
}

func TechCatalog() []TechSpec {
	out := make([]TechSpec, 0, len(techCatalog))
	for _, spec := range techCatalog {
		spec.Ingredients = maps.Clone(spec.Ingredients)
		spec.Skills = maps.Clone(spec.Skills)
		out = append(out, spec)
	}
	return out
}

func AllTechItems() []TechItem {
	out := make([]TechItem, 0, len(techCatalog))
	for _, spec := range techCatalog {
		out = append(out, spec.ID)
	}
	return out
}

func (t TechItem) spec() (TechSpec, bool) {
	for _, spec := range techCatalog {
		if spec.ID == t {
			return spec, true
		}
	}
	return TechSpec{}, false
}

func (t TechItem) Name() string {
	if spec, ok := t.spec(); ok {
		return spec.Name
	}
	return string(t)
}

func (t TechItem) Description() string {
	spec, _ := t.spec()
	return spec.Description
}

func (t TechItem) Ingredients() map[Ingredient]int {
	spec, _ := t.spec()
	if spec.Ingredients == nil {
		return map[Ingredient]int{}
	}
	return maps.Clone(spec.Ingredients)
}

func (t TechItem) EnergyCost() int {
	spec, _ := t.spec()
	return spec.EnergyCost
}

func (t TechItem) Duration() time.Duration {
	spec, _ := t.spec()
	return spec.Duration
}

func (t TechItem) Skills() map[Skill]int {
	spec, _ := t.spec()
	if spec.Skills == nil {
		return map[Skill]int{}
	}
	return maps.Clone(spec.Skills)
}

func ParseTechItem(raw string) (TechItem, error) {
	id := TechItem(normalizeCatalogID(raw))
	if _, ok := id.spec(); !ok {
		return "", fmt.Errorf("tech %q: %w", raw, ErrUnknownItem)
	}
	return id, nil
}
