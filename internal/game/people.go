package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
)

var crewGivenNames = []string{
	"Ada", "Boris", "Chen", "Dara", "Elif",
	"Farid", "Greta", "Hiro", "Ines", "Jonas",
	"Kira", "Lars", "Mina", "Nikolai", "Oona",
	"Pavel", "Quinn", "Rosa", "Sven", "Tamsin",
	"Ugo", "Vera", "Wen", "Yara", "Zoltan",
}

var crewFamilyNames = []string{
	"Armstrong", "Baikonur", "Collins", "Dezhurov", "Eyharts",
	"Foale", "Gagarina", "Hadfield", "Ivanova", "Jemison",
	"Kelly", "Leonov", "Mukai", "Nespoli", "Onufriyenko",
	"Peake", "Ride", "Sharman", "Tereshkova", "Whitson",
}

var romanNumerals = []string{
	"", "II", "III", "IV", "V", "VI", "VII", "VIII",
}

const (
	minCrewAge       = 24
	maxCrewAge       = 58
	maxSkillLevel    = 5
	startHappiness   = 80
	skillsPerRecruit = 3
)

// Person is a station crew member. Skills are summed across the workers
// assigned to a job.
type Person struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Age       int           `json:"age"`
	Skills    map[Skill]int `json:"skills"`
	Happiness int           `json:"happiness"`
	Healthy   bool          `json:"healthy"`
	BusyUntil *time.Time    `json:"busy_until,omitempty"`
}

func (p Person) IsBusy(now time.Time) bool {
	return p.BusyUntil != nil && now.Before(*p.BusyUntil)
}

// ValidateSkills sums skill levels across workers and returns the skills
// that fall short, sorted. An empty result means the team qualifies.
func ValidateSkills(required map[Skill]int, workers []Person) []Skill {
	missing := make([]Skill, 0)
	for skill, level := range required {
		total := 0
		for _, w := range workers {
			total += w.Skills[skill]
		}
		if total < level {
			missing = append(missing, skill)
		}
	}
	slices.Sort(missing)
	return missing
}

// PersonGenerator produces recruits from a seeded source so a given seed
// always yields the same crew.
type PersonGenerator struct {
	rng  *rand.Rand
	used map[string]int
}

func NewPersonGenerator(seed int64) *PersonGenerator {
	return &PersonGenerator{rng: seededRNG(seed, "crew"), used: map[string]int{}}
}

func (g *PersonGenerator) Generate() Person {
	skills := map[Skill]int{}
	all := AllSkills()
	for range skillsPerRecruit {
		skill := all[g.rng.IntN(len(all))]
		skills[skill] = min(maxSkillLevel, skills[skill]+1+g.rng.IntN(3))
	}
	return Person{
		ID:        uuid.NewString(),
		Name:      generateName(g.rng, g.used),
		Age:       minCrewAge + g.rng.IntN(maxCrewAge-minCrewAge+1),
		Skills:    skills,
		Happiness: startHappiness,
		Healthy:   true,
	}
}

func (g *PersonGenerator) GenerateN(n int) []Person {
	out := make([]Person, 0, max(0, n))
	for range n {
		out = append(out, g.Generate())
	}
	return out
}

func generateName(rng *rand.Rand, used map[string]int) string {
	given := crewGivenNames[rng.IntN(len(crewGivenNames))]
	family := crewFamilyNames[rng.IntN(len(crewFamilyNames))]
	base := fmt.Sprintf("%s %s", given, family)
	count := used[base]
	used[base]++

	if count > 0 {
		return fmt.Sprintf("%s %s", base, romanSuffix(count))
	}

	return base
}

func romanSuffix(n int) string {
	if n > 0 && n < len(romanNumerals) {
		return romanNumerals[n]
	}
	return fmt.Sprintf("%d", n+1)
}
