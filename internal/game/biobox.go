package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type BioBoxMode string

const (
	BioBoxGrow     BioBoxMode = "grow"
	BioBoxEvolve   BioBoxMode = "evolve"
	BioBoxMultiply BioBoxMode = "multiply"
	BioBoxServing  BioBoxMode = "serving"
)

const (
	growEnergyPerNewborn   = 10
	evolveEnergyPerSpecies = 1
	multiplyEnergyCost     = 20
	foodPerPerfectSpecimen = 5
	defaultPopulationLimit = 20
)

// perfectDNAOptions are the crops a freshly built bio box can target.
var perfectDNAOptions = []string{"BANANA", "STRAWBERRY", "TOMATO", "POTATO", "SPINACH", "CARROT"}

// BioBox holds a population of DNA strings evolving toward PerfectDNA.
// Population is the authoritative state; Generations and BestFitness are
// progress display only.
type BioBox struct {
	ID              string     `json:"id"`
	Mode            BioBoxMode `json:"mode"`
	PerfectDNA      string     `json:"perfect_dna"`
	Population      []string   `json:"population"`
	PopulationLimit int        `json:"population_limit"`
	Generations     int        `json:"generations"`
	BestFitness     float64    `json:"best_fitness"`
}

func NewBioBox(perfectDNA string, limit int) BioBox {
	if limit <= 0 {
		limit = defaultPopulationLimit
	}
	return BioBox{
		ID:              uuid.NewString(),
		Mode:            BioBoxGrow,
		PerfectDNA:      perfectDNA,
		Population:      []string{},
		PopulationLimit: limit,
	}
}

func (b *BioBox) PerfectCount() int {
	count := 0
	for _, dna := range b.Population {
		if dna == b.PerfectDNA {
			count++
		}
	}
	return count
}

func (b *BioBox) HasPerfectDNA() bool {
	return b.PerfectCount() > 0
}

// Grow adds newborns to the population and returns how many were added. An
// empty box is seeded with one specimen for free. Otherwise the growth
// depends on how full the box is and costs energy for every newborn; when
// the ledger cannot pay nothing changes.
func (b *BioBox) Grow(gc *GameContext, ledger *Ledger) (int, error) {
	count := len(b.Population)
	if count == 0 {
		b.Mode = BioBoxGrow
		b.Population = append(b.Population, gc.DNA.Random(len(b.PerfectDNA)))
		b.updateFitness(gc)
		return 1, nil
	}

	room := b.PopulationLimit - count
	if room <= 0 {
		return 0, fmt.Errorf("bio box %s: %w", b.ID, ErrPopulationFull)
	}

	var newBorns int
	ratio := float64(count) / float64(b.PopulationLimit)
	switch {
	case ratio < 0.25:
		newBorns = count
	case ratio < 0.50:
		newBorns = max(1, count/3)
	default:
		newBorns = 2
	}
	newBorns = min(newBorns, room)

	if !ledger.ConsumeEnergy(newBorns * growEnergyPerNewborn) {
		return 0, fmt.Errorf("growing %d specimens: %w", newBorns, ErrInsufficientEnergy)
	}
	b.Mode = BioBoxGrow

	for i := range newBorns {
		parent := b.Population[i%count]
		b.Population = append(b.Population, gc.DNA.Mutate(parent))
	}
	b.updateFitness(gc)
	return newBorns, nil
}

// Evolve runs one generation: the fitter half survives untouched and the
// rest is replaced by mutated crossovers of survivors.
func (b *BioBox) Evolve(gc *GameContext, ledger *Ledger) error {
	count := len(b.Population)
	if count == 0 {
		return fmt.Errorf("bio box %s: %w", b.ID, ErrPopulationEmpty)
	}
	if !ledger.ConsumeEnergy(count * evolveEnergyPerSpecies) {
		return fmt.Errorf("evolving %d specimens: %w", count, ErrInsufficientEnergy)
	}
	b.Mode = BioBoxEvolve

	type scored struct {
		dna     string
		fitness float64
	}
	ranked := make([]scored, 0, count)
	for _, dna := range b.Population {
		ranked = append(ranked, scored{dna: dna, fitness: gc.Matcher.Fitness(dna, b.PerfectDNA)})
	}
	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.fitness, x.fitness)
	})

	keep := max(1, count/2)
	survivors := make([]string, 0, keep)
	for _, s := range ranked[:keep] {
		survivors = append(survivors, s.dna)
	}

	next := append([]string(nil), survivors...)
	for len(next) < count {
		child := gc.DNA.Crossover(gc.DNA.Pick(survivors), gc.DNA.Pick(survivors))
		next = append(next, gc.DNA.Mutate(child))
	}

	b.Population = next
	b.Generations++
	b.updateFitness(gc)
	return nil
}

// Multiply replaces the population with copies of the perfect DNA, twice
// as many as there were perfect specimens, capped at the limit.
func (b *BioBox) Multiply(gc *GameContext, ledger *Ledger) error {
	perfect := b.PerfectCount()
	if perfect == 0 {
		return fmt.Errorf("bio box %s: %w", b.ID, ErrNoPerfectDNA)
	}
	if !ledger.ConsumeEnergy(multiplyEnergyCost) {
		return fmt.Errorf("multiplying: %w", ErrInsufficientEnergy)
	}

	b.Mode = BioBoxMultiply
	target := min(perfect*2, b.PopulationLimit)
	population := make([]string, target)
	for i := range population {
		population[i] = b.PerfectDNA
	}
	b.Population = population
	b.updateFitness(gc)
	return nil
}

// Harvest turns perfect specimens into food stored in the ledger boxes and
// returns the amount stored. Food that does not fit is lost.
func (b *BioBox) Harvest(ledger *Ledger) (int, error) {
	perfect := b.PerfectCount()
	if perfect == 0 {
		return 0, fmt.Errorf("bio box %s: %w", b.ID, ErrNoPerfectDNA)
	}
	b.Mode = BioBoxServing

	food := perfect * foodPerPerfectSpecimen
	leftover := ledger.RefillContainers(IngredientFood, food)
	b.Population = slices.DeleteFunc(b.Population, func(dna string) bool {
		return dna == b.PerfectDNA
	})
	if len(b.Population) == 0 {
		b.BestFitness = 0
	}
	return food - leftover, nil
}

func (b *BioBox) updateFitness(gc *GameContext) {
	best := 0.0
	for _, dna := range b.Population {
		best = max(best, gc.Matcher.Fitness(dna, b.PerfectDNA))
	}
	b.BestFitness = best
}
