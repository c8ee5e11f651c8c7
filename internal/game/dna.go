package game

import (
	"math/rand/v2"
	"strings"

	"github.com/agnivade/levenshtein"
)

const dnaAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DNAMatcher scores how close a specimen is to the target string. 1 is a
// perfect match, 0 shares nothing.
type DNAMatcher interface {
	Fitness(candidate, target string) float64
}

type LevenshteinMatcher struct{}

func (LevenshteinMatcher) Fitness(candidate, target string) float64 {
	longest := max(len(candidate), len(target))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(candidate, target)
	return 1 - float64(dist)/float64(longest)
}

type DNAGenerator struct {
	rng          *rand.Rand
	MutationRate float64
}

func NewDNAGenerator(seed int64) *DNAGenerator {
	return &DNAGenerator{rng: seededRNG(seed, "dna"), MutationRate: 0.1}
}

func (g *DNAGenerator) Random(length int) string {
	var b strings.Builder
	for range max(0, length) {
		b.WriteByte(g.randomGene())
	}
	return b.String()
}

// Crossover takes a prefix of a and the matching suffix of b, splitting at
// a random point. The child is as long as a.
func (g *DNAGenerator) Crossover(a, b string) string {
	if len(a) == 0 {
		return b
	}
	cut := g.rng.IntN(len(a) + 1)
	child := []byte(a[:cut])
	for i := cut; i < len(a); i++ {
		if i < len(b) {
			child = append(child, b[i])
		} else {
			child = append(child, a[i])
		}
	}
	return string(child)
}

func (g *DNAGenerator) Mutate(dna string) string {
	genes := []byte(dna)
	for i := range genes {
		if g.rng.Float64() < g.MutationRate {
			genes[i] = g.randomGene()
		}
	}
	return string(genes)
}

// Pick returns a random element of options.
func (g *DNAGenerator) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[g.rng.IntN(len(options))]
}

func (g *DNAGenerator) randomGene() byte {
	return dnaAlphabet[g.rng.IntN(len(dnaAlphabet))]
}
