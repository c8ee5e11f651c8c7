package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if c.HandlerKey == "" {
		c.HandlerKey = c.Canonical
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	in := strings.Join(tokens, " ")
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 {
			continue
		}
		consumed := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		if consumed == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			source := "exact"
			if phrase.alias != phrase.canonical {
				score = 0.97
				source = "alias"
			}
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  consumed,
				Score:     score,
				Source:    source,
			})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 2 {
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  1,
				Score:     0.9,
				Source:    "prefix",
			})
			continue
		}

		// Fuzzy: only when there was no exact/prefix hit for this phrase.
		cut := consumed
		compare := prefix
		if len(phrase.tokens) > 1 && len(tokens) >= len(phrase.tokens) {
			cut = len(phrase.tokens)
			compare = strings.Join(tokens[:cut], " ")
		}
		if cut == 0 || compare == "" {
			continue
		}
		if len(compare) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(compare, phrase.alias)
		limit := levenshteinLimit(len(phrase.alias))
		if dist > limit {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if strings.Contains(in, phrase.alias) {
			score += 0.04
		}
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{
			Canonical: phrase.canonical,
			Alias:     phrase.alias,
			Consumed:  cut,
			Score:     score,
			Source:    "lev",
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "commands", "?"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "help"},
		{Canonical: "status", Aliases: []string{"st", "overview", "labs"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "status"},
		{Canonical: "air", Aliases: []string{"atmosphere", "oxygen"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "air"},
		{Canonical: "inventory", Aliases: []string{"inv", "storage", "stock", "supplies"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "inventory"},
		{Canonical: "staff", Aliases: []string{"crew", "people", "who"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "staff"},
		{Canonical: "tree", Aliases: []string{"tech", "techs", "tech tree"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "tree"},
		{Canonical: "research", Aliases: []string{"study", "investigate"}, MinArgs: 1, MaxArgs: 1, Entity: "tech", HandlerKey: "research"},
		{Canonical: "craft", Aliases: []string{"build", "make", "assemble"}, MinArgs: 1, MaxArgs: 1, Entity: "recipe", HandlerKey: "craft"},
		{Canonical: "collect", Aliases: []string{"claim", "finish"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "collect"},
		{Canonical: "cancel", Aliases: []string{"abort", "stop"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "cancel"},
		{Canonical: "grow", Aliases: []string{"seed"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "grow"},
		{Canonical: "evolve", MinArgs: 0, MaxArgs: 0, HandlerKey: "evolve"},
		{Canonical: "multiply", Aliases: []string{"breed", "clone"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "multiply"},
		{Canonical: "harvest", Aliases: []string{"reap"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "harvest"},
		{Canonical: "power", Aliases: []string{"switch", "toggle"}, MinArgs: 2, MaxArgs: 4, HandlerKey: "power"},
		{Canonical: "mount", Aliases: []string{"install", "attach"}, MinArgs: 1, MaxArgs: 3, HandlerKey: "mount"},
		{Canonical: "unmount", Aliases: []string{"detach", "dismount"}, MinArgs: 1, MaxArgs: 3, HandlerKey: "unmount"},
		{Canonical: "order", Aliases: []string{"buy", "purchase"}, MinArgs: 1, MaxArgs: 1, Entity: "ingredient", HandlerKey: "order"},
		{Canonical: "account", Aliases: []string{"tick", "accounting", "wait"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "account"},
		{Canonical: "messages", Aliases: []string{"inbox", "msgs", "news"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "messages"},

		// Console verbs handled outside the colony.
		{Canonical: "save", MinArgs: 0, MaxArgs: 0, HandlerKey: "save"},
		{Canonical: "quit", Aliases: []string{"exit", "q"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "quit"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
