package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxEntityTokens = 3

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
		Confidence: 0,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command.", Options: nil}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	// Sentences only count as commands when they start with a real verb.
	if len(tokens) >= 3 && cmdMatch.Source != "exact" && cmdMatch.Source != "alias" {
		if inferred := inferFreeTextIntent(ctx, intent.Raw, intent.Normalised); inferred != nil {
			return *inferred
		}
	}
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		inferred := inferFreeTextIntent(ctx, intent.Raw, intent.Normalised)
		if inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try help, status, tree, research, craft, collect, order, messages.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		options := []Intent{
			{
				Raw:        raw,
				Normalised: cmdMatch.Canonical,
				Kind:       commandKind(cmdMatch.Canonical),
				Verb:       cmdMatch.Canonical,
				Confidence: cmdMatch.Score,
			},
			{
				Raw:        raw,
				Normalised: alternates[0].Canonical,
				Kind:       commandKind(alternates[0].Canonical),
				Verb:       alternates[0].Canonical,
				Confidence: alternates[0].Score,
			},
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt:  "Did you mean:",
			Options: options,
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	argsTokens := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		argsTokens = tokens[cmdMatch.Consumed:]
	}

	def, _ := p.registry.command(intent.Verb)
	resolvedArgs, rest, clarify, argScore := p.resolveArgs(ctx, def, argsTokens)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	rest, q := splitQuantity(rest)
	intent.Quantity = q
	intent.Args = append(resolvedArgs, rest...)
	intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))

	if len(intent.Args) < def.MinArgs {
		options := buildEntityOptions(ctx, def, 5)
		if len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("What should I %s?", def.Canonical),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs at least %d argument(s).", def.Canonical, def.MinArgs)}
		intent.Confidence = 0.42
		return intent
	}

	if len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "status", "air", "inventory", "staff", "tree", "messages":
		return Query
	default:
		return Command
	}
}

// splitQuantity takes the first numeric token as the quantity and drops
// filler words from what remains.
func splitQuantity(tokens []string) ([]string, *Quantity) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tokens))
	var q *Quantity
	for _, token := range tokens {
		if q == nil {
			if candidate := parseQuantityToken(token); candidate != nil {
				q = candidate
				continue
			}
		}
		if isFiller(token) {
			continue
		}
		out = append(out, token)
	}
	return out, q
}

// resolveArgs resolves the entity argument of def, if it has one, and
// returns the tokens left after it.
func (p *Parser) resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, []string, *ClarifyQuestion, float64) {
	for len(args) > 0 && isLeadingFiller(args[0]) {
		args = args[1:]
	}
	if len(args) == 0 || def.Entity == "" {
		return nil, args, nil, 0.9
	}

	if isPronoun(args[0]) {
		if strings.TrimSpace(ctx.LastEntity) == "" {
			return nil, nil, &ClarifyQuestion{Prompt: "What does that pronoun refer to?"}, 0.4
		}
		return []string{normaliseInput(ctx.LastEntity)}, args[1:], nil, 0.82
	}

	pool := entityPool(ctx, def.Entity)

	// Greedily take the longest run of tokens that names an entity outright.
	for k := min(maxEntityTokens, len(args)); k >= 1; k-- {
		entity, confidence, tie := resolveEntity(strings.Join(args[:k], " "), pool, ctx.Preferred)
		if tie || len(entity) != 1 || confidence < 0.9 {
			continue
		}
		return entity, args[k:], nil, confidence
	}

	words := 0
	for words < len(args) && words < maxEntityTokens && parseQuantityToken(args[words]) == nil {
		words++
	}
	if words == 0 {
		return nil, args, nil, 0.6
	}
	entity, confidence, tie := resolveEntity(strings.Join(args[:words], " "), pool, ctx.Preferred)
	if tie && len(entity) >= 2 {
		options := make([]Intent, 0, 2)
		for idx := 0; idx < 2; idx++ {
			options = append(options, Intent{
				Kind:       commandKind(def.Canonical),
				Verb:       def.Canonical,
				Args:       []string{entity[idx]},
				Confidence: confidence - float64(idx)*0.01,
			})
		}
		return nil, nil, &ClarifyQuestion{
			Prompt:  fmt.Sprintf("Did you mean %s?", def.Canonical),
			Options: options,
		}, 0.52
	}
	if len(entity) == 1 {
		return entity, args[words:], nil, confidence
	}
	return []string{strings.Join(args[:words], " ")}, args[words:], nil, 0.5
}

func isLeadingFiller(token string) bool {
	switch token {
	case "a", "an", "the", "some", "new":
		return true
	default:
		return false
	}
}

func entityPool(ctx ParseContext, kind string) []string {
	switch kind {
	case "tech":
		return mergeUnique(ctx.Techs, nil)
	case "recipe":
		return mergeUnique(ctx.Recipes, nil)
	case "ingredient":
		return mergeUnique(ctx.Ingredients, nil)
	default:
		return nil
	}
}

func resolveEntity(token string, pool []string, preferred []string) ([]string, float64, bool) {
	n := normaliseInput(token)
	if n == "" {
		return nil, 0, false
	}
	return bestMatches(n, pool, mergeUnique(preferred, nil))
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func bestMatches(token string, all []string, boost []string) ([]string, float64, bool) {
	if len(all) == 0 {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}
	boostSet := make(map[string]bool, len(boost))
	for _, n := range boost {
		boostSet[n] = true
	}

	results := make([]scored, 0, len(all))
	for _, cand := range all {
		score := 0.0
		switch {
		case token == cand || compact(token) == compact(cand):
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		default:
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		if boostSet[cand] {
			score += 0.08
		}
		results = append(results, scored{val: cand, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	tie := len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6
	if tie {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildEntityOptions(ctx ParseContext, def CommandDef, maxOptions int) []Intent {
	pool := mergeUnique(ctx.Preferred, nil)
	if len(pool) == 0 {
		pool = entityPool(ctx, def.Entity)
	} else {
		known := map[string]bool{}
		for _, v := range entityPool(ctx, def.Entity) {
			known[v] = true
		}
		filtered := pool[:0]
		for _, v := range pool {
			if known[v] {
				filtered = append(filtered, v)
			}
		}
		pool = filtered
	}
	options := make([]Intent, 0, maxOptions)
	for _, entity := range pool {
		options = append(options, Intent{
			Kind:       commandKind(def.Canonical),
			Verb:       def.Canonical,
			Args:       []string{entity},
			Confidence: 0.88,
		})
		if len(options) >= maxOptions {
			break
		}
	}
	return options
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "what do we have", "what have we got", "check storage", "our stock") {
		return makeIntent(Query, "inventory", nil, 0.9)
	}
	if containsAnyPhrase(n, "can we breathe", "how is the air", "air quality", "oxygen level", "co2 level") {
		return makeIntent(Query, "air", nil, 0.88)
	}
	if containsAnyPhrase(n, "what can i research", "what can we research", "what is next", "what to research") {
		return makeIntent(Query, "tree", nil, 0.86)
	}
	if containsAnyPhrase(n, "who is aboard", "who is on board", "how is the crew", "how are the crew") {
		return makeIntent(Query, "staff", nil, 0.86)
	}
	if containsAnyPhrase(n, "any news", "check mail", "read messages", "any messages") {
		return makeIntent(Query, "messages", nil, 0.86)
	}
	if containsAnyPhrase(n, "is it done", "is research done", "are we done", "lab status") {
		return makeIntent(Query, "status", nil, 0.8)
	}

	// "we need more lithium" style orders.
	if containsAnyPhrase(n, "need more", "running out of", "low on") {
		tokens := tokenise(n)
		if len(tokens) > 0 {
			entity, confidence, tie := resolveEntity(tokens[len(tokens)-1], mergeUnique(ctx.Ingredients, nil), nil)
			if !tie && len(entity) == 1 {
				return makeIntent(Command, "order", entity, confidence-0.1)
			}
		}
	}

	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func mergeUnique(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	add := func(list []string) {
		for _, v := range list {
			n := normaliseInput(v)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	add(a)
	add(b)
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IntentToCommandString renders an intent in the form the colony command
// executor reads: verb, then arguments, then the quantity.
func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args)+1)
	for _, arg := range intent.Args {
		n := normaliseInput(arg)
		if n != "" {
			args = append(args, n)
		}
	}
	if intent.Quantity != nil && intent.Quantity.Raw != "" {
		args = append(args, normaliseInput(intent.Quantity.Raw))
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
