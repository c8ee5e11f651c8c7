package parser

type IntentKind int

const (
	Command IntentKind = iota
	Query
	Help
	Unknown
)

type Quantity struct {
	Raw string
	N   int
}

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Args       []string
	Quantity   *Quantity
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext lists the names entity arguments resolve against. Entries are
// catalog ids or display names; both are normalised before matching.
type ParseContext struct {
	Techs       []string
	Recipes     []string
	Ingredients []string
	// Available techs and idle recipes score higher than the rest.
	Preferred  []string
	LastEntity string
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	MinArgs   int
	MaxArgs   int
	// Entity names the ParseContext pool the first argument resolves
	// against: "tech", "recipe" or "ingredient".
	Entity     string
	HandlerKey string
}
