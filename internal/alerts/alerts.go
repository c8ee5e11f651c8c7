// Package alerts turns accounting reports into message board posts using
// rule conditions written as expr expressions.
package alerts

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// Env is what a rule condition can see.
type Env struct {
	Air            string
	AirLevel       int
	EnergyProduced int
	EnergyConsumed int
	EnergyStored   int
	EnergyCapacity int
	EnergyRatio    float64
	O2Needed       int
	Water          int
	Food           int
	Headcount      int
	Problems       int
}

func NewEnv(r game.AccountingReport) Env {
	env := Env{
		Air:            r.AirQuality.String(),
		AirLevel:       int(r.AirQuality),
		EnergyProduced: r.EnergyProduced,
		EnergyConsumed: r.EnergyConsumed,
		EnergyStored:   r.EnergyStored,
		EnergyCapacity: r.EnergyCapacity,
		O2Needed:       r.O2Needed,
		Water:          r.Water,
		Food:           r.Food,
		Headcount:      r.Headcount,
		Problems:       len(r.Problems),
	}
	if r.EnergyCapacity > 0 {
		env.EnergyRatio = float64(r.EnergyStored) / float64(r.EnergyCapacity)
	}
	return env
}

type Rule struct {
	Name    string           `yaml:"name"`
	When    string           `yaml:"when"`
	Message string           `yaml:"message"`
	Type    game.MessageType `yaml:"type"`
	program *vm.Program
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "low_energy",
			When:    "EnergyCapacity > 0 && EnergyRatio < 0.1",
			Message: "Batteries are almost empty.",
			Type:    game.MessageAlert,
		},
		{
			Name:    "energy_deficit",
			When:    "EnergyConsumed > EnergyProduced && EnergyRatio < 0.25",
			Message: "Peripherals draw more power than the panels produce.",
			Type:    game.MessageAlert,
		},
		{
			Name:    "bad_air",
			When:    "AirLevel >= 3",
			Message: "Air quality is dropping. Check the scrubbers.",
			Type:    game.MessageAlert,
		},
		{
			Name:    "low_food",
			When:    "Headcount > 0 && Food < Headcount * 3",
			Message: "Food stores will run out soon.",
			Type:    game.MessageAlert,
		},
		{
			Name:    "low_water",
			When:    "Headcount > 0 && Water < Headcount * 4",
			Message: "Water tanks are running low.",
			Type:    game.MessageAlert,
		},
	}
}

// LoadRules reads extra rules from a YAML file with a top level "rules" list.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alert rules: %w", err)
	}
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alert rules: %w", err)
	}
	return file.Rules, nil
}

// Engine posts a rule's message when its condition turns true. A rule that
// stays true is not posted again until it has cleared.
type Engine struct {
	rules  []Rule
	active map[string]bool
	log    *slog.Logger
}

func NewEngine(rules []Rule, logger *slog.Logger) (*Engine, error) {
	compiled := make([]Rule, 0, len(rules))
	seen := map[string]bool{}
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("alert rule without a name")
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate alert rule %q", r.Name)
		}
		seen[r.Name] = true
		prog, err := expr.Compile(r.When, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
		if r.Type == "" {
			r.Type = game.MessageAlert
		}
		compiled = append(compiled, r)
	}
	return &Engine{
		rules:  compiled,
		active: map[string]bool{},
		log:    logger.With("component", "alerts"),
	}, nil
}

// Evaluate runs every rule against each report in order and returns the
// names of the rules that fired.
func (e *Engine) Evaluate(board *game.MessageBoard, reports []game.AccountingReport) []string {
	var fired []string
	for _, report := range reports {
		env := NewEnv(report)
		for _, r := range e.rules {
			result, err := vm.Run(r.program, env)
			if err != nil {
				e.log.Warn("rule condition error", "operation", "evaluate", "rule", r.Name, "error", err)
				continue
			}
			match, ok := result.(bool)
			if !ok || !match {
				e.active[r.Name] = false
				continue
			}
			if e.active[r.Name] {
				continue
			}
			e.active[r.Name] = true
			board.Post(r.Type, r.Message, report.Date)
			fired = append(fired, r.Name)
			e.log.Debug("rule fired", "operation", "evaluate", "rule", r.Name)
		}
	}
	return fired
}
