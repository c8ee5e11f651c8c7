// Package console runs a colony from a line based text interface.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/alerts"
	"github.com/appengine-ltd/sky-colony/internal/game"
	"github.com/appengine-ltd/sky-colony/internal/guildsync"
	"github.com/appengine-ltd/sky-colony/internal/parser"
)

const prompt = "> "

type Console struct {
	GC        *game.GameContext
	Colony    *game.Colony
	Alerts    *alerts.Engine
	Publisher guildsync.Publisher
	Now       func() time.Time

	parser     *parser.Parser
	pending    []parser.Intent
	lastEntity string
	published  int
	log        *slog.Logger
}

func New(gc *game.GameContext, colony *game.Colony, engine *alerts.Engine, publisher guildsync.Publisher) *Console {
	return &Console{
		GC:        gc,
		Colony:    colony,
		Alerts:    engine,
		Publisher: publisher,
		Now:       time.Now,
		parser:    parser.New(),
		log:       gc.Logger.With("component", "console"),
	}
}

// Run reads commands from in until quit or EOF and writes replies to out.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Station %s online. Type help for commands.\n", shortID(c.Colony.Station.ID))
	c.published = len(c.Colony.Station.Tree.CompletedItems(c.Now()))

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		reply, quit := c.Step(ctx, scanner.Text())
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		if quit {
			return nil
		}
		fmt.Fprint(out, prompt)
	}
	return scanner.Err()
}

// Step handles one input line. It catches up accounting first so every
// command sees the current state.
func (c *Console) Step(ctx context.Context, line string) (string, bool) {
	now := c.Now()
	c.catchUp(now)

	intent, ok := c.pickPending(line)
	if !ok {
		intent = c.parser.Parse(c.parseContext(now), line)
	}
	if intent.Clarify != nil {
		return c.clarify(intent.Clarify), false
	}
	c.pending = nil
	if len(intent.Args) > 0 {
		c.lastEntity = intent.Args[0]
	}

	switch intent.Verb {
	case "quit":
		return "Saving and shutting down." + c.save(ctx), true
	case "save":
		return strings.TrimSpace(c.save(ctx)), false
	}

	command := parser.IntentToCommandString(intent)
	c.log.Debug("executing", "operation", "step", "command", command, "confidence", intent.Confidence)
	res := c.Colony.ExecuteCommand(c.GC, command, now)
	if !res.Handled {
		return "Unknown command. Type help for the list.", false
	}
	c.publish(ctx, now)
	return res.Message, false
}

func (c *Console) catchUp(now time.Time) {
	reports := c.Colony.RunAccounting(c.GC, now)
	if c.Alerts != nil && len(reports) > 0 {
		c.Alerts.Evaluate(c.GC.Board, reports)
	}
}

func (c *Console) pickPending(line string) (parser.Intent, bool) {
	if len(c.pending) == 0 {
		return parser.Intent{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(c.pending) {
		c.pending = nil
		return parser.Intent{}, false
	}
	intent := c.pending[n-1]
	c.pending = nil
	return intent, true
}

func (c *Console) clarify(q *parser.ClarifyQuestion) string {
	c.pending = q.Options
	if len(q.Options) == 0 {
		return q.Prompt
	}
	lines := []string{q.Prompt}
	for i, option := range q.Options {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, parser.IntentToCommandString(option)))
	}
	return strings.Join(lines, "\n")
}

// parseContext feeds the parser every catalog name and prefers what can be
// started right now.
func (c *Console) parseContext(now time.Time) parser.ParseContext {
	ctx := parser.ParseContext{LastEntity: c.lastEntity}
	tree := c.Colony.Station.Tree
	for _, item := range game.AllTechItems() {
		ctx.Techs = append(ctx.Techs, string(item))
	}
	for _, id := range tree.Unlocked(now) {
		if n, ok := tree.Node(id); ok {
			ctx.Preferred = append(ctx.Preferred, string(n.Item))
		}
	}
	for _, recipe := range game.AllRecipes() {
		ctx.Recipes = append(ctx.Recipes, string(recipe))
		if gate, gated := recipe.TechGate(); !gated || tree.IsItemComplete(gate, now) {
			ctx.Preferred = append(ctx.Preferred, string(recipe))
		}
	}
	for _, ingredient := range game.AllIngredients() {
		if ingredient.Orderable() {
			ctx.Ingredients = append(ctx.Ingredients, string(ingredient))
		}
	}
	return ctx
}

func (c *Console) save(ctx context.Context) string {
	if c.GC.Saver == nil {
		return ""
	}
	if err := c.GC.Saver.SaveStation(ctx, c.Colony.Station); err != nil {
		c.log.Error("failed to save station", "operation", "save", "error", err)
		return " Save failed: " + err.Error()
	}
	if err := c.GC.Saver.SavePlayer(ctx, c.Colony.Player); err != nil {
		c.log.Error("failed to save player", "operation", "save", "error", err)
		return " Save failed: " + err.Error()
	}
	if c.Colony.City != nil {
		if err := c.GC.Saver.SaveCity(ctx, c.Colony.City); err != nil {
			c.log.Error("failed to save city", "operation", "save", "error", err)
			return " Save failed: " + err.Error()
		}
	}
	return " Game saved."
}

func (c *Console) publish(ctx context.Context, now time.Time) {
	if c.Publisher == nil {
		return
	}
	completed := c.Colony.Station.Tree.CompletedItems(now)
	if len(completed) == c.published {
		return
	}
	if err := c.Publisher.PublishCompleted(ctx, c.Colony.Station.ID, completed); err != nil {
		c.log.Warn("failed to publish completed tech", "operation", "publish", "error", err)
		return
	}
	c.published = len(completed)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
