package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/sky-colony/internal/game"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	root := filepath.Join("docs", "reference", "catalogs")
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateIngredientsDoc(),
		generateRecipesDoc(),
		generateTechDoc(),
		generatePeripheralsDoc(),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateCatalogIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateCatalogIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Data Catalogs\n\n")
	b.WriteString("Generated from the current Go source using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateIngredientsDoc() docFile {
	items := game.AllIngredients()
	var b strings.Builder
	b.WriteString("# Ingredients\n\n")
	b.WriteString("Source: `internal/game/ingredients.go` (`AllIngredients`).\n\n")
	b.WriteString(fmt.Sprintf("Total ingredients: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Name | Orderable | Box Capacity | Price /unit | Box Price |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, i := range items {
		b.WriteString("| ")
		b.WriteString(escape(string(i)))
		b.WriteString(" | ")
		b.WriteString(escape(i.Name()))
		b.WriteString(" | ")
		b.WriteString(yesNo(i.Orderable()))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(i.BoxCapacity()))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(i.Price()))
		b.WriteString(" | ")
		if i.Orderable() {
			b.WriteString(strconv.Itoa(i.Price() * i.BoxCapacity()))
		} else {
			b.WriteString("-")
		}
		b.WriteString(" |\n")
	}
	return docFile{Name: "ingredients.md", Title: "Ingredients", Content: b.String()}
}

func generateRecipesDoc() docFile {
	items := game.AllRecipes()
	sort.SliceStable(items, func(i, j int) bool {
		gi, _ := items[i].TechGate()
		gj, _ := items[j].TechGate()
		if gi != gj {
			return gi < gj
		}
		return items[i].Name() < items[j].Name()
	})
	var b strings.Builder
	b.WriteString("# Recipes\n\n")
	b.WriteString("Source: `internal/game/recipes.go` (`AllRecipes`).\n\n")
	b.WriteString(fmt.Sprintf("Total recipes: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Name | Duration | Requires Tech | Ingredients | Skills | Outcome |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, r := range items {
		gate := "none"
		if tech, ok := r.TechGate(); ok {
			gate = tech.Name()
		}
		b.WriteString("| ")
		b.WriteString(escape(string(r)))
		b.WriteString(" | ")
		b.WriteString(escape(r.Name()))
		b.WriteString(" | ")
		b.WriteString(formatDuration(r.Duration()))
		b.WriteString(" | ")
		b.WriteString(escape(gate))
		b.WriteString(" | ")
		b.WriteString(escape(formatIngredients(r.Ingredients())))
		b.WriteString(" | ")
		b.WriteString(escape(formatSkills(r.Skills())))
		b.WriteString(" | ")
		b.WriteString(escape(formatOutcome(r.Outcome())))
		b.WriteString(" |\n")
	}
	return docFile{Name: "recipes.md", Title: "Recipes", Content: b.String()}
}

// generateTechDoc lists tech in tree order so parents come before children.
func generateTechDoc() docFile {
	tree := game.NewTechTree(time.Time{})
	var b strings.Builder
	b.WriteString("# Tech Tree\n\n")
	b.WriteString("Source: `internal/game/tech.go` (`AllTechItems`, tree layout).\n\n")
	b.WriteString(fmt.Sprintf("Total tech items: **%d**.\n\n", len(tree.Nodes)))
	b.WriteString("| ID | Name | Parent | Depth | Duration | Energy | Ingredients | Skills | Description |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for i, n := range tree.Nodes {
		parent := "root"
		if p, ok := tree.Node(n.Parent); ok {
			parent = p.Item.Name()
		}
		b.WriteString("| ")
		b.WriteString(escape(string(n.Item)))
		b.WriteString(" | ")
		b.WriteString(escape(n.Item.Name()))
		b.WriteString(" | ")
		b.WriteString(escape(parent))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(tree.Depth(game.NodeID(i))))
		b.WriteString(" | ")
		b.WriteString(formatDuration(n.Item.Duration()))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(n.Item.EnergyCost()))
		b.WriteString(" | ")
		b.WriteString(escape(formatIngredients(n.Item.Ingredients())))
		b.WriteString(" | ")
		b.WriteString(escape(formatSkills(n.Item.Skills())))
		b.WriteString(" | ")
		b.WriteString(escape(n.Item.Description()))
		b.WriteString(" |\n")
	}
	return docFile{Name: "tech.md", Title: "Tech Tree", Content: b.String()}
}

func generatePeripheralsDoc() docFile {
	items := game.AllPeripheralTypes()
	var b strings.Builder
	b.WriteString("# Peripherals\n\n")
	b.WriteString("Source: `internal/game/peripherals.go` (`AllPeripheralTypes`).\n\n")
	b.WriteString(fmt.Sprintf("Total peripherals: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Name | Energy /tick |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, p := range items {
		b.WriteString("| ")
		b.WriteString(escape(string(p)))
		b.WriteString(" | ")
		b.WriteString(escape(p.Name()))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(p.EnergyCost()))
		b.WriteString(" |\n")
	}
	return docFile{Name: "peripherals.md", Title: "Peripherals", Content: b.String()}
}

func formatIngredients(items map[game.Ingredient]int) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, i := range game.AllIngredients() {
		if qty, ok := items[i]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", i, qty))
		}
	}
	return strings.Join(parts, ", ")
}

func formatSkills(items map[game.Skill]int) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, s := range game.AllSkills() {
		if level, ok := items[s]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", s, level))
		}
	}
	return strings.Join(parts, ", ")
}

func formatOutcome(o game.RecipeOutcome) string {
	switch o.Kind {
	case game.OutcomePeripheral:
		return fmt.Sprintf("%s (%s)", o.Kind, o.Peripheral)
	case game.OutcomeTrussPart:
		return fmt.Sprintf("%s (%s)", o.Kind, o.Part)
	case game.OutcomeStructure:
		if o.AirVolume > 0 {
			return fmt.Sprintf("%s (+%d air)", o.Kind, o.AirVolume)
		}
	}
	return string(o.Kind)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	return d.String()
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
