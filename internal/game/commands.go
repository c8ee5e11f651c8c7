package game

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type CommandResult struct {
	Handled bool
	Message string
}

// Colony binds a player to the station they run, and optionally the city
// below it, so text commands can reach all of them.
type Colony struct {
	Player  *Player  `json:"player"`
	Station *Station `json:"station"`
	City    *City    `json:"city,omitempty"`
}

// RunAccounting catches up the city and then the station, and returns the
// station reports. City problems reach the board like station ones.
func (c *Colony) RunAccounting(gc *GameContext, now time.Time) []AccountingReport {
	if c.City != nil {
		c.City.RunAccounting(gc, now)
	}
	return c.Station.RunAccounting(gc, now)
}

const helpText = "Commands: status, air, inventory, staff, tree, research <tech> [lab#], craft <recipe> [lab#], collect [lab#], cancel [lab#], grow|evolve|multiply|harvest [box#], power <peripheral> on|off, mount <part> [slot#], unmount <part> <slot#>, order <ingredient> [boxes], account, messages, help."

func (c *Colony) ExecuteCommand(gc *GameContext, raw string, now time.Time) CommandResult {
	command := strings.TrimSpace(strings.ToLower(raw))
	if command == "" {
		return CommandResult{Handled: false}
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CommandResult{Handled: false}
	}

	switch fields[0] {
	case "commands", "help":
		return CommandResult{Handled: true, Message: helpText}
	case "status":
		return c.executeStatusCommand(now)
	case "air":
		return c.executeAirCommand()
	case "inventory", "inv":
		return c.executeInventoryCommand()
	case "staff", "crew":
		return c.executeStaffCommand(now)
	case "tree", "tech":
		return c.executeTreeCommand(now)
	case "research":
		return c.executeResearchCommand(gc, fields[1:], now)
	case "craft", "build":
		return c.executeCraftCommand(gc, fields[1:], now)
	case "collect":
		return c.executeCollectCommand(gc, fields[1:], now)
	case "cancel":
		return c.executeCancelCommand(gc, fields[1:])
	case "grow", "evolve", "multiply", "harvest":
		return c.executeBioBoxCommand(gc, fields[0], fields[1:], now)
	case "power":
		return c.executePowerCommand(gc, fields[1:])
	case "mount", "install":
		return c.executeMountCommand(gc, fields[1:])
	case "unmount", "detach":
		return c.executeUnmountCommand(gc, fields[1:])
	case "order":
		return c.executeOrderCommand(gc, fields[1:], now)
	case "account":
		return c.executeAccountCommand(gc, now)
	case "messages", "inbox":
		return c.executeMessagesCommand(gc)
	default:
		return CommandResult{Handled: false}
	}
}

func (c *Colony) executeStatusCommand(now time.Time) CommandResult {
	s := c.Station
	var b strings.Builder
	fmt.Fprintf(&b, "Station %s: %d modules, %d crew, air %s.\n", shortID(s.ID), s.Modules, len(s.People), s.Air.AirQuality())
	fmt.Fprintf(&b, "Energy %d/%d, water %d, food %d, money %d.\n",
		s.Ledger.TotalEnergy(), s.Ledger.EnergyCapacity(),
		s.Ledger.TankAmount(TankH2O), s.Ledger.IngredientAmount(IngredientFood), c.Player.Money)
	if city := c.City; city != nil {
		fmt.Fprintf(&b, "City %s: %d people, air %s, water %d, food %d.\n",
			city.Name, len(city.People), city.Air.AirQuality(), city.Ledger.TankAmount(TankH2O), city.Ledger.IngredientAmount(IngredientFood))
	}
	for i, lab := range s.Labs {
		if lab.Activity == nil {
			fmt.Fprintf(&b, "Lab %d: idle\n", i+1)
			continue
		}
		a := lab.Activity
		if a.IsFinished(now) {
			fmt.Fprintf(&b, "Lab %d: %s ready to collect\n", i+1, a.Kind.Name())
			continue
		}
		fmt.Fprintf(&b, "Lab %d: %s %.0f%% (%s left)\n", i+1, a.Kind.Name(), a.Progress(now)*100, a.Remaining(now).Round(time.Minute))
	}
	return CommandResult{Handled: true, Message: strings.TrimSpace(b.String())}
}

func (c *Colony) executeAirCommand() CommandResult {
	a := c.Station.Air
	return CommandResult{
		Handled: true,
		Message: fmt.Sprintf("Air %s (volume %d): O2 %d, CO2 %d, N2 %d, H2 %d, CH4 %d, H2O %d. O2 needed: %d.",
			a.AirQuality(), a.Volume(), a.O2, a.CO2, a.N2, a.H2, a.CH4, a.H2O, a.NeedsOxygen()),
	}
}

func (c *Colony) executeInventoryCommand() CommandResult {
	l := &c.Station.Ledger
	tanks := make([]string, 0)
	for _, t := range AllTankTypes() {
		if amount := l.TankAmount(t); amount > 0 {
			tanks = append(tanks, fmt.Sprintf("%s %d", t, amount))
		}
	}
	boxes := make([]string, 0)
	for _, ingredient := range AllIngredients() {
		if amount := l.IngredientAmount(ingredient); amount > 0 {
			boxes = append(boxes, fmt.Sprintf("%s %d", ingredient.Name(), amount))
		}
	}
	peripherals := make([]string, 0, len(c.Station.Peripherals))
	for _, p := range c.Station.Peripherals {
		peripherals = append(peripherals, p.String())
	}

	lines := []string{
		fmt.Sprintf("Tanks (%d/%d): %s", len(l.Tanks), MaxTanks, strings.Join(tanks, ", ")),
		"Boxes: " + strings.Join(boxes, ", "),
		fmt.Sprintf("Truss: %d solar, %d radiator, %d roboarm, %d spare", l.CountSlots(SlotSolar), l.CountSlots(SlotRadiator), l.CountSlots(SlotRoboArm), len(c.Station.SpareParts)),
	}
	if len(peripherals) > 0 {
		lines = append(lines, "Peripherals: "+strings.Join(peripherals, ", "))
	}
	return CommandResult{Handled: true, Message: strings.Join(lines, "\n")}
}

func (c *Colony) executeStaffCommand(now time.Time) CommandResult {
	lines := make([]string, 0, len(c.Station.People))
	for _, p := range c.Station.People {
		state := "idle"
		switch {
		case !p.Healthy:
			state = "sick"
		case p.IsBusy(now):
			state = "busy until " + p.BusyUntil.Format("15:04")
		}
		skills := make([]string, 0, len(p.Skills))
		for _, skill := range AllSkills() {
			if level := p.Skills[skill]; level > 0 {
				skills = append(skills, fmt.Sprintf("%s %d", skill, level))
			}
		}
		lines = append(lines, fmt.Sprintf("%s (%d), happiness %d, %s: %s", p.Name, p.Age, p.Happiness, state, strings.Join(skills, ", ")))
	}
	if len(lines) == 0 {
		return CommandResult{Handled: true, Message: "No crew aboard."}
	}
	return CommandResult{Handled: true, Message: strings.Join(lines, "\n")}
}

func (c *Colony) executeTreeCommand(now time.Time) CommandResult {
	tree := c.Station.Tree
	available := make([]string, 0)
	for _, id := range tree.Unlocked(now) {
		n, _ := tree.Node(id)
		available = append(available, fmt.Sprintf("%s (%s, %d energy)", n.Item.Name(), n.Item.Duration(), n.Item.EnergyCost()))
	}
	completed := make([]string, 0)
	for _, item := range tree.CompletedItems(now) {
		completed = append(completed, item.Name())
	}
	msg := "Completed: " + strings.Join(completed, ", ") + "."
	if len(available) > 0 {
		msg += "\nAvailable: " + strings.Join(available, ", ") + "."
	} else {
		msg += "\nNothing new to research right now."
	}
	return CommandResult{Handled: true, Message: msg}
}

func (c *Colony) executeResearchCommand(gc *GameContext, args []string, now time.Time) CommandResult {
	number, rest := extractNumber(args, 1)
	if len(rest) == 0 {
		return CommandResult{Handled: true, Message: "Usage: research <tech> [lab#]"}
	}
	item, err := ParseTechItem(strings.Join(rest, " "))
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown tech: %s.", strings.Join(rest, " "))}
	}
	labID := labIDForNumber(number)
	workers := selectWorkers(item.Skills(), c.Station.IdlePeople(now))
	activity, err := c.Station.StartResearch(gc, labID, item, workers, now)
	if err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	return CommandResult{
		Handled: true,
		Message: fmt.Sprintf("Researching %s in %s, done at %s.", item.Name(), labID, activity.DateEnds.Format(time.Kitchen)),
	}
}

func (c *Colony) executeCraftCommand(gc *GameContext, args []string, now time.Time) CommandResult {
	number, rest := extractNumber(args, 1)
	if len(rest) == 0 {
		return CommandResult{Handled: true, Message: "Usage: craft <recipe> [lab#]"}
	}
	recipe, err := ParseRecipe(strings.Join(rest, " "))
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown recipe: %s.", strings.Join(rest, " "))}
	}
	labID := labIDForNumber(number)
	workers := selectWorkers(recipe.Skills(), c.Station.IdlePeople(now))
	activity, err := c.Station.StartRecipe(gc, labID, recipe, workers, now)
	if err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	return CommandResult{
		Handled: true,
		Message: fmt.Sprintf("Crafting %s in %s, done at %s.", recipe.Name(), labID, activity.DateEnds.Format(time.Kitchen)),
	}
}

func (c *Colony) executeCollectCommand(gc *GameContext, args []string, now time.Time) CommandResult {
	number, _ := extractNumber(args, 1)
	result, err := c.Station.CollectActivity(gc, labIDForNumber(number), now)
	if err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	c.Player.Experience += experienceFor(result.Kind)
	gc.persistPlayer(c.Player)
	msg := result.Message
	if len(result.Unlocked) > 0 {
		names := make([]string, 0, len(result.Unlocked))
		for _, item := range result.Unlocked {
			names = append(names, item.Name())
		}
		msg += " Unlocked: " + strings.Join(names, ", ") + "."
	}
	return CommandResult{Handled: true, Message: msg}
}

func (c *Colony) executeCancelCommand(gc *GameContext, args []string) CommandResult {
	number, _ := extractNumber(args, 1)
	labID := labIDForNumber(number)
	if err := c.Station.CancelActivity(gc, labID); err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	return CommandResult{Handled: true, Message: fmt.Sprintf("Activity in %s cancelled. You won't get the costs back.", labID)}
}

func (c *Colony) executeBioBoxCommand(gc *GameContext, verb string, args []string, now time.Time) CommandResult {
	number, _ := extractNumber(args, 1)
	box, err := c.Station.BioBox(number)
	if err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	ledger := &c.Station.Ledger
	var msg string
	switch verb {
	case "grow":
		var born int
		born, err = box.Grow(gc, ledger)
		msg = fmt.Sprintf("Bio box %d grew by %d to %d specimens.", number, born, len(box.Population))
	case "evolve":
		err = box.Evolve(gc, ledger)
		msg = fmt.Sprintf("Bio box %d generation %d, best fitness %.0f%%.", number, box.Generations, box.BestFitness*100)
	case "multiply":
		err = box.Multiply(gc, ledger)
		msg = fmt.Sprintf("Bio box %d now holds %d perfect %s specimens.", number, len(box.Population), box.PerfectDNA)
	case "harvest":
		var food int
		food, err = box.Harvest(ledger)
		msg = fmt.Sprintf("Harvested %d food from bio box %d.", food, number)
	}
	if err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	if box.HasPerfectDNA() && verb == "evolve" {
		gc.Board.Post(MessageAchievement, fmt.Sprintf("Bio box %d reached perfect %s DNA.", number, box.PerfectDNA), now)
	}
	gc.persistStation(c.Station)
	return CommandResult{Handled: true, Message: msg}
}

func (c *Colony) executePowerCommand(gc *GameContext, args []string) CommandResult {
	usage := CommandResult{Handled: true, Message: "Usage: power <peripheral> on|off"}
	if len(args) < 2 {
		return usage
	}
	state := args[len(args)-1]
	if state != "on" && state != "off" {
		return usage
	}
	name := strings.Join(args[:len(args)-1], " ")
	kind, err := ParsePeripheralType(name)
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown peripheral: %s.", name)}
	}
	switched := c.Station.SetPeripheralPower(kind, state == "on")
	if switched == 0 {
		return CommandResult{Handled: true, Message: fmt.Sprintf("No %s installed.", kind.Name())}
	}
	gc.persistStation(c.Station)
	return CommandResult{Handled: true, Message: fmt.Sprintf("%d %s switched %s.", switched, kind.Name(), state)}
}

// partArgs drops the filler words people put around a truss part name.
func partArgs(args []string) string {
	words := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "slot", "on", "to", "into", "from", "truss":
			continue
		}
		words = append(words, arg)
	}
	return strings.Join(words, " ")
}

func (c *Colony) executeMountCommand(gc *GameContext, args []string) CommandResult {
	number, rest := extractNumber(args, 0)
	name := partArgs(rest)
	if name == "" {
		return CommandResult{Handled: true, Message: "Usage: mount <part> [slot#]"}
	}
	part, err := ParseSlotType(name)
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown truss part: %s.", name)}
	}
	index := number - 1
	if number == 0 {
		free, ok := c.Station.Ledger.FirstFreeSlot(part)
		if !ok {
			return CommandResult{Handled: true, Message: fmt.Sprintf("No free %s slot on the truss.", part)}
		}
		index = free
	}
	if err := c.Station.MountSpare(index, part); err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	gc.persistStation(c.Station)
	return CommandResult{Handled: true, Message: fmt.Sprintf("Spare %s mounted on truss slot %d.", part, index+1)}
}

func (c *Colony) executeUnmountCommand(gc *GameContext, args []string) CommandResult {
	number, rest := extractNumber(args, 0)
	name := partArgs(rest)
	if name == "" || number == 0 {
		return CommandResult{Handled: true, Message: "Usage: unmount <part> <slot#>"}
	}
	part, err := ParseSlotType(name)
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown truss part: %s.", name)}
	}
	if err := c.Station.UnmountPart(number-1, part); err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	gc.persistStation(c.Station)
	return CommandResult{Handled: true, Message: fmt.Sprintf("%s taken off truss slot %d and stored as a spare.", part, number)}
}

func (c *Colony) executeOrderCommand(gc *GameContext, args []string, now time.Time) CommandResult {
	boxes, rest := extractNumber(args, 1)
	if len(rest) == 0 {
		return CommandResult{Handled: true, Message: "Usage: order <ingredient> [boxes]"}
	}
	ingredient, err := ParseIngredient(strings.Join(rest, " "))
	if err != nil {
		return CommandResult{Handled: true, Message: fmt.Sprintf("Unknown ingredient: %s.", strings.Join(rest, " "))}
	}
	if err := OrderFromEarth(gc, c.Player, &c.Station.Ledger, ingredient, boxes, now); err != nil {
		return CommandResult{Handled: true, Message: describeError(err)}
	}
	gc.persistStation(c.Station)
	return CommandResult{
		Handled: true,
		Message: fmt.Sprintf("Ordered %d boxes of %s. Money left: %d.", boxes, ingredient.Name(), c.Player.Money),
	}
}

func (c *Colony) executeAccountCommand(gc *GameContext, now time.Time) CommandResult {
	var cityReports []AccountingReport
	if c.City != nil {
		cityReports = c.City.RunAccounting(gc, now)
	}
	reports := c.Station.RunAccounting(gc, now)
	if len(reports) == 0 && len(cityReports) == 0 {
		return CommandResult{Handled: true, Message: "Accounting is up to date."}
	}
	var lines []string
	if len(reports) > 0 {
		last := reports[len(reports)-1]
		lines = append(lines, fmt.Sprintf("Ran %d accounting ticks. Energy %d/%d, air %s, water %d, food %d, %d problems.",
			len(reports), last.EnergyStored, last.EnergyCapacity, last.AirQuality, last.Water, last.Food, countProblems(reports)))
	}
	if len(cityReports) > 0 {
		last := cityReports[len(cityReports)-1]
		lines = append(lines, fmt.Sprintf("City %s: %d ticks, air %s, water %d, food %d, %d problems.",
			c.City.Name, len(cityReports), last.AirQuality, last.Water, last.Food, countProblems(cityReports)))
	}
	return CommandResult{Handled: true, Message: strings.Join(lines, "\n")}
}

func countProblems(reports []AccountingReport) int {
	problems := 0
	for _, r := range reports {
		problems += len(r.Problems)
	}
	return problems
}

func (c *Colony) executeMessagesCommand(gc *GameContext) CommandResult {
	unread := gc.Board.Unread()
	if len(unread) == 0 {
		return CommandResult{Handled: true, Message: "No new messages."}
	}
	lines := make([]string, 0, len(unread))
	for _, msg := range unread {
		lines = append(lines, fmt.Sprintf("[%s] %s %s", msg.Type, msg.Date.Format("Jan 2 15:04"), msg.Text))
	}
	gc.Board.MarkAllRead()
	return CommandResult{Handled: true, Message: strings.Join(lines, "\n")}
}

// selectWorkers picks idle people in order until their summed skills cover
// required. When nobody can cover it every contributor is returned so the
// shortfall surfaces from validation.
func selectWorkers(required map[Skill]int, idle []Person) []string {
	chosen := make([]Person, 0)
	for _, p := range idle {
		missing := ValidateSkills(required, chosen)
		if len(missing) == 0 {
			break
		}
		if slices.ContainsFunc(missing, func(s Skill) bool { return p.Skills[s] > 0 }) {
			chosen = append(chosen, p)
		}
	}
	ids := make([]string, 0, len(chosen))
	for _, p := range chosen {
		ids = append(ids, p.ID)
	}
	return ids
}

// extractNumber pulls a trailing integer off args.
func extractNumber(args []string, fallback int) (int, []string) {
	if len(args) == 0 {
		return fallback, args
	}
	last := strings.TrimPrefix(args[len(args)-1], "#")
	n, err := strconv.Atoi(last)
	if err != nil || n < 1 {
		return fallback, args
	}
	return n, args[:len(args)-1]
}

func labIDForNumber(n int) string {
	return fmt.Sprintf("lab-%d", n)
}

func experienceFor(kind ActivityKind) int {
	if kind.Type == ActivityTech {
		return 25
	}
	return 10
}

func describeError(err error) string {
	var resources *ResourceShortfallError
	var skills *SkillShortfallError
	switch {
	case errors.As(err, &resources):
		names := make([]string, 0, len(resources.Lacking))
		for _, ingredient := range resources.Lacking {
			names = append(names, ingredient.Name())
		}
		return "Not enough " + strings.Join(names, ", ") + "."
	case errors.As(err, &skills):
		names := make([]string, 0, len(skills.Missing))
		for _, skill := range skills.Missing {
			names = append(names, string(skill))
		}
		return "Crew lacks skills: " + strings.Join(names, ", ") + "."
	case IsInvalidTransition(err):
		return "Cannot do that now: " + err.Error() + "."
	default:
		return "Failed: " + err.Error() + "."
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
