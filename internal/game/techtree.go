package game

import (
	"fmt"
	"time"
)

// NodeID addresses a node inside its TechTree arena.
type NodeID int

const NoParent NodeID = -1

// distantPast marks nodes fast-forwarded from server-confirmed items.
var distantPast = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

type TechNode struct {
	Item        TechItem      `json:"value"`
	Unlocked    bool          `json:"unlocked"`
	DateStarted *time.Time    `json:"date_started,omitempty"`
	Duration    time.Duration `json:"duration"`
	Parent      NodeID        `json:"parent"`
	Children    []NodeID      `json:"children,omitempty"`
}

// Equal compares nodes by tech identifier only.
func (n TechNode) Equal(other TechNode) bool {
	return n.Item == other.Item
}

// TechTree stores every node in one slice; parents and children refer to
// each other by index. Node 0 is the root.
type TechTree struct {
	Nodes []TechNode `json:"nodes"`
}

func NewTechTree(now time.Time) *TechTree {
	t := &TechTree{}
	t.add(techTreeLayout, NoParent)
	root := &t.Nodes[t.Root()]
	root.Unlocked = true
	started := now.Add(-root.Duration - time.Second)
	root.DateStarted = &started
	return t
}

func (t *TechTree) add(branch techBranch, parent NodeID) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, TechNode{
		Item:     branch.Item,
		Duration: branch.Item.Duration(),
		Parent:   parent,
	})
	for _, child := range branch.Children {
		childID := t.add(child, id)
		t.Nodes[id].Children = append(t.Nodes[id].Children, childID)
	}
	return id
}

func (t *TechTree) Root() NodeID {
	return 0
}

func (t *TechTree) node(id NodeID) *TechNode {
	if t == nil || id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

func (t *TechTree) Node(id NodeID) (TechNode, bool) {
	n := t.node(id)
	if n == nil {
		return TechNode{}, false
	}
	return *n, true
}

func (t *TechTree) Unlock(id NodeID) {
	if n := t.node(id); n != nil {
		n.Unlocked = true
	}
}

// StartResearch stamps the start date and refreshes the duration from the
// catalog. Locked or already started nodes are left untouched.
func (t *TechTree) StartResearch(id NodeID, now time.Time) error {
	n := t.node(id)
	if n == nil {
		return fmt.Errorf("tech node %d: %w", id, ErrNotFound)
	}
	if !n.Unlocked {
		return fmt.Errorf("%s: %w", n.Item, ErrNotUnlocked)
	}
	if n.DateStarted != nil {
		return fmt.Errorf("%s: %w", n.Item, ErrAlreadyStarted)
	}
	started := now
	n.DateStarted = &started
	n.Duration = n.Item.Duration()
	return nil
}

// IsResearchComplete has no side effects.
func (t *TechTree) IsResearchComplete(id NodeID, now time.Time) bool {
	n := t.node(id)
	if n == nil || n.DateStarted == nil {
		return false
	}
	return !n.DateStarted.Add(n.Duration).After(now)
}

// PollAndAdvance reports whether research on id has finished and, when it
// has, unlocks every direct child.
func (t *TechTree) PollAndAdvance(id NodeID, now time.Time) bool {
	if !t.IsResearchComplete(id, now) {
		return false
	}
	for _, child := range t.Nodes[id].Children {
		t.Nodes[child].Unlocked = true
	}
	return true
}

// Search walks depth first from the root and returns the first node holding item.
func (t *TechTree) Search(item TechItem) (NodeID, bool) {
	if t == nil || len(t.Nodes) == 0 {
		return 0, false
	}
	return t.searchFrom(t.Root(), item)
}

func (t *TechTree) searchFrom(id NodeID, item TechItem) (NodeID, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	if n.Item == item {
		return id, true
	}
	for _, child := range n.Children {
		if found, ok := t.searchFrom(child, item); ok {
			return found, true
		}
	}
	return 0, false
}

func (t *TechTree) Contains(item TechItem) bool {
	_, ok := t.Search(item)
	return ok
}

// AccountForItems fast-forwards nodes the server already confirmed. Matching
// nodes become finished and their direct children unlocked; grandchildren
// are not touched.
func (t *TechTree) AccountForItems(items []TechItem) {
	for _, item := range items {
		id, ok := t.Search(item)
		if !ok {
			continue
		}
		n := &t.Nodes[id]
		n.Unlocked = true
		started := distantPast
		n.DateStarted = &started
		for _, child := range n.Children {
			t.Nodes[child].Unlocked = true
		}
	}
}

// Unlocked lists nodes a player can start now: unlocked and never started.
func (t *TechTree) Unlocked(now time.Time) []NodeID {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	out := make([]NodeID, 0)
	queue := []NodeID{t.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := t.Nodes[id]
		if n.Unlocked && n.DateStarted == nil && !t.IsResearchComplete(id, now) {
			out = append(out, id)
		}
		queue = append(queue, n.Children...)
	}
	return out
}

func (t *TechTree) NodesAt(depth int) []NodeID {
	if t == nil || len(t.Nodes) == 0 || depth < 0 {
		return nil
	}
	return t.collectAt(t.Root(), depth, nil)
}

func (t *TechTree) collectAt(id NodeID, depth int, acc []NodeID) []NodeID {
	if depth == 0 {
		return append(acc, id)
	}
	for _, child := range t.Nodes[id].Children {
		acc = t.collectAt(child, depth-1, acc)
	}
	return acc
}

func (t *TechTree) Depth(id NodeID) int {
	depth := 0
	for n := t.node(id); n != nil && n.Parent != NoParent; n = t.node(n.Parent) {
		depth++
	}
	return depth
}

// CompletedFrom collects finished items below id, parents before children.
// Each branch builds its own list.
func (t *TechTree) CompletedFrom(id NodeID, now time.Time) []TechItem {
	n := t.node(id)
	if n == nil || !t.IsResearchComplete(id, now) {
		return nil
	}
	out := []TechItem{n.Item}
	for _, child := range n.Children {
		out = append(out, t.CompletedFrom(child, now)...)
	}
	return out
}

func (t *TechTree) CompletedItems(now time.Time) []TechItem {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	return t.CompletedFrom(t.Root(), now)
}

func (t *TechTree) IsItemComplete(item TechItem, now time.Time) bool {
	id, ok := t.Search(item)
	return ok && t.IsResearchComplete(id, now)
}
