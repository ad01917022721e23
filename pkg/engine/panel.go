package engine

import (
	"fmt"
	"strings"
)

// Panel is the side panel collaborator. The engine calls it every time it
// executes a highlight, and clears it on every load and reset.
type Panel interface {
	TargetChanged(label string, neighborLabels []string)
	TargetCleared()
}

// NopPanel ignores all updates.
type NopPanel struct{}

func (NopPanel) TargetChanged(string, []string) {}
func (NopPanel) TargetCleared()                 {}

// PanelFuncs adapts a pair of functions to Panel. Nil fields are skipped.
type PanelFuncs struct {
	Changed func(label string, neighborLabels []string)
	Cleared func()
}

func (p PanelFuncs) TargetChanged(label string, neighborLabels []string) {
	if p.Changed != nil {
		p.Changed(label, neighborLabels)
	}
}

func (p PanelFuncs) TargetCleared() {
	if p.Cleared != nil {
		p.Cleared()
	}
}

// NoNeighbors is the card body shown for a node without neighbors.
const NoNeighbors = "--"

// Card is the content of the node card for the highlighted node.
type Card struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Neighbors []string `json:"neighbors"`
}

// Header returns "Neighbors (n)", or "Neighbors" when there are none.
func (c Card) Header() string {
	if len(c.Neighbors) == 0 {
		return "Neighbors"
	}
	return fmt.Sprintf("Neighbors (%d)", len(c.Neighbors))
}

// Lines returns the neighbor labels, or a single [NoNeighbors] line.
func (c Card) Lines() []string {
	if len(c.Neighbors) == 0 {
		return []string{NoNeighbors}
	}
	return c.Neighbors
}

// String renders the card as plain text.
func (c Card) String() string {
	var b strings.Builder
	b.WriteString(c.Label)
	b.WriteByte('\n')
	b.WriteString(c.Header())
	for _, l := range c.Lines() {
		b.WriteString("\n  ")
		b.WriteString(l)
	}
	return b.String()
}

// Card returns the card of the highlighted node. ok is false when nothing
// is highlighted.
func (e *Engine) Card() (card Card, ok bool) {
	if !e.loaded || e.target == "" {
		return Card{}, false
	}
	return e.CardFor(e.target)
}

// CardFor returns the card of an arbitrary node.
func (e *Engine) CardFor(id string) (Card, bool) {
	if !e.loaded {
		return Card{}, false
	}
	n := e.net.Lookup(id)
	if n == nil {
		return Card{}, false
	}
	ids := e.adj.NeighborsOf(id)
	labels := make([]string, len(ids))
	for i, nid := range ids {
		labels[i] = e.net.Lookup(nid).DisplayLabel()
	}
	return Card{ID: id, Label: n.DisplayLabel(), Neighbors: labels}, true
}
