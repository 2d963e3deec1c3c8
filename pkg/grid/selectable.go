package grid

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/selection"
)

// Select adds items to the selection. It is a no-op when selection is off.
func (g *Grid) Select(items ...selection.Item) {
	g.mu.Lock()
	if g.selectable != nil {
		g.selectable.Value(items...)
	}
	g.mu.Unlock()
	g.events.flush(g)
}

// ClearSelection empties the selection.
func (g *Grid) ClearSelection() {
	g.mu.Lock()
	if g.selectable != nil {
		g.selectable.Clear()
	}
	g.mu.Unlock()
	g.events.flush(g)
}

// Selection returns the selected items in selection order.
func (g *Grid) Selection() []selection.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selectable == nil {
		return nil
	}
	return g.selectable.Items()
}

// SelectedNodes returns the rows or cells currently selected.
func (g *Grid) SelectedNodes() []*html.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selectable == nil {
		return nil
	}
	return g.selectable.Nodes()
}
