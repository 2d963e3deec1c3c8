package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/selection"
)

// Coord addresses a body cell by row and column index.
type Coord struct {
	Row int
	Col int
}

// Key is a navigation key.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeySpace
)

var keyNames = map[string]Key{
	"up":       KeyUp,
	"down":     KeyDown,
	"left":     KeyLeft,
	"right":    KeyRight,
	"pageup":   KeyPageUp,
	"pagedown": KeyPageDown,
	"space":    KeySpace,
	" ":        KeySpace,
}

// ParseKey maps names such as "Up", "ArrowLeft", "PageDown" or "Space" to a
// Key.
func ParseKey(name string) Key {
	n := strings.ToLower(name)
	if n != " " {
		n = strings.TrimSpace(n)
	}
	n = strings.TrimPrefix(n, "arrow")
	n = strings.ReplaceAll(n, "-", "")
	n = strings.ReplaceAll(n, "_", "")
	if key, ok := keyNames[n]; ok {
		return key
	}
	return KeyUnknown
}

func (k Key) String() string {
	for name, key := range keyNames {
		if key == k && name != " " {
			return name
		}
	}
	return "unknown"
}

// KeyEvent is a key press delivered to the grid.
type KeyEvent struct {
	Key  Key
	Ctrl bool
}

// Current returns the current cell coordinate.
func (g *Grid) Current() (Coord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Coord{}, false
	}
	return *g.current, true
}

// CurrentNode returns the current cell node, or nil.
func (g *Grid) CurrentNode() *html.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	return g.cellAt(*g.current)
}

// SetCurrent moves the current cell to c. Coordinates outside the body are
// ignored.
func (g *Grid) SetCurrent(c Coord) {
	g.mu.Lock()
	g.setCurrent(c)
	g.mu.Unlock()
	g.events.flush(g)
}

// SetCurrentNode moves the current cell to the body cell containing n.
func (g *Grid) SetCurrentNode(n *html.Node) {
	g.mu.Lock()
	if c, ok := g.coordOf(n); ok {
		g.setCurrent(c)
	}
	g.mu.Unlock()
	g.events.flush(g)
}

// Focus marks the current cell, defaulting to the first cell.
func (g *Grid) Focus() {
	g.mu.Lock()
	if g.current != nil && g.cellAt(*g.current) != nil {
		dom.AddClass(g.cellAt(*g.current), g.classes.Focused)
	} else {
		g.current = nil
		g.setCurrent(Coord{})
	}
	g.mu.Unlock()
}

// Blur unmarks and clears the current cell.
func (g *Grid) Blur() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearCurrent()
}

// PointerDown makes the body cell containing n current. Nodes outside the
// body are ignored.
func (g *Grid) PointerDown(n *html.Node) {
	g.mu.Lock()
	if dom.HasClass(g.root, firstClass(g.classes.Focusable)) {
		if c, ok := g.coordOf(n); ok {
			g.setCurrent(c)
		}
	}
	g.mu.Unlock()
	g.events.flush(g)
}

// KeyDown handles a key press without a deadline.
func (g *Grid) KeyDown(ev KeyEvent) error {
	return g.KeyDownContext(context.Background(), ev)
}

// KeyDownContext handles a key press. Arrow keys move the current cell and
// stop at the edges. PAGE-UP and PAGE-DOWN request the next and previous page
// when paging is on; a page outside the data source's range is ignored, other
// data source failures are returned. SPACE selects the current row or cell.
func (g *Grid) KeyDownContext(ctx context.Context, ev KeyEvent) error {
	var (
		target int
		paging bool
	)

	g.mu.Lock()
	switch ev.Key {
	case KeyUp:
		g.move(-1, 0)
	case KeyDown:
		g.move(1, 0)
	case KeyLeft:
		g.move(0, -1)
	case KeyRight:
		g.move(0, 1)
	case KeyPageUp, KeyPageDown:
		if g.cfg.Paging.Enabled() {
			g.clearCurrent()
			paging = true
			target = g.ds.Page() + 1
			if ev.Key == KeyPageDown {
				target = g.ds.Page() - 1
			}
		}
	case KeySpace:
		g.selectCurrent(ev.Ctrl)
	}
	g.mu.Unlock()
	g.events.flush(g)

	if !paging {
		return nil
	}
	err := g.ds.SetPage(ctx, target)
	if errors.Is(err, datasource.ErrPageOutOfRange) {
		g.logger.V(1).Info("page change rejected", "page", target, "error", err.Error())
		return nil
	}
	if err != nil {
		return fmt.Errorf("grid: go to page %d: %w", target, err)
	}
	return nil
}

func (g *Grid) move(dRow, dCol int) {
	if g.current == nil {
		g.setCurrent(Coord{})
		return
	}
	g.setCurrent(Coord{Row: g.current.Row + dRow, Col: g.current.Col + dCol})
}

func (g *Grid) setCurrent(c Coord) {
	cell := g.cellAt(c)
	if cell == nil {
		return
	}
	if g.current != nil && *g.current != c {
		removeClasses(g.cellAt(*g.current), g.classes.Focused)
	}
	dom.AddClass(cell, g.classes.Focused)
	g.current = &c
}

func (g *Grid) clearCurrent() {
	if g.current == nil {
		return
	}
	removeClasses(g.cellAt(*g.current), g.classes.Focused)
	g.current = nil
}

func (g *Grid) selectCurrent(ctrl bool) {
	if g.selectable == nil || g.current == nil {
		return
	}
	if !g.selectable.Multi() || !ctrl {
		g.selectable.Clear()
	}
	g.selectable.Value(selection.Item{Row: g.current.Row, Col: g.current.Col})
}

func (g *Grid) cellAt(c Coord) *html.Node {
	rows := dom.Children(g.tbody, "tr")
	if c.Row < 0 || c.Row >= len(rows) {
		return nil
	}
	cells := dom.Children(rows[c.Row], "td")
	if c.Col < 0 || c.Col >= len(cells) {
		return nil
	}
	return cells[c.Col]
}

func (g *Grid) coordOf(n *html.Node) (Coord, bool) {
	td := dom.Closest(n, "td", g.tbody)
	if td == nil || td.Parent == nil || td.Parent.Parent != g.tbody {
		return Coord{}, false
	}
	row := indexOf(dom.Children(g.tbody, "tr"), td.Parent)
	col := indexOf(dom.Children(td.Parent, "td"), td)
	if row < 0 || col < 0 {
		return Coord{}, false
	}
	return Coord{Row: row, Col: col}, true
}

func indexOf(nodes []*html.Node, n *html.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
