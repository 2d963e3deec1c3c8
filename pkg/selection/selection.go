package selection

import (
	"errors"
	"slices"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

// ClassSelected marks selected nodes.
const ClassSelected = "t-state-selected"

// Scope decides what a selection item addresses.
type Scope int

const (
	// ScopeRow selects whole body rows.
	ScopeRow Scope = iota + 1
	// ScopeCell selects individual body cells.
	ScopeCell
)

func (s Scope) String() string {
	switch s {
	case ScopeRow:
		return "row"
	case ScopeCell:
		return "cell"
	default:
		return "none"
	}
}

// Item is a logical position in the table body. Col is ignored for row scope.
type Item struct {
	Row int
	Col int
}

// Options configure a Selectable.
type Options struct {
	Scope    Scope
	Multi    bool
	Class    string
	OnChange func()
}

// Selectable tracks selected rows or cells by position and marks the live
// nodes they resolve to under root.
type Selectable struct {
	mu    sync.Mutex
	root  *html.Node
	opts  Options
	items []Item
}

// New attaches a selection helper to root, normally the grid table.
func New(root *html.Node, opts Options) (*Selectable, error) {
	if root == nil {
		return nil, errors.New("selection: root is required")
	}
	if opts.Scope != ScopeRow && opts.Scope != ScopeCell {
		opts.Scope = ScopeRow
	}
	if opts.Class == "" {
		opts.Class = ClassSelected
	}
	return &Selectable{root: root, opts: opts}, nil
}

// Scope returns the configured scope.
func (s *Selectable) Scope() Scope {
	return s.opts.Scope
}

// Multi reports whether more than one item may be selected.
func (s *Selectable) Multi() bool {
	return s.opts.Multi
}

// SetRoot moves the helper to a new root, e.g. after the table is rebuilt.
func (s *Selectable) SetRoot(root *html.Node) {
	if root == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

// Items returns the selected items in selection order.
func (s *Selectable) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Has reports whether item is selected.
func (s *Selectable) Has(item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.items, s.key(item))
}

// Nodes resolves the selected items to live nodes, skipping items that no
// longer exist.
func (s *Selectable) Nodes() []*html.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*html.Node
	for _, item := range s.items {
		if n := s.resolve(item); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Value adds items to the selection. In single mode only the last item is
// kept. Items that do not resolve to a node are ignored.
func (s *Selectable) Value(items ...Item) {
	s.mu.Lock()
	changed := false
	for _, item := range items {
		item = s.key(item)
		node := s.resolve(item)
		if node == nil || slices.Contains(s.items, item) {
			continue
		}
		if !s.opts.Multi {
			s.unmarkAll()
			s.items = s.items[:0]
		}
		s.items = append(s.items, item)
		dom.AddClass(node, s.opts.Class)
		changed = true
	}
	s.mu.Unlock()
	if changed {
		s.changed()
	}
}

// Clear empties the selection.
func (s *Selectable) Clear() {
	s.mu.Lock()
	changed := len(s.items) > 0
	s.unmarkAll()
	s.items = nil
	s.mu.Unlock()
	if changed {
		s.changed()
	}
}

// Reset drops the selection without touching nodes, for use after the nodes
// were discarded. It reports whether anything was selected.
func (s *Selectable) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := len(s.items) > 0
	s.items = nil
	return had
}

func (s *Selectable) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

func (s *Selectable) unmarkAll() {
	for _, item := range s.items {
		dom.RemoveClass(s.resolve(item), s.opts.Class)
	}
}

func (s *Selectable) key(item Item) Item {
	if s.opts.Scope == ScopeRow {
		item.Col = 0
	}
	return item
}

func (s *Selectable) resolve(item Item) *html.Node {
	body := dom.Child(s.root, "tbody")
	if body == nil {
		body = s.root
	}
	rows := dom.Children(body, "tr")
	if item.Row < 0 || item.Row >= len(rows) {
		return nil
	}
	row := rows[item.Row]
	if s.opts.Scope == ScopeRow {
		return row
	}
	cells := dom.Children(row, "td")
	if item.Col < 0 || item.Col >= len(cells) {
		return nil
	}
	return cells[item.Col]
}
