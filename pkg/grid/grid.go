package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/column"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/pager"
	"github.com/goliatone/go-datagrid/pkg/render"
	"github.com/goliatone/go-datagrid/pkg/selection"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

// ErrNoRoot is returned when New is given no element to decorate.
var ErrNoRoot = errors.New("grid: root element is required")

// Grid decorates a table element with data-bound rows, header, pager,
// keyboard navigation and selection.
//
// A single mutex serialises refreshes and input handling. Data source calls
// and event handlers run after it is released so handlers may call back into
// the grid.
type Grid struct {
	mu sync.Mutex

	cfg      Config
	classes  Classes
	logger   logr.Logger
	compiler *render.Compiler
	strategy dom.BodyStrategy
	scrollW  int

	root    *html.Node
	table   *html.Node
	wrapper *html.Node
	thead   *html.Node
	tbody   *html.Node

	columns    column.Set
	rows       render.RowTemplates
	ds         *datasource.DataSource
	pager      *pager.Pager
	ownsPager  bool
	sorter     *sortable.Handler
	selectable *selection.Selectable
	current    *Coord

	events  *emitter
	cancels []func()
}

// New builds the grid structure around root, which is either a table or a
// container the table is created in. Unless cfg.AutoBind is false the data
// source is queried before New returns.
func New(ctx context.Context, root *html.Node, cfg Config, opts ...Option) (*Grid, error) {
	if root == nil || root.Type != html.ElementNode {
		return nil, ErrNoRoot
	}

	o := options{
		logger:         logr.Discard(),
		scrollbarWidth: defaultScrollbarWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.strategy == 0 {
		o.strategy = dom.ProbeBodyStrategy()
	}
	if o.compiler == nil {
		compiler, err := render.NewCompiler(render.WithLogger(o.logger))
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
		o.compiler = compiler
	}

	g := &Grid{
		cfg:      cfg,
		classes:  ClassesFromTheme(o.theme),
		logger:   o.logger,
		compiler: o.compiler,
		strategy: o.strategy,
		scrollW:  o.scrollbarWidth,
		root:     root,
		events:   newEmitter(),
	}
	g.events.bind(EventChange, cfg.OnChange)
	g.events.bind(EventDataBound, cfg.OnDataBound)

	g.mu.Lock()
	err := g.build()
	g.mu.Unlock()
	if err != nil {
		g.Close()
		return nil, err
	}
	g.logger.V(1).Info("grid created",
		"columns", len(g.columns),
		"paging", cfg.Paging.Enabled(),
		"selection", cfg.Selection.String(),
		"strategy", g.strategy.String(),
	)

	if cfg.autoBind() {
		if err := g.ds.Query(ctx); err != nil {
			g.Close()
			return nil, fmt.Errorf("grid: initial query: %w", err)
		}
	}
	return g, nil
}

func (g *Grid) build() error {
	g.buildElement()
	g.columns = column.Resolve(g.cfg.Columns, dom.FindAll(g.table, "th"))
	if err := g.buildDataSource(); err != nil {
		return err
	}
	g.buildBody()
	if err := g.buildHead(); err != nil {
		return err
	}
	if err := g.compileTemplates(); err != nil {
		return err
	}
	if err := g.buildPager(); err != nil {
		return err
	}
	g.buildNavigation()
	return g.buildSelection()
}

// Bind registers fn for the named event and returns a function that removes
// it.
func (g *Grid) Bind(event string, fn Handler) func() {
	return g.events.bind(event, fn)
}

// Close detaches the grid from its data source. The tree is left as is.
func (g *Grid) Close() {
	g.mu.Lock()
	cancels := g.cancels
	g.cancels = nil
	p, owns, sorter := g.pager, g.ownsPager, g.sorter
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if p != nil && owns {
		p.Close()
	}
	if sorter != nil {
		sorter.Close()
	}
}

// Click dispatches an activation on node to the pager, the sortable header or
// the body, whichever contains it.
func (g *Grid) Click(ctx context.Context, node *html.Node) error {
	g.mu.Lock()
	p, sorter, thead := g.pager, g.sorter, g.thead
	g.mu.Unlock()

	switch {
	case p != nil && dom.Contains(p.Container(), node):
		return p.Click(ctx, node)
	case sorter != nil && dom.Contains(thead, node):
		return sorter.Click(ctx, node)
	default:
		g.PointerDown(node)
		return nil
	}
}

// HTML renders the wrapper and everything in it.
func (g *Grid) HTML() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return dom.Render(g.wrapper)
}

// Root returns the element the grid was created on.
func (g *Grid) Root() *html.Node { return g.root }

// Table returns the data table.
func (g *Grid) Table() *html.Node { return g.table }

// Wrapper returns the outer div.
func (g *Grid) Wrapper() *html.Node { return g.wrapper }

// Head returns the header section.
func (g *Grid) Head() *html.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.thead
}

// Body returns the live body section. It may change across refreshes.
func (g *Grid) Body() *html.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tbody
}

// Columns returns a copy of the resolved columns.
func (g *Grid) Columns() column.Set {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.columns.Clone()
}

// Templates returns the compiled row templates.
func (g *Grid) Templates() render.RowTemplates {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows
}

// DataSource returns the bound data source.
func (g *Grid) DataSource() *datasource.DataSource { return g.ds }

// Pager returns the pager, or nil when paging is off.
func (g *Grid) Pager() *pager.Pager { return g.pager }

// Classes returns the marker classes in use.
func (g *Grid) Classes() Classes { return g.classes }

// Strategy returns the body replacement strategy in use.
func (g *Grid) Strategy() dom.BodyStrategy { return g.strategy }
