package grid

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/column"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/pager"
	"github.com/goliatone/go-datagrid/pkg/render"
	"github.com/goliatone/go-datagrid/pkg/selection"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

// The build steps below run with g.mu held. Each detects structure left by an
// earlier construction on the same markup and reuses it.

func (g *Grid) buildElement() {
	tabindex, _ := dom.Attr(g.root, "tabindex")
	n, err := strconv.Atoi(strings.TrimSpace(tabindex))
	if err != nil || n < 0 {
		n = 0
	}
	dom.SetAttr(g.root, "tabindex", strconv.Itoa(n))

	table := g.root
	if !dom.Is(table, "table") {
		table = nil
		if content := dom.FindClass(g.root, firstClass(g.classes.Content)); content != nil {
			table = dom.Child(content, "table")
		}
		if table == nil {
			table = dom.Find(g.root, "table")
		}
		if table == nil {
			table = dom.Element("table")
			g.root.AppendChild(table)
		}
	}
	dom.SetAttr(table, "cellspacing", "0")
	g.table = table

	parent := table.Parent
	if g.inContent(table) {
		parent = parent.Parent
	}
	if !dom.Is(parent, "div") {
		parent = dom.Element("div")
		dom.Wrap(table, parent)
	}
	dom.AddClass(parent, g.classes.Wrapper)
	g.wrapper = parent
}

func (g *Grid) buildDataSource() error {
	src := g.cfg.DataSource
	var (
		ds  *datasource.DataSource
		err error
	)
	switch src.kind {
	case dataSourceInstance:
		ds = src.instance
	case dataSourceRemote:
		ds, err = datasource.FromTransport(src.transport, datasource.WithLogger(g.logger))
	default:
		ds, err = datasource.FromInline(src.records, datasource.WithLogger(g.logger))
	}
	if err != nil {
		return fmt.Errorf("grid: data source: %w", err)
	}

	hints := datasource.Hints{Fields: g.columns.Fields()}
	if g.cfg.Paging.Mode() == PagingModeOn {
		hints.PageSize = g.cfg.Paging.PageSize()
	}
	ds.Bind(hints)
	g.ds = ds
	g.cancels = append(g.cancels, ds.Subscribe(g.onDataChange))
	return nil
}

func (g *Grid) buildBody() {
	body := dom.Child(g.table, "tbody")
	if body == nil {
		body = dom.Element("tbody")
		g.table.AppendChild(body)
	}
	g.tbody = body
}

// buildHead ensures a header row with one th per column, moves it into the
// header section and applies sorting and the scrollable layout.
func (g *Grid) buildHead() error {
	thead := g.thead
	if thead == nil {
		thead = dom.Child(g.table, "thead")
	}
	if thead == nil {
		thead = dom.Element("thead")
		dom.InsertBefore(g.tbody, thead)
	}

	row := headerRow(thead, g.table)
	if row == nil {
		row = dom.Child(thead, "tr")
	}
	if row == nil {
		row = dom.Element("tr")
	}
	if dom.Child(row, "th") == nil {
		for _, def := range g.columns {
			th := dom.Element("th", column.AttrField, def.Field)
			th.AppendChild(dom.TextNode(def.Label()))
			row.AppendChild(th)
		}
	}

	headers := dom.Children(row, "th")
	for i, th := range headers {
		dom.AddClass(th, g.classes.Header)
		if _, ok := dom.Attr(th, column.AttrField); !ok && i < len(g.columns) {
			dom.SetAttr(th, column.AttrField, g.columns[i].Field)
		}
	}
	if row.Parent != thead {
		dom.Append(thead, row)
	}
	g.thead = thead

	if g.cfg.Sorting.Enabled() {
		if g.sorter == nil {
			sorter, err := sortable.New(headers, g.ds, g.cfg.Sorting.options, g.logger)
			if err != nil {
				return fmt.Errorf("grid: %w", err)
			}
			g.sorter = sorter
		} else {
			g.sorter.SetHeaders(headers)
		}
	}

	if g.cfg.Scrollable {
		g.buildScrollable()
	}
	return nil
}

func headerRow(scopes ...*html.Node) *html.Node {
	for _, scope := range scopes {
		for _, tr := range dom.FindAll(scope, "tr") {
			if dom.Child(tr, "th") != nil {
				return tr
			}
		}
	}
	return nil
}

// buildScrollable splits the header into its own table above a scrollable
// content area.
func (g *Grid) buildScrollable() {
	header := g.wrapperChild(g.classes.GridHeader)
	if header == nil {
		header = dom.Element("div", "class", g.classes.GridHeader)
		anchor := g.table
		if g.inContent(g.table) {
			anchor = g.table.Parent
		}
		dom.InsertBefore(anchor, header)
	}
	dom.SetAttr(header, "style", fmt.Sprintf("padding-right:%dpx", g.scrollW))

	headerTable := dom.Element("table", "cellspacing", "0")
	dom.Append(headerTable, g.thead)
	dom.Empty(header)
	wrap := dom.Element("div", "class", g.classes.HeaderWrap)
	wrap.AppendChild(headerTable)
	header.AppendChild(wrap)

	if !g.inContent(g.table) {
		dom.Wrap(g.table, dom.Element("div", "class", g.classes.Content))
	}
}

func (g *Grid) compileTemplates() error {
	rows, err := g.compiler.Templates(g.columns, render.Options{
		RowTemplate:    g.cfg.RowTemplate,
		AltRowTemplate: g.cfg.AltRowTemplate,
		Settings:       g.cfg.TemplateSettings,
		AltClass:       g.classes.Alt,
	})
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	g.rows = rows
	return nil
}

func (g *Grid) buildPager() error {
	paging := g.cfg.Paging
	if !paging.Enabled() {
		return nil
	}

	container := g.wrapperChild(g.classes.Pager)
	if container == nil {
		container = dom.Element("div", "class", g.classes.Pager)
		g.wrapper.AppendChild(container)
	}
	if paging.Mode() == PagingModeProvided {
		g.pager = paging.pager
		return nil
	}

	list := dom.Child(container, "ul")
	if list == nil {
		list = dom.Element("ul")
		container.AppendChild(list)
	}
	opts := []pager.Option{pager.WithLogger(g.logger)}
	if paging.buttonCount > 0 {
		opts = append(opts, pager.WithButtonCount(paging.buttonCount))
	}
	p, err := pager.New(list, g.ds, opts...)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	g.pager = p
	g.ownsPager = true
	return nil
}

func (g *Grid) buildNavigation() {
	dom.AddClass(g.root, g.classes.Focusable)
}

func (g *Grid) buildSelection() error {
	sel := g.cfg.Selection
	if !sel.Enabled() {
		return nil
	}
	s, err := selection.New(g.table, selection.Options{
		Scope:    sel.Scope(),
		Multi:    sel.Multi(),
		Class:    g.classes.Selected,
		OnChange: func() { g.events.queue(EventChange) },
	})
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	g.selectable = s
	return nil
}

func (g *Grid) wrapperChild(classes string) *html.Node {
	class := firstClass(classes)
	for _, div := range dom.Children(g.wrapper, "div") {
		if dom.HasClass(div, class) {
			return div
		}
	}
	return nil
}

func (g *Grid) inContent(table *html.Node) bool {
	parent := table.Parent
	return dom.Is(parent, "div") && dom.HasClass(parent, firstClass(g.classes.Content))
}

func removeClasses(n *html.Node, classes string) {
	for _, class := range strings.Fields(classes) {
		dom.RemoveClass(n, class)
	}
}
