package grid

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-datagrid/pkg/column"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
)

func (g *Grid) onDataChange() {
	if err := g.Refresh(); err != nil {
		g.logger.Error(err, "grid refresh failed")
	}
}

// Refresh re-renders the body from the data source's current view and fires
// dataBound. If the columns are still unknown they are inferred from the
// first record. On error the body is left untouched.
func (g *Grid) Refresh() error {
	view := g.ds.View()

	g.mu.Lock()
	err := g.refresh(view)
	g.mu.Unlock()

	g.events.flush(g)
	return err
}

func (g *Grid) refresh(view []datasource.Record) error {
	if len(g.columns) == 0 && len(view) > 0 {
		g.columns = column.FromRecord(view[0])
		g.ds.Bind(datasource.Hints{Fields: g.columns.Fields()})
		if err := g.buildHead(); err != nil {
			return err
		}
		if err := g.compileTemplates(); err != nil {
			return err
		}
		g.logger.V(1).Info("columns inferred from data", "fields", g.columns.Fields())
	}

	var b strings.Builder
	for i, record := range view {
		row, err := g.rows.For(i)(record)
		if err != nil {
			return fmt.Errorf("grid: render row %d: %w", i, err)
		}
		b.WriteString(row)
	}

	body, err := dom.ReplaceBody(g.table, g.tbody, b.String(), g.strategy)
	if err != nil {
		return fmt.Errorf("grid: replace body: %w", err)
	}
	g.tbody = body
	g.reconcile()

	g.logger.V(1).Info("grid refreshed", "rows", len(view), "strategy", g.strategy.String())
	g.events.queue(EventDataBound)
	return nil
}

// reconcile re-anchors state that referred to the discarded rows. The current
// cell keeps its coordinate when that cell still exists; the selection is
// dropped.
func (g *Grid) reconcile() {
	if g.selectable != nil && g.selectable.Reset() {
		g.events.queue(EventChange)
	}
	if g.current == nil {
		return
	}
	if cell := g.cellAt(*g.current); cell != nil {
		dom.AddClass(cell, g.classes.Focused)
		return
	}
	g.current = nil
}
