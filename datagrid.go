package datagrid

import (
	"context"
	"fmt"
	"io/fs"

	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/config"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/grid"
)

// Config aliases grid.Config for callers using the top-level package.
type Config = grid.Config

// Grid aliases grid.Grid.
type Grid = grid.Grid

// Option aliases grid.Option.
type Option = grid.Option

// Record aliases datasource.Record.
type Record = datasource.Record

// New decorates root with a grid.
func New(ctx context.Context, root *html.Node, cfg Config, options ...Option) (*Grid, error) {
	return grid.New(ctx, root, cfg, options...)
}

// NewFromMarkup parses markup and decorates its first element, so existing
// header cells can declare the columns.
func NewFromMarkup(ctx context.Context, markup string, cfg Config, options ...Option) (*Grid, error) {
	root, err := dom.ParseElement(markup)
	if err != nil {
		return nil, fmt.Errorf("datagrid: %w", err)
	}
	return grid.New(ctx, root, cfg, options...)
}

// RenderHTML builds a grid on a fresh table, binds it and returns the markup.
func RenderHTML(ctx context.Context, cfg Config, options ...Option) ([]byte, error) {
	g, err := grid.New(ctx, dom.Element("table"), cfg, options...)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	out, err := g.HTML()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// LoadConfig reads grid definitions from fsys.
func LoadConfig(fsys fs.FS) (*config.Store, error) {
	return config.LoadFS(fsys)
}
