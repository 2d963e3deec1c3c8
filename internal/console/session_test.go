package console

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/grid"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

type scriptedDriver struct {
	choices []string
	infos   []string
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if len(d.choices) == 0 {
		return 0, ErrAborted
	}
	next := d.choices[0]
	d.choices = d.choices[1:]
	return indexOf(cfg.Options, next), nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func newTestGrid(t *testing.T, cfg grid.Config) *grid.Grid {
	t.Helper()
	cfg.DataSource = grid.Inline([]datasource.Record{
		{"name": "Bo", "age": 7},
		{"name": "Ada", "age": 36},
		{"name": "Cleo", "age": 41},
	})
	cfg.Columns = []any{"name", "age"}
	g, err := grid.New(context.Background(), dom.Element("table"), cfg)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestSession_SelectAndQuit(t *testing.T) {
	g := newTestGrid(t, grid.Config{Selection: grid.SelectRows(false)})
	driver := &scriptedDriver{choices: []string{"Move down", "Select", "Quit"}}

	session, err := NewSession(g, driver)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	last := driver.infos[len(driver.infos)-1]
	want := strings.Join([]string{
		"  name | age",
		"  Bo | 7",
		"* [Ada] | 36",
		"  Cleo | 41",
		"page 1/1, 3 records",
	}, "\n")
	if diff := cmp.Diff(want, last); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_PagingPastEnd(t *testing.T) {
	g := newTestGrid(t, grid.Config{Paging: grid.PagingOn(2)})
	driver := &scriptedDriver{choices: []string{"Previous page", "Next page"}}

	session, err := NewSession(g, driver)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !contains(driver.infos, "No more pages.") {
		t.Fatalf("expected a notice for the rejected page, got %v", driver.infos)
	}
	if g.DataSource().Page() != 2 {
		t.Fatalf("expected page 2, got %d", g.DataSource().Page())
	}
	if !strings.HasSuffix(driver.infos[len(driver.infos)-1], "page 2/2, 3 records") {
		t.Fatalf("unexpected final snapshot %q", driver.infos[len(driver.infos)-1])
	}
}

func TestSession_Sort(t *testing.T) {
	g := newTestGrid(t, grid.Config{Sorting: grid.SortingOn(sortable.Options{})})
	driver := &scriptedDriver{choices: []string{"Sort by column", "name", "Quit"}}

	session, err := NewSession(g, driver)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	last := driver.infos[len(driver.infos)-1]
	if !strings.HasPrefix(last, "  name (asc) | age\n  [Ada] | 36\n") {
		t.Fatalf("unexpected snapshot after sort:\n%s", last)
	}
}

func TestNewSession_RequiresCollaborators(t *testing.T) {
	if _, err := NewSession(nil, &scriptedDriver{}); err == nil {
		t.Fatalf("expected error for missing grid")
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
