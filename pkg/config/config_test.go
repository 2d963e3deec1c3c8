package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/config"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/grid"
)

func loadStore(t *testing.T, dir string) *config.Store {
	t.Helper()
	store, err := config.LoadFS(os.DirFS("testdata/" + dir))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func rowTexts(body *html.Node) []string {
	var out []string
	for _, tr := range dom.Children(body, "tr") {
		out = append(out, dom.Text(tr))
	}
	return out
}

func TestLoadFS_IDs(t *testing.T) {
	store := loadStore(t, "basic")
	if diff := cmp.Diff([]string{"orders", "people"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	def, ok := store.Definition("people")
	if !ok || !strings.HasSuffix(def.Source, "people.yaml") {
		t.Fatalf("expected people definition from people.yaml, got %+v", def)
	}
}

func TestGrid_YAMLVariants(t *testing.T) {
	store := loadStore(t, "basic")
	cfg, err := store.Grid("people")
	if err != nil {
		t.Fatalf("grid config: %v", err)
	}

	if cfg.Paging.Mode() != grid.PagingModeOn || cfg.Paging.PageSize() != 2 {
		t.Fatalf("unexpected paging %+v", cfg.Paging)
	}
	if !cfg.Sorting.Enabled() {
		t.Fatalf("sorting should be on")
	}
	if got := cfg.Selection.String(); got != "multiple cell" {
		t.Fatalf("unexpected selection %q", got)
	}
	if !cfg.Scrollable {
		t.Fatalf("scrollable should be on")
	}

	g, err := grid.New(context.Background(), dom.Element("table"), cfg)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	defer g.Close()

	want := []string{"Cleo41", "Ada36maths"}
	if diff := cmp.Diff(want, rowTexts(g.Body())); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "Age", "bio"}, []string{
		dom.Text(dom.FindAll(g.Head(), "th")[0]),
		dom.Text(dom.FindAll(g.Head(), "th")[1]),
		dom.Text(dom.FindAll(g.Head(), "th")[2]),
	}); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_JSONWithTransport(t *testing.T) {
	store := loadStore(t, "basic")

	if _, err := store.Grid("orders"); err == nil || !strings.Contains(err.Error(), `unknown transport "orders"`) {
		t.Fatalf("expected unknown transport error, got %v", err)
	}

	calls := 0
	transport := datasource.TransportFunc(func(_ context.Context, req datasource.Request) (datasource.Response, error) {
		calls++
		if req.PageSize != 10 {
			t.Errorf("expected page size hint 10, got %d", req.PageSize)
		}
		return datasource.Response{Data: []datasource.Record{{"id": "o-1", "total": 12}}, Total: 1}, nil
	})
	cfg, err := store.Grid("orders", config.WithTransport("orders", transport))
	if err != nil {
		t.Fatalf("grid config: %v", err)
	}
	if cfg.AutoBind == nil || *cfg.AutoBind {
		t.Fatalf("autoBind false must be carried over")
	}
	if cfg.TemplateSettings.Engine != "html" {
		t.Fatalf("template engine not carried over: %+v", cfg.TemplateSettings)
	}
	if got := cfg.Selection.String(); got != "row" {
		t.Fatalf("selectable true means single row, got %q", got)
	}

	g, err := grid.New(context.Background(), dom.Element("table"), cfg)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	defer g.Close()
	if calls != 0 {
		t.Fatalf("autoBind false must not query")
	}
	if err := g.DataSource().Query(context.Background()); err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"o-112"}, rowTexts(g.Body())); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_WithDataOverride(t *testing.T) {
	store := loadStore(t, "basic")
	cfg, err := store.Grid("people", config.WithData([]datasource.Record{{"name": "Zed", "age": 1, "bio": ""}}))
	if err != nil {
		t.Fatalf("grid config: %v", err)
	}
	g, err := grid.New(context.Background(), dom.Element("table"), cfg)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	defer g.Close()
	if diff := cmp.Diff([]string{"Zed1"}, rowTexts(g.Body())); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_Unknown(t *testing.T) {
	store := loadStore(t, "basic")
	if _, err := store.Grid("missing"); !errors.Is(err, config.ErrUnknownGrid) {
		t.Fatalf("expected ErrUnknownGrid, got %v", err)
	}
}

func TestLoadFS_Duplicate(t *testing.T) {
	if _, err := config.LoadFS(os.DirFS("testdata/duplicate")); err == nil {
		t.Fatalf("expected duplicate grid error")
	}
}

func TestLoadFS_Nil(t *testing.T) {
	store, err := config.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("nil filesystem yields an empty store")
	}
}

func TestParse_LooseValues(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		check   func(t *testing.T, cfg grid.Config)
		wantErr bool
	}{
		{
			name: "pageable number",
			doc:  "grids:\n  g:\n    pageable: 25\n",
			check: func(t *testing.T, cfg grid.Config) {
				if cfg.Paging.PageSize() != 25 {
					t.Fatalf("expected page size 25, got %d", cfg.Paging.PageSize())
				}
			},
		},
		{
			name: "pageable false",
			doc:  `{"grids": {"g": {"pageable": false}}}`,
			check: func(t *testing.T, cfg grid.Config) {
				if cfg.Paging.Enabled() {
					t.Fatalf("paging should be off")
				}
			},
		},
		{
			name: "sortable string",
			doc:  "grids:\n  g:\n    sortable: multiple\n",
			check: func(t *testing.T, cfg grid.Config) {
				if !cfg.Sorting.Enabled() {
					t.Fatalf("sorting should be on")
				}
			},
		},
		{
			name:    "pageable string",
			doc:     "grids:\n  g:\n    pageable: lots\n",
			wantErr: true,
		},
		{
			name:    "selectable list",
			doc:     "grids:\n  g:\n    selectable: [row]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := config.Parse([]byte(tt.doc), tt.name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			cfg, err := store.Grid("g")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("grid config: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := config.Parse([]byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("expected empty file error")
	}
}
