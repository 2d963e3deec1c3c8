package grid

import (
	"strings"

	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/pager"
	"github.com/goliatone/go-datagrid/pkg/render/template"
	"github.com/goliatone/go-datagrid/pkg/selection"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

// Config is consumed once by New. Loosely typed surfaces (paging, sorting,
// selection, data source) are tagged variants built with the constructors in
// this file.
type Config struct {
	// Columns holds field names, column.Definition values or decoded maps.
	Columns []any
	// AutoBind triggers an initial query; nil means true.
	AutoBind   *bool
	DataSource DataSourceSpec
	Paging     Paging
	Sorting    Sorting
	Selection  Selection
	Scrollable bool

	RowTemplate      string
	AltRowTemplate   string
	TemplateSettings template.Settings

	OnChange    Handler
	OnDataBound Handler
}

func (c Config) autoBind() bool {
	return c.AutoBind == nil || *c.AutoBind
}

// Bool returns a pointer to v, for optional config flags.
func Bool(v bool) *bool {
	return &v
}

type dataSourceKind int

const (
	dataSourceInline dataSourceKind = iota
	dataSourceRemote
	dataSourceInstance
)

// DataSourceSpec is Inline | Remote | Instance. The zero value is an empty
// inline source.
type DataSourceSpec struct {
	kind      dataSourceKind
	records   []datasource.Record
	transport datasource.Transport
	instance  *datasource.DataSource
}

// Inline serves records from memory.
func Inline(records []datasource.Record) DataSourceSpec {
	return DataSourceSpec{kind: dataSourceInline, records: records}
}

// Remote reads records through a transport.
func Remote(t datasource.Transport) DataSourceSpec {
	return DataSourceSpec{kind: dataSourceRemote, transport: t}
}

// Instance reuses an existing data source.
func Instance(ds *datasource.DataSource) DataSourceSpec {
	if ds == nil {
		return DataSourceSpec{}
	}
	return DataSourceSpec{kind: dataSourceInstance, instance: ds}
}

// PagingMode tags a Paging value.
type PagingMode int

const (
	PagingModeOff PagingMode = iota
	PagingModeOn
	PagingModeProvided
)

// Paging is Off | On(pageSize) | Provided(pager).
type Paging struct {
	mode        PagingMode
	pageSize    int
	buttonCount int
	pager       *pager.Pager
}

// PagingOff disables paging.
func PagingOff() Paging {
	return Paging{}
}

// PagingOn enables paging. A non-positive page size leaves the data source's
// own page size in place.
func PagingOn(pageSize int) Paging {
	return Paging{mode: PagingModeOn, pageSize: pageSize}
}

// PagingProvided enables paging with a pager built by the caller.
func PagingProvided(p *pager.Pager) Paging {
	if p == nil {
		return PagingOff()
	}
	return Paging{mode: PagingModeProvided, pager: p}
}

// WithButtonCount sets how many page links a grid-built pager shows.
func (p Paging) WithButtonCount(n int) Paging {
	p.buttonCount = n
	return p
}

// Mode returns the variant tag.
func (p Paging) Mode() PagingMode { return p.mode }

// Enabled reports whether paging is on in any form.
func (p Paging) Enabled() bool { return p.mode != PagingModeOff }

// PageSize returns the requested page size.
func (p Paging) PageSize() int { return p.pageSize }

// Sorting is Off | On(options).
type Sorting struct {
	enabled bool
	options sortable.Options
}

// SortingOff disables header sorting.
func SortingOff() Sorting {
	return Sorting{}
}

// SortingOn enables header sorting.
func SortingOn(opts sortable.Options) Sorting {
	return Sorting{enabled: true, options: opts}
}

// Enabled reports whether header sorting is on.
func (s Sorting) Enabled() bool { return s.enabled }

// Selection is Off | Rows(multi) | Cells(multi).
type Selection struct {
	scope selection.Scope
	multi bool
}

// SelectionOff disables selection.
func SelectionOff() Selection {
	return Selection{}
}

// SelectRows selects whole rows.
func SelectRows(multi bool) Selection {
	return Selection{scope: selection.ScopeRow, multi: multi}
}

// SelectCells selects individual cells.
func SelectCells(multi bool) Selection {
	return Selection{scope: selection.ScopeCell, multi: multi}
}

// ParseSelectable reads the string form of the selectable option: any
// case-insensitive combination of "row" or "cell" with "multiple". An empty
// value or "false" disables selection.
func ParseSelectable(value string) Selection {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "false" || v == "none" {
		return SelectionOff()
	}
	multi := strings.Contains(v, "multiple")
	if strings.Contains(v, "cell") {
		return SelectCells(multi)
	}
	return SelectRows(multi)
}

// Enabled reports whether selection is on.
func (s Selection) Enabled() bool { return s.scope != 0 }

// Scope returns the selection scope.
func (s Selection) Scope() selection.Scope { return s.scope }

// Multi reports whether several items may be selected.
func (s Selection) Multi() bool { return s.multi }

func (s Selection) String() string {
	if !s.Enabled() {
		return "off"
	}
	if s.multi {
		return "multiple " + s.scope.String()
	}
	return s.scope.String()
}
