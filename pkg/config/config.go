package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/grid"
	"github.com/goliatone/go-datagrid/pkg/render/template"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

// Definition is a grid as written in a config file. Pageable, Sortable and
// Selectable accept booleans, strings, numbers or objects.
type Definition struct {
	ID     string `json:"-" yaml:"-"`
	Source string `json:"-" yaml:"-"`

	Columns          []any          `json:"columns,omitempty" yaml:"columns,omitempty"`
	AutoBind         *bool          `json:"autoBind,omitempty" yaml:"autoBind,omitempty"`
	DataSource       DataSourceFile `json:"dataSource" yaml:"dataSource"`
	Pageable         any            `json:"pageable,omitempty" yaml:"pageable,omitempty"`
	Sortable         any            `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Selectable       any            `json:"selectable,omitempty" yaml:"selectable,omitempty"`
	Scrollable       bool           `json:"scrollable,omitempty" yaml:"scrollable,omitempty"`
	RowTemplate      string         `json:"rowTemplate,omitempty" yaml:"rowTemplate,omitempty"`
	AltRowTemplate   string         `json:"altRowTemplate,omitempty" yaml:"altRowTemplate,omitempty"`
	TemplateSettings TemplateFile   `json:"templateSettings" yaml:"templateSettings"`
}

// DataSourceFile describes where rows come from.
type DataSourceFile struct {
	Data      []map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Transport string           `json:"transport,omitempty" yaml:"transport,omitempty"`
	PageSize  int              `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	Sort      []SortFile       `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// SortFile is one sort descriptor.
type SortFile struct {
	Field string `json:"field" yaml:"field"`
	Dir   string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// TemplateFile mirrors template.Settings.
type TemplateFile struct {
	Begin        string `json:"begin,omitempty" yaml:"begin,omitempty"`
	End          string `json:"end,omitempty" yaml:"end,omitempty"`
	ParamName    string `json:"paramName,omitempty" yaml:"paramName,omitempty"`
	UseWithBlock bool   `json:"useWithBlock,omitempty" yaml:"useWithBlock,omitempty"`
	Engine       string `json:"engine,omitempty" yaml:"engine,omitempty"`
}

// Option adjusts how a definition becomes a grid.Config.
type Option func(*options)

type options struct {
	transports map[string]datasource.Transport
	data       []datasource.Record
	logger     logr.Logger
}

// WithTransport makes t available to definitions naming it.
func WithTransport(name string, t datasource.Transport) Option {
	return func(o *options) {
		if o.transports == nil {
			o.transports = make(map[string]datasource.Transport)
		}
		o.transports[strings.TrimSpace(name)] = t
	}
}

// WithData replaces the inline rows of the definition.
func WithData(records []datasource.Record) Option {
	return func(o *options) {
		o.data = records
	}
}

// WithLogger sets the logger handed to the data source.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Grid converts the definition stored under id.
func (s *Store) Grid(id string, opts ...Option) (grid.Config, error) {
	def, ok := s.Definition(id)
	if !ok {
		return grid.Config{}, fmt.Errorf("%w: %q", ErrUnknownGrid, id)
	}
	return def.Config(opts...)
}

// Config converts the definition into a grid.Config.
func (d Definition) Config(opts ...Option) (grid.Config, error) {
	o := options{logger: logr.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	paging, err := pagingFrom(d.Pageable)
	if err != nil {
		return grid.Config{}, d.wrap("pageable", err)
	}
	sorting, err := sortingFrom(d.Sortable)
	if err != nil {
		return grid.Config{}, d.wrap("sortable", err)
	}
	selection, err := selectionFrom(d.Selectable)
	if err != nil {
		return grid.Config{}, d.wrap("selectable", err)
	}
	ds, err := d.dataSource(o)
	if err != nil {
		return grid.Config{}, d.wrap("dataSource", err)
	}

	return grid.Config{
		Columns:        append([]any(nil), d.Columns...),
		AutoBind:       d.AutoBind,
		DataSource:     grid.Instance(ds),
		Paging:         paging,
		Sorting:        sorting,
		Selection:      selection,
		Scrollable:     d.Scrollable,
		RowTemplate:    d.RowTemplate,
		AltRowTemplate: d.AltRowTemplate,
		TemplateSettings: template.Settings{
			Begin:        d.TemplateSettings.Begin,
			End:          d.TemplateSettings.End,
			ParamName:    d.TemplateSettings.ParamName,
			UseWithBlock: d.TemplateSettings.UseWithBlock,
			Engine:       d.TemplateSettings.Engine,
		},
	}, nil
}

func (d Definition) wrap(key string, err error) error {
	return fmt.Errorf("config: grid %q (file %s) %s: %w", d.ID, d.Source, key, err)
}

func (d Definition) dataSource(o options) (*datasource.DataSource, error) {
	dsOpts := []datasource.Option{datasource.WithLogger(o.logger)}
	if d.DataSource.PageSize > 0 {
		dsOpts = append(dsOpts, datasource.WithPageSize(d.DataSource.PageSize))
	}
	if len(d.DataSource.Sort) > 0 {
		sort := make([]datasource.SortDescriptor, 0, len(d.DataSource.Sort))
		for _, s := range d.DataSource.Sort {
			dir := datasource.Direction(strings.ToLower(strings.TrimSpace(s.Dir)))
			if dir == "" {
				dir = datasource.Asc
			}
			sort = append(sort, datasource.SortDescriptor{Field: s.Field, Dir: dir})
		}
		dsOpts = append(dsOpts, datasource.WithSort(sort...))
	}

	if name := strings.TrimSpace(d.DataSource.Transport); name != "" {
		t, ok := o.transports[name]
		if !ok {
			return nil, fmt.Errorf("unknown transport %q", name)
		}
		return datasource.FromTransport(t, dsOpts...)
	}

	records := o.data
	if records == nil {
		records = make([]datasource.Record, 0, len(d.DataSource.Data))
		for _, row := range d.DataSource.Data {
			records = append(records, datasource.Record(row))
		}
	}
	return datasource.FromInline(records, dsOpts...)
}

func pagingFrom(v any) (grid.Paging, error) {
	switch typed := v.(type) {
	case nil:
		return grid.PagingOff(), nil
	case bool:
		if typed {
			return grid.PagingOn(0), nil
		}
		return grid.PagingOff(), nil
	case map[string]any:
		size, _ := toInt(typed["pageSize"])
		paging := grid.PagingOn(size)
		if count, ok := toInt(typed["buttonCount"]); ok {
			paging = paging.WithButtonCount(count)
		}
		return paging, nil
	default:
		if size, ok := toInt(v); ok {
			return grid.PagingOn(size), nil
		}
		return grid.Paging{}, fmt.Errorf("unsupported value %T", v)
	}
}

func sortingFrom(v any) (grid.Sorting, error) {
	switch typed := v.(type) {
	case nil:
		return grid.SortingOff(), nil
	case bool:
		if typed {
			return grid.SortingOn(sortable.Options{}), nil
		}
		return grid.SortingOff(), nil
	case string:
		mode := strings.ToLower(strings.TrimSpace(typed))
		switch mode {
		case "", "false", "none":
			return grid.SortingOff(), nil
		case string(sortable.ModeMultiple):
			return grid.SortingOn(sortable.Options{Mode: sortable.ModeMultiple}), nil
		default:
			return grid.SortingOn(sortable.Options{Mode: sortable.ModeSingle}), nil
		}
	case map[string]any:
		opts := sortable.Options{Mode: sortable.ModeSingle}
		if mode, ok := typed["mode"].(string); ok && strings.EqualFold(mode, string(sortable.ModeMultiple)) {
			opts.Mode = sortable.ModeMultiple
		}
		if allow, ok := typed["allowUnsort"].(bool); ok {
			opts.AllowUnsort = allow
		}
		return grid.SortingOn(opts), nil
	default:
		return grid.Sorting{}, fmt.Errorf("unsupported value %T", v)
	}
}

func selectionFrom(v any) (grid.Selection, error) {
	switch typed := v.(type) {
	case nil:
		return grid.SelectionOff(), nil
	case bool:
		if typed {
			return grid.SelectRows(false), nil
		}
		return grid.SelectionOff(), nil
	case string:
		return grid.ParseSelectable(typed), nil
	default:
		return grid.Selection{}, fmt.Errorf("unsupported value %T", v)
	}
}

func toInt(v any) (int, bool) {
	switch typed := v.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case uint64:
		return int(typed), true
	case float64:
		if typed == math.Trunc(typed) {
			return int(typed), true
		}
	}
	return 0, false
}
