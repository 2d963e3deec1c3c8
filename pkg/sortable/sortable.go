package sortable

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
)

const (
	ClassSortable = "t-sortable"
	ClassAsc      = "t-sorted-asc"
	ClassDesc     = "t-sorted-desc"
	AttrDir       = "data-dir"
	attrField     = "data-field"
)

// Mode decides whether sorting on a column replaces or extends the order.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
)

// Options configure header sorting.
type Options struct {
	Mode        Mode `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowUnsort bool `json:"allowUnsort,omitempty" yaml:"allowUnsort,omitempty"`
}

// Sorter is the slice of a data source sorting needs.
type Sorter interface {
	Sort() []datasource.SortDescriptor
	SetSort(ctx context.Context, sort ...datasource.SortDescriptor) error
	Subscribe(fn func()) func()
}

// Handler turns header activations into sort requests and mirrors the data
// source's sort state onto the header cells.
type Handler struct {
	mu      sync.Mutex
	headers []*html.Node
	source  Sorter
	opts    Options
	logger  logr.Logger
	cancel  func()
}

// New attaches sorting to the given header cells.
func New(headers []*html.Node, source Sorter, opts Options, logger logr.Logger) (*Handler, error) {
	if source == nil {
		return nil, errors.New("sortable: data source is required")
	}
	if opts.Mode != ModeMultiple {
		opts.Mode = ModeSingle
	}
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	h := &Handler{
		source: source,
		opts:   opts,
		logger: logger,
	}
	h.SetHeaders(headers)
	h.cancel = source.Subscribe(h.Refresh)
	return h, nil
}

// SetHeaders replaces the header cells the handler decorates.
func (h *Handler) SetHeaders(headers []*html.Node) {
	h.mu.Lock()
	h.headers = append([]*html.Node(nil), headers...)
	for _, th := range h.headers {
		dom.AddClass(th, ClassSortable)
	}
	h.mu.Unlock()
	h.Refresh()
}

// Close stops listening to the data source.
func (h *Handler) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Click handles an activation on a header cell or a node inside one.
func (h *Handler) Click(ctx context.Context, node *html.Node) error {
	th := dom.Closest(node, "th", nil)
	h.mu.Lock()
	known := false
	for _, header := range h.headers {
		if header == th {
			known = true
			break
		}
	}
	h.mu.Unlock()
	if !known {
		return nil
	}
	field, _ := dom.Attr(th, attrField)
	if field == "" {
		return nil
	}
	return h.Toggle(ctx, field)
}

// Toggle cycles field through ascending, descending and, when allowed,
// unsorted.
func (h *Handler) Toggle(ctx context.Context, field string) error {
	current := h.source.Sort()
	next := nextSort(current, field, h.opts)
	if err := h.source.SetSort(ctx, next...); err != nil {
		h.logger.V(1).Info("sort request rejected", "field", field, "error", err.Error())
		return fmt.Errorf("sortable: sort %q: %w", field, err)
	}
	return nil
}

// Refresh mirrors the data source sort order onto the header cells.
func (h *Handler) Refresh() {
	state := make(map[string]datasource.Direction)
	for _, desc := range h.source.Sort() {
		state[desc.Field] = desc.Dir
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, th := range h.headers {
		field, _ := dom.Attr(th, attrField)
		dom.RemoveClass(th, ClassAsc)
		dom.RemoveClass(th, ClassDesc)
		dom.RemoveAttr(th, AttrDir)
		switch state[field] {
		case datasource.Asc:
			dom.AddClass(th, ClassAsc)
			dom.SetAttr(th, AttrDir, string(datasource.Asc))
		case datasource.Desc:
			dom.AddClass(th, ClassDesc)
			dom.SetAttr(th, AttrDir, string(datasource.Desc))
		}
	}
}

func nextSort(current []datasource.SortDescriptor, field string, opts Options) []datasource.SortDescriptor {
	var dir datasource.Direction
	for _, desc := range current {
		if desc.Field == field {
			dir = desc.Dir
		}
	}

	var nextDir datasource.Direction
	switch dir {
	case "":
		nextDir = datasource.Asc
	case datasource.Asc:
		nextDir = datasource.Desc
	default:
		if opts.AllowUnsort {
			nextDir = ""
		} else {
			nextDir = datasource.Asc
		}
	}

	var out []datasource.SortDescriptor
	if opts.Mode == ModeMultiple {
		for _, desc := range current {
			if desc.Field != field {
				out = append(out, desc)
			}
		}
	}
	if nextDir != "" {
		out = append(out, datasource.SortDescriptor{Field: field, Dir: nextDir})
	}
	return out
}
