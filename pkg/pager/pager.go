package pager

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

const (
	ClassLink     = "t-link"
	ClassActive   = "t-state-active"
	ClassDisabled = "t-state-disabled"
	ClassPrev     = "t-prev"
	ClassNext     = "t-next"
	AttrPage      = "data-page"

	defaultButtonCount = 10
)

// Source is the slice of a data source the pager reads and drives.
type Source interface {
	Page() int
	TotalPages() int
	SetPage(ctx context.Context, n int) error
	Subscribe(fn func()) func()
}

// Option configures a Pager.
type Option func(*Pager)

// WithButtonCount sets how many page numbers are shown at once.
func WithButtonCount(n int) Option {
	return func(p *Pager) {
		if n > 0 {
			p.buttonCount = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(p *Pager) {
		p.logger = logger
	}
}

// Pager renders page links into a container list and forwards clicks to the
// data source. It holds no page state of its own.
type Pager struct {
	mu          sync.Mutex
	container   *html.Node
	source      Source
	buttonCount int
	logger      logr.Logger
	cancel      func()
}

// New binds a pager to container (normally a <ul>) and source and renders the
// current page state.
func New(container *html.Node, source Source, options ...Option) (*Pager, error) {
	if container == nil {
		return nil, errors.New("pager: container is required")
	}
	if source == nil {
		return nil, errors.New("pager: data source is required")
	}
	p := &Pager{
		container:   container,
		source:      source,
		buttonCount: defaultButtonCount,
		logger:      logr.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	p.cancel = source.Subscribe(p.Refresh)
	p.Refresh()
	return p, nil
}

// Container returns the node the pager renders into.
func (p *Pager) Container() *html.Node {
	return p.container
}

// Close stops listening to the data source.
func (p *Pager) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}

// Refresh re-renders the page links from the data source state.
func (p *Pager) Refresh() {
	page, total := p.source.Page(), p.source.TotalPages()

	p.mu.Lock()
	defer p.mu.Unlock()

	dom.Empty(p.container)
	p.container.AppendChild(p.item("‹", page-1, ClassPrev, page <= 1))

	start, end := window(page, total, p.buttonCount)
	for n := start; n <= end; n++ {
		li := p.item(strconv.Itoa(n), n, "", false)
		if n == page {
			dom.AddClass(li, ClassActive)
		}
		p.container.AppendChild(li)
	}

	p.container.AppendChild(p.item("›", page+1, ClassNext, page >= total))
}

func (p *Pager) item(label string, target int, class string, disabled bool) *html.Node {
	li := dom.Element("li")
	a := dom.Element("a", "class", ClassLink, AttrPage, strconv.Itoa(target))
	if class != "" {
		dom.AddClass(a, class)
	}
	if disabled {
		dom.AddClass(li, ClassDisabled)
	}
	a.AppendChild(dom.TextNode(label))
	li.AppendChild(a)
	return li
}

// Click handles a pointer activation on a node inside the pager.
func (p *Pager) Click(ctx context.Context, node *html.Node) error {
	link := dom.Closest(node, "a", p.container)
	if link == nil || !dom.Contains(p.container, link) {
		return nil
	}
	if dom.HasClass(link.Parent, ClassDisabled) || dom.HasClass(link.Parent, ClassActive) {
		return nil
	}
	raw, _ := dom.Attr(link, AttrPage)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return p.GoTo(ctx, n)
}

// GoTo requests page n from the data source.
func (p *Pager) GoTo(ctx context.Context, n int) error {
	if err := p.source.SetPage(ctx, n); err != nil {
		p.logger.V(1).Info("page request rejected", "page", n, "error", err.Error())
		return fmt.Errorf("pager: go to page %d: %w", n, err)
	}
	return nil
}

func window(page, total, count int) (int, int) {
	if total < 1 {
		total = 1
	}
	start := ((page-1)/count)*count + 1
	if start < 1 {
		start = 1
	}
	end := min(start+count-1, total)
	return start, end
}
