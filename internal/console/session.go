package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/grid"
	"github.com/goliatone/go-datagrid/pkg/sortable"
)

type actionKind int

const (
	actionKey actionKind = iota
	actionSort
	actionQuit
)

type action struct {
	label string
	kind  actionKind
	key   grid.KeyEvent
}

var baseActions = []action{
	{label: "Move up", key: grid.KeyEvent{Key: grid.KeyUp}},
	{label: "Move down", key: grid.KeyEvent{Key: grid.KeyDown}},
	{label: "Move left", key: grid.KeyEvent{Key: grid.KeyLeft}},
	{label: "Move right", key: grid.KeyEvent{Key: grid.KeyRight}},
	{label: "Next page", key: grid.KeyEvent{Key: grid.KeyPageUp}},
	{label: "Previous page", key: grid.KeyEvent{Key: grid.KeyPageDown}},
	{label: "Select", key: grid.KeyEvent{Key: grid.KeySpace}},
	{label: "Add to selection", key: grid.KeyEvent{Key: grid.KeySpace, Ctrl: true}},
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger logr.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session drives a grid from terminal prompts.
type Session struct {
	grid   *grid.Grid
	driver PromptDriver
	logger logr.Logger
}

// NewSession binds a grid to a prompt driver.
func NewSession(g *grid.Grid, driver PromptDriver, opts ...Option) (*Session, error) {
	if g == nil {
		return nil, errors.New("console: grid is required")
	}
	if driver == nil {
		return nil, errors.New("console: prompt driver is required")
	}
	s := &Session{grid: g, driver: driver, logger: logr.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run shows the grid and applies chosen actions until the user quits. An
// aborted prompt ends the session without error.
func (s *Session) Run(ctx context.Context) error {
	s.grid.Focus()
	for {
		if err := s.driver.Info(ctx, s.Snapshot()); err != nil {
			return err
		}
		actions := s.actions()
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: labels})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		chosen := actions[idx]
		switch chosen.kind {
		case actionQuit:
			return nil
		case actionSort:
			if err := s.sort(ctx); err != nil {
				return err
			}
		default:
			ds := s.grid.DataSource()
			before := ds.Page()
			if err := s.grid.KeyDownContext(ctx, chosen.key); err != nil {
				return err
			}
			if isPageKey(chosen.key.Key) && ds.Page() == before {
				s.logger.V(1).Info("page request ignored", "action", chosen.label, "page", before)
				if err := s.driver.Info(ctx, "No more pages."); err != nil {
					return err
				}
			}
		}
	}
}

func isPageKey(key grid.Key) bool {
	return key == grid.KeyPageUp || key == grid.KeyPageDown
}

func (s *Session) actions() []action {
	out := append([]action(nil), baseActions...)
	if len(s.sortableHeaders()) > 0 {
		out = append(out, action{label: "Sort by column", kind: actionSort})
	}
	return append(out, action{label: "Quit", kind: actionQuit})
}

func (s *Session) sortableHeaders() []*html.Node {
	var out []*html.Node
	for _, th := range dom.FindAll(s.grid.Head(), "th") {
		if dom.HasClass(th, sortable.ClassSortable) {
			out = append(out, th)
		}
	}
	return out
}

func (s *Session) sort(ctx context.Context) error {
	headers := s.sortableHeaders()
	labels := make([]string, len(headers))
	for i, th := range headers {
		labels[i] = strings.TrimSpace(dom.Text(th))
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Column", Options: labels})
	if errors.Is(err, ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(headers) {
		return nil
	}
	return s.grid.Click(ctx, headers[idx])
}

// Snapshot renders the visible page as text. The current cell is bracketed;
// selected rows start with '*' and selected cells end with '*'.
func (s *Session) Snapshot() string {
	var b strings.Builder

	headers := dom.FindAll(s.grid.Head(), "th")
	labels := make([]string, 0, len(headers))
	for _, th := range headers {
		label := strings.TrimSpace(dom.Text(th))
		if dir, ok := dom.Attr(th, sortable.AttrDir); ok {
			label += " (" + dir + ")"
		}
		labels = append(labels, label)
	}
	b.WriteString("  " + strings.Join(labels, " | ") + "\n")

	current := s.grid.CurrentNode()
	selected := make(map[*html.Node]bool)
	for _, n := range s.grid.SelectedNodes() {
		selected[n] = true
	}

	for _, tr := range dom.Children(s.grid.Body(), "tr") {
		prefix := "  "
		if selected[tr] {
			prefix = "* "
		}
		cells := dom.Children(tr, "td")
		values := make([]string, 0, len(cells))
		for _, td := range cells {
			value := strings.TrimSpace(dom.Text(td))
			if td == current {
				value = "[" + value + "]"
			}
			if selected[td] {
				value += "*"
			}
			values = append(values, value)
		}
		b.WriteString(prefix + strings.Join(values, " | ") + "\n")
	}

	ds := s.grid.DataSource()
	fmt.Fprintf(&b, "page %d/%d, %d records", ds.Page(), ds.TotalPages(), ds.Total())
	return b.String()
}
