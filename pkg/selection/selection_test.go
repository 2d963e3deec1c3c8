package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

func table(t *testing.T) *html.Node {
	t.Helper()
	n, err := dom.ParseElement(`<table><tbody>` +
		`<tr><td>a1</td><td>a2</td></tr>` +
		`<tr><td>b1</td><td>b2</td></tr>` +
		`<tr><td>c1</td><td>c2</td></tr>` +
		`</tbody></table>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func selectedText(s *Selectable) []string {
	var out []string
	for _, n := range s.Nodes() {
		out = append(out, dom.Text(n))
	}
	return out
}

func TestSingleRow(t *testing.T) {
	root := table(t)
	changes := 0
	s, err := New(root, Options{Scope: ScopeRow, OnChange: func() { changes++ }})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s.Value(Item{Row: 0, Col: 1})
	s.Value(Item{Row: 1})

	if diff := cmp.Diff([]Item{{Row: 1}}, s.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	rows := dom.FindAll(root, "tr")
	if dom.HasClass(rows[0], ClassSelected) || !dom.HasClass(rows[1], ClassSelected) {
		t.Fatalf("selected class not moved to the second row")
	}
	if changes != 2 {
		t.Fatalf("expected 2 change notifications, got %d", changes)
	}
}

func TestMultiCell(t *testing.T) {
	root := table(t)
	s, err := New(root, Options{Scope: ScopeCell, Multi: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s.Value(Item{Row: 0, Col: 0}, Item{Row: 2, Col: 1})
	s.Value(Item{Row: 0, Col: 0})
	s.Value(Item{Row: 9, Col: 0})

	if diff := cmp.Diff([]string{"a1", "c2"}, selectedText(s)); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if !s.Has(Item{Row: 2, Col: 1}) {
		t.Fatalf("expected c2 selected")
	}

	s.Clear()
	if len(s.Items()) != 0 {
		t.Fatalf("expected empty selection")
	}
	for _, td := range dom.FindAll(root, "td") {
		if dom.HasClass(td, ClassSelected) {
			t.Fatalf("cell %q still marked", dom.Text(td))
		}
	}
}

func TestClearEmptyDoesNotNotify(t *testing.T) {
	changes := 0
	s, err := New(table(t), Options{OnChange: func() { changes++ }})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Clear()
	if changes != 0 {
		t.Fatalf("clearing an empty selection should not notify")
	}
	if s.Scope() != ScopeRow {
		t.Fatalf("scope should default to rows")
	}
}
