package pager

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

type stubSource struct {
	page, total int
	subs        []func()
}

func (s *stubSource) Page() int       { return s.page }
func (s *stubSource) TotalPages() int { return s.total }
func (s *stubSource) SetPage(_ context.Context, n int) error {
	if n < 1 || n > s.total {
		return errors.New("out of range")
	}
	s.page = n
	for _, fn := range s.subs {
		fn()
	}
	return nil
}
func (s *stubSource) Subscribe(fn func()) func() {
	s.subs = append(s.subs, fn)
	return func() {}
}

func labels(ul *html.Node) []string {
	var out []string
	for _, li := range dom.Children(ul, "li") {
		label := dom.Text(li)
		if dom.HasClass(li, ClassActive) {
			label = "[" + label + "]"
		}
		if dom.HasClass(li, ClassDisabled) {
			label = "~" + label
		}
		out = append(out, label)
	}
	return out
}

func TestPager_RendersAndFollowsSource(t *testing.T) {
	src := &stubSource{page: 1, total: 3}
	ul := dom.Element("ul")

	p, err := New(ul, src)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff([]string{"~‹", "[1]", "2", "3", "›"}, labels(ul)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	links := dom.FindAll(ul, "a")
	if err := p.Click(context.Background(), links[len(links)-1]); err != nil {
		t.Fatalf("click next: %v", err)
	}
	if src.page != 2 {
		t.Fatalf("expected page 2, got %d", src.page)
	}
	if diff := cmp.Diff([]string{"‹", "1", "[2]", "3", "›"}, labels(ul)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestPager_DisabledAndErrors(t *testing.T) {
	src := &stubSource{page: 1, total: 1}
	ul := dom.Element("ul")
	p, err := New(ul, src, WithButtonCount(5))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	prev := dom.FindAll(ul, "a")[0]
	if err := p.Click(context.Background(), prev); err != nil {
		t.Fatalf("disabled link should be ignored, got %v", err)
	}
	if err := p.GoTo(context.Background(), 9); err == nil {
		t.Fatalf("expected rejected page request")
	}
}

func TestWindow(t *testing.T) {
	cases := []struct{ page, total, count, start, end int }{
		{1, 3, 10, 1, 3},
		{12, 30, 10, 11, 20},
		{30, 30, 10, 21, 30},
		{1, 0, 10, 1, 1},
	}
	for _, tc := range cases {
		start, end := window(tc.page, tc.total, tc.count)
		if start != tc.start || end != tc.end {
			t.Fatalf("window(%d,%d,%d) = %d..%d, want %d..%d", tc.page, tc.total, tc.count, start, end, tc.start, tc.end)
		}
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(nil, &stubSource{}); err == nil {
		t.Fatalf("expected container error")
	}
	if _, err := New(dom.Element("ul"), nil); err == nil {
		t.Fatalf("expected source error")
	}
}
