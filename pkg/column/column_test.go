package column

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

func headersFrom(t *testing.T, markup string) []*html.Node {
	t.Helper()
	table, err := dom.ParseElement(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return dom.FindAll(table, "th")
}

func TestResolve_ExplicitEntries(t *testing.T) {
	got := Resolve([]any{
		"name",
		map[string]any{"field": "age", "title": "Age", "encoded": false},
		Definition{Field: "bio", Template: "<em>{{ data.bio }}</em>"},
		&Definition{Field: "email"},
		Definition{Field: "html", Raw: true},
		"  ",
		42,
	}, nil)

	want := Set{
		{Field: "name"},
		{Field: "age", Title: "Age", Raw: true},
		{Field: "bio", Template: "<em>{{ data.bio }}</em>"},
		{Field: "email"},
		{Field: "html", Raw: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_FromHeaders(t *testing.T) {
	headers := headersFrom(t, `<table><thead><tr>
		<th data-field="id">Identifier</th>
		<th data-template="<b>{{ data.FirstName }}</b>"> First Name! </th>
		<th>e-mail  address</th>
	</tr></thead></table>`)

	got := Resolve(nil, headers)
	want := Set{
		{Field: "id"},
		{Field: "FirstName", Template: "<b>{{ data.FirstName }}</b>"},
		{Field: "emailaddress"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Stable(t *testing.T) {
	sources := map[string]func() Set{
		"explicit": func() Set { return Resolve([]any{"a", "b"}, nil) },
		"markup": func() Set {
			return Resolve(nil, headersFrom(t, `<table><tr><th>Alpha Beta</th><th data-field="x">X</th></tr></table>`))
		},
		"absent": func() Set { return Resolve(nil, nil) },
	}
	for name, resolve := range sources {
		t.Run(name, func(t *testing.T) {
			first, second := resolve().Fields(), resolve().Fields()
			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("resolution not stable (-first +second):\n%s", diff)
			}
		})
	}
}

func TestResolve_HeaderTextRoundTrip(t *testing.T) {
	first := Resolve(nil, headersFrom(t, `<table><tr><th>Unit Price ($)</th></tr></table>`))
	if len(first) != 1 || first[0].Field != "UnitPrice" {
		t.Fatalf("unexpected slug: %+v", first)
	}

	rebuilt := headersFrom(t, `<table><tr><th data-field="`+first[0].Field+`">`+first[0].Label()+`</th></tr></table>`)
	second := Resolve(nil, rebuilt)
	if diff := cmp.Diff(first.Fields(), second.Fields()); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestResolve_EmptyDefersToRecord(t *testing.T) {
	if got := Resolve(nil, nil); len(got) != 0 {
		t.Fatalf("expected no columns, got %+v", got)
	}

	got := FromRecord(map[string]any{"name": "A", "age": 1, "": "skip"})
	if diff := cmp.Diff([]string{"age", "name"}, got.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	for _, def := range got {
		if !def.Encoded() {
			t.Fatalf("inferred column %q should be encoded", def.Field)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"First Name":    "FirstName",
		" total (USD) ": "totalUSD",
		"naïve":         "nave",
		"a_b-c":         "abc",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromOpenAPIDocument(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "people.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	got, err := FromOpenAPIDocument(context.Background(), raw, "Person")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	want := Set{
		{Field: "name", Title: "Full name"},
		{Field: "age"},
		{Field: "bio", Raw: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromOpenAPIDocument(context.Background(), raw, "Missing"); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}
