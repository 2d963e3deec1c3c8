package column

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/goliatone/go-datagrid/pkg/dom"
)

const (
	// AttrField names the field a header cell is bound to.
	AttrField = "data-field"
	// AttrTemplate carries a per-column cell template on a header cell.
	AttrTemplate = "data-template"
)

// Definition describes one grid column.
type Definition struct {
	Field    string `json:"field" yaml:"field"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	// Raw turns off escaping of the field value in the synthesized cell.
	Raw bool `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Encoded reports whether the synthesized cell escapes the field value.
func (d Definition) Encoded() bool {
	return !d.Raw
}

// Label returns the header text for the column.
func (d Definition) Label() string {
	if title := strings.TrimSpace(d.Title); title != "" {
		return title
	}
	return d.Field
}

// Set is an ordered list of column definitions.
type Set []Definition

// Fields returns the field names in column order.
func (s Set) Fields() []string {
	out := make([]string, 0, len(s))
	for _, def := range s {
		out = append(out, def.Field)
	}
	return out
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Resolve returns the effective column set. Explicit configuration wins; when
// it is empty the header cells are inspected. With neither, the result is
// empty and resolution is deferred to the first data record.
func Resolve(explicit []any, headers []*html.Node) Set {
	if len(explicit) > 0 {
		return Normalize(explicit)
	}
	if len(headers) == 0 {
		return Set{}
	}
	return FromHeaders(headers)
}

// FromHeaders derives columns from header cells, reading data-field or falling
// back to the slugified header text.
func FromHeaders(headers []*html.Node) Set {
	out := make(Set, 0, len(headers))
	for _, th := range headers {
		field, _ := dom.Attr(th, AttrField)
		field = strings.TrimSpace(field)
		if field == "" {
			field = Slugify(dom.Text(th))
		}
		template, _ := dom.Attr(th, AttrTemplate)
		out = append(out, Definition{
			Field:    field,
			Template: template,
		})
	}
	return out
}

// Normalize converts loosely typed column entries (field names, definitions or
// decoded maps) into definitions. Values are encoded unless an entry opts out
// with Raw or "encoded": false. Entries that cannot be interpreted are skipped.
func Normalize(entries []any) Set {
	out := make(Set, 0, len(entries))
	for _, entry := range entries {
		def, ok := normalizeEntry(entry)
		if !ok {
			continue
		}
		out = append(out, def)
	}
	return out
}

func normalizeEntry(entry any) (Definition, bool) {
	switch v := entry.(type) {
	case string:
		field := strings.TrimSpace(v)
		if field == "" {
			return Definition{}, false
		}
		return Definition{Field: field}, true
	case Definition:
		return v, strings.TrimSpace(v.Field) != ""
	case *Definition:
		if v == nil {
			return Definition{}, false
		}
		return *v, strings.TrimSpace(v.Field) != ""
	case map[string]any:
		return definitionFromMap(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, value := range v {
			converted[fmt.Sprint(key)] = value
		}
		return definitionFromMap(converted)
	default:
		return Definition{}, false
	}
}

func definitionFromMap(m map[string]any) (Definition, bool) {
	var def Definition
	def.Field = strings.TrimSpace(stringValue(m["field"]))
	if def.Field == "" {
		return Definition{}, false
	}
	def.Title = stringValue(m["title"])
	def.Template = stringValue(m["template"])
	if encoded, ok := m["encoded"].(bool); ok {
		def.Raw = !encoded
	}
	if raw, ok := m["raw"].(bool); ok && raw {
		def.Raw = true
	}
	return def, true
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// FromRecord infers columns from the keys of a data record. Keys are sorted so
// inference is stable across runs.
func FromRecord(record map[string]any) Set {
	if len(record) == 0 {
		return Set{}
	}
	keys := make([]string, 0, len(record))
	for key := range record {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(Set, 0, len(keys))
	for _, key := range keys {
		out = append(out, Definition{Field: key})
	}
	return out
}

// Slugify strips whitespace and any character that is not an ASCII letter or
// digit.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
