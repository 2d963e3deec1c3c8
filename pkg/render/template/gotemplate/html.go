package gotemplate

import (
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/goliatone/go-datagrid/pkg/render/template"
)

// HTMLEngine compiles row templates with html/template for callers who write
// templates in Go syntax. Field paths are addressed from the dot, so the
// default placeholder for "name" is {{ .data.name }}.
type HTMLEngine struct {
	passthrough bool
	seq         atomic.Uint64
}

var _ template.Compiler = (*HTMLEngine)(nil)

// NewHTML constructs an html/template backed engine.
func NewHTML(options ...Option) *HTMLEngine {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	return &HTMLEngine{passthrough: cfg.passthrough}
}

// Name reports the engine identifier.
func (e *HTMLEngine) Name() string {
	return template.EngineHTML
}

// Placeholder spells a field interpolation in Go template syntax. Keys that
// are not identifiers are read with the field function.
func (e *HTMLEngine) Placeholder(field string, encoded bool, settings template.Settings) string {
	path := "." + settings.FieldPath(field)
	if !template.IsIdentifier(field) {
		path = FilterField + " ." + settings.RecordName() + " " + strconv.Quote(field)
	}
	if !encoded {
		if e.passthrough {
			path += " | raw"
		} else {
			path += " | " + FilterSanitize
		}
	}
	return settings.Begin + " " + path + " " + settings.End
}

// Compile parses source with the configured delimiters.
func (e *HTMLEngine) Compile(source string, settings template.Settings) (template.Func, error) {
	name := fmt.Sprintf("row-%d", e.seq.Add(1))
	tmpl, err := htmltemplate.New(name).
		Delims(settings.Begin, settings.End).
		Option("missingkey=zero").
		Funcs(htmltemplate.FuncMap{
			FilterSanitize: func(v any) htmltemplate.HTML {
				if v == nil {
					return ""
				}
				return htmltemplate.HTML(Sanitize(fmt.Sprint(v)))
			},
			FilterField: lookupField,
			"raw": func(v any) htmltemplate.HTML {
				if v == nil {
					return ""
				}
				return htmltemplate.HTML(fmt.Sprint(v))
			},
		}).
		Parse(source)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse html template: %w", err)
	}

	return func(data any) (string, error) {
		record, err := ToRecord(data)
		if err != nil {
			return "", fmt.Errorf("gotemplate: convert data: %w", err)
		}
		var b strings.Builder
		if err := tmpl.Execute(&b, settings.Record(record)); err != nil {
			return "", fmt.Errorf("gotemplate: execute html template: %w", err)
		}
		return b.String(), nil
	}, nil
}

func lookupField(record map[string]any, key string) any {
	if value, ok := record[key]; ok && value != nil {
		return value
	}
	return ""
}
