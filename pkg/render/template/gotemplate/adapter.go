package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-datagrid/pkg/render/template"
)

const (
	// FilterSanitize is the filter applied to unencoded placeholders. It strips
	// unsafe markup and marks the result as safe for output.
	FilterSanitize = "sanitize"
	// FilterField looks up a record key that cannot be spelled as a dotted
	// path, e.g. {{ data|field:"first-name" }}.
	FilterField = "field"
)

// pongo2 lexes these as keywords, so they cannot follow a dot.
var pongoKeywords = map[string]bool{
	"in": true, "and": true, "or": true, "not": true,
	"true": true, "false": true, "as": true, "export": true,
}

// Option configures an engine before construction.
type Option func(*config)

type config struct {
	passthrough bool
	globals     map[string]any
}

// WithRawPassthrough emits unencoded placeholders without sanitizing them.
func WithRawPassthrough() Option {
	return func(cfg *config) {
		cfg.passthrough = true
	}
}

// WithGlobalData seeds values visible to every compiled template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine compiles row templates with pongo2.
type Engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	passthrough bool
}

var _ template.Compiler = (*Engine)(nil)

var (
	filterOnce   sync.Once
	sanitizer    *bluemonday.Policy
	sanitizerErr error
)

// New constructs a pongo2 backed engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := registerDefaultFilters(); err != nil {
		return nil, fmt.Errorf("gotemplate: register filters: %w", err)
	}

	set := pongo2.NewSet("datagrid", pongo2.DefaultLoader)
	if len(cfg.globals) > 0 {
		if set.Globals == nil {
			set.Globals = make(pongo2.Context)
		}
		for key, value := range cfg.globals {
			if key == "" {
				continue
			}
			set.Globals[key] = value
		}
	}

	return &Engine{
		templateSet: set,
		passthrough: cfg.passthrough,
	}, nil
}

// Name reports the engine identifier.
func (e *Engine) Name() string {
	return template.EnginePongo2
}

// Placeholder spells a field interpolation using the configured delimiters.
// Keys that are not identifiers go through the field filter.
func (e *Engine) Placeholder(field string, encoded bool, settings template.Settings) string {
	path := settings.FieldPath(field)
	if !template.IsIdentifier(field) || pongoKeywords[field] {
		path = settings.RecordName() + "|" + FilterField + ":" + quotePongo(field)
	}
	if !encoded {
		filter := FilterSanitize
		if e.passthrough {
			filter = "safe"
		}
		path += "|" + filter
	}
	return settings.Begin + " " + path + " " + settings.End
}

// Compile parses source once and returns a render function bound to settings.
func (e *Engine) Compile(source string, settings template.Settings) (template.Func, error) {
	if e == nil || e.templateSet == nil {
		return nil, errors.New("gotemplate: engine is nil")
	}
	source = translateDelimiters(source, settings)

	e.mu.Lock()
	tmpl, err := e.templateSet.FromString(source)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template: %w", err)
	}

	return func(data any) (string, error) {
		record, err := ToRecord(data)
		if err != nil {
			return "", fmt.Errorf("gotemplate: convert data: %w", err)
		}
		e.mu.RLock()
		out, err := tmpl.Execute(pongo2.Context(settings.Record(record)))
		e.mu.RUnlock()
		if err != nil {
			return "", fmt.Errorf("gotemplate: execute template: %w", err)
		}
		return out, nil
	}, nil
}

func quotePongo(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func translateDelimiters(source string, settings template.Settings) string {
	if settings.Begin != "" && settings.Begin != "{{" {
		source = strings.ReplaceAll(source, settings.Begin, "{{")
	}
	if settings.End != "" && settings.End != "}}" {
		source = strings.ReplaceAll(source, settings.End, "}}")
	}
	return source
}

// ToRecord converts data into the map a template binds to. Maps pass through;
// other values round-trip through JSON.
func ToRecord(data any) (map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case pongo2.Context:
		return map[string]any(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		dec := json.NewDecoder(strings.NewReader(string(raw)))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// Sanitize cleans markup with the policy used for unencoded cells.
func Sanitize(markup string) string {
	return sanitizePolicy().Sanitize(markup)
}

func sanitizePolicy() *bluemonday.Policy {
	filterOnce.Do(func() {
		sanitizer = bluemonday.UGCPolicy()
		if !pongo2.FilterExists(FilterSanitize) {
			sanitizerErr = pongo2.RegisterFilter(FilterSanitize, filterSanitize)
		}
		if sanitizerErr == nil && !pongo2.FilterExists(FilterField) {
			sanitizerErr = pongo2.RegisterFilter(FilterField, filterField)
		}
	})
	return sanitizer
}

func registerDefaultFilters() error {
	sanitizePolicy()
	return sanitizerErr
}

func filterField(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() || param == nil {
		return pongo2.AsValue(""), nil
	}
	record, ok := in.Interface().(map[string]any)
	if !ok {
		return pongo2.AsValue(""), nil
	}
	value, ok := record[param.String()]
	if !ok || value == nil {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(value), nil
}

func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(sanitizer.Sanitize(in.String())), nil
}
