package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-datagrid/pkg/column"
	"github.com/goliatone/go-datagrid/pkg/render/template"
	"github.com/goliatone/go-datagrid/pkg/render/template/gotemplate"
)

// DefaultAltClass marks alternate (odd) rows.
const DefaultAltClass = "t-alt"

// RowTemplates holds the primary and alternate row renderers. The two are
// always compiled from the same column set.
type RowTemplates struct {
	Primary         template.Func
	Alternate       template.Func
	PrimarySource   string
	AlternateSource string
}

// For returns the renderer for the zero-based row index.
func (t RowTemplates) For(index int) template.Func {
	if index%2 == 1 {
		return t.Alternate
	}
	return t.Primary
}

// Options describe the row templates a grid wants.
type Options struct {
	// RowTemplate replaces the synthesized primary row when non-empty.
	RowTemplate string
	// AltRowTemplate replaces the synthesized alternate row; it falls back to
	// RowTemplate.
	AltRowTemplate string
	Settings       template.Settings
	AltClass       string
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the logger used for compilation diagnostics.
func WithLogger(logger logr.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithRegistry swaps the registry engines are looked up in.
func WithRegistry(registry *Registry) CompilerOption {
	return func(c *Compiler) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// Compiler builds row templates from column sets.
type Compiler struct {
	registry *Registry
	logger   logr.Logger
}

// NewCompiler constructs a Compiler backed by the default engines.
func NewCompiler(options ...CompilerOption) (*Compiler, error) {
	c := &Compiler{logger: logr.Discard()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		c.registry = registry
	}
	return c, nil
}

// DefaultRegistry returns a registry holding the pongo2 and html engines.
func DefaultRegistry() (*Registry, error) {
	pongo, err := gotemplate.New()
	if err != nil {
		return nil, fmt.Errorf("render: default engine: %w", err)
	}
	registry := NewRegistry()
	if err := registry.Register(pongo); err != nil {
		return nil, err
	}
	if err := registry.Register(gotemplate.NewHTML()); err != nil {
		return nil, err
	}
	return registry, nil
}

// Templates compiles both row variants for cols.
func (c *Compiler) Templates(cols column.Set, opts Options) (RowTemplates, error) {
	settings := template.DefaultSettings().Merge(opts.Settings)
	engine, err := c.registry.Lookup(settings.Engine)
	if err != nil {
		return RowTemplates{}, err
	}

	altClass := strings.TrimSpace(opts.AltClass)
	if altClass == "" {
		altClass = DefaultAltClass
	}
	altRow := opts.AltRowTemplate
	if strings.TrimSpace(altRow) == "" {
		altRow = opts.RowTemplate
	}

	primarySource := Source(engine, settings, "<tr>", opts.RowTemplate, cols)
	alternateSource := Source(engine, settings, `<tr class="`+html.EscapeString(altClass)+`">`, altRow, cols)

	primary, err := engine.Compile(primarySource, settings)
	if err != nil {
		return RowTemplates{}, fmt.Errorf("render: compile row template: %w", err)
	}
	alternate, err := engine.Compile(alternateSource, settings)
	if err != nil {
		return RowTemplates{}, fmt.Errorf("render: compile alt row template: %w", err)
	}

	c.logger.V(1).Info("compiled row templates", "engine", engine.Name(), "columns", len(cols))
	return RowTemplates{
		Primary:         primary,
		Alternate:       alternate,
		PrimarySource:   primarySource,
		AlternateSource: alternateSource,
	}, nil
}

// Source returns the template text for one row variant. A non-empty
// rowTemplate is used verbatim; otherwise a cell per column is synthesized
// after start.
func Source(engine template.Compiler, settings template.Settings, start, rowTemplate string, cols column.Set) string {
	if strings.TrimSpace(rowTemplate) != "" {
		return rowTemplate
	}

	var b strings.Builder
	b.WriteString(start)
	for _, def := range cols {
		cell := def.Template
		if cell == "" {
			cell = engine.Placeholder(def.Field, def.Encoded(), settings)
		}
		b.WriteString("<td>")
		b.WriteString(cell)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}
