package grid

import (
	"github.com/go-logr/logr"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/render"
)

const defaultScrollbarWidth = 17

// Option customises grid construction.
type Option func(*options)

type options struct {
	logger         logr.Logger
	theme          *theme.RendererConfig
	strategy       dom.BodyStrategy
	compiler       *render.Compiler
	scrollbarWidth int
}

// WithLogger sets the logger shared with the grid's sub-components.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTheme renames marker classes using the theme's tokens. See
// ClassesFromTheme for the token names.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *options) {
		o.theme = cfg
	}
}

// WithBodyStrategy overrides the probed body replacement strategy.
func WithBodyStrategy(strategy dom.BodyStrategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithCompiler injects the row template compiler.
func WithCompiler(compiler *render.Compiler) Option {
	return func(o *options) {
		if compiler != nil {
			o.compiler = compiler
		}
	}
}

// WithScrollbarWidth sets the padding, in pixels, reserved over the content
// scrollbar in scrollable layouts.
func WithScrollbarWidth(px int) Option {
	return func(o *options) {
		if px >= 0 {
			o.scrollbarWidth = px
		}
	}
}
