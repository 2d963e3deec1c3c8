package grid

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-datagrid/pkg/render"
	"github.com/goliatone/go-datagrid/pkg/selection"
)

// Classes are the marker classes the grid writes into the tree.
type Classes struct {
	Wrapper    string
	Header     string
	Alt        string
	Focused    string
	Focusable  string
	Selected   string
	Pager      string
	GridHeader string
	HeaderWrap string
	Content    string
}

// DefaultClasses returns the stock marker classes.
func DefaultClasses() Classes {
	return Classes{
		Wrapper:    "t-grid t-widget",
		Header:     "t-header",
		Alt:        render.DefaultAltClass,
		Focused:    "t-state-focused",
		Focusable:  "t-focusable",
		Selected:   selection.ClassSelected,
		Pager:      "t-grid-pager",
		GridHeader: "t-grid-header",
		HeaderWrap: "t-grid-header-wrap",
		Content:    "t-grid-content",
	}
}

// ClassesFromTheme overlays theme tokens named grid.wrapper, grid.header,
// grid.alt, grid.focused, grid.focusable, grid.selected, grid.pager,
// grid.grid-header, grid.header-wrap and grid.content on the defaults.
func ClassesFromTheme(cfg *theme.RendererConfig) Classes {
	classes := DefaultClasses()
	if cfg == nil || len(cfg.Tokens) == 0 {
		return classes
	}
	overlay := func(target *string, token string) {
		if v := strings.TrimSpace(cfg.Tokens["grid."+token]); v != "" {
			*target = v
		}
	}
	overlay(&classes.Wrapper, "wrapper")
	overlay(&classes.Header, "header")
	overlay(&classes.Alt, "alt")
	overlay(&classes.Focused, "focused")
	overlay(&classes.Focusable, "focusable")
	overlay(&classes.Selected, "selected")
	overlay(&classes.Pager, "pager")
	overlay(&classes.GridHeader, "grid-header")
	overlay(&classes.HeaderWrap, "header-wrap")
	overlay(&classes.Content, "content")
	return classes
}

func firstClass(classes string) string {
	if fields := strings.Fields(classes); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
