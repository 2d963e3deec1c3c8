package datagrid

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed assets/datagrid.css assets/page.html
var embeddedAssets embed.FS

// AssetsFS exposes the default stylesheet and page template.
//
// Typical mount:
//
//	mux.Handle("/datagrid/",
//	  http.StripPrefix("/datagrid/",
//	    http.FileServerFS(datagrid.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Stylesheet returns the default styles for the grid marker classes.
func Stylesheet() string {
	data, err := fs.ReadFile(AssetsFS(), "datagrid.css")
	if err != nil {
		return ""
	}
	return string(data)
}

var (
	pageOnce     sync.Once
	pageTemplate *pongo2.Template
	pageErr      error
)

func loadPageTemplate() (*pongo2.Template, error) {
	pageOnce.Do(func() {
		data, err := fs.ReadFile(AssetsFS(), "page.html")
		if err != nil {
			pageErr = err
			return
		}
		pageTemplate, pageErr = pongo2.FromBytes(data)
	})
	return pageTemplate, pageErr
}

// RenderPage renders a standalone HTML document holding the grid and the
// default stylesheet.
func RenderPage(ctx context.Context, title string, cfg Config, options ...Option) ([]byte, error) {
	markup, err := RenderHTML(ctx, cfg, options...)
	if err != nil {
		return nil, err
	}
	return WrapPage(title, markup)
}

// WrapPage places already rendered grid markup in the page template.
func WrapPage(title string, markup []byte) ([]byte, error) {
	tpl, err := loadPageTemplate()
	if err != nil {
		return nil, fmt.Errorf("datagrid: page template: %w", err)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context{
		"title":      title,
		"stylesheet": pongo2.AsSafeValue(Stylesheet()),
		"grid":       pongo2.AsSafeValue(string(markup)),
	})
	if err != nil {
		return nil, fmt.Errorf("datagrid: render page: %w", err)
	}
	return out, nil
}
