package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"gopkg.in/yaml.v3"

	datagrid "github.com/goliatone/go-datagrid"
	"github.com/goliatone/go-datagrid/internal/console"
	"github.com/goliatone/go-datagrid/pkg/column"
	"github.com/goliatone/go-datagrid/pkg/config"
	"github.com/goliatone/go-datagrid/pkg/datasource"
	"github.com/goliatone/go-datagrid/pkg/dom"
	"github.com/goliatone/go-datagrid/pkg/grid"
)

func main() {
	configPath := flag.String("config", "", "grid definition file or directory (JSON/YAML)")
	gridID := flag.String("grid", "", "grid id to render (first id when empty)")
	dataPath := flag.String("data", "", "records file (JSON or YAML array)")
	openapiPath := flag.String("openapi", "", "OpenAPI document used to infer columns")
	schemaName := flag.String("schema", "", "component schema name for -openapi")
	output := flag.String("output", "", "output file (stdout if empty)")
	page := flag.Bool("page", false, "wrap the grid in a standalone HTML page")
	title := flag.String("title", "Data grid", "page title for -page")
	interactive := flag.Bool("interactive", false, "drive the grid from terminal prompts")
	verbosity := flag.Int("v", 0, "log verbosity")
	flag.Parse()

	ctx := context.Background()
	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: *verbosity})

	cfg, err := buildConfig(ctx, logger, *configPath, *gridID, *dataPath)
	if err != nil {
		log.Fatalf("Failed to load grid config: %v", err)
	}
	if *openapiPath != "" {
		cols, err := loadColumns(ctx, *openapiPath, *schemaName)
		if err != nil {
			log.Fatalf("Failed to infer columns: %v", err)
		}
		cfg.Columns = cols
	}

	opts := []grid.Option{grid.WithLogger(logger.WithName("grid"))}

	if *interactive {
		if err := runInteractive(ctx, logger, cfg, opts); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
		return
	}

	var out []byte
	if *page {
		out, err = datagrid.RenderPage(ctx, *title, cfg, opts...)
	} else {
		out, err = datagrid.RenderHTML(ctx, cfg, opts...)
	}
	if err != nil {
		log.Fatalf("Failed to render grid: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Grid written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

func buildConfig(ctx context.Context, logger logr.Logger, configPath, gridID, dataPath string) (grid.Config, error) {
	var records []datasource.Record
	if dataPath != "" {
		loaded, err := loadRecords(dataPath)
		if err != nil {
			return grid.Config{}, err
		}
		records = loaded
	}

	if configPath == "" {
		return grid.Config{DataSource: grid.Inline(records)}, nil
	}

	store, err := loadStore(configPath)
	if err != nil {
		return grid.Config{}, err
	}
	if gridID == "" {
		ids := store.IDs()
		if len(ids) == 0 {
			return grid.Config{}, fmt.Errorf("no grids defined in %s", configPath)
		}
		gridID = ids[0]
	}
	logger.V(1).Info("using grid definition", "grid", gridID, "config", configPath)

	opts := []config.Option{config.WithLogger(logger.WithName("datasource"))}
	if records != nil {
		opts = append(opts, config.WithData(records))
	}
	return store.Grid(gridID, opts...)
}

func loadStore(path string) (*config.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return config.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, path)
}

func loadRecords(path string) ([]datasource.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var out []datasource.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse records %s: %w", path, err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&out); err != nil {
			return nil, fmt.Errorf("parse records %s: %w", path, err)
		}
	}
	return out, nil
}

func loadColumns(ctx context.Context, path, schema string) ([]any, error) {
	if schema == "" {
		return nil, errors.New("-schema is required with -openapi")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi: %w", err)
	}
	set, err := column.FromOpenAPIDocument(ctx, data, schema)
	if err != nil {
		return nil, err
	}
	cols := make([]any, 0, len(set))
	for _, def := range set {
		cols = append(cols, def)
	}
	return cols, nil
}

func runInteractive(ctx context.Context, logger logr.Logger, cfg grid.Config, opts []grid.Option) error {
	g, err := grid.New(ctx, dom.Element("table"), cfg, opts...)
	if err != nil {
		return err
	}
	defer g.Close()

	session, err := console.NewSession(g, console.NewSurveyDriver(os.Stdout), console.WithLogger(logger.WithName("console")))
	if err != nil {
		return err
	}
	return session.Run(ctx)
}
