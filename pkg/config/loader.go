package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownGrid is returned when a store has no definition for an id.
var ErrUnknownGrid = errors.New("config: unknown grid")

// Store holds grid definitions keyed by id.
type Store struct {
	grids map[string]Definition
}

// LoadFS walks fsys and parses every JSON/YAML file that declares grids. A nil
// filesystem yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{grids: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse builds a store from a single document.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{grids: make(map[string]Definition)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Definition returns the raw definition for id.
func (s *Store) Definition(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.grids[id]
	return def, ok
}

// IDs lists the grid ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.grids))
	for id := range s.grids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any grids.
func (s *Store) Empty() bool {
	return s == nil || len(s.grids) == 0
}

type documentFile struct {
	Grids map[string]Definition `json:"grids" yaml:"grids"`
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for rawID, def := range doc.Grids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("config: file %s defines an empty grid id", source)
		}
		if _, exists := s.grids[id]; exists {
			return fmt.Errorf("config: duplicate grid %q (file %s)", id, source)
		}
		def.ID = id
		def.Source = source
		s.grids[id] = def
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
