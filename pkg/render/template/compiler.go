package template

import "strings"

const (
	// EnginePongo2 selects the Django-syntax engine.
	EnginePongo2 = "pongo2"
	// EngineHTML selects the Go html/template engine.
	EngineHTML = "html"
)

// Func renders one record into markup.
type Func func(data any) (string, error)

// Compiler turns template sources into render functions. Implementations also
// know how to spell an interpolation of a record field in their own syntax so
// row templates can be synthesized from a column list.
type Compiler interface {
	Name() string
	Placeholder(field string, encoded bool, settings Settings) string
	Compile(source string, settings Settings) (Func, error)
}

// Settings controls interpolation syntax. Begin/End delimit an interpolation,
// ParamName is the variable the record is bound to, and UseWithBlock exposes
// the record's keys at the top level so placeholders omit the ParamName prefix.
type Settings struct {
	Begin        string `json:"begin,omitempty" yaml:"begin,omitempty"`
	End          string `json:"end,omitempty" yaml:"end,omitempty"`
	ParamName    string `json:"paramName,omitempty" yaml:"paramName,omitempty"`
	UseWithBlock bool   `json:"useWithBlock,omitempty" yaml:"useWithBlock,omitempty"`
	Engine       string `json:"engine,omitempty" yaml:"engine,omitempty"`
}

// DefaultSettings returns the settings used when callers supply none.
func DefaultSettings() Settings {
	return Settings{
		Begin:     "{{",
		End:       "}}",
		ParamName: "data",
		Engine:    EnginePongo2,
	}
}

// Merge overlays the non-empty values of override onto s.
func (s Settings) Merge(override Settings) Settings {
	out := s
	if v := strings.TrimSpace(override.Begin); v != "" {
		out.Begin = v
	}
	if v := strings.TrimSpace(override.End); v != "" {
		out.End = v
	}
	if v := strings.TrimSpace(override.ParamName); v != "" {
		out.ParamName = v
	}
	if override.UseWithBlock {
		out.UseWithBlock = true
	}
	if v := strings.TrimSpace(override.Engine); v != "" {
		out.Engine = strings.ToLower(v)
	}
	return out
}

// FieldPath returns the dotted expression that addresses field on the bound
// record. It is only valid for identifier fields; engines spell other keys as
// a lookup on RecordName.
func (s Settings) FieldPath(field string) string {
	if s.UseWithBlock || s.ParamName == "" {
		return field
	}
	return s.ParamName + "." + field
}

// RecordName returns the variable the whole record is bound to. It is set even
// when UseWithBlock exposes the keys at the top level.
func (s Settings) RecordName() string {
	if s.ParamName == "" {
		return DefaultSettings().ParamName
	}
	return s.ParamName
}

// Record wraps data in the variables a compiled template sees.
func (s Settings) Record(data map[string]any) map[string]any {
	name := s.RecordName()
	out := map[string]any{name: data}
	if s.UseWithBlock {
		for key, value := range data {
			if key == name || !IsIdentifier(key) {
				continue
			}
			out[key] = value
		}
	}
	return out
}

// IsIdentifier reports whether name can be used as a template variable.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
