// Package hayaml parses Home Assistant YAML configuration files and provides
// typed placeholder nodes for the HA-specific extension tags (!include,
// !secret, !input and friends) instead of resolving or rejecting them.
package hayaml

import "fmt"

// PlaceholderKind classifies a recognized extension tag.
type PlaceholderKind string

const (
	// KindInclude covers !include and the !include_dir_* family.
	KindInclude PlaceholderKind = "include"
	// KindSecret is a !secret lookup. The secret value is never resolved here.
	KindSecret PlaceholderKind = "secret"
	// KindInput is a blueprint !input parameter.
	KindInput PlaceholderKind = "input"
)

// recognizedTags is the closed set of extension tags the loader accepts.
// Anything else starting with "!" is a syntax error, not a pass-through.
var recognizedTags = map[string]PlaceholderKind{
	"!include":                 KindInclude,
	"!include_dir_named":       KindInclude,
	"!include_dir_merge_named": KindInclude,
	"!include_dir_merge_list":  KindInclude,
	"!include_dir_list":        KindInclude,
	"!secret":                  KindSecret,
	"!input":                   KindInput,
}

// Placeholder is the parsed form of one extension tag occurrence.
// Tag and Arg are preserved verbatim so the node round-trips to text.
type Placeholder struct {
	Kind PlaceholderKind
	Tag  string // surface tag, e.g. "!secret"
	Arg  string // raw scalar argument, e.g. "api_key"
	Line int
}

// String renders the placeholder back to its original YAML surface form.
func (p *Placeholder) String() string {
	if p.Arg == "" {
		return p.Tag
	}
	return p.Tag + " " + p.Arg
}

// Mapping is a decoded YAML mapping that preserves key order and the source
// line of each key.
type Mapping struct {
	keys  []string
	items map[string]any
	lines map[string]int
}

func newMapping(capacity int) *Mapping {
	return &Mapping{
		items: make(map[string]any, capacity),
		lines: make(map[string]int, capacity),
	}
}

func (m *Mapping) set(key string, value any, line int) {
	m.keys = append(m.keys, key)
	m.items[key] = value
	m.lines[key] = line
}

// Get returns the value for key and whether it is present.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Keys returns the mapping keys in document order.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Line returns the source line of key, or 0 if absent.
func (m *Mapping) Line(key string) int {
	return m.lines[key]
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// LoadError is a structural parse failure for one file.
type LoadError struct {
	Path    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func loadErrorf(path string, line int, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Line: line, Message: fmt.Sprintf(format, args...)}
}
