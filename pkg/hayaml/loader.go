package hayaml

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Document is the parsed form of one configuration file. It is immutable
// after construction.
type Document struct {
	Path     string
	Root     *yaml.Node // full node tree, key order intact; nil for empty files
	Body     any        // decoded value tree (*Mapping, []any, scalar, *Placeholder, nil)
	RawLen   int
	Encoding string

	// PlaceholderKeys records placeholders used as mapping keys. The loader
	// tolerates them so the rest of the document still parses; the syntax
	// validator reports each one.
	PlaceholderKeys []*Placeholder
}

// maxAliasDepth bounds alias expansion during decoding.
const maxAliasDepth = 1000

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, path)
}

// Load parses raw configuration text into a Document. All recognized
// extension tags become Placeholder values; unknown tags, duplicate keys and
// non-UTF-8 content are load errors.
func Load(data []byte, path string) (*Document, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, loadErrorf(path, 0, "file is not valid UTF-8 text")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, loadErrorf(path, yamlErrorLine(err), "invalid YAML: %s", trimYAMLError(err))
	}

	doc := &Document{
		Path:     path,
		RawLen:   len(data),
		Encoding: "utf-8",
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil // empty file is a valid document
	}
	doc.Root = &root

	body, err := doc.decode(root.Content[0], 0)
	if err != nil {
		return nil, err
	}
	doc.Body = body
	return doc, nil
}

// decode converts a node tree to Go values, preserving key order and turning
// recognized extension tags into placeholders.
func (d *Document) decode(n *yaml.Node, depth int) (any, error) {
	if depth > maxAliasDepth {
		return nil, loadErrorf(d.Path, n.Line, "alias nesting too deep")
	}

	if kind, ok := recognizedTags[n.Tag]; ok {
		if n.Kind != yaml.ScalarNode {
			return nil, loadErrorf(d.Path, n.Line, "tag %s requires a scalar argument", n.Tag)
		}
		return &Placeholder{Kind: kind, Tag: n.Tag, Arg: n.Value, Line: n.Line}, nil
	}
	if isUnknownTag(n.Tag) {
		return nil, loadErrorf(d.Path, n.Line, "unrecognized tag %s", n.Tag)
	}

	switch n.Kind {
	case yaml.AliasNode:
		return d.decode(n.Alias, depth+1)

	case yaml.MappingNode:
		m := newMapping(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key, err := d.decodeKey(keyNode, depth)
			if err != nil {
				return nil, err
			}
			if _, dup := m.Get(key); dup {
				return nil, loadErrorf(d.Path, keyNode.Line,
					"duplicate key %q (first defined at line %d)", key, m.Line(key))
			}
			val, err := d.decode(valNode, depth)
			if err != nil {
				return nil, err
			}
			m.set(key, val, keyNode.Line)
		}
		return m, nil

	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item, depth)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, loadErrorf(d.Path, n.Line, "invalid scalar: %s", trimYAMLError(err))
		}
		return v, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0], depth)
	}

	return nil, loadErrorf(d.Path, n.Line, "unsupported YAML node kind %d", n.Kind)
}

// decodeKey renders a mapping key as a string. Placeholder keys are kept as
// their surface form and recorded for the syntax validator.
func (d *Document) decodeKey(n *yaml.Node, depth int) (string, error) {
	if kind, ok := recognizedTags[n.Tag]; ok {
		p := &Placeholder{Kind: kind, Tag: n.Tag, Arg: n.Value, Line: n.Line}
		d.PlaceholderKeys = append(d.PlaceholderKeys, p)
		return p.String(), nil
	}
	if isUnknownTag(n.Tag) {
		return "", loadErrorf(d.Path, n.Line, "unrecognized tag %s", n.Tag)
	}
	if n.Kind == yaml.AliasNode {
		return d.decodeKey(n.Alias, depth+1)
	}
	if n.Kind != yaml.ScalarNode {
		return "", loadErrorf(d.Path, n.Line, "mapping key must be a scalar")
	}
	return n.Value, nil
}

// isUnknownTag reports whether tag is a local tag outside the recognized set.
// Standard YAML tags resolve to the !!-prefixed form.
func isUnknownTag(tag string) bool {
	if tag == "" || strings.HasPrefix(tag, "!!") {
		return false
	}
	if !strings.HasPrefix(tag, "!") {
		return false
	}
	_, ok := recognizedTags[tag]
	return !ok
}

// yamlErrorLine extracts a line number from a yaml.v3 error message, which
// has the form "yaml: line N: ...". Returns 0 when absent.
func yamlErrorLine(err error) int {
	msg := err.Error()
	const marker = "line "
	i := strings.Index(msg, marker)
	if i < 0 {
		return 0
	}
	rest := msg[i+len(marker):]
	end := strings.IndexByte(rest, ':')
	if end < 0 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(rest[:end], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

// trimYAMLError strips the "yaml: " prefix for cleaner report messages.
func trimYAMLError(err error) string {
	return strings.TrimPrefix(err.Error(), "yaml: ")
}
