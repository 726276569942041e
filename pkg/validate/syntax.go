package validate

import (
	"path/filepath"
	"strings"

	"github.com/homecfg/hagate/pkg/hayaml"
)

// fileKind captures the expected top-level shape of a well-known file.
type fileKind int

const (
	kindAny      fileKind = iota
	kindSequence          // automations.yaml, scenes.yaml
	kindMapping           // configuration.yaml, groups.yaml, scripts.yaml
)

func fileKindFor(path string) fileKind {
	switch filepath.Base(path) {
	case "automations.yaml", "scenes.yaml":
		return kindSequence
	case "configuration.yaml", "groups.yaml", "scripts.yaml":
		return kindMapping
	default:
		return kindAny
	}
}

// referenceKeys are fields that must hold literal identifiers. A !secret or
// !include there can never produce a resolvable reference.
var referenceKeys = map[string]bool{
	"entity_id": true, "entity_ids": true, "entities": true,
	"device_id": true, "device_ids": true,
	"area_id": true, "area_ids": true,
}

// checkSyntax runs the structural phase over one loaded document.
func checkSyntax(doc *hayaml.Document) []SyntaxError {
	c := &syntaxChecker{
		file:      doc.Path,
		blueprint: inBlueprintContext(doc),
	}
	c.checkShape(doc)
	for _, p := range doc.PlaceholderKeys {
		c.add(errorf(c.file, p.Line, PhaseStructural,
			"%s cannot be used as a mapping key", p.Tag))
	}
	c.walk(doc.Body, "")
	if filepath.Base(doc.Path) == "automations.yaml" {
		c.checkAutomations(doc)
	}
	return c.errs
}

type syntaxChecker struct {
	file      string
	blueprint bool
	errs      []SyntaxError
}

func (c *syntaxChecker) add(e SyntaxError) { c.errs = append(c.errs, e) }

func (c *syntaxChecker) checkShape(doc *hayaml.Document) {
	if doc.Body == nil {
		return
	}
	switch fileKindFor(doc.Path) {
	case kindSequence:
		if _, ok := doc.Body.([]any); !ok {
			c.add(errorf(c.file, 1, PhaseStructural,
				"top level of %s must be a list", filepath.Base(doc.Path)))
		}
	case kindMapping:
		if _, ok := doc.Body.(*hayaml.Mapping); !ok {
			c.add(errorf(c.file, 1, PhaseStructural,
				"top level of %s must be a mapping", filepath.Base(doc.Path)))
		}
	}
}

// walk enforces placeholder context rules throughout the tree.
func (c *syntaxChecker) walk(value any, parentKey string) {
	switch v := value.(type) {
	case *hayaml.Placeholder:
		c.checkPlaceholder(v, parentKey)
	case *hayaml.Mapping:
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			c.walk(item, key)
		}
	case []any:
		for _, item := range v {
			c.walk(item, parentKey)
		}
	}
}

func (c *syntaxChecker) checkPlaceholder(p *hayaml.Placeholder, parentKey string) {
	if p.Kind == hayaml.KindInput && !c.blueprint {
		c.add(errorf(c.file, p.Line, PhaseStructural,
			"!input %s used outside a blueprint", p.Arg))
		return
	}
	if referenceKeys[parentKey] && p.Kind != hayaml.KindInput {
		c.add(errorf(c.file, p.Line, PhaseStructural,
			"%s cannot supply %s, a literal identifier is required", p.Tag, parentKey))
	}
}

// inBlueprintContext reports whether !input placeholders are legal in this
// document: either the file lives under a blueprints directory or its top
// level declares a blueprint block.
func inBlueprintContext(doc *hayaml.Document) bool {
	for _, part := range strings.Split(filepath.ToSlash(doc.Path), "/") {
		if part == "blueprints" {
			return true
		}
	}
	if m, ok := doc.Body.(*hayaml.Mapping); ok {
		if _, ok := m.Get("blueprint"); ok {
			return true
		}
	}
	return false
}

// checkAutomations validates the per-item structure of automations.yaml:
// each item is a mapping with a trigger and an action, unless the automation
// delegates both to a blueprint.
func (c *syntaxChecker) checkAutomations(doc *hayaml.Document) {
	items, ok := doc.Body.([]any)
	if !ok {
		return
	}
	for i, item := range items {
		m, ok := item.(*hayaml.Mapping)
		if !ok {
			c.add(errorf(c.file, 0, PhaseStructural,
				"automation %d must be a mapping", i))
			continue
		}
		line := mappingLine(m)
		if _, ok := m.Get("use_blueprint"); ok {
			continue
		}
		if !hasAny(m, "trigger", "triggers") {
			c.add(errorf(c.file, line, PhaseStructural,
				"automation %d has no trigger", i))
		}
		if !hasAny(m, "action", "actions") {
			c.add(errorf(c.file, line, PhaseStructural,
				"automation %d has no action", i))
		}
		if !hasAny(m, "alias") {
			c.add(warningf(c.file, line, PhaseStructural,
				"automation %d has no alias", i))
		}
	}
}

func hasAny(m *hayaml.Mapping, keys ...string) bool {
	for _, key := range keys {
		if _, ok := m.Get(key); ok {
			return true
		}
	}
	return false
}

func mappingLine(m *hayaml.Mapping) int {
	keys := m.Keys()
	if len(keys) == 0 {
		return 0
	}
	return m.Line(keys[0])
}
