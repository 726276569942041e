package refs

import (
	"fmt"

	"github.com/homecfg/hagate/pkg/hayaml"
)

// Mapping keys that carry references.
var (
	entityKeys = map[string]bool{"entity_id": true, "entity_ids": true, "entities": true}
	deviceKeys = map[string]bool{"device_id": true, "device_ids": true}
	areaKeys   = map[string]bool{"area_id": true, "area_ids": true}
)

// Extract walks a parsed document and returns every entity/device/area
// reference it makes, in order of appearance, deduplicated on (id, kind).
func Extract(doc *hayaml.Document) Result {
	x := &extractor{seen: make(map[[2]string]bool)}
	x.walk(doc.Body, "", 0)
	return x.result
}

type extractor struct {
	result Result
	seen   map[[2]string]bool
}

func (x *extractor) add(id string, kind Kind, path string, line int) {
	key := [2]string{id, string(kind)}
	if x.seen[key] {
		return
	}
	x.seen[key] = true
	x.result.Refs = append(x.result.Refs, Ref{ID: id, Kind: kind, Path: path, Line: line})
}

func (x *extractor) walk(v any, path string, line int) {
	switch node := v.(type) {
	case *hayaml.Mapping:
		x.walkMapping(node, path)
	case []any:
		for i, item := range node {
			x.walk(item, fmt.Sprintf("%s[%d]", path, i), line)
		}
	case string:
		x.scanTemplate(node, path, line)
	}
}

func (x *extractor) walkMapping(m *hayaml.Mapping, path string) {
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		keyPath := joinPath(path, key)
		line := m.Line(key)

		switch {
		case entityKeys[key]:
			x.addEntityValues(v, keyPath, line)
		case deviceKeys[key]:
			x.addIDValues(v, KindDevice, keyPath, line)
		case areaKeys[key]:
			x.addIDValues(v, KindArea, keyPath, line)
		default:
			x.walk(v, keyPath, line)
		}
	}

	x.collectPair(m, path)
}

// addEntityValues handles entity_id-style values: a single string or a list
// of strings. Registry UUIDs go into their own kind; tag remnants, templates
// and special keywords are skipped.
func (x *extractor) addEntityValues(v any, path string, line int) {
	for _, s := range stringValues(v) {
		if IsRegistryUUID(s) {
			x.add(s, KindRegistryID, path, line)
			continue
		}
		if skipEntityValue(s) {
			continue
		}
		x.add(s, KindEntity, path, line)
	}
}

func (x *extractor) addIDValues(v any, kind Kind, path string, line int) {
	for _, s := range stringValues(v) {
		if skipIDValue(s) {
			continue
		}
		x.add(s, kind, path, line)
	}
}

// collectPair emits a consistency pair when one mapping names an entity
// together with an explicit area or device.
func (x *extractor) collectPair(m *hayaml.Mapping, path string) {
	areaID := firstPlainString(m, "area_id")
	deviceID := firstPlainString(m, "device_id")
	if areaID == "" && deviceID == "" {
		return
	}

	for _, key := range []string{"entity_id", "entity_ids", "entities"} {
		v, ok := m.Get(key)
		if !ok {
			continue
		}
		for _, s := range stringValues(v) {
			if skipEntityValue(s) || !IsEntityID(s) {
				continue
			}
			x.result.Pairs = append(x.result.Pairs, Pair{
				EntityID: s,
				DeviceID: deviceID,
				AreaID:   areaID,
				Path:     joinPath(path, key),
				Line:     m.Line(key),
			})
		}
	}
}

func firstPlainString(m *hayaml.Mapping, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok || skipIDValue(s) {
		return ""
	}
	return s
}

// stringValues flattens a scalar-or-list reference value into its strings.
// Placeholders and other node types contribute nothing.
func stringValues(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
