package refs

import (
	"path/filepath"

	"github.com/homecfg/hagate/pkg/hayaml"
)

// inputHelperTypes are the configuration.yaml blocks whose mapping keys
// define entities directly.
var inputHelperTypes = []string{
	"input_boolean", "input_number", "input_text",
	"input_select", "input_datetime", "input_button",
}

// templateEntityTypes are the entity lists a template: block may declare.
var templateEntityTypes = []string{"sensor", "binary_sensor", "number", "select", "button"}

// ExtractDefined collects entity ids that the configuration itself defines —
// groups, input helpers, template entities, scripts, automations, scenes and
// zones. These are legitimate references even though they never appear in
// the entity registry.
func ExtractDefined(docs []*hayaml.Document) map[string]bool {
	defined := make(map[string]bool)
	for _, doc := range docs {
		extractDefinedFromDoc(doc, defined)
	}
	return defined
}

func extractDefinedFromDoc(doc *hayaml.Document, defined map[string]bool) {
	switch filepath.Base(doc.Path) {
	case "groups.yaml":
		addMappingKeys(doc.Body, "group", defined)
	case "scripts.yaml":
		addMappingKeys(doc.Body, "script", defined)
	case "automations.yaml":
		addSluggedNames(doc.Body, "automation", "alias", defined)
	case "scenes.yaml":
		addSluggedNames(doc.Body, "scene", "name", defined)
	case "configuration.yaml":
		extractFromConfiguration(doc.Body, defined)
	}
}

// addMappingKeys registers <domain>.<key> for every valid object-id key of a
// top-level mapping (groups.yaml, scripts.yaml).
func addMappingKeys(body any, domain string, defined map[string]bool) {
	m, ok := body.(*hayaml.Mapping)
	if !ok {
		return
	}
	for _, key := range m.Keys() {
		if IsObjectID(key) {
			defined[domain+"."+key] = true
		}
	}
}

// addSluggedNames registers <domain>.<slug(nameKey)> for every entry of a
// top-level sequence (automations.yaml alias, scenes.yaml name). The id
// field is a UI handle, not an entity_id, and is deliberately ignored.
func addSluggedNames(body any, domain, nameKey string, defined map[string]bool) {
	seq, ok := body.([]any)
	if !ok {
		return
	}
	for _, item := range seq {
		m, ok := item.(*hayaml.Mapping)
		if !ok {
			continue
		}
		if name, ok := stringAt(m, nameKey); ok {
			if slug := Slugify(name); slug != "" {
				defined[domain+"."+slug] = true
			}
		}
	}
}

func extractFromConfiguration(body any, defined map[string]bool) {
	root, ok := body.(*hayaml.Mapping)
	if !ok {
		return
	}

	// group: block — same derivation as groups.yaml
	if g, ok := root.Get("group"); ok {
		addMappingKeys(g, "group", defined)
	}

	// Input helpers define entities by mapping key.
	for _, helper := range inputHelperTypes {
		if h, ok := root.Get(helper); ok {
			addMappingKeys(h, helper, defined)
		}
	}

	// template: may be a single block or a list of blocks.
	if t, ok := root.Get("template"); ok {
		switch tv := t.(type) {
		case []any:
			for _, item := range tv {
				extractTemplateEntities(item, defined)
			}
		case *hayaml.Mapping:
			extractTemplateEntities(tv, defined)
		}
	}

	// Legacy platform-style sensor lists.
	for _, sensorType := range []string{"sensor", "binary_sensor"} {
		if s, ok := root.Get(sensorType); ok {
			extractPlatformEntities(s, sensorType, defined)
		}
	}

	// zone: entries derive zone.<slug(name)>.
	if z, ok := root.Get("zone"); ok {
		addSluggedNames(z, "zone", "name", defined)
	}

	// calendar: platforms (CalDAV etc.) derive from calendars list or name.
	if c, ok := root.Get("calendar"); ok {
		extractCalendarEntities(c, defined)
	}
}

// extractTemplateEntities handles one template: block. default_entity_id
// wins when present; otherwise the display name is slugified. unique_id is
// a UI rename handle and never becomes an entity_id.
func extractTemplateEntities(block any, defined map[string]bool) {
	m, ok := block.(*hayaml.Mapping)
	if !ok {
		return
	}
	for _, entityType := range templateEntityTypes {
		list, ok := m.Get(entityType)
		if !ok {
			continue
		}
		seq, ok := list.([]any)
		if !ok {
			continue
		}
		for _, item := range seq {
			entry, ok := item.(*hayaml.Mapping)
			if !ok {
				continue
			}
			if id, ok := stringAt(entry, "default_entity_id"); ok && id != "" {
				if IsEntityID(id) {
					defined[id] = true
				} else if IsObjectID(id) {
					defined[entityType+"."+id] = true
				}
				continue
			}
			if name, ok := stringAt(entry, "name"); ok {
				if slug := Slugify(name); slug != "" {
					defined[entityType+"."+slug] = true
				}
			}
		}
	}
}

// extractPlatformEntities handles legacy sensor:/binary_sensor: platform
// lists. The template platform names entities by mapping key; other
// platforms derive from the name field.
func extractPlatformEntities(v any, sensorType string, defined map[string]bool) {
	seq, ok := v.([]any)
	if !ok {
		return
	}
	for _, item := range seq {
		m, ok := item.(*hayaml.Mapping)
		if !ok {
			continue
		}
		platform, _ := stringAt(m, "platform")
		if platform == "" {
			continue
		}
		if platform == "template" {
			if sensors, ok := m.Get("sensors"); ok {
				addMappingKeys(sensors, sensorType, defined)
			}
		}
		if name, ok := stringAt(m, "name"); ok {
			if slug := Slugify(name); slug != "" {
				defined[sensorType+"."+slug] = true
			}
		}
	}
}

func extractCalendarEntities(v any, defined map[string]bool) {
	seq, ok := v.([]any)
	if !ok {
		return
	}
	for _, item := range seq {
		m, ok := item.(*hayaml.Mapping)
		if !ok {
			continue
		}
		if cals, ok := m.Get("calendars"); ok {
			if list, ok := cals.([]any); ok {
				for _, c := range list {
					if name, ok := c.(string); ok {
						if slug := Slugify(name); slug != "" {
							defined["calendar."+slug] = true
						}
					}
				}
			}
		}
		if name, ok := stringAt(m, "name"); ok {
			if slug := Slugify(name); slug != "" {
				defined["calendar."+slug] = true
			}
		}
	}
}

func stringAt(m *hayaml.Mapping, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
