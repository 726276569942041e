// Package refs extracts entity, device and area references from parsed
// Home Assistant configuration documents.
package refs

import (
	"regexp"
	"strings"
)

// Kind identifies what a reference points at.
type Kind string

const (
	KindEntity Kind = "entity"
	KindDevice Kind = "device"
	KindArea   Kind = "area"
	// KindRegistryID is an entity referenced by its 32-hex internal registry
	// id, as device-based automations do.
	KindRegistryID Kind = "registry_id"
)

// Ref is one extracted reference with its location context.
type Ref struct {
	ID   string
	Kind Kind
	Path string // JSON-path-like location, e.g. "automation[0].trigger.entity_id"
	Line int
}

// Pair records an entity reference co-located with an explicit area or
// device in the same mapping, for the cross-link consistency check.
type Pair struct {
	EntityID string
	DeviceID string
	AreaID   string
	Path     string
	Line     int
}

// Result holds everything extracted from one document, in order of
// appearance and deduplicated on (id, kind).
type Result struct {
	Refs  []Ref
	Pairs []Pair
}

var (
	objectIDRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	uuidRe     = regexp.MustCompile(`^[a-f0-9]{32}$`)
	templateRe = regexp.MustCompile(`\{\{.*?\}\}`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9_]+`)
	slugSquash = regexp.MustCompile(`_+`)
)

// specialKeywords are entity_id values with defined meaning that are not
// entity ids ("all" targets every entity, "none" targets none).
var specialKeywords = map[string]bool{"all": true, "none": true}

// IsObjectID reports whether value is a valid object id ([a-z0-9_]+).
func IsObjectID(value string) bool {
	return objectIDRe.MatchString(value)
}

// IsEntityID reports whether value has the domain.object shape with both
// halves valid object ids.
func IsEntityID(value string) bool {
	domain, object, ok := strings.Cut(value, ".")
	return ok && IsObjectID(domain) && IsObjectID(object)
}

// IsRegistryUUID reports whether value looks like an internal registry id
// (32 lowercase hex characters, no hyphens — the storage format).
func IsRegistryUUID(value string) bool {
	return uuidRe.MatchString(value)
}

// IsTemplate reports whether value contains a Jinja {{ ... }} expression.
func IsTemplate(value string) bool {
	return templateRe.MatchString(value)
}

// Slugify derives an object id from a display name the way Home Assistant
// does: lowercase, non [a-z0-9_] runs become single underscores.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "_")
	slug = slugSquash.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// skipEntityValue reports whether an entity_id value should not be validated:
// leftover tag text, templates, registry UUIDs (extracted separately) and the
// special keywords.
func skipEntityValue(value string) bool {
	return strings.HasPrefix(value, "!") ||
		IsRegistryUUID(value) ||
		IsTemplate(value) ||
		specialKeywords[value]
}

// skipIDValue is the device/area variant: tags and templates only.
func skipIDValue(value string) bool {
	return strings.HasPrefix(value, "!") || IsTemplate(value)
}
