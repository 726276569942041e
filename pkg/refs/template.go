package refs

import (
	"regexp"
	"strings"
)

// Template scanning is deliberately pattern-based. Fully evaluating Jinja
// expressions would require the live templating engine; instead we extract
// quoted identifier-shaped arguments of the known state-access functions and
// accept the recall tradeoff. Malformed template text never fails the scan.
var templatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`states\('([^']+)'\)`),
	regexp.MustCompile(`states\("([^"]+)"\)`),
	regexp.MustCompile(`states\.([a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`is_state\('([^']+)'`),
	regexp.MustCompile(`is_state\("([^"]+)"`),
	regexp.MustCompile(`state_attr\('([^']+)'`),
	regexp.MustCompile(`state_attr\("([^"]+)"`),
}

// templateMarkers gate the scan so ordinary strings are not regex-matched.
var templateMarkers = []string{"states(", "is_state(", "state_attr(", "states."}

// scanTemplate extracts entity references embedded in a template string.
func (x *extractor) scanTemplate(value, path string, line int) {
	if !hasTemplateMarker(value) {
		return
	}
	for _, id := range EntitiesInTemplate(value) {
		x.add(id, KindEntity, path, line)
	}
}

func hasTemplateMarker(value string) bool {
	for _, marker := range templateMarkers {
		if strings.Contains(value, marker) {
			return true
		}
	}
	return false
}

// EntitiesInTemplate returns the entity ids referenced by the known state
// functions inside a template string. Only domain.object shaped matches are
// kept, so template locals and loop variables produce no false extractions.
func EntitiesInTemplate(template string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, re := range templatePatterns {
		for _, match := range re.FindAllStringSubmatch(template, -1) {
			id := match[1]
			if !IsEntityID(id) || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
