package validate

import (
	"strings"
	"testing"

	"github.com/homecfg/hagate/pkg/hayaml"
)

func mustLoad(t *testing.T, path, content string) *hayaml.Document {
	t.Helper()
	doc, err := hayaml.Load([]byte(content), path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return doc
}

func messages(errs []SyntaxError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func TestSyntaxTopLevelShape(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", "alias: not a list\n")
	errs := checkSyntax(doc)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "must be a list") {
		t.Fatalf("errors = %v", messages(errs))
	}

	doc = mustLoad(t, "configuration.yaml", "- item\n")
	errs = checkSyntax(doc)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "must be a mapping") {
		t.Fatalf("errors = %v", messages(errs))
	}
}

func TestSyntaxEmptyFileHasNoErrors(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", "")
	if errs := checkSyntax(doc); len(errs) != 0 {
		t.Fatalf("errors = %v", messages(errs))
	}
}

func TestSyntaxPlaceholderAsKey(t *testing.T) {
	doc := mustLoad(t, "configuration.yaml", "!secret hidden: value\n")
	errs := checkSyntax(doc)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "mapping key") {
		t.Fatalf("errors = %v", messages(errs))
	}
}

func TestSyntaxSecretInReferenceField(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", `
- alias: bad
  trigger:
    platform: state
    entity_id: !secret my_entity
  action: []
`)
	errs := checkSyntax(doc)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "literal identifier") {
			found = true
			if e.Severity != SeverityError {
				t.Errorf("severity = %q", e.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("no literal-identifier error in %v", messages(errs))
	}
}

func TestSyntaxInputOutsideBlueprint(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", `
- alias: bad
  trigger:
    platform: state
    entity_id: !input motion_sensor
  action: []
`)
	errs := checkSyntax(doc)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "outside a blueprint") {
		t.Fatalf("errors = %v", messages(errs))
	}
}

func TestSyntaxInputInsideBlueprint(t *testing.T) {
	content := `
blueprint:
  name: Motion light
  input:
    motion_sensor:
      selector: {entity: {}}
trigger:
  platform: state
  entity_id: !input motion_sensor
`
	doc := mustLoad(t, "motion_light.yaml", content)
	if errs := checkSyntax(doc); len(errs) != 0 {
		t.Fatalf("errors = %v", messages(errs))
	}

	// A blueprints/ path component is context enough on its own.
	doc = mustLoad(t, "blueprints/automation/motion.yaml",
		"trigger:\n  entity_id: !input motion_sensor\n")
	if errs := checkSyntax(doc); len(errs) != 0 {
		t.Fatalf("errors = %v", messages(errs))
	}
}

func TestSyntaxAutomationStructure(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", `
- alias: complete
  trigger:
    platform: state
    entity_id: sensor.door
  action:
    - service: light.turn_on
- alias: no trigger
  action: []
- trigger: []
`)
	errs := checkSyntax(doc)

	var errCount, warnCount int
	for _, e := range errs {
		switch e.Severity {
		case SeverityError:
			errCount++
		case SeverityWarning:
			warnCount++
		}
	}
	// item 1 has no trigger; item 2 has no action and no alias.
	if errCount != 2 {
		t.Errorf("error count = %d, errors = %v", errCount, messages(errs))
	}
	if warnCount != 1 {
		t.Errorf("warning count = %d, errors = %v", warnCount, messages(errs))
	}
}

func TestSyntaxBlueprintAutomationSkipsTriggerCheck(t *testing.T) {
	doc := mustLoad(t, "automations.yaml", `
- alias: from blueprint
  use_blueprint:
    path: motion_light.yaml
    input:
      motion_sensor: binary_sensor.hall
`)
	if errs := checkSyntax(doc); len(errs) != 0 {
		t.Fatalf("errors = %v", messages(errs))
	}
}
