package refs

import (
	"testing"

	"github.com/homecfg/hagate/pkg/hayaml"
)

func parseAs(t *testing.T, path, text string) *hayaml.Document {
	t.Helper()
	doc, err := hayaml.Load([]byte(text), path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return doc
}

func TestDefinedGroupsAndScripts(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "config/groups.yaml", "family:\n  entities:\n    - person.ana\nUpper Floor:\n  entities: []\n"),
		parseAs(t, "config/scripts.yaml", "goodnight:\n  sequence: []\n"),
	}
	defined := ExtractDefined(docs)
	if !defined["group.family"] {
		t.Error("group.family not defined")
	}
	if defined["group.Upper Floor"] {
		t.Error("invalid object id should not define an entity")
	}
	if !defined["script.goodnight"] {
		t.Error("script.goodnight not defined")
	}
}

// TestDefinedAutomationAlias: entity_id derives from the alias, never the id
// field (that is a UI handle).
func TestDefinedAutomationAlias(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "automations.yaml", "- id: '17123'\n  alias: Porch Light At Dusk\n  trigger: []\n  action: []\n"),
	}
	defined := ExtractDefined(docs)
	if !defined["automation.porch_light_at_dusk"] {
		t.Errorf("automation alias not derived: %v", defined)
	}
	if defined["automation.17123"] {
		t.Error("automation id must not become an entity_id")
	}
}

func TestDefinedInputHelpersAndZones(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "configuration.yaml", `
input_boolean:
  guest_mode:
    name: Guest Mode
zone:
  - name: School
    latitude: 1.0
    longitude: 2.0
`),
	}
	defined := ExtractDefined(docs)
	if !defined["input_boolean.guest_mode"] {
		t.Error("input_boolean.guest_mode not defined")
	}
	if !defined["zone.school"] {
		t.Error("zone.school not defined")
	}
}

// TestDefinedTemplateEntities mirrors the upstream derivation rules:
// default_entity_id wins, name is the fallback, unique_id is never used.
func TestDefinedTemplateEntities(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "configuration.yaml", `
template:
  - sensor:
      - name: My Sensor
        unique_id: my_unique_sensor_id
        state: "ok"
      - name: Ignored Name
        default_entity_id: custom_sensor_name
        state: "ok"
      - default_entity_id: binary_sensor.full_form
        state: "ok"
`),
	}
	defined := ExtractDefined(docs)
	if !defined["sensor.my_sensor"] {
		t.Error("sensor.my_sensor (from name) not defined")
	}
	if defined["sensor.my_unique_sensor_id"] {
		t.Error("unique_id must not derive an entity")
	}
	if !defined["sensor.custom_sensor_name"] {
		t.Error("default_entity_id object form not defined")
	}
	if defined["sensor.ignored_name"] {
		t.Error("name must lose to default_entity_id")
	}
	if !defined["binary_sensor.full_form"] {
		t.Error("default_entity_id full form not defined")
	}
}

func TestDefinedLegacyTemplatePlatform(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "configuration.yaml", `
sensor:
  - platform: template
    sensors:
      hallway_temp:
        value_template: "{{ 20 }}"
  - platform: rest
    name: Power Meter
`),
	}
	defined := ExtractDefined(docs)
	if !defined["sensor.hallway_temp"] {
		t.Error("legacy template sensor key not defined")
	}
	if !defined["sensor.power_meter"] {
		t.Error("platform name derivation missing")
	}
}

func TestDefinedCalendars(t *testing.T) {
	docs := []*hayaml.Document{
		parseAs(t, "configuration.yaml", `
calendar:
  - platform: caldav
    calendars:
      - Family Events
`),
	}
	defined := ExtractDefined(docs)
	if !defined["calendar.family_events"] {
		t.Errorf("calendar not derived: %v", defined)
	}
}
