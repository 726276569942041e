package validate

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Automation models the fields with a fixed shape in an automation item.
// Trigger, condition and action payloads vary per integration and stay
// untyped; integration-specific extras are allowed alongside.
type Automation struct {
	ID            string         `json:"id,omitempty"`
	Alias         string         `json:"alias,omitempty"`
	Description   string         `json:"description,omitempty"`
	InitialState  *bool          `json:"initial_state,omitempty"`
	Mode          string         `json:"mode,omitempty" jsonschema:"enum=single,enum=restart,enum=queued,enum=parallel"`
	Max           int            `json:"max,omitempty" jsonschema:"minimum=1"`
	MaxExceeded   string         `json:"max_exceeded,omitempty"`
	TraceSettings map[string]any `json:"trace,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Trigger       any            `json:"trigger,omitempty"`
	Triggers      any            `json:"triggers,omitempty"`
	Condition     any            `json:"condition,omitempty"`
	Conditions    any            `json:"conditions,omitempty"`
	Action        any            `json:"action,omitempty"`
	Actions       any            `json:"actions,omitempty"`
	UseBlueprint  any            `json:"use_blueprint,omitempty"`
}

// GenerateAutomationJSONSchema produces a JSON Schema Draft 2020-12 document
// from the Go Automation struct using invopop/jsonschema.
func GenerateAutomationJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false
	// Automations carry integration-specific keys the struct cannot enumerate.
	r.AllowAdditionalProperties = true

	s := r.Reflect(&Automation{})
	s.ID = "https://github.com/homecfg/hagate/schemas/automation-v1.json"
	s.Title = "Home Assistant Automation v1"
	s.Description = "Schema for items of automations.yaml"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
