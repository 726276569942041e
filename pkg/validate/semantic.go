package validate

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/homecfg/hagate/pkg/hayaml"
)

var (
	automationSchemaOnce sync.Once
	automationSchema     *sjsonschema.Schema
	automationSchemaErr  error
)

func compiledAutomationSchema() (*sjsonschema.Schema, error) {
	automationSchemaOnce.Do(func() {
		schemaJSON, err := GenerateAutomationJSONSchema()
		if err != nil {
			automationSchemaErr = fmt.Errorf("generate schema: %w", err)
			return
		}
		var schemaDoc any
		if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
			automationSchemaErr = fmt.Errorf("unmarshal schema: %w", err)
			return
		}
		c := sjsonschema.NewCompiler()
		if err := c.AddResource("automation-v1.json", schemaDoc); err != nil {
			automationSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		automationSchema, automationSchemaErr = c.Compile("automation-v1.json")
	})
	return automationSchema, automationSchemaErr
}

// checkSemantic validates each automation item against the generated JSON
// Schema. Files other than automations.yaml have no semantic phase.
func checkSemantic(doc *hayaml.Document) []SyntaxError {
	items, ok := doc.Body.([]any)
	if !ok {
		return nil
	}
	sch, err := compiledAutomationSchema()
	if err != nil {
		return []SyntaxError{errorf(doc.Path, 0, PhaseSemantic, "%v", err)}
	}

	var errs []SyntaxError
	for i, item := range items {
		if _, ok := item.(*hayaml.Mapping); !ok {
			continue // reported by the structural phase
		}
		plain, err := jsonRoundTrip(toPlainValue(item))
		if err != nil {
			errs = append(errs, errorf(doc.Path, 0, PhaseSemantic,
				"automation %d: %v", i, err))
			continue
		}
		if err := sch.Validate(plain); err != nil {
			errs = append(errs, flattenSchemaError(doc.Path, i, err)...)
		}
	}
	return errs
}

func flattenSchemaError(file string, item int, err error) []SyntaxError {
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []SyntaxError{errorf(file, 0, PhaseSemantic,
			"automation %d: %v", item, err)}
	}
	var errs []SyntaxError
	for _, cause := range flattenValidationErrors(ve) {
		path := fmt.Sprintf("[%d]", item)
		if loc := strings.Join(cause.InstanceLocation, "/"); loc != "" {
			path += "/" + loc
		}
		errs = append(errs, errorf(file, 0, PhaseSemantic,
			"%s: %v", path, cause.ErrorKind))
	}
	return errs
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// toPlainValue strips loader types down to JSON-marshalable values.
// Placeholders render as their surface form so schema validation sees a
// string where the runtime would substitute one.
func toPlainValue(value any) any {
	switch v := value.(type) {
	case *hayaml.Mapping:
		out := make(map[string]any, v.Len())
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			out[key] = toPlainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = toPlainValue(item)
		}
		return out
	case *hayaml.Placeholder:
		return v.String()
	default:
		return v
	}
}

func jsonRoundTrip(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal for schema validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal for schema validation: %w", err)
	}
	return doc, nil
}
