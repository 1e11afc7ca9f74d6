package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scanset/ESP-Agent-SDK/internal/canonical"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// buildObjectSchema compiles a JSON schema from a contract's declared
// object fields: required fields per ObjectFieldSpec.Required, and a
// type constraint per ObjectFieldSpec.Type. Compiled once at
// registration time so that per-object validation during collection is
// just a Validate call, not a recompile.
func buildObjectSchema(ctnType string, fields map[string]model.ObjectFieldSpec) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(fields))
	var required []string

	for name, spec := range fields {
		properties[name] = map[string]any{"type": jsonType(spec.Type)}
		if spec.Required {
			required = append(required, name)
		}
	}

	schemaDoc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schemaDoc["required"] = required
	}

	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %q: %w", ctnType, err)
	}

	resourceURL := "contract://" + ctnType + "/object.schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource for %q: %w", ctnType, err)
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %q: %w", ctnType, err)
	}
	return schema, nil
}

// jsonType maps a model.Kind to the JSON Schema primitive type closest
// to how canonical.ToJSONable will render it. Binary and version/EVR
// values are canonicalized to strings, so they validate as "string".
func jsonType(k model.Kind) string {
	switch k {
	case model.KindString, model.KindBinary, model.KindVersion, model.KindEVR:
		return "string"
	case model.KindInt:
		return "integer"
	case model.KindFloat:
		return "number"
	case model.KindBool:
		return "boolean"
	case model.KindRecord:
		return "object"
	default:
		return "string"
	}
}

// ValidateObject checks obj's fields against the compiled object
// schema registered for ctnType. Callers (the execution engine, ahead
// of invoking a collector) use this to reject malformed objects with
// ContractValidationFailed before any collection I/O is attempted.
func (r *Registry) ValidateObject(ctnType string, obj model.Object) error {
	r.mu.RLock()
	e, ok := r.entries[ctnType]
	r.mu.RUnlock()
	if !ok {
		return model.NewError(model.ErrUnknownCtn, fmt.Sprintf("no strategy registered for CTN type %q", ctnType))
	}
	if e.objectSchema == nil {
		return nil
	}

	doc := make(map[string]any, len(obj.Fields))
	for name, v := range obj.Fields {
		doc[name] = canonical.ToJSONable(v)
	}

	if err := e.objectSchema.Validate(doc); err != nil {
		return model.Wrap(model.ErrContractValidationFailed,
			fmt.Sprintf("object %q does not satisfy the %q contract's field shape", obj.ID, ctnType), err)
	}
	return nil
}
