// Package computed implements the computed-value reference collector
// of §4.7: derive a field's value from a CEL expression evaluated
// against the other already-collected fields of an object, rather
// than reading it from any external system.
package computed

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Expression names one computed field: Field is the output field name,
// Expr is the CEL source evaluated against the object's already
// collected fields (exposed to CEL as the "fields" map) plus the
// object's own declared fields (exposed as "object").
type Expression struct {
	Field string
	Expr  string
}

// Collector evaluates a fixed set of CEL expressions per object,
// caching compiled programs across calls.
type Collector struct {
	env      *cel.Env
	mu       sync.RWMutex
	prgCache map[string]cel.Program
}

// New returns a computed Collector with a CEL environment exposing
// "fields" and "object" as dynamic maps.
func New() (*Collector, error) {
	env, err := cel.NewEnv(
		cel.Variable("fields", cel.DynType),
		cel.Variable("object", cel.DynType),
	)
	if err != nil {
		return nil, model.Wrap(model.ErrCollectionFailed, "failed to create CEL environment", err)
	}
	return &Collector{env: env, prgCache: make(map[string]cel.Program)}, nil
}

// Collect evaluates every expression against the object's fields and
// any already-collected data (collected, field name to value) and
// returns the results as new fields keyed by Expression.Field.
func (c *Collector) Collect(obj model.Object, collected map[string]model.Value, expressions []Expression) (model.CollectedData, error) {
	input := map[string]any{
		"fields": valueMapToAny(collected),
		"object": valueMapToAny(obj.Fields),
	}

	fields := make(map[string]model.Value, len(expressions))
	for _, e := range expressions {
		v, err := c.eval(e.Expr, input)
		if err != nil {
			return model.CollectedData{}, model.Wrap(model.ErrCollectionFailed,
				fmt.Sprintf("computed field %q failed to evaluate", e.Field), err)
		}
		fields[e.Field] = v
	}

	return model.CollectedData{
		Fields: fields,
		Method: model.CollectionMethod{
			Type:   "computed",
			Target: obj.ID,
		},
		Exists: true,
	}, nil
}

func (c *Collector) eval(expr string, input map[string]any) (model.Value, error) {
	prg, err := c.program(expr)
	if err != nil {
		return model.Value{}, err
	}

	out, _, err := prg.Eval(input)
	if err != nil {
		return model.Value{}, fmt.Errorf("eval: %w", err)
	}
	return toValue(out.Value())
}

func (c *Collector) program(expr string) (cel.Program, error) {
	c.mu.RLock()
	prg, hit := c.prgCache[expr]
	c.mu.RUnlock()
	if hit {
		return prg, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prg, hit := c.prgCache[expr]; hit {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	p, err := c.env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(10000),
	)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	c.prgCache[expr] = p
	return p, nil
}

func valueMapToAny(m map[string]model.Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v model.Value) any {
	switch v.Kind {
	case model.KindString:
		return v.Str
	case model.KindInt:
		return v.Int
	case model.KindFloat:
		return v.Float
	case model.KindBool:
		return v.Bool
	case model.KindBinary:
		return v.Binary
	case model.KindVersion:
		return v.Version
	case model.KindEVR:
		return v.EVR.String()
	case model.KindRecord:
		return recordToAny(v.Record)
	default:
		return nil
	}
}

func recordToAny(r *model.RecordData) any {
	if r == nil {
		return nil
	}
	if r.IsSeq {
		out := make([]any, len(r.Seq))
		for i, v := range r.Seq {
			out[i] = valueToAny(v)
		}
		return out
	}
	out := make(map[string]any, len(r.Map))
	for _, f := range r.Map {
		out[f.Name] = valueToAny(f.Value)
	}
	return out
}

// toValue converts a CEL result back into a model.Value. CEL's dynamic
// typing collapses onto the subset of kinds an expression can
// meaningfully produce: string, int, float, bool, and nested
// map/list results projected into a record.
func toValue(v any) (model.Value, error) {
	switch t := v.(type) {
	case string:
		return model.NewString(t), nil
	case bool:
		return model.NewBool(t), nil
	case int64:
		return model.NewInt(t), nil
	case float64:
		return model.NewFloat(t), nil
	case uint64:
		return model.NewInt(int64(t)), nil
	case map[string]any:
		fields := make([]model.RecordField, 0, len(t))
		for k, fv := range t {
			nested, err := toValue(fv)
			if err != nil {
				return model.Value{}, err
			}
			fields = append(fields, model.RecordField{Name: k, Value: nested})
		}
		return model.NewRecord(model.NewRecordMap(fields...)), nil
	case []any:
		values := make([]model.Value, 0, len(t))
		for _, fv := range t {
			nested, err := toValue(fv)
			if err != nil {
				return model.Value{}, err
			}
			values = append(values, nested)
		}
		return model.NewRecord(model.NewRecordSeq(values...)), nil
	default:
		return model.Value{}, fmt.Errorf("unsupported CEL result type %T", v)
	}
}
