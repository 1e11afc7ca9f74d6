// Package recordpath evaluates dot-separated field paths against
// RecordData, fanning wildcard segments out across mappings and
// sequences (§4.4).
package recordpath

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// Evaluate walks path against v and returns every addressed value.
// A name segment applied to a non-record, non-mapping value, an index
// out of range, or a missing key yields an empty set rather than an
// error — absence is a zero-cardinality result, not a failure.
func Evaluate(v model.Value, path []model.PathSegment) []model.Value {
	current := []model.Value{v}
	for _, seg := range path {
		current = step(current, seg)
		if len(current) == 0 {
			return current
		}
	}
	return current
}

func step(values []model.Value, seg model.PathSegment) []model.Value {
	var out []model.Value
	for _, v := range values {
		if v.Kind != model.KindRecord || v.Record == nil {
			continue
		}
		switch seg.Kind {
		case model.SegName:
			if val, ok := v.Record.Get(seg.Name); ok {
				out = append(out, val)
			}
		case model.SegIndex:
			if val, ok := v.Record.Index(seg.Index); ok {
				out = append(out, val)
			}
		case model.SegWildcard:
			out = append(out, v.Record.Values()...)
		}
	}
	return out
}

// Satisfier evaluates whether a single value satisfies a predicate. The
// record-path evaluator is agnostic to the predicate implementation
// (internal/compare supplies it) so it has no import-cycle on
// internal/execute.
type Satisfier func(model.Value) (bool, error)

// CheckEntity applies check to every value in values and aggregates per
// the entity-check semantics of §4.4: the returned bool is the entity
// verdict, and err is non-nil only if an individual satisfier call
// itself failed in a way that should propagate rather than simply
// count as "does not pass" (TypeMismatch and friends are folded into
// the K/N count by the caller via Satisfier's bool return, not err).
func CheckEntity(values []model.Value, check model.EntityCheck, satisfies Satisfier) (bool, error) {
	n := len(values)
	k := 0
	for _, v := range values {
		ok, err := satisfies(v)
		if err != nil {
			return false, err
		}
		if ok {
			k++
		}
	}
	switch check {
	case model.EntityAll:
		return k == n && n >= 1, nil
	case model.EntityAtLeastOne:
		return k >= 1, nil
	case model.EntityNone:
		return k == 0, nil
	case model.EntityOnlyOne:
		return k == 1, nil
	default:
		return false, nil
	}
}
