// Package compare implements the per-value-kind comparison primitives
// of §4.5: string, int, float, bool, version (via Masterminds/semver),
// EVR (RPM-style), and binary operators.
package compare

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// stringOps, numericOps, and boolOps list the operations each kind
// accepts; anything else is UnsupportedOperation.
var stringOps = map[string]bool{
	"=": true, "!=": true, "contains": true, "not_contains": true,
	"starts": true, "ends": true, "not_starts": true, "not_ends": true,
	"ieq": true, "ine": true, "pattern_match": true, "matches": true,
}

var numericOps = map[string]bool{
	"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
}

var boolOps = map[string]bool{"=": true, "!=": true}

var versionOps = numericOps

var binaryOps = map[string]bool{"=": true, "!=": true}

// Compare evaluates operation on actual against expected, both Values
// of the same Kind. A regex cache is not maintained here; callers that
// evaluate the same pattern repeatedly should cache at a higher layer.
func Compare(operation string, actual, expected model.Value) (bool, error) {
	if actual.Kind != expected.Kind {
		return false, model.NewError(model.ErrTypeMismatch,
			fmt.Sprintf("cannot compare %s against %s", actual.Kind, expected.Kind))
	}

	switch actual.Kind {
	case model.KindString:
		return compareString(operation, actual.Str, expected.Str)
	case model.KindInt:
		return compareOrdered(operation, actual.Int, expected.Int)
	case model.KindFloat:
		return compareOrdered(operation, actual.Float, expected.Float)
	case model.KindBool:
		return compareBool(operation, actual.Bool, expected.Bool)
	case model.KindVersion:
		return compareVersion(operation, actual.Version, expected.Version)
	case model.KindEVR:
		return compareEVR(operation, actual.EVR, expected.EVR)
	case model.KindBinary:
		return compareBinary(operation, actual.Binary, expected.Binary)
	default:
		return false, model.NewError(model.ErrUnsupportedOperation,
			fmt.Sprintf("no comparison defined for kind %s", actual.Kind))
	}
}

func compareString(op, a, b string) (bool, error) {
	if !stringOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for string", op))
	}
	switch op {
	case "=":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "contains":
		return strings.Contains(a, b), nil
	case "not_contains":
		return !strings.Contains(a, b), nil
	case "starts":
		return strings.HasPrefix(a, b), nil
	case "ends":
		return strings.HasSuffix(a, b), nil
	case "not_starts":
		return !strings.HasPrefix(a, b), nil
	case "not_ends":
		return !strings.HasSuffix(a, b), nil
	case "ieq":
		return strings.EqualFold(a, b), nil
	case "ine":
		return !strings.EqualFold(a, b), nil
	case "pattern_match", "matches":
		re, err := regexp.Compile(b)
		if err != nil {
			return false, model.Wrap(model.ErrInvalidPattern, fmt.Sprintf("invalid pattern %q", b), err)
		}
		// Search semantics (§4.5): the pattern need not match the whole
		// input, mirroring regexp.MatchString rather than full-match.
		return re.MatchString(a), nil
	default:
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for string", op))
	}
}

type ordered interface{ ~int64 | ~float64 }

func compareOrdered[T ordered](op string, a, b T) (bool, error) {
	if !numericOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for numeric kind", op))
	}
	switch op {
	case "=":
		return a == b, nil
	case "!=":
		return a != b, nil
	case ">":
		return a > b, nil
	case "<":
		return a < b, nil
	case ">=":
		return a >= b, nil
	case "<=":
		return a <= b, nil
	default:
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for numeric kind", op))
	}
}

func compareBool(op string, a, b bool) (bool, error) {
	if !boolOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for bool", op))
	}
	if op == "=" {
		return a == b, nil
	}
	return a != b, nil
}

func compareVersion(op, a, b string) (bool, error) {
	if !versionOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for version", op))
	}
	va, err := semver.NewVersion(a)
	if err != nil {
		return false, model.Wrap(model.ErrInvalidPattern, fmt.Sprintf("invalid version %q", a), err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false, model.Wrap(model.ErrInvalidPattern, fmt.Sprintf("invalid version %q", b), err)
	}
	cmp := va.Compare(vb)
	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case ">":
		return cmp > 0, nil
	case "<":
		return cmp < 0, nil
	case ">=":
		return cmp >= 0, nil
	case "<=":
		return cmp <= 0, nil
	default:
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for version", op))
	}
}

func compareEVR(op string, a, b model.EVR) (bool, error) {
	if !numericOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for evr", op))
	}
	cmp := CompareEVR(a, b)
	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case ">":
		return cmp > 0, nil
	case "<":
		return cmp < 0, nil
	case ">=":
		return cmp >= 0, nil
	case "<=":
		return cmp <= 0, nil
	default:
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for evr", op))
	}
}

func compareBinary(op string, a, b []byte) (bool, error) {
	if !binaryOps[op] {
		return false, model.NewError(model.ErrUnsupportedOperation, fmt.Sprintf("operation %q not valid for binary", op))
	}
	eq := string(a) == string(b)
	if op == "=" {
		return eq, nil
	}
	return !eq, nil
}
