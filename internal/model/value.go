// Package model defines the core data model of the compliance execution
// core: values, objects, sets, states, criteria, contracts, and the
// outcome/evidence types produced by a scan.
package model

import "fmt"

// Kind tags the type of a Value, a declared state-field type, or a
// variable's declared type.
type Kind string

const (
	KindString  Kind = "string"
	KindInt     Kind = "int"
	KindFloat   Kind = "float"
	KindBool    Kind = "bool"
	KindBinary  Kind = "binary"
	KindVersion Kind = "version"
	KindEVR     Kind = "evr"
	KindRecord  Kind = "record"
)

// EVR is an epoch:version-release identifier, RPM-style.
type EVR struct {
	Epoch   int
	Version string
	Release string
}

func (e EVR) String() string {
	return fmt.Sprintf("%d:%s-%s", e.Epoch, e.Version, e.Release)
}

// Value is a tagged union of one of the kinds in Kind. Exactly one of
// the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	Binary  []byte
	Version string
	EVR     EVR
	Record  *RecordData
}

func NewString(s string) Value  { return Value{Kind: KindString, Str: s} }
func NewInt(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func NewFloat(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func NewBool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NewBinary(b []byte) Value  { return Value{Kind: KindBinary, Binary: b} }
func NewVersion(v string) Value { return Value{Kind: KindVersion, Version: v} }
func NewEVR(e EVR) Value        { return Value{Kind: KindEVR, EVR: e} }
func NewRecord(r *RecordData) Value {
	return Value{Kind: KindRecord, Record: r}
}

// String renders the value for diagnostics; it is not a canonical
// serialization (see internal/canonical for that).
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindBinary:
		return fmt.Sprintf("<binary:%d bytes>", len(v.Binary))
	case KindVersion:
		return v.Version
	case KindEVR:
		return v.EVR.String()
	case KindRecord:
		return "<record>"
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values of the same kind carry the same
// scalar payload. Record values are never equal via this method; use
// the record-path evaluator to compare structured data.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindBool:
		return v.Bool == o.Bool
	case KindBinary:
		if len(v.Binary) != len(o.Binary) {
			return false
		}
		for i := range v.Binary {
			if v.Binary[i] != o.Binary[i] {
				return false
			}
		}
		return true
	case KindVersion:
		return v.Version == o.Version
	case KindEVR:
		return v.EVR == o.EVR
	default:
		return false
	}
}
