package model

// RecordData is a recursive JSON-like value: either an ordered mapping
// from field name to value, or an ordered sequence of values. Exactly
// one of Map/Seq is populated, selected by IsSeq.
type RecordData struct {
	IsSeq bool
	Map   []RecordField
	Seq   []Value
}

// RecordField is one (name, value) pair of an ordered mapping.
type RecordField struct {
	Name  string
	Value Value
}

// NewRecordMap builds an ordered-mapping RecordData from field pairs.
func NewRecordMap(fields ...RecordField) *RecordData {
	return &RecordData{Map: fields}
}

// NewRecordSeq builds an ordered-sequence RecordData.
func NewRecordSeq(values ...Value) *RecordData {
	return &RecordData{IsSeq: true, Seq: values}
}

// Get looks up a mapping field by name. Returns false if this record is
// a sequence or the name is absent.
func (r *RecordData) Get(name string) (Value, bool) {
	if r == nil || r.IsSeq {
		return Value{}, false
	}
	for _, f := range r.Map {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Index looks up a sequence element by position. Returns false if this
// record is a mapping or the index is out of range.
func (r *RecordData) Index(i int) (Value, bool) {
	if r == nil || !r.IsSeq {
		return Value{}, false
	}
	if i < 0 || i >= len(r.Seq) {
		return Value{}, false
	}
	return r.Seq[i], true
}

// Len returns the number of entries (map fields or sequence elements).
func (r *RecordData) Len() int {
	if r == nil {
		return 0
	}
	if r.IsSeq {
		return len(r.Seq)
	}
	return len(r.Map)
}

// Values returns every value the record holds, in order — map values
// for a mapping, elements for a sequence. Used by wildcard path
// segments (§4.4).
func (r *RecordData) Values() []Value {
	if r == nil {
		return nil
	}
	if r.IsSeq {
		return append([]Value(nil), r.Seq...)
	}
	out := make([]Value, len(r.Map))
	for i, f := range r.Map {
		out[i] = f.Value
	}
	return out
}
