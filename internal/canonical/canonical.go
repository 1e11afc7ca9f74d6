// Package canonical implements the evidence envelope's canonicalization
// and hashing rules (§4.8): recursively sort mapping keys, preserve
// sequence order, normalize numeric representation, normalize strings
// to NFC, then frame and hash with SHA-256.
package canonical

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/gowebpki/jcs"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"golang.org/x/text/unicode/norm"
)

// ToJSONable converts a Value into a JSON-marshalable Go value with all
// strings NFC-normalized. Binary values are base64-encoded since raw
// bytes have no canonical JSON representation.
func ToJSONable(v model.Value) any {
	switch v.Kind {
	case model.KindString:
		return norm.NFC.String(v.Str)
	case model.KindInt:
		return v.Int
	case model.KindFloat:
		return v.Float
	case model.KindBool:
		return v.Bool
	case model.KindBinary:
		return base64.StdEncoding.EncodeToString(v.Binary)
	case model.KindVersion:
		return norm.NFC.String(v.Version)
	case model.KindEVR:
		return norm.NFC.String(v.EVR.String())
	case model.KindRecord:
		return recordToJSONable(v.Record)
	default:
		return nil
	}
}

func recordToJSONable(r *model.RecordData) any {
	if r == nil {
		return nil
	}
	if r.IsSeq {
		out := make([]any, len(r.Seq))
		for i, v := range r.Seq {
			out[i] = ToJSONable(v)
		}
		return out
	}
	out := make(map[string]any, len(r.Map))
	for _, f := range r.Map {
		out[norm.NFC.String(f.Name)] = ToJSONable(f.Value)
	}
	return out
}

// Canonicalize serializes v to RFC 8785 JSON Canonicalization Scheme
// bytes: deterministic key ordering, normalized number formatting, and
// no insignificant whitespace. Canonicalize(Canonicalize(x)) = x's
// canonical form is idempotent since jcs.Transform operates on already
// well-formed JSON.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, model.Wrap(model.ErrSerializationFailed, "marshal before canonicalization failed", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return nil, model.Wrap(model.ErrSerializationFailed, "JCS transform failed", err)
	}
	return canon, nil
}

// CanonicalizeValue is a convenience wrapper combining ToJSONable and
// Canonicalize for a single model.Value.
func CanonicalizeValue(v model.Value) ([]byte, error) {
	return Canonicalize(ToJSONable(v))
}

// FieldRecord is one (policy_id, ctn_type, object_id, field_name,
// field_value) frame fed into the evidence hash, per §4.8(b).
type FieldRecord struct {
	PolicyID  string
	CTNType   string
	ObjectID  string
	FieldName string
	Value     model.Value
}

// Hash computes sha256("<policy_id><ctn_type><object_id><field_name><canonical field value>" ...)
// over records, sorted by (object_id, field_name) so that the hash is
// independent of map iteration order, and returns "sha256:" + lowercase
// hex, per §4.8(c)-(d).
func Hash(records []FieldRecord) (string, error) {
	sorted := make([]FieldRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ObjectID != sorted[j].ObjectID {
			return sorted[i].ObjectID < sorted[j].ObjectID
		}
		return sorted[i].FieldName < sorted[j].FieldName
	})

	h := sha256.New()
	for _, rec := range sorted {
		h.Write([]byte(rec.PolicyID))
		h.Write([]byte(rec.CTNType))
		h.Write([]byte(rec.ObjectID))
		h.Write([]byte(rec.FieldName))

		valBytes, err := CanonicalizeValue(rec.Value)
		if err != nil {
			return "", model.Wrap(model.ErrHashingFailed, "failed to canonicalize field value", err)
		}
		h.Write(valBytes)
	}

	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// HashCollectedData builds the FieldRecord list for one CollectedData
// result and folds it into Hash, for callers assembling an envelope
// one object at a time.
func HashCollectedData(policyID string, data model.CollectedData) (string, error) {
	fieldNames := make([]string, 0, len(data.Fields))
	for name := range data.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	records := make([]FieldRecord, 0, len(fieldNames))
	for _, name := range fieldNames {
		records = append(records, FieldRecord{
			PolicyID:  policyID,
			CTNType:   data.CTNType,
			ObjectID:  data.ObjectID,
			FieldName: name,
			Value:     data.Fields[name],
		})
	}
	return Hash(records)
}
