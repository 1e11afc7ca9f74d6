// Package resolve transforms a compiled policy AST into a list of
// executable criteria by eliminating variables, sets, filters, and RUN
// operations (§4.2). Apart from set filters, which are checked through
// an injected FilterResolver, resolution is a pure function of the AST
// and performs no collector I/O.
package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// FieldValue is a tagged union: either a literal value or a reference
// to a variable bound earlier in the policy.
type FieldValue struct {
	Literal *model.Value
	VarRef  string
}

func Literal(v model.Value) FieldValue  { return FieldValue{Literal: &v} }
func VarRef(name string) FieldValue     { return FieldValue{VarRef: name} }

func (f FieldValue) isVarRef() bool { return f.Literal == nil }

// VarDecl is one `VAR name = value` declaration. Value may itself be a
// VarRef to an earlier declaration.
type VarDecl struct {
	Name  string
	Type  model.Kind
	Value FieldValue
}

// RunOperation names one of the RUN block operations of §4.2 step 2.
type RunOperation string

const (
	RunConcat        RunOperation = "concat"
	RunSplit         RunOperation = "split"
	RunSubstring     RunOperation = "substring"
	RunRegexCapture  RunOperation = "regex_capture"
	RunArithmetic    RunOperation = "arithmetic"
	RunCount         RunOperation = "count"
	RunExtract       RunOperation = "extract"
)

// RunOp is one `(output_name, operation, inputs)` RUN block. Inputs
// are positional; operator-specific extra configuration is carried in
// the named fields below rather than overloading Inputs.
type RunOp struct {
	Output    string
	Operation RunOperation
	Inputs    []FieldValue

	// Arithmetic: operators[i] sits between inputs[i] and inputs[i+1].
	Operators []string

	// Extract: the field path to walk into a RecordData input.
	FieldPath []model.PathSegment
}

// ObjectDecl is a policy-declared object before variable substitution:
// its field values may reference variables.
type ObjectDecl struct {
	ID       string
	Fields   map[string]FieldValue
	Behavior model.BehaviorHints
	Comment  string
}

// SetDecl mirrors model.Set but its Filter's StateRef is resolved the
// same way (filters reference a State by name, no variable
// indirection needed there per §4.2 step 5).
type SetDecl = model.Set

// CriterionDecl is a policy-declared criterion before flattening: object
// and set references by name, to be expanded into a concrete resolved
// object list.
type CriterionDecl struct {
	CTNType    string
	Test       model.TestSpec
	StateRefs  []string
	ObjectRefs []string
	SetRefs    []string
}

// AST is the compiled policy handed to the resolution engine.
type AST struct {
	PolicyID  string
	Metadata  model.PolicyMetadata
	Variables []VarDecl
	Runs      []RunOp
	Objects   []ObjectDecl
	Sets      []SetDecl
	States    map[string]model.State
	Criteria  []CriterionDecl
	Root      *model.CRINode
}
