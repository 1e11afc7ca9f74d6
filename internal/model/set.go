package model

// SetOp names a set-algebra combinator (§4.3).
type SetOp string

const (
	SetOpUnion        SetOp = "union"
	SetOpIntersection SetOp = "intersection"
	SetOpComplement   SetOp = "complement"
)

// SetMember is a tagged union referencing either an Object or a nested
// Set by name.
type SetMember struct {
	IsSetRef bool
	Ref      string
}

func ObjectMember(objectID string) SetMember { return SetMember{Ref: objectID} }
func NestedSet(setName string) SetMember     { return SetMember{IsSetRef: true, Ref: setName} }

// Set resolves to a collection of object references via a named
// operator over its members, optionally narrowed by a filter.
type Set struct {
	Name    string
	Op      SetOp
	Members []SetMember
	Filter  *Filter
}
