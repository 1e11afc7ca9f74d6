package model

// PathSegKind tags one segment of a dot-separated record field path
// (§4.4).
type PathSegKind string

const (
	SegName     PathSegKind = "name"
	SegIndex    PathSegKind = "index"
	SegWildcard PathSegKind = "wildcard"
)

// PathSegment is one step of a RecordCheck's field path.
type PathSegment struct {
	Kind  PathSegKind
	Name  string
	Index int
}

func NamePath(name string) PathSegment  { return PathSegment{Kind: SegName, Name: name} }
func IndexPath(i int) PathSegment       { return PathSegment{Kind: SegIndex, Index: i} }
func WildcardPath() PathSegment         { return PathSegment{Kind: SegWildcard} }

// EntityCheck names how a RecordCheck's predicate aggregates across the
// set of values a wildcard segment fans out to (§4.4).
type EntityCheck string

const (
	EntityAll         EntityCheck = "all"
	EntityAtLeastOne  EntityCheck = "at_least_one"
	EntityNone        EntityCheck = "none"
	EntityOnlyOne     EntityCheck = "only_one"
)

// RecordCheck evaluates a nested predicate against the value(s) reached
// by walking FieldPath into a record-kind value.
type RecordCheck struct {
	FieldPath   []PathSegment
	Predicate   FieldPredicate
	EntityCheck EntityCheck
}

// Operand is a tagged union: a field predicate compares its field
// against exactly one of a literal value, a bound variable, or a
// nested record check.
type Operand struct {
	Literal *Value
	VarRef  string
	Record  *RecordCheck
}

func LiteralOperand(v Value) Operand    { return Operand{Literal: &v} }
func VariableOperand(name string) Operand { return Operand{VarRef: name} }
func RecordOperand(rc RecordCheck) Operand { return Operand{Record: &rc} }

// FieldPredicate is one comparison clause: does the named collected
// field, interpreted as DeclaredType, satisfy Operation against
// Operand.
type FieldPredicate struct {
	Field        string
	DeclaredType Kind
	Operation    string
	Operand      Operand
}

// State is a named, reusable list of field predicates evaluated
// against a single collected object's data (§3, §4.4).
type State struct {
	Name       string
	Predicates []FieldPredicate
}
