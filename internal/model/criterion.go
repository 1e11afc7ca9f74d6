package model

// ExistenceCheck names how many collected objects must exist before
// per-object state validation runs at all (§4.5 phase 2).
type ExistenceCheck string

const (
	ExistenceAll         ExistenceCheck = "all_exist"
	ExistenceAny         ExistenceCheck = "any_exist"
	ExistenceNone        ExistenceCheck = "none_exist"
	ExistenceAtLeastOne  ExistenceCheck = "at_least_one_exists"
	ExistenceOnlyOne     ExistenceCheck = "only_one_exists"
)

// ItemCheck names how per-object state results aggregate into a single
// criterion verdict once existence has been confirmed (§4.5 phase 3).
type ItemCheck string

const (
	ItemAll         ItemCheck = "all"
	ItemAtLeastOne  ItemCheck = "at_least_one"
	ItemOnlyOne     ItemCheck = "only_one"
	ItemNoneSatisfy ItemCheck = "none_satisfy"
)

// StateOperator names how multiple named States attached to one
// Criterion combine into a single per-object state verdict (§4.4).
type StateOperator string

const (
	StateAND StateOperator = "AND"
	StateOR  StateOperator = "OR"
	StateONE StateOperator = "ONE"
)

// TestSpec carries the quantifier configuration for one criterion: how
// many matched objects must exist, and how their per-object state
// verdicts aggregate.
type TestSpec struct {
	ExistenceCheck ExistenceCheck
	ItemCheck      ItemCheck
	StateOperator  StateOperator
}

// Criterion names a CTN type to collect against, the set(s)/object(s)
// it applies to, the state(s) each matched object is validated
// against, and the quantifiers governing aggregation.
type Criterion struct {
	CTNType   string
	Test      TestSpec
	StateRefs []string
	ObjectRefs []string
	SetRefs   []string
}

// CRIKind tags a node of the criterion boolean tree: a leaf referencing
// one Criterion by index, or an internal AND/OR combinator over
// children.
type CRIKind string

const (
	CRILeaf   CRIKind = "leaf"
	CRIGroup  CRIKind = "group"
)

// CRICombinator names the boolean operator of a CRIGroup node.
type CRICombinator string

const (
	CRIAnd CRICombinator = "AND"
	CRIOr  CRICombinator = "OR"
)

// CRINode is one node of the criteria boolean tree that determines a
// policy's overall pass/fail from its individual criterion outcomes
// (§4.7).
type CRINode struct {
	Kind           CRIKind
	Combinator     CRICombinator
	Children       []*CRINode
	CriterionIndex int
	Negate         bool
}
