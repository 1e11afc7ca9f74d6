package model

// FieldResult is the evaluated verdict of one FieldPredicate against
// one collected object, carried into evidence for auditability.
type FieldResult struct {
	Field     string
	Operation string
	Collected Value
	Expected  Operand
	Satisfied bool
	Error     string
}

// ObjectOutcome is the per-object state verdict: which object, whether
// its collected data satisfied the criterion's state operator, and the
// individual field results that produced that verdict.
type ObjectOutcome struct {
	ObjectID  string
	Exists    bool
	Satisfied bool
	Fields    []FieldResult
	Collected CollectedData
}

// CriterionResult names the three-valued outcome of evaluating one
// Criterion (§4.5): True (satisfied), False (not satisfied), or
// Error (evaluation could not complete — propagates per §4.7's
// error-propagation rule rather than silently becoming False).
type CriterionResult string

const (
	CriterionTrue  CriterionResult = "true"
	CriterionFalse CriterionResult = "false"
	CriterionError CriterionResult = "error"
)

// CriterionOutcome is the full evaluated record of one Criterion: its
// three-valued result, the per-object outcomes that fed into it, and
// any evaluation error.
type CriterionOutcome struct {
	CriterionIndex int
	CTNType        string
	Result         CriterionResult
	Objects        []ObjectOutcome
	Error          string
}

// PolicyResult names the overall three-valued verdict of a policy scan.
type PolicyResult string

const (
	PolicyPass  PolicyResult = "pass"
	PolicyFail  PolicyResult = "fail"
	PolicyError PolicyResult = "error"
)

// PolicyOutcome is the top-level result of resolving and executing one
// compiled policy: its overall verdict, the per-criterion outcomes,
// the evaluated criterion tree, and an error message when evaluation
// failed.
type PolicyOutcome struct {
	PolicyID   string
	Result     PolicyResult
	Criteria   []CriterionOutcome
	Root       *CRINode
	Error      string
}
