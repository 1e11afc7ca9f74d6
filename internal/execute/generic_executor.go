package execute

import (
	"fmt"

	"github.com/scanset/ESP-Agent-SDK/internal/compare"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/recordpath"
)

// GenericExecutor is the reference Executor (§4.1/§4.7): it validates a
// CTN type's collected data against one State's predicates purely from
// the Contract's field_mappings.state_to_data table, the comparison
// primitives of internal/compare, and the record-path evaluator of
// internal/recordpath. Any CTN type whose states are expressible as
// plain field predicates can register this against its own Contract
// rather than hand-writing an Executor.
type GenericExecutor struct {
	ctnType  string
	contract *model.Contract
}

// NewGenericExecutor binds a GenericExecutor to contract, reading its
// CTN type from contract.CTNType.
func NewGenericExecutor(contract *model.Contract) *GenericExecutor {
	return &GenericExecutor{ctnType: contract.CTNType, contract: contract}
}

func (g *GenericExecutor) CTNType() string           { return g.ctnType }
func (g *GenericExecutor) Contract() *model.Contract { return g.contract }

// Evaluate checks every predicate of state against data and ANDs them
// into a single per-state verdict; the caller (evaluateStates) combines
// verdicts across multiple states per the criterion's state operator.
func (g *GenericExecutor) Evaluate(data model.CollectedData, state model.State) (model.ObjectOutcome, error) {
	fieldResults := make([]model.FieldResult, 0, len(state.Predicates))
	satisfiedCount := 0
	for _, pred := range state.Predicates {
		fr := g.evaluatePredicate(data, pred)
		if fr.Satisfied {
			satisfiedCount++
		}
		fieldResults = append(fieldResults, fr)
	}

	satisfied := len(state.Predicates) > 0 && satisfiedCount == len(state.Predicates)
	return model.ObjectOutcome{
		ObjectID:  data.ObjectID,
		Exists:    data.Exists,
		Satisfied: satisfied,
		Fields:    fieldResults,
		Collected: data,
	}, nil
}

// evaluatePredicate resolves the actual data value per §4.3 Phase C's
// field_mappings.state_to_data lookup (falling back to the bare field
// name) and evaluates the predicate's operation.
func (g *GenericExecutor) evaluatePredicate(data model.CollectedData, pred model.FieldPredicate) model.FieldResult {
	dataField := pred.Field
	if g.contract != nil {
		if mapped, ok := g.contract.Mappings.StateToData[pred.Field]; ok {
			dataField = mapped
		}
	}

	actual, ok := data.Fields[dataField]
	if !ok {
		return model.FieldResult{
			Field:     pred.Field,
			Operation: pred.Operation,
			Expected:  pred.Operand,
			Satisfied: false,
			Error:     fmt.Sprintf("field %q missing from collected data", dataField),
		}
	}

	satisfied, err := evaluateOperand(pred.Operation, actual, pred.Operand)
	result := model.FieldResult{
		Field:     pred.Field,
		Operation: pred.Operation,
		Collected: actual,
		Expected:  pred.Operand,
		Satisfied: satisfied,
	}
	if err != nil {
		result.Error = err.Error()
		result.Satisfied = false
	}
	return result
}

func evaluateOperand(operation string, actual model.Value, operand model.Operand) (bool, error) {
	switch {
	case operand.Literal != nil:
		return compare.Compare(operation, actual, *operand.Literal)
	case operand.Record != nil:
		return evaluateRecordCheck(operation, actual, *operand.Record)
	default:
		return false, model.NewError(model.ErrTypeMismatch, "predicate operand has neither literal nor record check (unresolved variable?)")
	}
}

func evaluateRecordCheck(operation string, actual model.Value, rc model.RecordCheck) (bool, error) {
	values := recordpath.Evaluate(actual, rc.FieldPath)
	return recordpath.CheckEntity(values, rc.EntityCheck, func(v model.Value) (bool, error) {
		return evaluateOperand(rc.Predicate.Operation, v, rc.Predicate.Operand)
	})
}
