package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// ResolveStates applies variable substitution to every predicate
// operand of every declared state, producing states whose operands are
// either literals or (recursively) record checks — never a bare
// variable reference — per §4.2 step 6.
func ResolveStates(states map[string]model.State, env Environment, declared map[string]bool) (map[string]model.State, error) {
	out := make(map[string]model.State, len(states))
	for name, s := range states {
		predicates := make([]model.FieldPredicate, len(s.Predicates))
		for i, p := range s.Predicates {
			operand, err := resolveOperand(p.Operand, env, declared)
			if err != nil {
				return nil, err
			}
			predicates[i] = model.FieldPredicate{
				Field:        p.Field,
				DeclaredType: p.DeclaredType,
				Operation:    p.Operation,
				Operand:      operand,
			}
		}
		out[name] = model.State{Name: s.Name, Predicates: predicates}
	}
	return out, nil
}

func resolveOperand(op model.Operand, env Environment, declared map[string]bool) (model.Operand, error) {
	switch {
	case op.VarRef != "":
		fv := VarRef(op.VarRef)
		v, err := resolveFieldValue(fv, env, declared)
		if err != nil {
			return model.Operand{}, err
		}
		return model.LiteralOperand(v), nil
	case op.Record != nil:
		innerOperand, err := resolveOperand(op.Record.Predicate.Operand, env, declared)
		if err != nil {
			return model.Operand{}, err
		}
		rc := model.RecordCheck{
			FieldPath: op.Record.FieldPath,
			Predicate: model.FieldPredicate{
				Field:        op.Record.Predicate.Field,
				DeclaredType: op.Record.Predicate.DeclaredType,
				Operation:    op.Record.Predicate.Operation,
				Operand:      innerOperand,
			},
			EntityCheck: op.Record.EntityCheck,
		}
		return model.RecordOperand(rc), nil
	default:
		return op, nil
	}
}
