package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// Environment is the name→value map produced by variable binding and
// RUN evaluation, consulted by every later resolution step.
type Environment map[string]model.Value

// resolveFieldValue returns the literal or looks up a variable
// reference in env. declared distinguishes "references a name that
// was never declared anywhere" (UnknownVariable) from "references a
// name declared later, or itself" (CyclicVariable), per §4.2's
// single-pass, no-recursion substitution rule.
func resolveFieldValue(fv FieldValue, env Environment, declared map[string]bool) (model.Value, error) {
	if !fv.isVarRef() {
		return *fv.Literal, nil
	}
	if v, ok := env[fv.VarRef]; ok {
		return v, nil
	}
	if declared[fv.VarRef] {
		return model.Value{}, model.NewError(model.ErrCyclicVariable,
			"variable \""+fv.VarRef+"\" referenced before it is bound")
	}
	return model.Value{}, model.NewError(model.ErrUnknownVariable,
		"unknown variable \""+fv.VarRef+"\"")
}

// BindVariables populates an Environment from a policy's VAR
// declarations, resolving each in declaration order so that later
// declarations may reference earlier ones but not vice versa (§4.2
// step 1).
func BindVariables(decls []VarDecl) (Environment, error) {
	env := make(Environment, len(decls))
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}

	for _, d := range decls {
		v, err := resolveFieldValue(d.Value, env, declared)
		if err != nil {
			return nil, err
		}
		env[d.Name] = v
	}
	return env, nil
}
