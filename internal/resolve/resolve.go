package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// ResolvedPolicy is the complete output of resolution: a pure
// environment and object/set/criterion data ready for the execution
// engine, plus the original CRI tree (§4.2 step 7 keeps its shape).
type ResolvedPolicy struct {
	PolicyID string
	Metadata model.PolicyMetadata
	Env      Environment
	Objects  map[string]model.Object
	Sets     map[string][]string
	States   map[string]model.State
	Criteria []ExecutableCriterion
	Root     *model.CRINode
}

// FilterResolver evaluates one set's filter predicate against a
// candidate object id. It is the sole I/O-performing collaborator of
// resolution (§4.2 step 5); every other step here is a pure function
// of the AST.
type FilterResolver interface {
	Check(filter *model.Filter, objectID string) (bool, error)
}

// Resolve runs the full resolution pipeline of §4.2 over ast, using
// filterResolver to evaluate any set filters. Pass a nil filterResolver
// only when ast declares no filtered sets.
func Resolve(ast *AST, filterResolver FilterResolver) (*ResolvedPolicy, error) {
	declared := make(map[string]bool, len(ast.Variables))
	for _, d := range ast.Variables {
		declared[d.Name] = true
	}

	env, err := BindVariables(ast.Variables)
	if err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	if err := EvaluateRuns(ast.Runs, env, declared); err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	objects, err := ResolveObjects(ast.Objects, env, declared)
	if err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	sets, err := ResolveSets(ast.Sets, objects)
	if err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	states, err := ResolveStates(ast.States, env, declared)
	if err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	for i := range ast.Sets {
		decl := &ast.Sets[i]
		if decl.Filter == nil {
			continue
		}
		if filterResolver == nil {
			return nil, wrapPolicy(model.NewError(model.ErrUnknownSet,
				"set \""+decl.Name+"\" declares a filter but no filter resolver was supplied"), ast.PolicyID)
		}
		kept, _ := ApplyFilter(sets[decl.Name], decl.Filter, func(objID string) (bool, error) {
			return filterResolver.Check(decl.Filter, objID)
		})
		sets[decl.Name] = kept
	}

	criteria, err := FlattenCriteria(ast.Criteria, sets, objects)
	if err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	if err := FlattenCRI(ast.Root, criteria); err != nil {
		return nil, wrapPolicy(err, ast.PolicyID)
	}

	return &ResolvedPolicy{
		PolicyID: ast.PolicyID,
		Metadata: ast.Metadata,
		Env:      env,
		Objects:  objects,
		Sets:     sets,
		States:   states,
		Criteria: criteria,
		Root:     ast.Root,
	}, nil
}

func wrapPolicy(err error, policyID string) error {
	if modelErr, ok := err.(*model.Error); ok {
		return modelErr.WithPolicy(policyID)
	}
	return err
}
