package resolve_test

import (
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindVariables_SequentialReference(t *testing.T) {
	decls := []resolve.VarDecl{
		{Name: "a", Type: model.KindString, Value: resolve.Literal(model.NewString("hello"))},
		{Name: "b", Type: model.KindString, Value: resolve.VarRef("a")},
	}
	env, err := resolve.BindVariables(decls)
	require.NoError(t, err)
	assert.Equal(t, "hello", env["b"].Str)
}

func TestBindVariables_CyclicRejected(t *testing.T) {
	decls := []resolve.VarDecl{
		{Name: "a", Type: model.KindString, Value: resolve.VarRef("b")},
		{Name: "b", Type: model.KindString, Value: resolve.VarRef("a")},
	}
	_, err := resolve.BindVariables(decls)
	require.Error(t, err)
	var modelErr *model.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, model.ErrCyclicVariable, modelErr.Kind)
}

func TestBindVariables_UnknownVariable(t *testing.T) {
	decls := []resolve.VarDecl{
		{Name: "a", Type: model.KindString, Value: resolve.VarRef("nonexistent")},
	}
	_, err := resolve.BindVariables(decls)
	require.Error(t, err)
	var modelErr *model.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, model.ErrUnknownVariable, modelErr.Kind)
}

// TestEvaluateRuns_ConcatThenState covers §8 scenario 4: RUN concat
// then a state comparison against the computed value.
func TestEvaluateRuns_ConcatThenState(t *testing.T) {
	env := resolve.Environment{}
	declared := map[string]bool{}
	runs := []resolve.RunOp{
		{
			Output:    "greeting",
			Operation: resolve.RunConcat,
			Inputs: []resolve.FieldValue{
				resolve.Literal(model.NewString("Hello, ")),
				resolve.Literal(model.NewString("World!")),
			},
		},
	}
	require.NoError(t, resolve.EvaluateRuns(runs, env, declared))
	assert.Equal(t, "Hello, World!", env["greeting"].Str)
}

func TestEvaluateRuns_ArithmeticPromotesToFloat(t *testing.T) {
	env := resolve.Environment{}
	declared := map[string]bool{}
	runs := []resolve.RunOp{
		{
			Output:    "result",
			Operation: resolve.RunArithmetic,
			Inputs: []resolve.FieldValue{
				resolve.Literal(model.NewInt(10)),
				resolve.Literal(model.NewFloat(2.5)),
			},
			Operators: []string{"+"},
		},
	}
	require.NoError(t, resolve.EvaluateRuns(runs, env, declared))
	assert.Equal(t, model.KindFloat, env["result"].Kind)
	assert.InDelta(t, 12.5, env["result"].Float, 0.0001)
}

func TestEvaluateRuns_ArithmeticDivisionByZero(t *testing.T) {
	env := resolve.Environment{}
	declared := map[string]bool{}
	runs := []resolve.RunOp{
		{
			Output:    "result",
			Operation: resolve.RunArithmetic,
			Inputs: []resolve.FieldValue{
				resolve.Literal(model.NewInt(10)),
				resolve.Literal(model.NewInt(0)),
			},
			Operators: []string{"/"},
		},
	}
	err := resolve.EvaluateRuns(runs, env, declared)
	require.Error(t, err)
}

func TestResolveSets_UnionIntersectionComplement(t *testing.T) {
	objects := map[string]model.Object{
		"o1": {ID: "o1"},
		"o2": {ID: "o2"},
		"o3": {ID: "o3"},
	}

	sets := []resolve.SetDecl{
		{Name: "s1", Op: model.SetOpUnion, Members: []model.SetMember{
			model.ObjectMember("o1"), model.ObjectMember("o2"),
		}},
		{Name: "s2", Op: model.SetOpUnion, Members: []model.SetMember{
			model.ObjectMember("o2"), model.ObjectMember("o3"),
		}},
		{Name: "intersect", Op: model.SetOpIntersection, Members: []model.SetMember{
			model.NestedSet("s1"), model.NestedSet("s2"),
		}},
		{Name: "complement", Op: model.SetOpComplement, Members: []model.SetMember{
			model.NestedSet("s1"), model.NestedSet("s2"),
		}},
	}

	resolved, err := resolve.ResolveSets(sets, objects)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o2"}, resolved["intersect"])
	assert.ElementsMatch(t, []string{"o1"}, resolved["complement"])
}

func TestResolveSets_UnionIdempotentAndDeduplicated(t *testing.T) {
	objects := map[string]model.Object{"o1": {ID: "o1"}}
	sets := []resolve.SetDecl{
		{Name: "s", Op: model.SetOpUnion, Members: []model.SetMember{
			model.ObjectMember("o1"), model.ObjectMember("o1"),
		}},
	}
	resolved, err := resolve.ResolveSets(sets, objects)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, resolved["s"])
}

func TestApplyFilter_IncludeExcludePartition(t *testing.T) {
	ids := []string{"a", "b", "c"}
	filterInclude := &model.Filter{Mode: model.FilterInclude, StateRef: "big"}
	check := func(id string) (bool, error) {
		return id == "a" || id == "b", nil
	}

	kept, dropped := resolve.ApplyFilter(ids, filterInclude, check)
	assert.Equal(t, []string{"a", "b"}, kept)
	assert.Empty(t, dropped)

	filterExclude := &model.Filter{Mode: model.FilterExclude, StateRef: "big"}
	kept, _ = resolve.ApplyFilter(ids, filterExclude, check)
	assert.Equal(t, []string{"c"}, kept)
}

func TestApplyFilter_ErroredObjectDroppedFromBothModes(t *testing.T) {
	ids := []string{"a", "b"}
	check := func(id string) (bool, error) {
		if id == "b" {
			return false, assert.AnError
		}
		return true, nil
	}

	keptInclude, dropped := resolve.ApplyFilter(ids, &model.Filter{Mode: model.FilterInclude}, check)
	assert.Equal(t, []string{"a"}, keptInclude)
	assert.Equal(t, []string{"b"}, dropped)

	keptExclude, _ := resolve.ApplyFilter(ids, &model.Filter{Mode: model.FilterExclude}, check)
	assert.NotContains(t, keptExclude, "b")
}
