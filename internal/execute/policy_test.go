package execute_test

import (
	"context"
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/execute"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/resolve"
	"github.com/stretchr/testify/assert"
)

// TestEvaluatePolicy_ORCombinator covers §8 scenario 3: root = OR(A,
// B); tree_passed = A.passed OR B.passed, and both children are
// evaluated regardless so their findings are complete.
func TestEvaluatePolicy_ORCombinator(t *testing.T) {
	data := map[string]model.CollectedData{
		"obj_b": {ObjectID: "obj_b", CTNType: "test_ctn", Fields: map[string]model.Value{"flag": model.NewBool(true)}},
	}
	engine := newEngine(t, data)

	states := map[string]model.State{
		"flag_true": {
			Name: "flag_true",
			Predicates: []model.FieldPredicate{
				{Field: "flag", DeclaredType: model.KindBool, Operation: "=", Operand: model.LiteralOperand(model.NewBool(true))},
			},
		},
	}

	policy := &resolve.ResolvedPolicy{
		PolicyID: "p1",
		Objects: map[string]model.Object{
			"obj_a": {ID: "obj_a"},
			"obj_b": {ID: "obj_b"},
		},
		States: states,
		Criteria: []resolve.ExecutableCriterion{
			{ // index 0: A — object absent, existence all fails.
				CTNType:   "test_ctn",
				Test:      model.TestSpec{ExistenceCheck: model.ExistenceAll, ItemCheck: model.ItemAll, StateOperator: model.StateAND},
				StateRefs: []string{"flag_true"},
				ObjectIDs: []string{"obj_a"},
			},
			{ // index 1: B — object present and satisfies its state.
				CTNType:   "test_ctn",
				Test:      model.TestSpec{ExistenceCheck: model.ExistenceAll, ItemCheck: model.ItemAll, StateOperator: model.StateAND},
				StateRefs: []string{"flag_true"},
				ObjectIDs: []string{"obj_b"},
			},
		},
		Root: &model.CRINode{
			Kind:       model.CRIGroup,
			Combinator: model.CRIOr,
			Children: []*model.CRINode{
				{Kind: model.CRILeaf, CriterionIndex: 0},
				{Kind: model.CRILeaf, CriterionIndex: 1},
			},
		},
	}

	outcome := engine.EvaluatePolicy(context.Background(), policy)
	assert.Equal(t, model.PolicyPass, outcome.Result)
	assert.Len(t, outcome.Criteria, 2)
	assert.Equal(t, model.CriterionFalse, outcome.Criteria[0].Result)
	assert.Equal(t, model.CriterionTrue, outcome.Criteria[1].Result)
}

func TestEvaluatePolicy_ANDCombinatorFailsOnOneChild(t *testing.T) {
	engine := newEngine(t, map[string]model.CollectedData{})

	policy := &resolve.ResolvedPolicy{
		PolicyID: "p1",
		Objects:  map[string]model.Object{"obj_a": {ID: "obj_a"}},
		States:   map[string]model.State{},
		Criteria: []resolve.ExecutableCriterion{
			{
				CTNType:   "test_ctn",
				Test:      model.TestSpec{ExistenceCheck: model.ExistenceNone, ItemCheck: model.ItemAll, StateOperator: model.StateAND},
				ObjectIDs: []string{"obj_a"},
			},
			{
				CTNType:   "test_ctn",
				Test:      model.TestSpec{ExistenceCheck: model.ExistenceAll, ItemCheck: model.ItemAll, StateOperator: model.StateAND},
				ObjectIDs: []string{"obj_a"},
			},
		},
		Root: &model.CRINode{
			Kind:       model.CRIGroup,
			Combinator: model.CRIAnd,
			Children: []*model.CRINode{
				{Kind: model.CRILeaf, CriterionIndex: 0},
				{Kind: model.CRILeaf, CriterionIndex: 1},
			},
		},
	}

	outcome := engine.EvaluatePolicy(context.Background(), policy)
	assert.Equal(t, model.PolicyFail, outcome.Result)
}
