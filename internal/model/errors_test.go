package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestError_IsComparesKindNotWrappedCause(t *testing.T) {
	cause := fmt.Errorf("stat: no such file")
	err := model.Wrap(model.ErrObjectNotFound, "object missing", cause)

	assert.True(t, errors.Is(err, model.NewError(model.ErrObjectNotFound, "")))
	assert.False(t, errors.Is(err, model.NewError(model.ErrAccessDenied, "")))
	assert.ErrorIs(t, err, cause) // Unwrap reaches the cause too
}

func TestError_WithHelpersAnnotateWithoutMutatingOriginal(t *testing.T) {
	base := model.NewError(model.ErrTimeout, "collection timed out")
	annotated := base.WithPolicy("p1").WithCriterion(2).WithObject("obj1")

	assert.Empty(t, base.PolicyID)
	assert.False(t, base.HasCriterion)
	assert.Equal(t, "p1", annotated.PolicyID)
	assert.Equal(t, 2, annotated.CriterionIndex)
	assert.True(t, annotated.HasCriterion)
	assert.Equal(t, "obj1", annotated.ObjectID)
}

func TestCriticality_DefaultWeightOrdering(t *testing.T) {
	assert.Greater(t, model.CriticalityCritical.DefaultWeight(), model.CriticalityHigh.DefaultWeight())
	assert.Greater(t, model.CriticalityHigh.DefaultWeight(), model.CriticalityMedium.DefaultWeight())
	assert.Greater(t, model.CriticalityMedium.DefaultWeight(), model.CriticalityLow.DefaultWeight())
	assert.Greater(t, model.CriticalityLow.DefaultWeight(), model.CriticalityInfo.DefaultWeight())
}

func TestPolicyMetadata_WeightPrefersExplicitOverDefault(t *testing.T) {
	withExplicit := model.PolicyMetadata{
		Criticality:       model.CriticalityLow,
		HasExplicitWeight: true,
		ExplicitWeight:    0.95,
	}
	assert.Equal(t, 0.95, withExplicit.Weight())

	withoutExplicit := model.PolicyMetadata{Criticality: model.CriticalityHigh}
	assert.Equal(t, model.CriticalityHigh.DefaultWeight(), withoutExplicit.Weight())
}
