package evidence_test

import (
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/evidence"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePassOutcome() model.PolicyOutcome {
	return model.PolicyOutcome{
		PolicyID: "p-pass",
		Result:   model.PolicyPass,
		Criteria: []model.CriterionOutcome{
			{
				CTNType: "file_object",
				Result:  model.CriterionTrue,
				Objects: []model.ObjectOutcome{
					{ObjectID: "o1", Exists: true, Satisfied: true, Collected: model.CollectedData{
						ObjectID: "o1", CTNType: "file_object",
						Fields: map[string]model.Value{"mode": model.NewString("0644")},
					}},
				},
			},
		},
	}
}

func sampleFailOutcome() model.PolicyOutcome {
	return model.PolicyOutcome{
		PolicyID: "p-fail",
		Result:   model.PolicyFail,
		Criteria: []model.CriterionOutcome{
			{
				CTNType: "file_object",
				Result:  model.CriterionFalse,
				Objects: []model.ObjectOutcome{
					{
						ObjectID: "o2", Exists: true, Satisfied: false,
						Fields: []model.FieldResult{
							{Field: "mode", Operation: "=", Collected: model.NewString("0777"), Expected: model.LiteralOperand(model.NewString("0644")), Satisfied: false},
						},
						Collected: model.CollectedData{ObjectID: "o2", CTNType: "file_object"},
					},
				},
			},
		},
	}
}

func TestEnvelope_FindingsDerivedFromFailures(t *testing.T) {
	env := evidence.New([]model.PolicyOutcome{samplePassOutcome(), sampleFailOutcome()}, map[string]evidence.Identity{
		"p-pass": {PolicyID: "p-pass", Criticality: model.CriticalityHigh},
		"p-fail": {PolicyID: "p-fail", Criticality: model.CriticalityCritical},
	})

	require.Len(t, env.Findings, 1)
	assert.Equal(t, "p-fail", env.Findings[0].PolicyID)
	assert.Equal(t, "mode", env.Findings[0].Field)
	assert.Equal(t, "0777", env.Findings[0].Actual)
}

func TestEnvelope_SummaryCounts(t *testing.T) {
	env := evidence.New([]model.PolicyOutcome{samplePassOutcome(), sampleFailOutcome()}, map[string]evidence.Identity{
		"p-pass": {PolicyID: "p-pass", Criticality: model.CriticalityHigh},
		"p-fail": {PolicyID: "p-fail", Criticality: model.CriticalityCritical},
	})

	summary := env.Summary()
	assert.Equal(t, 2, summary.TotalPolicies)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
}

func TestEnvelope_AttestationHasNoRawEvidence(t *testing.T) {
	env := evidence.New([]model.PolicyOutcome{samplePassOutcome()}, map[string]evidence.Identity{
		"p-pass": {PolicyID: "p-pass", Criticality: model.CriticalityHigh},
	})

	att, err := env.Attestation()
	require.NoError(t, err)
	require.Len(t, att.Policies, 1)
	assert.Contains(t, att.Policies[0].EvidenceHash, "sha256:")
}

func TestEnvelope_AttestationHashStableAcrossRuns(t *testing.T) {
	outcome := samplePassOutcome()
	env1 := evidence.New([]model.PolicyOutcome{outcome}, map[string]evidence.Identity{"p-pass": {PolicyID: "p-pass"}})
	env2 := evidence.New([]model.PolicyOutcome{outcome}, map[string]evidence.Identity{"p-pass": {PolicyID: "p-pass"}})

	att1, err := env1.Attestation()
	require.NoError(t, err)
	att2, err := env2.Attestation()
	require.NoError(t, err)

	assert.Equal(t, att1.Policies[0].EvidenceHash, att2.Policies[0].EvidenceHash)
}

func TestEnvelope_FullIncludesCollectedData(t *testing.T) {
	env := evidence.New([]model.PolicyOutcome{samplePassOutcome()}, map[string]evidence.Identity{"p-pass": {PolicyID: "p-pass"}})
	full := env.Full()
	require.Len(t, full.Policies, 1)
	require.Len(t, full.Policies[0].CollectedData, 1)
	assert.Equal(t, "o1", full.Policies[0].CollectedData[0].ObjectID)
}

func TestEnvelope_AssessorIncludesCollectionMethod(t *testing.T) {
	outcome := samplePassOutcome()
	outcome.Criteria[0].Objects[0].Collected.Method = model.CollectionMethod{Type: "filesystem", Target: "/etc/passwd"}

	env := evidence.New([]model.PolicyOutcome{outcome}, map[string]evidence.Identity{"p-pass": {PolicyID: "p-pass"}})
	assessor := env.Assessor()
	require.Len(t, assessor.Policies, 1)
	require.Len(t, assessor.Policies[0].Objects, 1)
	assert.Equal(t, "/etc/passwd", assessor.Policies[0].Objects[0].Method.Target)
}

func TestPostureScore_WeightedByCriticality(t *testing.T) {
	outcomes := []model.PolicyOutcome{
		{PolicyID: "critical-pass", Result: model.PolicyPass},
		{PolicyID: "low-fail", Result: model.PolicyFail},
	}
	identities := map[string]evidence.Identity{
		"critical-pass": {PolicyID: "critical-pass", Weight: model.CriticalityCritical.DefaultWeight()},
		"low-fail":      {PolicyID: "low-fail", Weight: model.CriticalityLow.DefaultWeight()},
	}
	score := evidence.PostureScore(outcomes, identities)
	expected := 1.0 / (1.0 + 0.3)
	assert.InDelta(t, expected, score, 0.0001)
}

func TestPostureScore_NoPoliciesReturnsZero(t *testing.T) {
	score := evidence.PostureScore(nil, nil)
	assert.Equal(t, 0.0, score)
}
