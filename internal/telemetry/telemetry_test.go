package telemetry_test

import (
	"context"
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_StartSpansAndRecordCounters(t *testing.T) {
	p, err := telemetry.New()
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	ctx, span := p.StartCriterionSpan(context.Background(), "policy-1", "file", 0)
	require.NotNil(t, span)
	p.RecordCriterionResult(ctx, "true")
	span.End()

	ctx, policySpan := p.StartPolicySpan(context.Background(), "policy-1")
	require.NotNil(t, policySpan)
	p.RecordPolicyResult(ctx, "pass")
	p.RecordCollectionError(ctx, "file")
	policySpan.End()

	assert.NotNil(t, p.Tracer())
}
