package execute

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/resolve"
)

// EvaluatePolicy evaluates every criterion of policy, combines them via
// the CRI tree combinator, and returns the aggregated PolicyOutcome
// (§4.3 "Policy outcome").
func (e *Engine) EvaluatePolicy(ctx context.Context, policy *resolve.ResolvedPolicy) model.PolicyOutcome {
	if e.telemetry != nil {
		var span trace.Span
		ctx, span = e.telemetry.StartPolicySpan(ctx, policy.PolicyID)
		defer span.End()
		outcome := e.evaluatePolicy(ctx, policy)
		e.telemetry.RecordPolicyResult(ctx, string(outcome.Result))
		return outcome
	}
	return e.evaluatePolicy(ctx, policy)
}

func (e *Engine) evaluatePolicy(ctx context.Context, policy *resolve.ResolvedPolicy) model.PolicyOutcome {
	outcomes := make([]model.CriterionOutcome, len(policy.Criteria))
	for i, crit := range policy.Criteria {
		outcomes[i] = e.EvaluateCriterion(ctx, policy, i, crit)
	}

	treePassed := evaluateCRI(policy.Root, outcomes)

	result := model.PolicyFail
	if anyCriterionErrored(outcomes) {
		result = model.PolicyError
	} else if treePassed {
		result = model.PolicyPass
	}

	return model.PolicyOutcome{
		PolicyID: policy.PolicyID,
		Result:   result,
		Criteria: outcomes,
		Root:     policy.Root,
	}
}

func anyCriterionErrored(outcomes []model.CriterionOutcome) bool {
	for _, o := range outcomes {
		if o.Result == model.CriterionError {
			return true
		}
	}
	return false
}

// evaluateCRI combines criterion outcomes per the boolean tree of
// §4.3: AND passes iff every child passes, OR passes iff at least one
// child passes. Every node is evaluated (no short-circuiting) so that
// findings from every branch are available, per §4.3's note on
// completeness.
func evaluateCRI(node *model.CRINode, outcomes []model.CriterionOutcome) bool {
	if node == nil {
		return false
	}

	var passed bool
	if node.Kind == model.CRILeaf {
		passed = node.CriterionIndex >= 0 && node.CriterionIndex < len(outcomes) &&
			outcomes[node.CriterionIndex].Result == model.CriterionTrue
	} else {
		results := make([]bool, len(node.Children))
		for i, child := range node.Children {
			results[i] = evaluateCRI(child, outcomes)
		}
		switch node.Combinator {
		case model.CRIAnd:
			passed = true
			for _, r := range results {
				if !r {
					passed = false
					break
				}
			}
		case model.CRIOr:
			passed = false
			for _, r := range results {
				if r {
					passed = true
					break
				}
			}
		}
	}

	if node.Negate {
		passed = !passed
	}
	return passed
}
