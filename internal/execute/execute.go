// Package execute evaluates resolved criteria against the live system
// and combines their outcomes into a policy result (§4.3).
package execute

import (
	"context"
	"fmt"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
	"github.com/scanset/ESP-Agent-SDK/internal/resolve"
	"github.com/scanset/ESP-Agent-SDK/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Engine evaluates executable criteria using a shared, read-only
// strategy registry.
type Engine struct {
	registry  *registry.Registry
	telemetry *telemetry.Provider
}

// New returns an Engine bound to reg. reg must have completed
// registration (and ideally be Sealed) before the engine runs.
func New(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// WithTelemetry attaches a telemetry provider; criterion evaluations
// are then wrapped in spans and counted. Safe to skip — a nil provider
// means evaluation proceeds uninstrumented.
func (e *Engine) WithTelemetry(p *telemetry.Provider) *Engine {
	e.telemetry = p
	return e
}

// collectCtx adapts a context.Context to registry.CollectCtx.
type collectCtx struct{ ctx context.Context }

func (c collectCtx) Done() <-chan struct{} { return c.ctx.Done() }
func (c collectCtx) Err() error            { return c.ctx.Err() }

// EvaluateCriterion runs the three-phase evaluation of §4.3 for one
// executable criterion against a resolved policy's objects and states.
func (e *Engine) EvaluateCriterion(ctx context.Context, policy *resolve.ResolvedPolicy, index int, crit resolve.ExecutableCriterion) model.CriterionOutcome {
	if e.telemetry != nil {
		var span trace.Span
		ctx, span = e.telemetry.StartCriterionSpan(ctx, policy.PolicyID, crit.CTNType, index)
		defer span.End()
		outcome := e.evaluateCriterion(ctx, policy, index, crit)
		e.telemetry.RecordCriterionResult(ctx, string(outcome.Result))
		return outcome
	}
	return e.evaluateCriterion(ctx, policy, index, crit)
}

func (e *Engine) evaluateCriterion(ctx context.Context, policy *resolve.ResolvedPolicy, index int, crit resolve.ExecutableCriterion) model.CriterionOutcome {
	collector, executor, _, err := e.registry.Lookup(crit.CTNType)
	if err != nil {
		return model.CriterionOutcome{
			CriterionIndex: index,
			CTNType:        crit.CTNType,
			Result:         model.CriterionError,
			Error:          err.Error(),
		}
	}

	// Phase A — Collection.
	type collectResult struct {
		data   model.CollectedData
		status string // "ok", "absent", "error"
		err    error
	}
	results := make(map[string]collectResult, len(crit.ObjectIDs))

	for _, objID := range crit.ObjectIDs {
		obj, ok := policy.Objects[objID]
		if !ok {
			results[objID] = collectResult{status: "error", err: model.NewError(model.ErrUnknownObject, "criterion references unresolved object \""+objID+"\"")}
			continue
		}

		if verr := e.registry.ValidateObject(crit.CTNType, obj); verr != nil {
			return model.CriterionOutcome{
				CriterionIndex: index,
				CTNType:        crit.CTNType,
				Result:         model.CriterionError,
				Error:          verr.Error(),
			}
		}

		data, cerr := collector.Collect(collectCtx{ctx}, obj)
		if cerr == nil {
			results[objID] = collectResult{data: data, status: "ok"}
			continue
		}

		modelErr, ok := cerr.(*model.Error)
		if !ok {
			results[objID] = collectResult{status: "error", err: cerr}
			continue
		}

		switch modelErr.Kind {
		case model.ErrObjectNotFound:
			results[objID] = collectResult{status: "absent", err: cerr}
		case model.ErrAccessDenied, model.ErrCollectionFailed:
			results[objID] = collectResult{status: "error", err: cerr}
		case model.ErrInvalidObjectConfiguration, model.ErrUnsupportedCtnType:
			return model.CriterionOutcome{
				CriterionIndex: index,
				CTNType:        crit.CTNType,
				Result:         model.CriterionError,
				Error:          cerr.Error(),
			}
		default:
			results[objID] = collectResult{status: "error", err: cerr}
		}
	}

	// Phase B — Existence check.
	expected := len(crit.ObjectIDs)
	found := 0
	for _, r := range results {
		if r.status == "ok" {
			found++
		}
	}

	if !existencePasses(crit.Test.ExistenceCheck, found, expected) {
		objects := make([]model.ObjectOutcome, 0, len(crit.ObjectIDs))
		for _, objID := range crit.ObjectIDs {
			r := results[objID]
			objects = append(objects, model.ObjectOutcome{
				ObjectID:  objID,
				Exists:    r.status == "ok",
				Satisfied: false,
			})
		}
		return model.CriterionOutcome{
			CriterionIndex: index,
			CTNType:        crit.CTNType,
			Result:         model.CriterionFalse,
			Objects:        objects,
		}
	}

	// Phase C — Per-object state validation.
	objectOutcomes := make([]model.ObjectOutcome, 0, len(crit.ObjectIDs))
	passing := 0
	for _, objID := range crit.ObjectIDs {
		r := results[objID]
		if r.status != "ok" {
			objectOutcomes = append(objectOutcomes, model.ObjectOutcome{
				ObjectID: objID,
				Exists:   false,
			})
			continue
		}

		fieldResults, satisfied := evaluateStates(executor, r.data, crit.StateRefs, policy.States, crit.Test.StateOperator)
		if satisfied {
			passing++
		}
		objectOutcomes = append(objectOutcomes, model.ObjectOutcome{
			ObjectID:  objID,
			Exists:    true,
			Satisfied: satisfied,
			Fields:    fieldResults,
			Collected: r.data,
		})
	}

	itemPasses := itemCheckPasses(crit.Test.ItemCheck, passing, found)
	result := model.CriterionFalse
	if itemPasses {
		result = model.CriterionTrue
	}

	return model.CriterionOutcome{
		CriterionIndex: index,
		CTNType:        crit.CTNType,
		Result:         result,
		Objects:        objectOutcomes,
	}
}

// existencePasses implements the existence_check table of §4.3 Phase B.
func existencePasses(check model.ExistenceCheck, found, expected int) bool {
	switch check {
	case model.ExistenceAll:
		return found == expected && found >= 1
	case model.ExistenceAny:
		return found >= 1
	case model.ExistenceNone:
		return found == 0
	case model.ExistenceAtLeastOne:
		return found >= 1
	case model.ExistenceOnlyOne:
		return found == 1
	default:
		return false
	}
}

// itemCheckPasses implements the item_check table of §4.3 Phase C.
func itemCheckPasses(check model.ItemCheck, passing, found int) bool {
	switch check {
	case model.ItemAll:
		return passing == found
	case model.ItemAtLeastOne:
		return passing >= 1
	case model.ItemOnlyOne:
		return passing == 1
	case model.ItemNoneSatisfy:
		return passing == 0
	default:
		return false
	}
}

// evaluateStates dispatches each named state in stateRefs to executor
// per §4.3 Phase C, then combines the per-state verdicts by operator.
// A state's own predicates are evaluated (and ANDed) by the executor
// itself — evaluateStates only combines across states.
func evaluateStates(executor registry.Executor, data model.CollectedData, stateRefs []string, states map[string]model.State, operator model.StateOperator) ([]model.FieldResult, bool) {
	var fieldResults []model.FieldResult
	satisfiedStates := 0
	totalStates := 0

	for _, ref := range stateRefs {
		state, ok := states[ref]
		if !ok {
			fieldResults = append(fieldResults, model.FieldResult{
				Field: ref,
				Error: fmt.Sprintf("unknown state reference %q", ref),
			})
			totalStates++
			continue
		}

		totalStates++
		outcome, err := executor.Evaluate(data, state)
		if err != nil {
			fieldResults = append(fieldResults, model.FieldResult{
				Field: ref,
				Error: err.Error(),
			})
			continue
		}
		fieldResults = append(fieldResults, outcome.Fields...)
		if outcome.Satisfied {
			satisfiedStates++
		}
	}

	var combined bool
	switch operator {
	case model.StateAND:
		combined = totalStates > 0 && satisfiedStates == totalStates
	case model.StateOR:
		combined = satisfiedStates >= 1
	case model.StateONE:
		combined = satisfiedStates == 1
	}

	return fieldResults, combined
}
