// Package batch implements the §5 bounded-parallelism worker pool over
// independent policies: sequential execution within one policy,
// parallel across policies up to a configured cap, with cancellation
// propagation and policy-id-sorted output.
package batch

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// PolicyJob is one policy queued for evaluation.
type PolicyJob struct {
	PolicyID string
	Run      func(ctx context.Context) model.PolicyOutcome
}

// Run evaluates jobs with at most maxWorkers running concurrently (at
// most len(jobs) if maxWorkers is non-positive or larger), returning
// outcomes sorted by policy id regardless of completion order. If ctx
// is canceled, jobs not yet started are skipped and emit a
// model.PolicyError outcome carrying ctx.Err(), so the batch output
// always covers exactly the set of policies submitted (§8 invariant
// 1).
//
// tracer may be nil; when set, each job runs inside its own span as a
// child of a parent "batch_run" span covering the whole call.
func Run(ctx context.Context, jobs []PolicyJob, maxWorkers int, tracer trace.Tracer) []model.PolicyOutcome {
	if maxWorkers <= 0 || maxWorkers > len(jobs) {
		maxWorkers = len(jobs)
	}
	if maxWorkers == 0 {
		return nil
	}

	if tracer != nil {
		var span trace.Span
		ctx, span = tracer.Start(ctx, "batch_run", trace.WithAttributes(
			attribute.Int("esp.job_count", len(jobs)),
			attribute.Int("esp.max_workers", maxWorkers),
		))
		defer span.End()
	}

	sem := make(chan struct{}, maxWorkers)
	outcomes := make([]model.PolicyOutcome, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job PolicyJob) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			jobCtx := ctx
			var span trace.Span
			if tracer != nil {
				jobCtx, span = tracer.Start(ctx, "batch_job", trace.WithAttributes(attribute.String("esp.policy_id", job.PolicyID)))
				defer span.End()
			}

			select {
			case <-jobCtx.Done():
				outcomes[i] = model.PolicyOutcome{
					PolicyID: job.PolicyID,
					Result:   model.PolicyError,
					Error:    jobCtx.Err().Error(),
				}
			default:
				outcomes[i] = job.Run(jobCtx)
			}
		}(i, job)
	}
	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].PolicyID < outcomes[j].PolicyID
	})
	return outcomes
}
