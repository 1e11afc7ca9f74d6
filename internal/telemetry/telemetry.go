// Package telemetry provides the OpenTelemetry tracing and metrics
// providers used across the scan execution path: one span per
// criterion/policy evaluation, and counters for passes/fails/errors.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/scanset/ESP-Agent-SDK"

// Provider bundles the tracer and meter used to instrument a scan. A
// zero Provider (obtained via New with no registered exporter) still
// produces valid spans and instruments; they are simply never
// exported, which is the right default for a library embedded by a
// caller that configures its own OTLP pipeline.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter

	policyCounter    metric.Int64Counter
	criterionCounter metric.Int64Counter
	errorCounter     metric.Int64Counter
}

// New constructs a Provider with in-process trace and metric providers
// registered as the global providers. No span exporter or metric
// reader is attached, and the returned Provider does not expose the
// underlying SDK providers, so spans and metrics stay in process.
func New() (*Provider, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	mp := sdkmetric.NewMeterProvider()

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	p := &Provider{
		tracerProvider: tp,
		meterProvider:  mp,
		tracer:         tp.Tracer(instrumentationName),
		meter:          mp.Meter(instrumentationName),
	}

	var err error
	p.policyCounter, err = p.meter.Int64Counter("esp.policies.evaluated",
		metric.WithDescription("Number of policy evaluations, by result"))
	if err != nil {
		return nil, fmt.Errorf("create policy counter: %w", err)
	}
	p.criterionCounter, err = p.meter.Int64Counter("esp.criteria.evaluated",
		metric.WithDescription("Number of criterion evaluations, by result"))
	if err != nil {
		return nil, fmt.Errorf("create criterion counter: %w", err)
	}
	p.errorCounter, err = p.meter.Int64Counter("esp.collection.errors",
		metric.WithDescription("Number of collection errors encountered during evaluation"))
	if err != nil {
		return nil, fmt.Errorf("create error counter: %w", err)
	}

	return p, nil
}

// Tracer returns the scan's tracer.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// StartCriterionSpan opens a span for one criterion evaluation.
func (p *Provider) StartCriterionSpan(ctx context.Context, policyID, ctnType string, index int) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "evaluate_criterion",
		trace.WithAttributes(
			attribute.String("esp.policy_id", policyID),
			attribute.String("esp.ctn_type", ctnType),
			attribute.Int("esp.criterion_index", index),
		),
	)
}

// StartPolicySpan opens a span for one policy evaluation.
func (p *Provider) StartPolicySpan(ctx context.Context, policyID string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "evaluate_policy", trace.WithAttributes(attribute.String("esp.policy_id", policyID)))
}

// RecordCriterionResult increments the criterion counter for result.
func (p *Provider) RecordCriterionResult(ctx context.Context, result string) {
	if p.criterionCounter != nil {
		p.criterionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}

// RecordPolicyResult increments the policy counter for result.
func (p *Provider) RecordPolicyResult(ctx context.Context, result string) {
	if p.policyCounter != nil {
		p.policyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}

// RecordCollectionError increments the collection error counter.
func (p *Provider) RecordCollectionError(ctx context.Context, ctnType string) {
	if p.errorCounter != nil {
		p.errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("ctn_type", ctnType)))
	}
}

// Shutdown flushes and releases the underlying providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return p.meterProvider.Shutdown(ctx)
}
