package k8s

import (
	"context"
	"fmt"
	"time"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
)

// ObjectCollector adapts Collector into a registry.Collector: objects
// of ctnType declare string "kind" and "name" fields, and an optional
// string "namespace" field.
type ObjectCollector struct {
	collector *Collector
	ctnType   string
	timeout   time.Duration
}

// NewObjectCollector returns a registry.Collector for ctnType backed by
// a k8s Collector, running each kubectl invocation under timeout (0 for
// the sandbox executor's default).
func NewObjectCollector(ctnType string, collector *Collector, timeout time.Duration) *ObjectCollector {
	return &ObjectCollector{collector: collector, ctnType: ctnType, timeout: timeout}
}

func (c *ObjectCollector) SupportedCTNTypes() []string { return []string{c.ctnType} }

func (c *ObjectCollector) ValidateCTNCompatibility(contract *model.Contract) error {
	if _, ok := contract.ObjectFields["kind"]; !ok {
		return fmt.Errorf("contract %q declares no \"kind\" object field", contract.CTNType)
	}
	if _, ok := contract.ObjectFields["name"]; !ok {
		return fmt.Errorf("contract %q declares no \"name\" object field", contract.CTNType)
	}
	return nil
}

func (c *ObjectCollector) Collect(ctx registry.CollectCtx, obj model.Object) (model.CollectedData, error) {
	if err := ctx.Err(); err != nil {
		return model.CollectedData{}, err
	}

	kind, ok := obj.Fields["kind"]
	if !ok || kind.Kind != model.KindString {
		return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
			fmt.Sprintf("object %q has no string \"kind\" field", obj.ID))
	}
	name, ok := obj.Fields["name"]
	if !ok || name.Kind != model.KindString {
		return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
			fmt.Sprintf("object %q has no string \"name\" field", obj.ID))
	}
	namespace := ""
	if ns, ok := obj.Fields["namespace"]; ok && ns.Kind == model.KindString {
		namespace = ns.Str
	}

	ref := ResourceRef{Kind: kind.Str, Name: name.Str, Namespace: namespace}
	data, err := c.collector.Collect(runCtx{ctx}, ref, c.timeout)
	if err != nil {
		return data, err
	}
	data.ObjectID = obj.ID
	data.CTNType = c.ctnType
	return data, nil
}

// runCtx adapts registry.CollectCtx to context.Context, mirroring
// internal/collect/command's adapter, so kubectl invocations still
// honor cancellation from the engine's own context.
type runCtx struct{ c registry.CollectCtx }

func (r runCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (r runCtx) Done() <-chan struct{}       { return r.c.Done() }
func (r runCtx) Err() error                  { return r.c.Err() }
func (r runCtx) Value(any) any               { return nil }

var _ context.Context = runCtx{}
