package command

import (
	"context"
	"fmt"
	"time"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
)

// ObjectCollector adapts Primitive into a registry.Collector: objects
// of ctnType declare a record-sequence "argv" field of string values,
// run through parse once the object's own timeout hint is applied.
type ObjectCollector struct {
	primitive *Primitive
	ctnType   string
	target    string
	parse     Parser
}

// NewObjectCollector returns a registry.Collector for ctnType backed by
// the given command Primitive. target names the collection
// method's provenance (e.g. the host or subsystem the command targets).
func NewObjectCollector(ctnType string, primitive *Primitive, target string, parse Parser) *ObjectCollector {
	return &ObjectCollector{primitive: primitive, ctnType: ctnType, target: target, parse: parse}
}

func (c *ObjectCollector) SupportedCTNTypes() []string { return []string{c.ctnType} }

func (c *ObjectCollector) ValidateCTNCompatibility(contract *model.Contract) error {
	if _, ok := contract.ObjectFields["argv"]; !ok {
		return fmt.Errorf("contract %q declares no \"argv\" object field", contract.CTNType)
	}
	return nil
}

func (c *ObjectCollector) Collect(ctx registry.CollectCtx, obj model.Object) (model.CollectedData, error) {
	if err := ctx.Err(); err != nil {
		return model.CollectedData{}, err
	}

	argvField, ok := obj.Fields["argv"]
	if !ok || argvField.Kind != model.KindRecord || argvField.Record == nil || !argvField.Record.IsSeq {
		return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
			fmt.Sprintf("object %q has no sequence \"argv\" field", obj.ID))
	}

	argv := make([]string, 0, argvField.Record.Len())
	for _, v := range argvField.Record.Values() {
		if v.Kind != model.KindString {
			return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
				fmt.Sprintf("object %q \"argv\" contains a non-string element", obj.ID))
		}
		argv = append(argv, v.Str)
	}

	timeout := obj.Behavior.Timeout
	if !obj.Behavior.HasTimeout {
		timeout = 0
	}

	data, err := c.primitive.Collect(runCtx{ctx}, argv, c.target, timeout, c.parse)
	if err != nil {
		return data, err
	}
	data.ObjectID = obj.ID
	data.CTNType = c.ctnType
	return data, nil
}

// runCtx adapts registry.CollectCtx to context.Context so the command
// primitive's sandboxed executor can still honor cancellation from the
// engine's own context, without the registry package needing to depend
// on context.Context itself.
type runCtx struct{ c registry.CollectCtx }

func (r runCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (r runCtx) Done() <-chan struct{}       { return r.c.Done() }
func (r runCtx) Err() error                  { return r.c.Err() }
func (r runCtx) Value(any) any               { return nil }

var _ context.Context = runCtx{}
