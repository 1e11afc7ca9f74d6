package fs

import (
	"fmt"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
)

// ObjectCollector adapts Primitive into a registry.Collector: objects
// of ctnType declare a string "path" field, collected in the given
// Mode with the object's own behavior hints.
type ObjectCollector struct {
	primitive *Primitive
	ctnType   string
	mode      Mode
}

// NewObjectCollector returns a registry.Collector for ctnType backed by
// a filesystem Primitive running in mode.
func NewObjectCollector(ctnType string, mode Mode) *ObjectCollector {
	return &ObjectCollector{primitive: New(), ctnType: ctnType, mode: mode}
}

func (c *ObjectCollector) SupportedCTNTypes() []string { return []string{c.ctnType} }

func (c *ObjectCollector) ValidateCTNCompatibility(contract *model.Contract) error {
	if _, ok := contract.ObjectFields["path"]; !ok {
		return fmt.Errorf("contract %q declares no \"path\" object field", contract.CTNType)
	}
	return nil
}

func (c *ObjectCollector) Collect(ctx registry.CollectCtx, obj model.Object) (model.CollectedData, error) {
	if err := ctx.Err(); err != nil {
		return model.CollectedData{}, err
	}

	path, ok := obj.Fields["path"]
	if !ok || path.Kind != model.KindString {
		return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
			fmt.Sprintf("object %q has no string \"path\" field", obj.ID))
	}

	data, err := c.primitive.Collect(path.Str, c.mode, obj.Behavior)
	if err != nil {
		return data, err
	}
	data.ObjectID = obj.ID
	data.CTNType = c.ctnType
	return data, nil
}
