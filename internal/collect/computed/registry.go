package computed

import (
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
)

// ObjectCollector adapts Collector into a registry.Collector: the
// object's own declared Fields are the CEL "object" input, and
// expressions (fixed per CTN type at registration) are evaluated with
// an empty "fields" input, since a computed CTN type has no upstream
// collector feeding it already-collected data of its own.
type ObjectCollector struct {
	collector   *Collector
	ctnType     string
	expressions []Expression
}

// NewObjectCollector returns a registry.Collector for ctnType backed by
// collector, evaluating expressions against each object's fields.
func NewObjectCollector(ctnType string, collector *Collector, expressions []Expression) *ObjectCollector {
	return &ObjectCollector{collector: collector, ctnType: ctnType, expressions: expressions}
}

func (c *ObjectCollector) SupportedCTNTypes() []string { return []string{c.ctnType} }

func (c *ObjectCollector) ValidateCTNCompatibility(contract *model.Contract) error { return nil }

func (c *ObjectCollector) Collect(ctx registry.CollectCtx, obj model.Object) (model.CollectedData, error) {
	if err := ctx.Err(); err != nil {
		return model.CollectedData{}, err
	}

	data, err := c.collector.Collect(obj, nil, c.expressions)
	if err != nil {
		return data, err
	}
	data.ObjectID = obj.ID
	data.CTNType = c.ctnType
	return data, nil
}
