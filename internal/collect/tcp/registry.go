package tcp

import (
	"fmt"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
)

// ObjectCollector adapts Listener into a registry.Collector: objects of
// ctnType declare an int "port" field.
type ObjectCollector struct {
	listener *Listener
	ctnType  string
}

// NewObjectCollector returns a registry.Collector for ctnType backed by
// the standard /proc/net/tcp{,6} Listener.
func NewObjectCollector(ctnType string) *ObjectCollector {
	return &ObjectCollector{listener: New(), ctnType: ctnType}
}

func (c *ObjectCollector) SupportedCTNTypes() []string { return []string{c.ctnType} }

func (c *ObjectCollector) ValidateCTNCompatibility(contract *model.Contract) error {
	if spec, ok := contract.ObjectFields["port"]; !ok || spec.Type != model.KindInt {
		return fmt.Errorf("contract %q declares no int \"port\" object field", contract.CTNType)
	}
	return nil
}

func (c *ObjectCollector) Collect(ctx registry.CollectCtx, obj model.Object) (model.CollectedData, error) {
	if err := ctx.Err(); err != nil {
		return model.CollectedData{}, err
	}

	port, ok := obj.Fields["port"]
	if !ok || port.Kind != model.KindInt {
		return model.CollectedData{}, model.NewError(model.ErrInvalidObjectConfiguration,
			fmt.Sprintf("object %q has no int \"port\" field", obj.ID))
	}

	data, err := c.listener.Collect(int(port.Int))
	if err != nil {
		return data, err
	}
	data.ObjectID = obj.ID
	data.CTNType = c.ctnType
	return data, nil
}
