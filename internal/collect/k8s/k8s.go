// Package k8s implements the Kubernetes resource reference collector
// of §4.7: invoke "kubectl get <resource> <name> -o json [-n
// <namespace>]" through the sandboxed command primitive and expose the parsed
// resource as a record, plus a handful of promoted top-level fields.
package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scanset/ESP-Agent-SDK/internal/collect/command"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/sandbox"
)

// Collector runs kubectl get -o json and parses the result.
type Collector struct {
	primitive  *command.Primitive
	kubectlBin string
}

// New returns a k8s Collector. The sandbox executor passed in must
// whitelist kubectlBin (or its absolute path) for Collect to succeed.
func New(executor *sandbox.Executor, kubectlBin string) *Collector {
	if kubectlBin == "" {
		kubectlBin = "kubectl"
	}
	return &Collector{primitive: command.New(executor), kubectlBin: kubectlBin}
}

// ResourceRef names one Kubernetes object to collect.
type ResourceRef struct {
	Kind      string
	Name      string
	Namespace string
}

// Collect fetches the resource and returns its parsed JSON as a
// "record" field, with "kind", "name", "namespace" promoted alongside
// it for contracts that key off object identity without walking the
// record.
func (c *Collector) Collect(ctx context.Context, ref ResourceRef, timeout time.Duration) (model.CollectedData, error) {
	argv := []string{c.kubectlBin, "get", ref.Kind, ref.Name, "-o", "json"}
	if ref.Namespace != "" {
		argv = append(argv, "-n", ref.Namespace)
	}

	target := fmt.Sprintf("%s/%s", ref.Kind, ref.Name)
	if ref.Namespace != "" {
		target = ref.Namespace + "/" + target
	}

	data, err := c.primitive.Collect(ctx, argv, target, timeout, parseResource)
	if err != nil {
		return model.CollectedData{}, err
	}

	data.Fields["kind"] = model.NewString(ref.Kind)
	data.Fields["name"] = model.NewString(ref.Name)
	data.Fields["namespace"] = model.NewString(ref.Namespace)
	return data, nil
}

func parseResource(stdout string) (map[string]model.Value, error) {
	var raw any
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse kubectl output as JSON: %w", err)
	}
	return map[string]model.Value{"record": model.NewRecord(toRecordData(raw))}, nil
}

func toRecordData(v any) *model.RecordData {
	switch t := v.(type) {
	case map[string]any:
		fields := make([]model.RecordField, 0, len(t))
		for k, val := range t {
			fields = append(fields, model.RecordField{Name: k, Value: toValue(val)})
		}
		return model.NewRecordMap(fields...)
	case []any:
		values := make([]model.Value, 0, len(t))
		for _, val := range t {
			values = append(values, toValue(val))
		}
		return model.NewRecordSeq(values...)
	default:
		return model.NewRecordMap()
	}
}

func toValue(v any) model.Value {
	switch t := v.(type) {
	case string:
		return model.NewString(t)
	case bool:
		return model.NewBool(t)
	case float64:
		if t == float64(int64(t)) {
			return model.NewInt(int64(t))
		}
		return model.NewFloat(t)
	case map[string]any, []any:
		return model.NewRecord(toRecordData(t))
	case nil:
		return model.NewString("")
	default:
		return model.NewString(fmt.Sprintf("%v", t))
	}
}
