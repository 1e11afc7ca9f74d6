// Package registry binds each CTN (criterion type name) to exactly one
// (Collector, Executor) pair under a validated Contract, and serves as
// the read-only lookup table consulted during resolution and
// execution.
package registry

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Collector gathers CollectedData for one resolved Object of a CTN
// type it supports.
type Collector interface {
	SupportedCTNTypes() []string
	ValidateCTNCompatibility(contract *model.Contract) error
	Collect(ctx CollectCtx, obj model.Object) (model.CollectedData, error)
}

// Executor validates collected data against a CTN type's state
// predicates.
type Executor interface {
	CTNType() string
	Contract() *model.Contract
	Evaluate(data model.CollectedData, state model.State) (model.ObjectOutcome, error)
}

// CollectCtx is the minimal context a Collector needs to do I/O. It is
// defined here (rather than imported from a concrete sandbox/fs
// package) so the registry has no dependency on collection
// implementations.
type CollectCtx interface {
	Done() <-chan struct{}
	Err() error
}

// entry is one registered (collector, executor, contract) triple.
type entry struct {
	collector    Collector
	executor     Executor
	contract     *model.Contract
	objectSchema *jsonschema.Schema
}

// Registry maps CTN type names to their bound strategy. Safe for
// concurrent lookup once registration has completed; registration
// itself is expected to happen single-threaded during startup, guarded
// by mu defensively.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	sealed  bool
}

// New returns an empty, unsealed Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register binds collector+executor under executor.Contract().CTNType,
// checking the conditions of §4.1 in this order:
//
//  1. executor.Contract().CTNType must equal executor.CTNType()
//  2. collector.SupportedCTNTypes() must contain executor.CTNType()
//  3. collector.ValidateCTNCompatibility(contract) must succeed
//  4. no prior pair may exist for that CTN type
func (r *Registry) Register(collector Collector, executor Executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return model.NewError(model.ErrDuplicateRegistration, "registry is sealed; registration must complete before scanning")
	}

	ctnType := executor.CTNType()
	contract := executor.Contract()
	if contract == nil {
		return model.NewError(model.ErrMismatchedCtnType, fmt.Sprintf("executor %q has no contract", ctnType))
	}
	if contract.CTNType != ctnType {
		return model.NewError(model.ErrMismatchedCtnType,
			fmt.Sprintf("executor.Contract().CTNType %q != executor.CTNType() %q", contract.CTNType, ctnType))
	}

	supported := false
	for _, t := range collector.SupportedCTNTypes() {
		if t == ctnType {
			supported = true
			break
		}
	}
	if !supported {
		return model.NewError(model.ErrMismatchedCtnType,
			fmt.Sprintf("collector does not support CTN type %q", ctnType))
	}

	if err := collector.ValidateCTNCompatibility(contract); err != nil {
		return model.Wrap(model.ErrIncompatibleCollector,
			fmt.Sprintf("collector incompatible with contract %q", ctnType), err)
	}

	if _, exists := r.entries[ctnType]; exists {
		return model.NewError(model.ErrDuplicateRegistration,
			fmt.Sprintf("CTN type %q already registered", ctnType))
	}

	var objectSchema *jsonschema.Schema
	if len(contract.ObjectFields) > 0 {
		schema, serr := buildObjectSchema(ctnType, contract.ObjectFields)
		if serr != nil {
			return model.Wrap(model.ErrContractValidationFailed,
				fmt.Sprintf("failed to compile object schema for %q", ctnType), serr)
		}
		objectSchema = schema
	}

	contract.Seal()
	r.entries[ctnType] = entry{collector: collector, executor: executor, contract: contract, objectSchema: objectSchema}
	return nil
}

// Lookup returns the (collector, executor, contract) triple bound to
// ctnType, or UnknownCtn if nothing was registered for it.
func (r *Registry) Lookup(ctnType string) (Collector, Executor, *model.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[ctnType]
	if !ok {
		return nil, nil, nil, model.NewError(model.ErrUnknownCtn, fmt.Sprintf("no strategy registered for CTN type %q", ctnType))
	}
	return e.collector, e.executor, e.contract, nil
}

// Contract returns the sealed contract for ctnType, for policy-side
// validation ahead of a scan (e.g. checking object/state field shapes
// against what a compiled policy declares).
func (r *Registry) Contract(ctnType string) (*model.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[ctnType]
	if !ok {
		return nil, model.NewError(model.ErrUnknownCtn, fmt.Sprintf("no contract registered for CTN type %q", ctnType))
	}
	return e.contract, nil
}

// Seal marks registration complete: further Register calls fail with
// DuplicateRegistration rather than silently mutating a registry that
// scans may already be reading concurrently, per §4.1's "mutation
// during scan is prohibited."
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// CTNTypes returns every registered CTN type name, for diagnostics.
func (r *Registry) CTNTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	return out
}
