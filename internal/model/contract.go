package model

// ObjectFieldSpec declares one field of a CTN type's Object shape.
type ObjectFieldSpec struct {
	Required bool
	Type     Kind
	Example  string
}

// StateFieldSpec declares one field of a CTN type's State shape: which
// comparison operations are legal against it.
type StateFieldSpec struct {
	AllowedOps []string
}

// FieldMappings declares how a contract's declared object/state fields
// translate into the parameters and data-field names a collector
// actually produces and an executor actually reads.
type FieldMappings struct {
	ObjectToParam      map[string]string
	RequiredDataFields []string
	StateToData        map[string]string
}

// CollectionStrategy names the collector implementation a CTN type
// binds to, and the capabilities/hints it needs from the runtime.
type CollectionStrategy struct {
	CollectorType        string
	Mode                 string
	RequiredCapabilities []string
	PerfHints            map[string]string
}

// BehaviorSpec declares the behavior-hint parameters a CTN type
// accepts on its Object.
type BehaviorSpec struct {
	Params []string
}

// Contract is the immutable-after-seal binding of a CTN type to its
// object/state field shapes, its collector/executor wiring, and its
// accepted behaviors. A Contract is built unsealed; registry.Register
// validates it and then calls Seal() on it.
type Contract struct {
	CTNType      string
	ObjectFields map[string]ObjectFieldSpec
	StateFields  map[string]StateFieldSpec
	Mappings     FieldMappings
	Strategy     CollectionStrategy
	Behaviors    map[string]BehaviorSpec

	sealed bool
}

// Seal freezes the contract against further mutation by convention:
// once sealed, callers must treat it as read-only. Seal is idempotent.
func (c *Contract) Seal() { c.sealed = true }

// Sealed reports whether Seal has been called.
func (c *Contract) Sealed() bool { return c.sealed }
