package model

// Criticality is a policy's declared severity tier, used to derive a
// default weight when the policy's metadata does not set one
// explicitly (§6).
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
	CriticalityInfo     Criticality = "info"
)

// DefaultWeight returns the criticality-to-weight mapping of §6.
// Unrecognized tiers default to the lowest weight rather than panicking,
// since criticality originates from untrusted policy metadata.
func (c Criticality) DefaultWeight() float64 {
	switch c {
	case CriticalityCritical:
		return 1.0
	case CriticalityHigh:
		return 0.8
	case CriticalityMedium:
		return 0.5
	case CriticalityLow:
		return 0.3
	case CriticalityInfo:
		return 0.1
	default:
		return 0.1
	}
}

// PolicyMetadata is the required/optional metadata block every policy
// carries (§6).
type PolicyMetadata struct {
	ID              string
	Platform        string
	Criticality     Criticality
	ControlMappings []string // form "FRAMEWORK:ID"

	Version     string
	Author      string
	Title       string
	Description string
	Tags        []string

	HasExplicitWeight bool
	ExplicitWeight    float64
}

// Weight returns the policy's effective weight: the explicit weight if
// the metadata set one, otherwise the criticality's default weight.
func (m PolicyMetadata) Weight() float64 {
	if m.HasExplicitWeight {
		return m.ExplicitWeight
	}
	return m.Criticality.DefaultWeight()
}
