// Package evidence assembles the deterministic evidence envelope of
// §4.8/§6 from PolicyOutcome records: the summary, full, attestation,
// and assessor output shapes, plus the posture score and optional
// attestation signing and remote persistence.
package evidence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/scanset/ESP-Agent-SDK/internal/canonical"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Finding is one structured, user-visible record of a failing
// criterion, per §7's "every failing criterion emits at least one
// structured finding."
type Finding struct {
	FindingID string
	PolicyID  string
	Title     string
	ObjectID  string
	Field     string
	Expected  string
	Actual    string
	Operation string
}

// Identity carries a policy's externally visible metadata, per §6's
// result envelope "policy identity and control mappings" requirement.
type Identity struct {
	ScanID          string
	PolicyID        string
	ControlMappings []string
	Criticality     model.Criticality
	Weight          float64
	Title           string
	Description     string
}

// Envelope is the single internal representation every output shape
// is projected from.
type Envelope struct {
	ResultID string
	Outcomes []model.PolicyOutcome
	Identity map[string]Identity
	Findings []Finding
}

// New assembles an Envelope from evaluated outcomes and their policy
// identities, deriving findings from every failing object outcome.
func New(outcomes []model.PolicyOutcome, identities map[string]Identity) *Envelope {
	env := &Envelope{
		ResultID: uuid.NewString(),
		Outcomes: outcomes,
		Identity: identities,
	}
	for _, outcome := range outcomes {
		env.Findings = append(env.Findings, findingsFor(outcome)...)
	}
	return env
}

func findingsFor(outcome model.PolicyOutcome) []Finding {
	var findings []Finding
	for _, crit := range outcome.Criteria {
		if crit.Result == model.CriterionTrue {
			continue
		}
		for _, obj := range crit.Objects {
			if obj.Satisfied {
				continue
			}
			for _, fr := range obj.Fields {
				if fr.Satisfied {
					continue
				}
				findings = append(findings, Finding{
					FindingID: uuid.NewString(),
					PolicyID:  outcome.PolicyID,
					Title:     fmt.Sprintf("%s failed predicate on field %q", crit.CTNType, fr.Field),
					ObjectID:  obj.ObjectID,
					Field:     fr.Field,
					Expected:  describeOperand(fr.Expected),
					Actual:    fr.Collected.String(),
					Operation: fr.Operation,
				})
			}
			if len(obj.Fields) == 0 {
				findings = append(findings, Finding{
					FindingID: uuid.NewString(),
					PolicyID:  outcome.PolicyID,
					Title:     fmt.Sprintf("%s criterion did not pass for object", crit.CTNType),
					ObjectID:  obj.ObjectID,
				})
			}
		}
	}
	return findings
}

func describeOperand(op model.Operand) string {
	switch {
	case op.Literal != nil:
		return op.Literal.String()
	case op.VarRef != "":
		return "$" + op.VarRef
	case op.Record != nil:
		return "<record check>"
	default:
		return ""
	}
}

// Summary is the counts-only output shape.
type Summary struct {
	ResultID      string
	TotalPolicies int
	Passed        int
	Failed        int
	Errored       int
	PostureScore  float64
}

// Summary projects the envelope to counts only, per §6's "summary —
// counts only."
func (e *Envelope) Summary() Summary {
	s := Summary{ResultID: e.ResultID, TotalPolicies: len(e.Outcomes)}
	for _, o := range e.Outcomes {
		switch o.Result {
		case model.PolicyPass:
			s.Passed++
		case model.PolicyFail:
			s.Failed++
		case model.PolicyError:
			s.Errored++
		}
	}
	s.PostureScore = PostureScore(e.Outcomes, e.Identity)
	return s
}

// FullPolicy is one policy's entry in the full output shape.
type FullPolicy struct {
	Identity      Identity
	Result        model.PolicyResult
	Findings      []Finding
	CollectedData []model.CollectedData
}

// Full is the full output shape: policy outcomes, findings, collected
// evidence, and collection methods (carried inside CollectedData).
type Full struct {
	ResultID string
	Policies []FullPolicy
}

// Full projects the envelope to the full shape, per §6.
func (e *Envelope) Full() Full {
	full := Full{ResultID: e.ResultID}
	for _, o := range e.Outcomes {
		fp := FullPolicy{
			Identity: e.Identity[o.PolicyID],
			Result:   o.Result,
		}
		for _, f := range e.Findings {
			if f.PolicyID == o.PolicyID {
				fp.Findings = append(fp.Findings, f)
			}
		}
		for _, crit := range o.Criteria {
			for _, obj := range crit.Objects {
				if obj.Exists {
					fp.CollectedData = append(fp.CollectedData, obj.Collected)
				}
			}
		}
		full.Policies = append(full.Policies, fp)
	}
	return full
}

// AttestationPolicy is one policy's entry in the attestation shape: no
// raw evidence, findings, or CUI, safe for transport.
type AttestationPolicy struct {
	Identity     Identity
	Result       model.PolicyResult
	EvidenceHash string
}

// Attestation is the attestation output shape of §6.
type Attestation struct {
	ResultID string
	Policies []AttestationPolicy
}

// Attestation projects the envelope to the attestation shape,
// computing evidence_hash per §4.8 for each policy's collected data.
func (e *Envelope) Attestation() (Attestation, error) {
	att := Attestation{ResultID: e.ResultID}
	for _, o := range e.Outcomes {
		hash, err := hashPolicy(o)
		if err != nil {
			return Attestation{}, err
		}
		att.Policies = append(att.Policies, AttestationPolicy{
			Identity:     e.Identity[o.PolicyID],
			Result:       o.Result,
			EvidenceHash: hash,
		})
	}
	return att, nil
}

func hashPolicy(outcome model.PolicyOutcome) (string, error) {
	var records []canonical.FieldRecord
	for _, crit := range outcome.Criteria {
		for _, obj := range crit.Objects {
			if !obj.Exists {
				continue
			}
			for name, val := range obj.Collected.Fields {
				records = append(records, canonical.FieldRecord{
					PolicyID:  outcome.PolicyID,
					CTNType:   crit.CTNType,
					ObjectID:  obj.ObjectID,
					FieldName: name,
					Value:     val,
				})
			}
		}
	}
	return canonical.Hash(records)
}

// AssessorObject carries the reproducibility information for one
// collected object: how it was obtained.
type AssessorObject struct {
	ObjectID string
	Method   model.CollectionMethod
}

// AssessorPolicy is one policy's entry in the assessor shape: full plus
// per-object reproducibility information.
type AssessorPolicy struct {
	FullPolicy
	Objects []AssessorObject
}

// Assessor is the assessor output shape of §6.
type Assessor struct {
	ResultID string
	Policies []AssessorPolicy
}

// Assessor projects the envelope to the assessor shape.
func (e *Envelope) Assessor() Assessor {
	full := e.Full()
	assessor := Assessor{ResultID: full.ResultID}
	for i, fp := range full.Policies {
		ap := AssessorPolicy{FullPolicy: fp}
		for _, crit := range e.Outcomes[i].Criteria {
			for _, obj := range crit.Objects {
				if obj.Exists {
					ap.Objects = append(ap.Objects, AssessorObject{
						ObjectID: obj.ObjectID,
						Method:   obj.Collected.Method,
					})
				}
			}
		}
		assessor.Policies = append(assessor.Policies, ap)
	}
	return assessor
}
