package model

import "fmt"

// ErrorKind enumerates every named error condition in §7, grouped by
// the layer that raises it.
type ErrorKind string

const (
	// Contract / Registry — fatal for the scan.
	ErrUnknownCtn             ErrorKind = "UnknownCtn"
	ErrDuplicateRegistration  ErrorKind = "DuplicateRegistration"
	ErrMismatchedCtnType      ErrorKind = "MismatchedCtnType"
	ErrIncompatibleCollector  ErrorKind = "IncompatibleCollector"
	ErrContractValidationFailed ErrorKind = "ContractValidationFailed"

	// Resolution — fatal for the policy, not the batch.
	ErrCyclicVariable ErrorKind = "CyclicVariable"
	ErrUnknownVariable ErrorKind = "UnknownVariable"
	ErrUnknownObject  ErrorKind = "UnknownObject"
	ErrUnknownSet     ErrorKind = "UnknownSet"
	ErrEmptySet       ErrorKind = "EmptySet"
	ErrRunConcat      ErrorKind = "RunError{concat}"
	ErrRunSplit       ErrorKind = "RunError{split}"
	ErrRunSubstring   ErrorKind = "RunError{substring}"
	ErrRunRegex       ErrorKind = "RunError{regex}"
	ErrRunArithmetic  ErrorKind = "RunError{arithmetic}"
	ErrRunCount       ErrorKind = "RunError{count}"
	ErrRunExtract     ErrorKind = "RunError{extract}"

	// Collection — downgrades to absent or per-criterion error.
	ErrObjectNotFound          ErrorKind = "ObjectNotFound"
	ErrAccessDenied            ErrorKind = "AccessDenied"
	ErrCollectionFailed        ErrorKind = "CollectionFailed"
	ErrInvalidObjectConfiguration ErrorKind = "InvalidObjectConfiguration"
	ErrUnsupportedCtnType      ErrorKind = "UnsupportedCtnType"
	ErrCommandNotAllowed       ErrorKind = "CommandNotAllowed"
	ErrTimeout                 ErrorKind = "Timeout"

	// Validation — degrades one predicate to false with diagnostics.
	ErrTypeMismatch        ErrorKind = "TypeMismatch"
	ErrUnsupportedOperation ErrorKind = "UnsupportedOperation"
	ErrInvalidPattern      ErrorKind = "InvalidPattern"
	ErrMissingDataField    ErrorKind = "MissingDataField"

	// Envelope.
	ErrSerializationFailed ErrorKind = "SerializationFailed"
	ErrHashingFailed       ErrorKind = "HashingFailed"
)

// Error is the engine's sentinel error type: a Kind, a human message,
// and the source location (when known) that produced it. Callers
// compare Kind rather than string-matching Error().
type Error struct {
	Kind ErrorKind
	Msg  string

	PolicyID       string
	CriterionIndex int
	HasCriterion   bool
	ObjectID       string

	Wrapped error
}

func (e *Error) Error() string {
	loc := ""
	if e.PolicyID != "" {
		loc = fmt.Sprintf(" policy=%s", e.PolicyID)
	}
	if e.HasCriterion {
		loc += fmt.Sprintf(" criterion=%d", e.CriterionIndex)
	}
	if e.ObjectID != "" {
		loc += fmt.Sprintf(" object=%s", e.ObjectID)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s:%s %s: %v", e.Kind, loc, e.Msg, e.Wrapped)
	}
	return fmt.Sprintf("%s:%s %s", e.Kind, loc, e.Msg)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is supports errors.Is comparisons against a bare Kind sentinel
// constructed via NewError(kind, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError constructs a location-free Error. Use the With* helpers to
// attach source location before returning it up the call stack.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Error of the given kind wrapping a lower-level
// cause (e.g. an *os.PathError from a collector).
func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Wrapped: cause}
}

// WithPolicy returns a copy of e annotated with a policy id.
func (e *Error) WithPolicy(policyID string) *Error {
	c := *e
	c.PolicyID = policyID
	return &c
}

// WithCriterion returns a copy of e annotated with a criterion index.
func (e *Error) WithCriterion(idx int) *Error {
	c := *e
	c.CriterionIndex = idx
	c.HasCriterion = true
	return &c
}

// WithObject returns a copy of e annotated with an object id.
func (e *Error) WithObject(objectID string) *Error {
	c := *e
	c.ObjectID = objectID
	return &c
}
