package model

// FilterMode selects whether a Filter keeps or drops objects matching
// its state predicate.
type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// Filter narrows a Set's resolved membership to objects whose data
// satisfies (include) or fails (exclude) the named state's predicates.
// An object whose predicate cannot be evaluated (missing field, type
// mismatch) is dropped from the result under either mode, per §4.3.
type Filter struct {
	Mode    FilterMode
	StateRef string
}
