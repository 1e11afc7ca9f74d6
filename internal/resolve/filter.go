package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// StatePredicateChecker evaluates a set filter's state predicate
// against one candidate object, as the caller resolves it. A non-nil
// error means the predicate could not be evaluated for objectID; the
// caller should log a warning and drop the object from the result,
// per §4.2 step 5.
type StatePredicateChecker func(objectID string) (bool, error)

// ApplyFilter narrows candidateIDs to those matching filter.Mode: in
// include mode, objects whose predicate is true are retained; in
// exclude mode, objects whose predicate is false are retained. Objects
// whose predicate errors are dropped from the result under either
// mode (§4.2 step 5, §8 filter law).
func ApplyFilter(candidateIDs []string, filter *model.Filter, check StatePredicateChecker) ([]string, []string) {
	if filter == nil {
		return candidateIDs, nil
	}

	var kept []string
	var dropped []string
	for _, id := range candidateIDs {
		satisfied, err := check(id)
		if err != nil {
			dropped = append(dropped, id)
			continue
		}
		switch filter.Mode {
		case model.FilterInclude:
			if satisfied {
				kept = append(kept, id)
			}
		case model.FilterExclude:
			if !satisfied {
				kept = append(kept, id)
			}
		}
	}
	return kept, dropped
}
