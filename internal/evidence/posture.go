package evidence

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// PostureScore implements §6's posture formula: the sum of weights of
// passed policies divided by the sum of weights of all policies. A
// scan with no policies has an undefined posture and returns 0 rather
// than dividing by zero.
func PostureScore(outcomes []model.PolicyOutcome, identities map[string]Identity) float64 {
	var passedWeight, totalWeight float64
	for _, o := range outcomes {
		weight := identities[o.PolicyID].Weight
		totalWeight += weight
		if o.Result == model.PolicyPass {
			passedWeight += weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return passedWeight / totalWeight
}
