//go:build property
// +build property

package canonical_test

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/scanset/ESP-Agent-SDK/internal/canonical"
)

// TestCanonicalizeIdempotentForArbitraryStringMaps verifies that
// re-canonicalizing a canonicalized document always reproduces the
// same bytes, for arbitrary string-keyed maps of strings and ints —
// canonicalize(unmarshal(canonicalize(v))) == canonicalize(v).
func TestCanonicalizeIdempotentForArbitraryStringMaps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("canonicalization is idempotent", prop.ForAll(
		func(keys []string, ints []int) bool {
			doc := make(map[string]any)
			for i := 0; i < len(keys) && i < len(ints); i++ {
				if keys[i] == "" {
					continue
				}
				doc[keys[i]] = ints[i]
			}

			first, err := canonical.Canonicalize(doc)
			if err != nil {
				return false
			}

			var roundTripped any
			if err := json.Unmarshal(first, &roundTripped); err != nil {
				return false
			}

			second, err := canonical.Canonicalize(roundTripped)
			if err != nil {
				return false
			}
			return string(first) == string(second)
		},
		gen.SliceOfN(6, gen.AlphaString()),
		gen.SliceOfN(6, gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

// TestCanonicalizeKeyOrderIndependent verifies canonicalization never
// depends on the Go map's (randomized) iteration order.
func TestCanonicalizeKeyOrderIndependent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical bytes do not depend on key insertion order", prop.ForAll(
		func(keys []string, ints []int) bool {
			forward := make(map[string]any)
			backward := make(map[string]any)
			n := len(keys)
			if n > len(ints) {
				n = len(ints)
			}
			for i := 0; i < n; i++ {
				if keys[i] != "" {
					forward[keys[i]] = ints[i]
				}
				if keys[n-1-i] != "" {
					backward[keys[n-1-i]] = ints[n-1-i]
				}
			}

			a, err := canonical.Canonicalize(forward)
			if err != nil {
				return false
			}
			b, err := canonical.Canonicalize(backward)
			if err != nil {
				return false
			}
			return string(a) == string(b)
		},
		gen.SliceOfN(6, gen.AlphaString()),
		gen.SliceOfN(6, gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}
