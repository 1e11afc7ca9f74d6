package evidence_test

import (
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/evidence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	att := evidence.Attestation{
		ResultID: "result-1",
		Policies: []evidence.AttestationPolicy{
			{Identity: evidence.Identity{PolicyID: "p1"}, EvidenceHash: "sha256:abc"},
		},
	}
	secret := []byte("test-secret")

	signed, err := evidence.Sign(att, secret, "espscan")
	require.NoError(t, err)

	resultID, hashes, err := evidence.Verify(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "result-1", resultID)
	assert.Equal(t, "sha256:abc", hashes["p1"])
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	att := evidence.Attestation{ResultID: "result-1"}
	signed, err := evidence.Sign(att, []byte("secret-a"), "espscan")
	require.NoError(t, err)

	_, _, err = evidence.Verify(signed, []byte("secret-b"))
	require.Error(t, err)
}
