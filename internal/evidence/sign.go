package evidence

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// attestationClaims carries the attestation's result id and evidence
// hashes as JWT claims, so a verifier can confirm the attestation body
// has not been altered in transit without needing the full envelope.
type attestationClaims struct {
	jwt.RegisteredClaims
	ResultID string            `json:"result_id"`
	Hashes   map[string]string `json:"evidence_hashes"`
}

// Sign produces a compact JWS over att using HS256 and secret. This is
// an additive authenticity mechanism for the CUI-free attestation
// shape; spec.md's four output shapes are otherwise unchanged.
func Sign(att Attestation, secret []byte, issuer string) (string, error) {
	hashes := make(map[string]string, len(att.Policies))
	for _, p := range att.Policies {
		hashes[p.Identity.PolicyID] = p.EvidenceHash
	}

	claims := attestationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		ResultID: att.ResultID,
		Hashes:   hashes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks a compact JWS produced by Sign and returns the result
// id and evidence hashes it attests to.
func Verify(signed string, secret []byte) (resultID string, hashes map[string]string, err error) {
	token, err := jwt.ParseWithClaims(signed, &attestationClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", nil, err
	}
	claims, ok := token.Claims.(*attestationClaims)
	if !ok || !token.Valid {
		return "", nil, fmt.Errorf("invalid attestation token")
	}
	return claims.ResultID, claims.Hashes, nil
}
