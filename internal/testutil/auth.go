package testutil

import (
	"crypto/rsa"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
)

// NewTestVerifier returns a verifier trusting a freshly generated key and
// the private half to sign tokens with.
func NewTestVerifier(t *testing.T) (*auth.Verifier, *rsa.PrivateKey) {
	t.Helper()

	privateKey, publicKey := GenerateTestKeyPair(t)
	keys := auth.NewStaticJWKS(map[string]*rsa.PublicKey{TestKeyID: publicKey})

	return auth.NewVerifier(auth.Config{Issuer: TestIssuer}, keys), privateKey
}
