package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TestIssuer is the issuer accepted by verifiers built with NewTestVerifier.
const TestIssuer = "https://idp.test/realms/clinic"

// TestKeyID is the kid stamped on every test token.
const TestKeyID = "test-key-id"

// GenerateTestKeyPair generates an RSA key pair for testing JWT tokens
func GenerateTestKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

// GenerateTestJWT signs a token for subject/username carrying realm roles.
func GenerateTestJWT(t *testing.T, privateKey *rsa.PrivateKey, subject, username string, roles ...string) string {
	t.Helper()

	realmRoles := make([]interface{}, len(roles))
	for i, r := range roles {
		realmRoles[i] = r
	}

	claims := jwt.MapClaims{
		"sub":                subject,
		"iss":                TestIssuer,
		"preferred_username": username,
		"exp":                time.Now().Add(time.Hour).Unix(),
		"iat":                time.Now().Unix(),
		"realm_access": map[string]interface{}{
			"roles": realmRoles,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = TestKeyID

	signed, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}
