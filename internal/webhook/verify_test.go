package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyAcceptsCanonicalSignature(t *testing.T) {
	body := []byte(`{"id":123,"title":"Widget"}`)
	assert.True(t, Verify(body, sign(body, "shpss_secret"), "shpss_secret"))
}

func TestVerifyRejectsMutatedBody(t *testing.T) {
	body := []byte(`{"id":123,"title":"Widget"}`)
	sig := sign(body, "shpss_secret")

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, Verify(mutated, sig, "shpss_secret"), "byte %d", i)
	}
}

func TestVerifyRejectsMutatedSignature(t *testing.T) {
	body := []byte(`{"id":123}`)
	sig := []byte(sign(body, "shpss_secret"))

	for i := range sig {
		mutated := append([]byte(nil), sig...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		assert.False(t, Verify(body, string(mutated), "shpss_secret"), "byte %d", i)
	}
}

func TestVerifyTenantIsolation(t *testing.T) {
	body := []byte(`{"id":123}`)
	sigA := sign(body, "tenant-a-secret")

	assert.True(t, Verify(body, sigA, "tenant-a-secret"))
	assert.False(t, Verify(body, sigA, "tenant-b-secret"))
}

func TestVerifyMalformedHeader(t *testing.T) {
	body := []byte(`{"id":123}`)

	assert.False(t, Verify(body, "", "secret"))
	assert.False(t, Verify(body, "not base64 %%%", "secret"))
	assert.False(t, Verify(body, "dG9vLXNob3J0", "secret"))
}
