package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Verify checks a Shopify webhook signature. The HMAC-SHA256 is computed over
// the exact raw request body bytes; the X-Shopify-Hmac-Sha256 header carries the
// base64 encoding of the expected digest. hmac.Equal keeps the comparison
// constant-time. Any missing or malformed header yields false, never an error.
func Verify(body []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := base64.StdEncoding.DecodeString(signatureHeader)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, got)
}
