package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload computes the hex HMAC-SHA256 of a payload with the shared
// webhook secret. Exposed for tests and for the processor sandbox tool.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook body against the X-Tactical-Signature
// header value in constant time. Must run on the raw body before any JSON
// parsing.
func VerifySignature(payload []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	expected := SignPayload(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
