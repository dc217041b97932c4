package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// VerifySignature checks that signature is the hex HMAC-SHA512 of the exact
// raw request body under the shared secret.
//
// The hash must be computed over the untouched bytes as delivered: any
// re-serialization of the JSON (key reordering, whitespace changes) produces
// a different digest. An empty secret or empty signature fails closed;
// a mismatch is an ordinary false, never an error.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignBody computes the hex HMAC-SHA512 signature Paystack would attach to
// body. Used by tests and by tooling that replays webhook deliveries.
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
