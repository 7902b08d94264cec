package session

import (
	"crypto/hmac"
	"crypto/sha256"
)

// signer computes and checks the keyed integrity tag over a token's payload
// segment. HMAC-SHA256, rendered with the same URL-safe alphabet as the
// payload.
type signer struct {
	secret []byte
}

func newSigner(secret string) *signer {
	return &signer{secret: []byte(secret)}
}

// Sign returns the signature segment for a payload segment
func (s *signer) Sign(message string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return payloadEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the tag and compares it in constant time
func (s *signer) Verify(message, signature string) bool {
	supplied, err := payloadEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return hmac.Equal(mac.Sum(nil), supplied)
}
