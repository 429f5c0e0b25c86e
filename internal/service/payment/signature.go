package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeaders are checked in order; the first non-empty one wins.
var SignatureHeaders = []string{"Bootpay-Signature", "X-Bootpay-Signature"}

// Sign returns base64(HMAC-SHA256(key, body)).
func Sign(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(key string, body []byte, signature string) bool {
	if key == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(key, body)), []byte(signature))
}
