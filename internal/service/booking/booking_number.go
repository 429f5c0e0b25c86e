package booking

import (
	"crypto/rand"
	"fmt"
)

const (
	bookingNumberPrefix = "CJ"
	bookingNumberLen    = 8
	bookingAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewBookingNumber returns "CJ" followed by eight characters drawn uniformly
// from [A-Z0-9].
func NewBookingNumber() (string, error) {
	out := make([]byte, 0, len(bookingNumberPrefix)+bookingNumberLen)
	out = append(out, bookingNumberPrefix...)

	// 252 is the largest multiple of 36 below 256; higher bytes are rejected
	// to keep the distribution uniform.
	const limit = 256 - 256%len(bookingAlphabet)
	buf := make([]byte, bookingNumberLen*2)
	for len(out) < cap(out) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate booking number: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, bookingAlphabet[int(b)%len(bookingAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}
