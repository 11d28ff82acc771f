package session

import (
	"crypto/rand"
	"fmt"
	"time"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomToken returns n characters drawn from the 36-character alphanumeric
// alphabet using crypto/rand.
func randomToken(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

// generateSessionID returns a 6-character uppercase session code. There is
// no uniqueness check; with 36^6 codes a collision is treated as a
// negligible-probability event rather than prevented.
func generateSessionID() string {
	return randomToken(6)
}

// generateUserID returns an identifier derived from the creation time plus
// randomness, e.g. "user_1756400000000_K2X9QPD". Unique within the process
// with the same probabilistic caveat as session codes.
func generateUserID() string {
	return fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), randomToken(7))
}
