// Package nonce generates the per-render token that scopes which inline
// script may execute under the panel's content-security policy. The token
// is a CSP correlation value, not a secret, so a non-cryptographic source
// is sufficient.
package nonce

import "math/rand/v2"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	length   = 32
)

// New returns a fresh 32-character alphanumeric nonce.
func New() string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
