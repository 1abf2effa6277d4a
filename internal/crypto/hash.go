package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// MinPasswordLength is the exclusive lower bound: a password must be
// strictly longer than this to be hashable.
const MinPasswordLength = 6

var ErrPasswordTooShort = errors.New("password must be longer than 6 characters")

// Hash produces a deterministic keyed digest of a password using
// HMAC-SHA256. The same password and secret always yield the same digest,
// so stored digests can be verified by equality without ever recovering
// the plaintext.
func Hash(password, secret string) (string, error) {
	if len(password) <= MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifyPassword checks a candidate password against a stored digest.
// Uses constant-time comparison to prevent timing attacks.
func VerifyPassword(password, secret, digest string) bool {
	candidate, err := Hash(password, secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
