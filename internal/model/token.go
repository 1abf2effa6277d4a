package model

import "time"

// Token is a time-limited bearer credential binding a random identifier
// to a user identity. The id doubles as the record key.
type Token struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	Expires time.Time `json:"expires"`
}

// Expired reports whether the token's expiry has passed. Expiry is
// checked lazily on use; nothing sweeps dead tokens in the background.
func (t Token) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}
