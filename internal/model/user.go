package model

// User is the stored user record. The plaintext password is never
// persisted, only its keyed digest.
type User struct {
	User           string `json:"user"`
	HashedPassword string `json:"hashedPassword"`
}

// UserResponse is the user shape safe for API responses (no digest).
type UserResponse struct {
	User string `json:"user"`
}
