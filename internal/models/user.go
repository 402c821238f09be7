package models

// User represents a registered user of the store. The password field holds a
// bcrypt hash, never the plaintext password.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"` // bcrypt hash
	RegisteredAt string `json:"registeredAt"`
}

// Session is the record asserting which user is currently logged in. It is a
// copy of the user's fields at login time, not a reference; exactly zero or
// one session exists at a time.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	LoginTime string `json:"loginTime"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Profile is the session joined back to the full registered-user record, as
// shown on the profile page.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registeredAt"`
}
