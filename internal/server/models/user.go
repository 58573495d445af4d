package models

import "time"

// User is an account holder. Code holds the salted hash of the secret access
// code, never the plaintext.
type User struct {
	ID        int64
	Name      string
	Email     string
	Code      string
	CreatedAt time.Time
}

// ValidUserName reports whether name can appear as the {name} segment of a
// task URL. "." and ".." are resolved away by browsers as dot segments.
func ValidUserName(name string) bool {
	return name != "" && name != "." && name != ".."
}
