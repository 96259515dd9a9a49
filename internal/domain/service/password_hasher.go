// Package service declares the ports the use cases depend on for hashing,
// tokens, share codes, image storage and event publishing.
package service

// PasswordHasher hashes account passwords at registration and checks them
// at login.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. Malformed hashes never match.
	Check(password, hash string) bool
}
