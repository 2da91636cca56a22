// Package user provides the User domain entity.
package user

// User represents an authenticated catalog user.
type User struct {
	ID       string // User ID
	Username string // Login name
	Email    string // Email address (optional)
}
