package users

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPassword reports whether the account can sign in with a password.
// Accounts created through Google have no hash.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
