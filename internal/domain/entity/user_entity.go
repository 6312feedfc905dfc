package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never the plain value.
// Username always mirrors Email.
type User struct {
	ID         string
	Email      string
	Username   string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	Roles      []string
	Enabled    bool
	SuperAdmin bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRole reports whether the account carries the given role tag.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SetEmail updates email and username together.
func (u *User) SetEmail(email string) {
	u.Email = email
	u.Username = email
}
