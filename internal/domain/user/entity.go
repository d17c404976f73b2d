// Package user contains the user account domain model.
package user

import (
	"errors"
	"time"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrNameRequired  = errors.New("name is required")
)

// User is an account established through the external identity provider.
// Email is the stable identity key; Name is whatever display name the
// provider reported at first login.
type User struct {
	ID        uint
	Name      string
	Email     string
	CreatedAt time.Time
}

// NewUser creates a user with validation.
func NewUser(name, email string) (*User, error) {
	u := &User{Name: name, Email: email, CreatedAt: time.Now()}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the user's field constraints.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.Name == "" {
		return ErrNameRequired
	}
	return nil
}
