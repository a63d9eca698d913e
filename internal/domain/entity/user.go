package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the accounts domain.
//
// Email is the login identifier; Username is a secondary unique handle.
// PasswordHash holds a bcrypt hash and must never contain plaintext.
type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	DateJoined   time.Time
	IsVerified   bool
	Bio          string
	Location     string
	BirthDate    *time.Time
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last" with surrounding spaces trimmed, so a user
// with only one of the two names set still renders cleanly.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ShortName returns the name used in informal greetings.
func (u *User) ShortName() string {
	return u.FirstName
}
