package domain

import "time"

type ID string

// User is a stored identity. Username is lowercase and unique; PasswordHash
// never leaves the credential store and service boundary.
type User struct {
	ID           ID
	Username     string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

type Profile struct {
	ID       ID
	Username string
	FullName string
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, FullName: u.FullName}
}
