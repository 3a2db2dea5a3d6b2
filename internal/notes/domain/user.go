package domain

import "time"

type User struct {
	ID           string
	Email        string // lower-cased; empty for anonymous users
	Name         string
	PasswordHash string // argon2id PHC string; empty for anonymous users
	Anonymous    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
