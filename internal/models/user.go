package models

import "time"

// User is an account. Username is opaque text (the frontend treats it as an email).
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// InsertUser is the registration payload. Password is plaintext on the way in and
// replaced by its hash before it reaches storage.
type InsertUser struct {
	Username  string  `json:"username" validate:"required,min=3,max=255"`
	Password  string  `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
