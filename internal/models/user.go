package models

import "time"

// User is the identity record. Verification state is owned by the auth service.
type User struct {
	ID                string       `json:"id" db:"id"`
	FirstName         string       `json:"firstName" db:"first_name"`
	LastName          string       `json:"lastName" db:"last_name"`
	Email             string       `json:"email" db:"email"`
	PasswordHash      string       `json:"-" db:"password_hash"`
	Phone             *string      `json:"phone" db:"phone"`
	EmailVerification Verification `json:"-"`
	PhoneVerification Verification `json:"-"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
}
