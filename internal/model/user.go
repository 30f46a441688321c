package model

import "time"

// User is an account holder. PasswordHash and the pending verification code
// never leave the process through JSON.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	NationalID   string     `json:"nationalId,omitempty"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	OTPCode      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
