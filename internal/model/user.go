package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account in the system
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FullName     *string   `json:"full_name,omitempty"` // Pointer for optional field
	PasswordHash string    `json:"-"`                   // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
