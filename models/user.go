package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleArbiter UserRole = "arbiter"
	RoleViewer  UserRole = "viewer"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
