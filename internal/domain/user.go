package domain

import "time"

// UserRole distinguishes regular citizens from administrators.
type UserRole int

const (
	UserRoleCitizen UserRole = 0
	UserRoleAdmin   UserRole = 1
)

// User is an account that can vote on and comment on demands.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	Gender       string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
