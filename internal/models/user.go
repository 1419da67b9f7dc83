package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType defines the membership tiers a user can hold.
type UserType string

const (
	UserTypeFree          UserType = "Free"
	UserTypeGreatAwakener UserType = "GreatAwakener"
	UserTypeVirtualOracle UserType = "VirtualOracle"
	UserTypeNonMember     UserType = "NonMember"
)

// User is a platform account. Email uniquely identifies a user.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	UserType     UserType  `json:"user_type"`
	HasAstrology bool      `json:"has_astrology"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
