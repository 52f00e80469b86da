package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAthlete, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered identity: an athlete, a coach or an admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Stored normalized, unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`

	Phone          string     `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth    *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender         string     `bson:"gender,omitempty" json:"gender,omitempty"`
	SportsCategory string     `bson:"sportsCategory,omitempty" json:"sportsCategory,omitempty"`
	ProfileImage   string     `bson:"profileImage,omitempty" json:"profileImage,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate carries the self-service editable fields of a user.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name           *string
	Phone          *string
	DateOfBirth    *time.Time
	Gender         *string
	SportsCategory *string
	ProfileImage   *string
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
