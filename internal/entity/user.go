package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account entity. A token slot (verification code, reset token)
// always travels with its expiry: both set or both empty.
type User struct {
	ID                     primitive.ObjectID
	Name                   string
	Email                  string
	Password               string // bcrypt hash, never the plaintext
	Role                   string // RoleUser or RoleAdmin
	IsUserVerified         bool
	VerificationCode       string
	VerificationExpiresAt  *time.Time
	ResetPasswordToken     string
	ResetPasswordExpiresAt *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
