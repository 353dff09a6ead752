package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserRole represents the global role of a user account.
// It is distinct from the per-group member role (see MemberRole).
type UserRole string

const (
	// UserRoleUser is a regular user account.
	UserRoleUser UserRole = "user"
	// UserRoleAdmin is a platform administrator account.
	UserRoleAdmin UserRole = "admin"
	// UserRoleModerator is a platform moderator account.
	UserRoleModerator UserRole = "moderator"
)

// UserStatus represents the lifecycle state of a user account.
type UserStatus string

const (
	// UserStatusActive indicates the account can log in and participate in groups.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive indicates the account is disabled but not sanctioned.
	UserStatusInactive UserStatus = "inactive"
	// UserStatusSuspended indicates the account was suspended by a moderator.
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a user account in the system.
// Users authenticate either with a local password or with a one-time code
// sent to their phone number. The exchange core references users but never
// mutates them.
type User struct {
	// ID is the unique identifier for the user (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Email is the user's email address, used for password login.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// PhoneNumber is the user's phone number in E.164 form, used for OTP login.
	// Empty for accounts without phone login. Uniqueness among non-empty values
	// is enforced by the signup pre-checks, an index would reject the second
	// empty value.
	PhoneNumber string `gorm:"index;size:32" json:"phoneNumber,omitempty"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100" json:"firstName"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100" json:"lastName"`
	// Nickname is an optional display name shown to other group members.
	Nickname string `gorm:"size:100" json:"nickname,omitempty"`
	// Avatar is an optional URL to the user's profile picture.
	Avatar string `gorm:"size:512" json:"avatar,omitempty"`
	// Password is the Argon2id hashed password (empty for OTP-only accounts).
	// Never serialized.
	Password string `gorm:"size:255" json:"-"`
	// OTPSecret is the base32 HOTP secret used to derive login codes.
	// Never serialized.
	OTPSecret string `gorm:"size:64" json:"-"`
	// OTPCounter is the HOTP moving factor, incremented on every code request.
	OTPCounter uint64 `gorm:"default:0" json:"-"`
	// OTPRequestedAt is the timestamp of the last code request (nil if none
	// is pending). Codes expire after the configured OTP expiry time.
	OTPRequestedAt *time.Time `json:"-"`
	// Role is the global account role (user, admin or moderator).
	Role UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// Status is the account lifecycle state (active, inactive or suspended).
	Status UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time `json:"-"`
}

// BeforeCreate assigns a UUID if the user was constructed without one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// DisplayName returns the name shown to other group members.
// The nickname wins over the full name when set.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}

	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating local user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
