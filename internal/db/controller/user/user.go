// Package user provides CRUD operations for user accounts.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/db/models"
)

const (
	idQueryPattern    = "id = ?"
	emailQueryPattern = "email = ?"
	phoneQueryPattern = "phone_number = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserIDEmpty is returned when a user ID is required but empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrEmailEmpty is returned when an email address is required but empty.
	ErrEmailEmpty = errors.New("email cannot be empty")
	// ErrPhoneEmpty is returned when a phone number is required but empty.
	ErrPhoneEmpty = errors.New("phone number cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new user.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(u).Error //nolint:wrapcheck
}

// GetByID retrieves a user by ID.
func GetByID(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrUserIDEmpty
	}

	var u models.User

	result := db.Where(idQueryPattern, id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves a user by email address.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if email == "" {
		return nil, ErrEmailEmpty
	}

	var u models.User

	result := db.Where(emailQueryPattern, email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetByPhone retrieves a user by phone number.
func GetByPhone(db *gorm.DB, phone string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if phone == "" {
		return nil, ErrPhoneEmpty
	}

	var u models.User

	result := db.Where(phoneQueryPattern, phone).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// Save persists changes to an existing user.
func Save(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Save(u).Error //nolint:wrapcheck
}
