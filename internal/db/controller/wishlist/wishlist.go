// Package wishlist provides CRUD operations for wishlist items.
package wishlist

import (
	"errors"

	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/db/models"
)

const (
	idQueryPattern   = "id = ?"
	userQueryPattern = "user_id = ?"
)

var (
	// ErrItemNotFound is returned when a wishlist item is not found.
	ErrItemNotFound = errors.New("wishlist item not found")
	// ErrItemIDEmpty is returned when an item ID is required but empty.
	ErrItemIDEmpty = errors.New("wishlist item id cannot be empty")
	// ErrUserIDEmpty is returned when a user ID is required but empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new wishlist item.
func Create(db *gorm.DB, item *models.WishlistItem) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(item).Error //nolint:wrapcheck
}

// GetByID retrieves a wishlist item by ID.
func GetByID(db *gorm.DB, id string) (*models.WishlistItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrItemIDEmpty
	}

	var item models.WishlistItem

	result := db.Where(idQueryPattern, id).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}

		return nil, result.Error
	}

	return &item, nil
}

// ListForUser retrieves all wishlist items of a user.
func ListForUser(db *gorm.DB, userID string) ([]models.WishlistItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var items []models.WishlistItem

	result := db.Where(userQueryPattern, userID).Order("created_at").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// Save persists changes to an existing wishlist item.
func Save(db *gorm.DB, item *models.WishlistItem) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Save(item).Error //nolint:wrapcheck
}

// Delete removes a wishlist item.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if id == "" {
		return ErrItemIDEmpty
	}

	result := db.Where(idQueryPattern, id).Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}
