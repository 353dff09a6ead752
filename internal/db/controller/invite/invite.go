// Package invite provides CRUD operations for group invite codes.
package invite

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/db/models"
)

const (
	codeQueryPattern  = "code = ?"
	groupQueryPattern = "group_id = ?"
)

var (
	// ErrInviteNotFound is returned when an invite is not found.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrCodeEmpty is returned when an invite code is required but empty.
	ErrCodeEmpty = errors.New("invite code cannot be empty")
	// ErrGroupIDEmpty is returned when a group ID is required but empty.
	ErrGroupIDEmpty = errors.New("group id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new invite.
func Create(db *gorm.DB, i *models.Invite) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(i).Error //nolint:wrapcheck
}

// GetByCode retrieves an invite by its code.
func GetByCode(db *gorm.DB, code string) (*models.Invite, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if code == "" {
		return nil, ErrCodeEmpty
	}

	var i models.Invite

	result := db.Where(codeQueryPattern, code).First(&i)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}

		return nil, result.Error
	}

	return &i, nil
}

// ListForGroup retrieves all invites of a group.
func ListForGroup(db *gorm.DB, groupID string) ([]models.Invite, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if groupID == "" {
		return nil, ErrGroupIDEmpty
	}

	var invites []models.Invite

	result := db.Where(groupQueryPattern, groupID).Find(&invites)
	if result.Error != nil {
		return nil, result.Error
	}

	return invites, nil
}

// MarkUsed records the user who redeemed the invite and when.
func MarkUsed(db *gorm.DB, code, userID string, usedAt time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	if code == "" {
		return ErrCodeEmpty
	}

	result := db.Model(&models.Invite{}).
		Where(codeQueryPattern, code).
		Updates(map[string]interface{}{
			"used_by_id": userID,
			"used_at":    usedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}

	return nil
}
