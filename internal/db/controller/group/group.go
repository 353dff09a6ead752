// Package group provides CRUD operations for groups, their members and matches.
package group

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftring/giftring/internal/db/models"
)

const (
	idQueryPattern     = "id = ?"
	memberQueryPattern = "group_id = ? AND user_id = ?"
	groupQueryPattern  = "group_id = ?"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupIDEmpty is returned when a group ID is required but empty.
	ErrGroupIDEmpty = errors.New("group id cannot be empty")
	// ErrUserIDEmpty is returned when a user ID is required but empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrMemberNotFound is returned when a user is not a member of the group.
	ErrMemberNotFound = errors.New("group member not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new group.
func Create(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(g).Error //nolint:wrapcheck
}

// GetByID retrieves a group with its members and matches preloaded.
func GetByID(db *gorm.DB, id string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrGroupIDEmpty
	}

	var g models.Group

	result := db.Preload("Members.User").Preload("Matches").Where(idQueryPattern, id).First(&g)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, result.Error
	}

	return &g, nil
}

// ListForUser retrieves all groups the given user is a member of.
func ListForUser(db *gorm.DB, userID string) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var groups []models.Group

	result := db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Preload("Members.User").
		Preload("Matches").
		Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Save persists changes to an existing group. Association rows are never
// written here, members and matches have their own operations.
func Save(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Omit(clause.Associations).Save(g).Error //nolint:wrapcheck
}

// Delete removes a group. Members, matches and invites are removed by the
// cascading foreign keys.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if id == "" {
		return ErrGroupIDEmpty
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Group{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// AddMember stores a new group membership.
func AddMember(db *gorm.DB, m *models.GroupMember) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(m).Error //nolint:wrapcheck
}

// GetMember retrieves a single membership record.
func GetMember(db *gorm.DB, groupID, userID string) (*models.GroupMember, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if groupID == "" {
		return nil, ErrGroupIDEmpty
	}

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var m models.GroupMember

	result := db.Where(memberQueryPattern, groupID, userID).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}

		return nil, result.Error
	}

	return &m, nil
}

// RemoveMember deletes a membership record.
func RemoveMember(db *gorm.DB, groupID, userID string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(memberQueryPattern, groupID, userID).Delete(&models.GroupMember{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// UpdateMemberRole changes the role of an existing membership.
func UpdateMemberRole(db *gorm.DB, groupID, userID string, role models.MemberRole) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.GroupMember{}).
		Where(memberQueryPattern, groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ReplaceMatches atomically replaces all matches of a group with the given set
// and clears the stale marker.
func ReplaceMatches(db *gorm.DB, groupID string, matches []models.Match) error {
	if db == nil {
		return ErrDBNil
	}

	if groupID == "" {
		return ErrGroupIDEmpty
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(groupQueryPattern, groupID).Delete(&models.Match{}).Error; err != nil {
			return err
		}

		if len(matches) > 0 {
			if err := tx.Create(&matches).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Group{}).
			Where(idQueryPattern, groupID).
			Update("matches_stale", false).Error
	})
}

// SetMatchesStale marks the matches of a group as outdated.
func SetMatchesStale(db *gorm.DB, groupID string, stale bool) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Group{}).
		Where(idQueryPattern, groupID).
		Update("matches_stale", stale)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
