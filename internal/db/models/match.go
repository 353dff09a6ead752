package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match represents one giver→receiver edge of a group's assignment.
// A full assignment is a derangement of the member set: every member appears
// exactly once as a giver and exactly once as a receiver, and never gives to
// themselves. The per-membership giver/receiver views consumed by the
// presentation layer are derived from these rows.
type Match struct {
	// ID is the unique identifier for the match (UUID).
	ID string `gorm:"primaryKey;size:36"`
	// GroupID is the ID of the group this match belongs to.
	GroupID string `gorm:"size:36;not null;uniqueIndex:idx_group_giver,priority:1;uniqueIndex:idx_group_receiver,priority:1"`
	// GiverID is the ID of the member giving a gift.
	GiverID string `gorm:"size:36;not null;uniqueIndex:idx_group_giver,priority:2"`
	// ReceiverID is the ID of the member receiving the gift.
	ReceiverID string `gorm:"size:36;not null;uniqueIndex:idx_group_receiver,priority:2"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, all its matches are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the match was computed.
	CreatedAt time.Time
}

// TableName specifies the database table name for the Match model.
// This overrides GORM's default pluralized table naming.
func (Match) TableName() string {
	return "matches"
}

// BeforeCreate assigns a UUID if the match was constructed without one.
func (m *Match) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	return nil
}
