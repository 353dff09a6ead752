package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invite represents a single-use invite code for a group.
// Invites are created by group admins when the group allows them. A valid,
// unexpired and unused code is the approval token that passes the
// private-group join gate.
type Invite struct {
	// ID is the unique identifier for the invite (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// GroupID is the ID of the group the invite admits to.
	GroupID string `gorm:"size:36;not null;index" json:"groupId"`
	// Code is the opaque code shared with the invitee.
	Code string `gorm:"uniqueIndex;size:32;not null" json:"code"`
	// CreatedByID is the ID of the admin who created the invite.
	CreatedByID string `gorm:"size:36;not null" json:"createdById"`
	// ExpiresAt is the timestamp after which the code is rejected.
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	// UsedByID is the ID of the user who redeemed the code (nil if unused).
	UsedByID *string `gorm:"size:36" json:"usedById,omitempty"`
	// UsedAt is the timestamp when the code was redeemed (nil if unused).
	UsedAt *time.Time `json:"usedAt,omitempty"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, all its invites are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the invite was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the Invite model.
// This overrides GORM's default pluralized table naming.
func (Invite) TableName() string {
	return "invites"
}

// BeforeCreate assigns a UUID if the invite was constructed without one.
func (i *Invite) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}

	return nil
}

// Usable reports whether the invite can still be redeemed at the given time.
func (i *Invite) Usable(now time.Time) bool {
	return i.UsedByID == nil && now.Before(i.ExpiresAt)
}
