package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupStatus represents the lifecycle state of a group.
// Archived and deleted are terminal states: every mutating operation is
// rejected while only reads remain available.
type GroupStatus string

const (
	// GroupStatusActive indicates the group accepts membership and settings changes.
	GroupStatusActive GroupStatus = "active"
	// GroupStatusArchived indicates the group was closed after the exchange ended.
	GroupStatusArchived GroupStatus = "archived"
	// GroupStatusDeleted indicates the group was soft deleted by an admin.
	GroupStatusDeleted GroupStatus = "deleted"
)

// GroupSettings holds the per-group behavior flags.
// Settings are owned exclusively by their group and are only mutated through
// the settings-update operation, which is restricted to group admins.
type GroupSettings struct {
	// IsPrivate hides the group from discovery and gates joins together with
	// JoinRequiresApproval.
	IsPrivate bool `gorm:"not null;default:false" json:"isPrivate"`
	// AllowInvites lets admins create invite codes for the group.
	AllowInvites bool `gorm:"not null;default:true" json:"allowInvites"`
	// ShowWishlists exposes member wishlists to the other members.
	ShowWishlists bool `gorm:"not null;default:true" json:"showWishlists"`
	// EnableMatching allows the giver/receiver assignment to be computed.
	EnableMatching bool `gorm:"not null;default:true" json:"enableMatching"`
	// NotifyNewMembers emits a notification when somebody joins.
	NotifyNewMembers bool `gorm:"not null;default:true" json:"notifyNewMembers"`
	// JoinRequiresApproval requires an invite code to join a private group.
	JoinRequiresApproval bool `gorm:"not null;default:false" json:"joinRequiresApproval"`
	// MaxMembers caps the member count when set. Joins beyond the cap are rejected.
	MaxMembers *int `json:"maxMembers,omitempty"`
}

// DefaultGroupSettings returns the settings a freshly created group starts with.
func DefaultGroupSettings() GroupSettings {
	return GroupSettings{
		IsPrivate:            false,
		AllowInvites:         true,
		ShowWishlists:        true,
		EnableMatching:       true,
		NotifyNewMembers:     true,
		JoinRequiresApproval: false,
	}
}

// Group represents an exchange circle of users performing a gift exchange.
// The creator is both a member and an admin at creation time. Every admin must
// be a member, and an active group with members always retains at least one
// admin.
type Group struct {
	// ID is the unique identifier for the group (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null" json:"name"`
	// Description explains the occasion of the exchange.
	Description string `gorm:"size:255;not null" json:"description"`
	// CoverImage is an optional URL to the group's cover picture.
	CoverImage string `gorm:"size:512" json:"coverImage,omitempty"`
	// CreatorID is the ID of the user who created the group.
	CreatorID string `gorm:"size:36;not null" json:"creatorId"`
	// Settings holds the per-group behavior flags.
	Settings GroupSettings `gorm:"embedded;embeddedPrefix:setting_" json:"settings"`
	// Status is the lifecycle state of the group (active, archived or deleted).
	Status GroupStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// MatchesStale is set when membership changed after matches were computed.
	// Recomputation is never automatic; an admin triggers it explicitly.
	MatchesStale bool `gorm:"not null;default:false" json:"matchesStale"`
	// Members are the membership rows of this group (loaded via foreign key).
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	// Matches are the giver/receiver assignments of this group (loaded via foreign key).
	// Never serialized, the assignment is only exposed through per-member views.
	Matches []Match `gorm:"foreignKey:GroupID" json:"-"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt advances on every mutating operation (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}

// BeforeCreate assigns a UUID if the group was constructed without one.
func (g *Group) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	return nil
}

// MemberCount returns the number of loaded membership rows.
func (g *Group) MemberCount() int {
	return len(g.Members)
}

// AdminCount returns the number of loaded membership rows holding the admin role.
func (g *Group) AdminCount() int {
	var n int

	for i := range g.Members {
		if g.Members[i].Role == MemberRoleAdmin {
			n++
		}
	}

	return n
}

// Member returns the membership row for the given user, or nil if the user is
// not a member. Requires Members to be loaded.
func (g *Group) Member(userID string) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}

	return nil
}

// IsAdmin reports whether the given user is an admin of this group.
func (g *Group) IsAdmin(userID string) bool {
	m := g.Member(userID)
	return m != nil && m.Role == MemberRoleAdmin
}
