package models

import "time"

// MemberRole represents the role a user holds within a single group.
// It is independent of the global UserRole of the account.
type MemberRole string

const (
	// MemberRoleMember is a regular group member.
	MemberRoleMember MemberRole = "member"
	// MemberRoleAdmin is a group member with elevated rights
	// (settings, deletion, invites, promoting other admins).
	MemberRoleAdmin MemberRole = "admin"
)

// GroupMember represents the many-to-many relationship between users and groups.
// This junction table allows users to belong to multiple groups, and groups to
// contain multiple users. The role column distinguishes admins from regular
// members; admins are always a subset of members by construction.
type GroupMember struct {
	// GroupID is the ID of the group in this membership.
	GroupID string `gorm:"primaryKey;size:36;column:group_id" json:"groupId"`
	// UserID is the ID of the user in this membership.
	UserID string `gorm:"primaryKey;size:36;column:user_id" json:"userId"`
	// Role is the member's role within the group (member or admin).
	Role MemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	// JoinedAt is the timestamp when the user joined the group.
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, all their group memberships are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, all memberships in that group are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the database table name for the GroupMember model.
// This overrides GORM's default pluralized table naming.
func (GroupMember) TableName() string {
	return "group_members"
}
