package exchange

import (
	"time"

	"github.com/giftring/giftring/internal/db/models"
)

// CreateGroupInput carries the fields for a new group.
type CreateGroupInput struct {
	Name        string
	Description string
	CoverImage  string
	// Settings are merged over the documented defaults.
	Settings *SettingsPatch
}

// UpdateGroupInput carries a partial update of the group head data.
// Nil fields stay unchanged.
type UpdateGroupInput struct {
	Name        *string
	Description *string
	CoverImage  *string
}

// SettingsPatch is a partial settings update. Nil fields stay unchanged.
type SettingsPatch struct {
	IsPrivate            *bool
	AllowInvites         *bool
	ShowWishlists        *bool
	EnableMatching       *bool
	NotifyNewMembers     *bool
	JoinRequiresApproval *bool
	MaxMembers           *int
	// ClearMaxMembers removes an existing member cap.
	ClearMaxMembers bool
}

// apply merges the patch into the given settings.
func (p *SettingsPatch) apply(s *models.GroupSettings) {
	if p == nil {
		return
	}

	if p.IsPrivate != nil {
		s.IsPrivate = *p.IsPrivate
	}

	if p.AllowInvites != nil {
		s.AllowInvites = *p.AllowInvites
	}

	if p.ShowWishlists != nil {
		s.ShowWishlists = *p.ShowWishlists
	}

	if p.EnableMatching != nil {
		s.EnableMatching = *p.EnableMatching
	}

	if p.NotifyNewMembers != nil {
		s.NotifyNewMembers = *p.NotifyNewMembers
	}

	if p.JoinRequiresApproval != nil {
		s.JoinRequiresApproval = *p.JoinRequiresApproval
	}

	if p.MaxMembers != nil {
		v := *p.MaxMembers
		s.MaxMembers = &v
	}

	if p.ClearMaxMembers {
		s.MaxMembers = nil
	}
}

// LeaveResult reports the outcome of a leave operation.
type LeaveResult struct {
	// GroupEmpty is set when the leave removed the last member. The group is
	// then eligible for archiving, the transition itself stays with the caller.
	GroupEmpty bool
}

// MatchView is the per-member view of an assignment edge.
type MatchView struct {
	// MatchedUserID is the counterpart of this member.
	MatchedUserID string `json:"matchedUserId"`
	// IsGiver is true when this member gives a gift to MatchedUserID and
	// false when this member receives from them.
	IsGiver bool `json:"isGiver"`
}

// GroupParticipant projects one member of a group for presentation.
type GroupParticipant struct {
	UserID    string            `json:"userId"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Nickname  string            `json:"nickname,omitempty"`
	Avatar    string            `json:"avatar,omitempty"`
	Role      models.MemberRole `json:"role"`
	JoinedAt  time.Time         `json:"joinedAt"`
	// IsMatch reports whether an assignment exists for this member in the group.
	IsMatch bool `json:"isMatch"`
}

// GroupMembership projects one group membership of a user.
type GroupMembership struct {
	Group    models.Group      `json:"group"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joinedAt"`
	// Match is the giver side assignment of this member, or the receiver side
	// if the member only appears as a receiver. Nil while no matches exist.
	Match *MatchView `json:"match,omitempty"`
}
