package exchange

import "errors"

// Domain error taxonomy. Every operation either succeeds or fails with exactly
// one of these kinds (or a storage error). Rejected operations leave the group
// untouched.
var (
	// ErrValidation is returned on bad input, for example an empty group name.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyMember is returned when a joining user is already a member.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrNotMember is returned when the target user is not a member.
	ErrNotMember = errors.New("user is not a member of this group")
	// ErrCapacityExceeded is returned when a join would exceed maxMembers.
	ErrCapacityExceeded = errors.New("group member limit reached")
	// ErrForbidden is returned when the acting user lacks admin rights.
	ErrForbidden = errors.New("operation requires group admin rights")
	// ErrLastAdminCannotLeave is returned when the sole admin tries to leave
	// while other members remain.
	ErrLastAdminCannotLeave = errors.New("the last admin cannot leave while the group has members")
	// ErrLastAdminCannotDemote is returned when demoting would leave zero admins.
	ErrLastAdminCannotDemote = errors.New("cannot demote the last admin")
	// ErrInsufficientMembers is returned when matching needs at least two members.
	ErrInsufficientMembers = errors.New("matching requires at least two members")
	// ErrMatchingDisabled is returned when the group has matching turned off.
	ErrMatchingDisabled = errors.New("matching is disabled for this group")
	// ErrPrivateGroupRequiresApproval is returned when joining a gated private
	// group without an invite code.
	ErrPrivateGroupRequiresApproval = errors.New("joining this private group requires an invite")
	// ErrInviteInvalid is returned when a supplied invite code is unknown,
	// expired, already used or belongs to another group.
	ErrInviteInvalid = errors.New("invite code is not valid for this group")
	// ErrInvitesDisabled is returned when the group does not allow invites.
	ErrInvitesDisabled = errors.New("invites are disabled for this group")
	// ErrGroupNotActive is returned for mutations on archived or deleted groups.
	ErrGroupNotActive = errors.New("group is not active")
)
