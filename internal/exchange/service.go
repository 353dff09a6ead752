// Package exchange implements the group, membership and matching core.
// All mutating operations on a single group are linearized with a per-group
// mutex and applied in a transaction, a rejected operation never changes state.
package exchange

import (
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	invitectl "github.com/giftring/giftring/internal/db/controller/invite"
	userctl "github.com/giftring/giftring/internal/db/controller/user"
	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/notify"
	"github.com/giftring/giftring/internal/uniuri"
)

const (
	inviteCodeLength = 16
	defaultInviteTTL = 7 * 24 * time.Hour
)

// Service implements the membership operations and the matching engine on top
// of the group store.
type Service struct {
	db       *gorm.DB
	notifier notify.Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates the exchange service.
func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		locks:    map[string]*sync.Mutex{},
	}
}

// lockGroup acquires the per-group mutex and returns the unlock func.
// Operations on different groups proceed in parallel.
func (s *Service) lockGroup(groupID string) func() {
	s.mu.Lock()

	l, ok := s.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[groupID] = l
	}

	s.mu.Unlock()
	l.Lock()

	return l.Unlock
}

// loadActive fetches a group and rejects mutations on terminal states.
func (s *Service) loadActive(groupID string) (*models.Group, error) {
	g, err := groupctl.GetByID(s.db, groupID)
	if err != nil {
		return nil, err
	}

	if g.Status != models.GroupStatusActive {
		return nil, ErrGroupNotActive
	}

	return g, nil
}

// CreateGroup constructs a group with the creator as sole member and admin and
// default settings merged with the given patch.
func (s *Service) CreateGroup(creatorID string, in CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)

	if name == "" || description == "" {
		return nil, ErrValidation
	}

	if _, err := userctl.GetByID(s.db, creatorID); err != nil {
		return nil, err
	}

	settings := models.DefaultGroupSettings()
	in.Settings.apply(&settings)

	if settings.MaxMembers != nil && *settings.MaxMembers < 1 {
		return nil, ErrValidation
	}

	g := &models.Group{
		Name:        name,
		Description: description,
		CoverImage:  in.CoverImage,
		CreatorID:   creatorID,
		Settings:    settings,
		Status:      models.GroupStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := groupctl.Create(tx, g); err != nil {
			return err
		}

		return groupctl.AddMember(tx, &models.GroupMember{
			GroupID:  g.ID,
			UserID:   creatorID,
			Role:     models.MemberRoleAdmin,
			JoinedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	return groupctl.GetByID(s.db, g.ID)
}

// Join adds a user to a group. For private groups requiring approval a valid
// invite code is the approval token. Existing matches become stale, they are
// never recomputed automatically.
func (s *Service) Join(groupID, userID, inviteCode string) (*models.Group, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if g.Member(userID) != nil {
		return nil, ErrAlreadyMember
	}

	u, err := userctl.GetByID(s.db, userID)
	if err != nil {
		return nil, err
	}

	if g.Settings.MaxMembers != nil && g.MemberCount() >= *g.Settings.MaxMembers {
		return nil, ErrCapacityExceeded
	}

	var inv *models.Invite

	if g.Settings.IsPrivate && g.Settings.JoinRequiresApproval {
		if inviteCode == "" {
			return nil, ErrPrivateGroupRequiresApproval
		}

		inv, err = invitectl.GetByCode(s.db, inviteCode)
		if err != nil || inv.GroupID != groupID || !inv.Usable(time.Now()) {
			return nil, ErrInviteInvalid
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := groupctl.AddMember(tx, &models.GroupMember{
			GroupID:  groupID,
			UserID:   userID,
			Role:     models.MemberRoleMember,
			JoinedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if inv != nil {
			if err := invitectl.MarkUsed(tx, inv.Code, userID, time.Now().UTC()); err != nil {
				return err
			}
		}

		// Save writes every column from g, the stale flag must change after it
		if err := groupctl.Save(tx, g); err != nil {
			return err
		}

		if len(g.Matches) > 0 {
			return groupctl.SetMatchesStale(tx, groupID, true)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if g.Settings.NotifyNewMembers {
		s.notifier.MemberJoined(g, u)
	}

	return groupctl.GetByID(s.db, groupID)
}

// Leave removes a user from a group. The sole admin cannot leave while other
// members remain, another admin must be promoted first.
func (s *Service) Leave(groupID, userID string) (LeaveResult, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return LeaveResult{}, err
	}

	m := g.Member(userID)
	if m == nil {
		return LeaveResult{}, ErrNotMember
	}

	if m.Role == models.MemberRoleAdmin && g.AdminCount() == 1 && g.MemberCount() > 1 {
		return LeaveResult{}, ErrLastAdminCannotLeave
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := groupctl.RemoveMember(tx, groupID, userID); err != nil {
			return err
		}

		// Save writes every column from g, the stale flag must change after it
		if err := groupctl.Save(tx, g); err != nil {
			return err
		}

		if len(g.Matches) > 0 {
			return groupctl.SetMatchesStale(tx, groupID, true)
		}

		return nil
	})
	if err != nil {
		return LeaveResult{}, err
	}

	return LeaveResult{GroupEmpty: g.MemberCount()-1 == 0}, nil
}

// PromoteAdmin elevates a member to admin. Promoting an admin is a no-op.
func (s *Service) PromoteAdmin(groupID, targetID, actingAdminID string) (*models.Group, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	target := g.Member(targetID)
	if target == nil {
		return nil, ErrNotMember
	}

	if target.Role == models.MemberRoleAdmin {
		return g, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := groupctl.UpdateMemberRole(tx, groupID, targetID, models.MemberRoleAdmin); err != nil {
			return err
		}

		return groupctl.Save(tx, g)
	})
	if err != nil {
		return nil, err
	}

	return groupctl.GetByID(s.db, groupID)
}

// DemoteAdmin reduces an admin back to a regular member. The last admin of a
// populated group cannot be demoted. Demoting a regular member is a no-op.
func (s *Service) DemoteAdmin(groupID, targetID, actingAdminID string) (*models.Group, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	target := g.Member(targetID)
	if target == nil {
		return nil, ErrNotMember
	}

	if target.Role != models.MemberRoleAdmin {
		return g, nil
	}

	if g.AdminCount() == 1 {
		return nil, ErrLastAdminCannotDemote
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := groupctl.UpdateMemberRole(tx, groupID, targetID, models.MemberRoleMember); err != nil {
			return err
		}

		return groupctl.Save(tx, g)
	})
	if err != nil {
		return nil, err
	}

	return groupctl.GetByID(s.db, groupID)
}

// UpdateSettings merges a partial settings patch. Unspecified fields stay
// unchanged.
func (s *Service) UpdateSettings(groupID, actingAdminID string, patch SettingsPatch) (*models.Group, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	if patch.MaxMembers != nil && *patch.MaxMembers < 1 {
		return nil, ErrValidation
	}

	patch.apply(&g.Settings)

	if err := groupctl.Save(s.db, g); err != nil {
		return nil, err
	}

	return groupctl.GetByID(s.db, groupID)
}

// UpdateGroup patches name, description and cover image.
func (s *Service) UpdateGroup(groupID, actingAdminID string, in UpdateGroupInput) (*models.Group, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrValidation
		}

		g.Name = name
	}

	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, ErrValidation
		}

		g.Description = description
	}

	if in.CoverImage != nil {
		g.CoverImage = *in.CoverImage
	}

	if err := groupctl.Save(s.db, g); err != nil {
		return nil, err
	}

	return groupctl.GetByID(s.db, groupID)
}

// DeleteGroup soft deletes a group. The record stays in the store, all
// mutating operations are frozen afterwards.
func (s *Service) DeleteGroup(groupID, actingAdminID string) error {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return err
	}

	if !g.IsAdmin(actingAdminID) {
		return ErrForbidden
	}

	g.Status = models.GroupStatusDeleted

	return groupctl.Save(s.db, g)
}

// ArchiveGroup closes a group after the exchange ended.
func (s *Service) ArchiveGroup(groupID, actingAdminID string) error {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return err
	}

	if !g.IsAdmin(actingAdminID) {
		return ErrForbidden
	}

	g.Status = models.GroupStatusArchived

	return groupctl.Save(s.db, g)
}

// CreateInvite issues a single-use invite code for a group that allows
// invites. A ttl of zero falls back to the default of one week.
func (s *Service) CreateInvite(groupID, actingAdminID string, ttl time.Duration) (*models.Invite, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	if !g.Settings.AllowInvites {
		return nil, ErrInvitesDisabled
	}

	if ttl <= 0 {
		ttl = defaultInviteTTL
	}

	inv := &models.Invite{
		GroupID:     groupID,
		Code:        uniuri.NewLen(inviteCodeLength),
		CreatedByID: actingAdminID,
		ExpiresAt:   time.Now().Add(ttl).UTC(),
	}

	if err := invitectl.Create(s.db, inv); err != nil {
		return nil, err
	}

	return inv, nil
}
