package exchange

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	invitectl "github.com/giftring/giftring/internal/db/controller/invite"
	userctl "github.com/giftring/giftring/internal/db/controller/user"
	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/notify"
)

// setupTestService creates a service over an in-memory SQLite database.
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Match{},
		&models.Invite{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return NewService(db, notify.Nop{}), db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, FirstName: "Test", LastName: email}
	require.NoError(t, userctl.Create(db, u))

	return u
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestCreateGroup(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")

	// Scenario: creation yields creator as sole member and admin with defaults.
	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Secret Santa", Description: "2024"})
	require.NoError(t, err)

	assert.Equal(t, "Secret Santa", g.Name)
	assert.Equal(t, models.GroupStatusActive, g.Status)
	require.Len(t, g.Members, 1)
	assert.Equal(t, u1.ID, g.Members[0].UserID)
	assert.Equal(t, models.MemberRoleAdmin, g.Members[0].Role)
	assert.Equal(t, models.DefaultGroupSettings(), g.Settings)
	assert.Equal(t, u1.ID, g.CreatorID)
}

func TestCreateGroupValidation(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")

	testCases := []struct {
		name          string
		input         CreateGroupInput
		expectedError error
	}{
		{
			name:          "empty name",
			input:         CreateGroupInput{Name: "   ", Description: "x"},
			expectedError: ErrValidation,
		},
		{
			name:          "empty description",
			input:         CreateGroupInput{Name: "x", Description: "\t"},
			expectedError: ErrValidation,
		},
		{
			name: "max members below one",
			input: CreateGroupInput{
				Name:        "x",
				Description: "y",
				Settings:    &SettingsPatch{MaxMembers: intPtr(0)},
			},
			expectedError: ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateGroup(u1.ID, tc.input)
			require.ErrorIs(t, err, tc.expectedError)
		})
	}

	// unknown creator
	_, err := svc.CreateGroup("ghost", CreateGroupInput{Name: "x", Description: "y"})
	require.ErrorIs(t, err, userctl.ErrUserNotFound)
}

func TestCreateGroupSettingsMerge(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{
		Name:        "Private Circle",
		Description: "invite only",
		Settings: &SettingsPatch{
			IsPrivate:            boolPtr(true),
			JoinRequiresApproval: boolPtr(true),
			MaxMembers:           intPtr(5),
		},
	})
	require.NoError(t, err)

	assert.True(t, g.Settings.IsPrivate)
	assert.True(t, g.Settings.JoinRequiresApproval)
	require.NotNil(t, g.Settings.MaxMembers)
	assert.Equal(t, 5, *g.Settings.MaxMembers)
	// untouched defaults survive the merge
	assert.True(t, g.Settings.AllowInvites)
	assert.True(t, g.Settings.EnableMatching)
}

func TestJoin(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	// Scenario: second user joins
	g, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, g.MemberCount())
	assert.Equal(t, models.MemberRoleMember, g.Member(u2.ID).Role)

	// Scenario: joining again fails and leaves state unchanged
	_, err = svc.Join(g.ID, u2.ID, "")
	require.ErrorIs(t, err, ErrAlreadyMember)

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, g.MemberCount())

	// unknown group and unknown user
	_, err = svc.Join("nonexistent", u2.ID, "")
	require.ErrorIs(t, err, groupctl.ErrGroupNotFound)

	_, err = svc.Join(g.ID, "ghost", "")
	require.ErrorIs(t, err, userctl.ErrUserNotFound)
}

func TestJoinCapacity(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	// Scenario: maxMembers=1 with the creator already inside
	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{
		Name:        "Tiny",
		Description: "solo",
		Settings:    &SettingsPatch{MaxMembers: intPtr(1)},
	})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestJoinPrivateGate(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	u3 := seedUser(t, db, "u3@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{
		Name:        "Private",
		Description: "gated",
		Settings: &SettingsPatch{
			IsPrivate:            boolPtr(true),
			JoinRequiresApproval: boolPtr(true),
		},
	})
	require.NoError(t, err)

	// no code
	_, err = svc.Join(g.ID, u2.ID, "")
	require.ErrorIs(t, err, ErrPrivateGroupRequiresApproval)

	// bogus code
	_, err = svc.Join(g.ID, u2.ID, "bogus")
	require.ErrorIs(t, err, ErrInviteInvalid)

	// valid invite passes the gate
	inv, err := svc.CreateInvite(g.ID, u1.ID, time.Hour)
	require.NoError(t, err)

	g, err = svc.Join(g.ID, u2.ID, inv.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, g.MemberCount())

	// the code is single use
	_, err = svc.Join(g.ID, u3.ID, inv.Code)
	require.ErrorIs(t, err, ErrInviteInvalid)

	stored, err := invitectl.GetByCode(db, inv.Code)
	require.NoError(t, err)
	require.NotNil(t, stored.UsedByID)
	assert.Equal(t, u2.ID, *stored.UsedByID)
}

func TestJoinMarksMatchesStale(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	u3 := seedUser(t, db, "u3@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	_, err = svc.ComputeMatches(g.ID, u1.ID)
	require.NoError(t, err)

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	require.False(t, g.MatchesStale)

	// a membership change after matches exist flags them stale but never
	// recomputes
	g, err = svc.Join(g.ID, u3.ID, "")
	require.NoError(t, err)
	assert.True(t, g.MatchesStale)
	assert.Len(t, g.Matches, 2, "matches are not recomputed automatically")

	// the flag survives the stored row, not just the returned struct
	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.True(t, g.MatchesStale, "join after matches exist must mark matches stale")
}

func TestLeaveMarksMatchesStale(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	u3 := seedUser(t, db, "u3@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u3.ID, "")
	require.NoError(t, err)

	_, err = svc.ComputeMatches(g.ID, u1.ID)
	require.NoError(t, err)

	_, err = svc.Leave(g.ID, u3.ID)
	require.NoError(t, err)

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.True(t, g.MatchesStale, "leave after matches exist must mark matches stale")
	assert.Len(t, g.Matches, 3, "matches are not recomputed automatically")
}

func TestLeave(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	// Scenario: sole admin cannot leave while a member remains
	_, err = svc.Leave(g.ID, u1.ID)
	require.ErrorIs(t, err, ErrLastAdminCannotLeave)

	// non-member cannot leave
	_, err = svc.Leave(g.ID, "ghost")
	require.ErrorIs(t, err, ErrNotMember)

	// after promoting u2 the leave succeeds
	_, err = svc.PromoteAdmin(g.ID, u2.ID, u1.ID)
	require.NoError(t, err)

	res, err := svc.Leave(g.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, res.GroupEmpty)

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.MemberCount())
	assert.Nil(t, g.Member(u1.ID))

	// last member leaving empties the group, it is flagged but not archived
	res, err = svc.Leave(g.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, res.GroupEmpty)

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusActive, g.Status)
	assert.Equal(t, 0, g.MemberCount())
}

func TestAdminInvariant(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	// non-admin cannot promote
	_, err = svc.PromoteAdmin(g.ID, u2.ID, u2.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// promoting a non-member fails
	_, err = svc.PromoteAdmin(g.ID, "ghost", u1.ID)
	require.ErrorIs(t, err, ErrNotMember)

	// sole admin cannot be demoted
	_, err = svc.DemoteAdmin(g.ID, u1.ID, u1.ID)
	require.ErrorIs(t, err, ErrLastAdminCannotDemote)

	// promote, then demoting the original admin works
	g, err = svc.PromoteAdmin(g.ID, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, g.AdminCount())

	// promoting an admin again is a no-op
	g, err = svc.PromoteAdmin(g.ID, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, g.AdminCount())

	g, err = svc.DemoteAdmin(g.ID, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.AdminCount())
	assert.Equal(t, models.MemberRoleMember, g.Member(u1.ID).Role)

	// demoting a regular member is a no-op
	g, err = svc.DemoteAdmin(g.ID, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.AdminCount())

	// admins stay a subset of members at all times
	for i := range g.Members {
		if g.Members[i].Role == models.MemberRoleAdmin {
			assert.NotNil(t, g.Member(g.Members[i].UserID))
		}
	}
}

func TestUpdateSettingsPartialPatch(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	// non-admin is rejected
	_, err = svc.UpdateSettings(g.ID, u2.ID, SettingsPatch{IsPrivate: boolPtr(true)})
	require.ErrorIs(t, err, ErrForbidden)

	before := g.Settings

	// Round-trip: only patched fields change
	g, err = svc.UpdateSettings(g.ID, u1.ID, SettingsPatch{
		IsPrivate:  boolPtr(true),
		MaxMembers: intPtr(10),
	})
	require.NoError(t, err)

	assert.True(t, g.Settings.IsPrivate)
	require.NotNil(t, g.Settings.MaxMembers)
	assert.Equal(t, 10, *g.Settings.MaxMembers)
	assert.Equal(t, before.AllowInvites, g.Settings.AllowInvites)
	assert.Equal(t, before.ShowWishlists, g.Settings.ShowWishlists)
	assert.Equal(t, before.EnableMatching, g.Settings.EnableMatching)
	assert.Equal(t, before.NotifyNewMembers, g.Settings.NotifyNewMembers)
	assert.Equal(t, before.JoinRequiresApproval, g.Settings.JoinRequiresApproval)

	// clearing the cap
	g, err = svc.UpdateSettings(g.ID, u1.ID, SettingsPatch{ClearMaxMembers: true})
	require.NoError(t, err)
	assert.Nil(t, g.Settings.MaxMembers)

	// invalid cap
	_, err = svc.UpdateSettings(g.ID, u1.ID, SettingsPatch{MaxMembers: intPtr(0)})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateGroup(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	g, err = svc.UpdateGroup(g.ID, u1.ID, UpdateGroupInput{
		Name:       strPtr("  Family 2026  "),
		CoverImage: strPtr("https://example.com/cover.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Family 2026", g.Name)
	assert.Equal(t, "xmas", g.Description)
	assert.Equal(t, "https://example.com/cover.png", g.CoverImage)

	_, err = svc.UpdateGroup(g.ID, u1.ID, UpdateGroupInput{Name: strPtr("  ")})
	require.ErrorIs(t, err, ErrValidation)
}

func TestTerminalStatesFreezeMutations(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	// non-admin cannot delete
	require.ErrorIs(t, svc.DeleteGroup(g.ID, u2.ID), ErrForbidden)

	require.NoError(t, svc.DeleteGroup(g.ID, u1.ID))

	g, err = groupctl.GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusDeleted, g.Status)

	// every mutation on a deleted group is frozen
	_, err = svc.Join(g.ID, u2.ID, "")
	require.ErrorIs(t, err, ErrGroupNotActive)

	_, err = svc.Leave(g.ID, u1.ID)
	require.ErrorIs(t, err, ErrGroupNotActive)

	_, err = svc.UpdateSettings(g.ID, u1.ID, SettingsPatch{})
	require.ErrorIs(t, err, ErrGroupNotActive)

	_, err = svc.ComputeMatches(g.ID, u1.ID)
	require.ErrorIs(t, err, ErrGroupNotActive)

	require.ErrorIs(t, svc.DeleteGroup(g.ID, u1.ID), ErrGroupNotActive)

	// reads still work
	participants, err := svc.Participants(g.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 1)

	// archiving freezes the same way
	g2, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Office", Description: "2026"})
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveGroup(g2.ID, u1.ID))

	_, err = svc.Join(g2.ID, u2.ID, "")
	require.ErrorIs(t, err, ErrGroupNotActive)
}

func TestCreateInvite(t *testing.T) {
	svc, db := setupTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	g, err := svc.CreateGroup(u1.ID, CreateGroupInput{Name: "Family", Description: "xmas"})
	require.NoError(t, err)

	_, err = svc.Join(g.ID, u2.ID, "")
	require.NoError(t, err)

	// non-admin cannot create invites
	_, err = svc.CreateInvite(g.ID, u2.ID, time.Hour)
	require.ErrorIs(t, err, ErrForbidden)

	inv, err := svc.CreateInvite(g.ID, u1.ID, 0)
	require.NoError(t, err)
	assert.Len(t, inv.Code, inviteCodeLength)
	assert.True(t, inv.Usable(time.Now()))
	assert.True(t, inv.ExpiresAt.After(time.Now().Add(6*24*time.Hour)), "zero ttl falls back to a week")

	// invites can be switched off
	_, err = svc.UpdateSettings(g.ID, u1.ID, SettingsPatch{AllowInvites: boolPtr(false)})
	require.NoError(t, err)

	_, err = svc.CreateInvite(g.ID, u1.ID, time.Hour)
	require.ErrorIs(t, err, ErrInvitesDisabled)
}
