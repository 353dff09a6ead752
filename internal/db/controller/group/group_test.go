package group

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.GroupMember{}, &models.Match{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedUser inserts a user and returns it.
func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, db.Create(u).Error, "failed to seed user")

	return u
}

// seedGroup inserts a group created by the given user including the creator membership.
func seedGroup(t *testing.T, db *gorm.DB, name string, creator *models.User) *models.Group {
	t.Helper()

	g := &models.Group{
		Name:      name,
		CreatorID: creator.ID,
		Settings:  models.DefaultGroupSettings(),
		Status:    models.GroupStatusActive,
	}
	require.NoError(t, db.Create(g).Error, "failed to seed group")

	m := &models.GroupMember{
		GroupID:  g.ID,
		UserID:   creator.ID,
		Role:     models.MemberRoleAdmin,
		JoinedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(m).Error, "failed to seed creator membership")

	return g
}

func TestCreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	creator := seedUser(t, db, "creator@example.com")

	g := &models.Group{
		Name:      "Secret Santa 2026",
		CreatorID: creator.ID,
		Settings:  models.DefaultGroupSettings(),
		Status:    models.GroupStatusActive,
	}

	require.NoError(t, Create(db, g))
	require.NotEmpty(t, g.ID, "BeforeCreate hook should assign an id")

	require.NoError(t, AddMember(db, &models.GroupMember{
		GroupID:  g.ID,
		UserID:   creator.ID,
		Role:     models.MemberRoleAdmin,
		JoinedAt: time.Now().UTC(),
	}))

	got, err := GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)
	require.Len(t, got.Members, 1)
	assert.Equal(t, creator.ID, got.Members[0].UserID)
	assert.Equal(t, creator.Email, got.Members[0].User.Email, "member user should be preloaded")
}

func TestGetByIDErrors(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		groupID       string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			groupID:       "some-id",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty id",
			dbParam:       db,
			groupID:       "",
			expectedError: ErrGroupIDEmpty,
		},
		{
			name:          "group not found",
			dbParam:       db,
			groupID:       "nonexistent",
			expectedError: ErrGroupNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := GetByID(tc.dbParam, tc.groupID)

			require.Error(t, err)
			require.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, g)
		})
	}
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	g1 := seedGroup(t, db, "Family", alice)
	seedGroup(t, db, "Office", bob)

	// bob also joins family
	require.NoError(t, AddMember(db, &models.GroupMember{
		GroupID:  g1.ID,
		UserID:   bob.ID,
		Role:     models.MemberRoleMember,
		JoinedAt: time.Now().UTC(),
	}))

	aliceGroups, err := ListForUser(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceGroups, 1)
	assert.Equal(t, "Family", aliceGroups[0].Name)

	bobGroups, err := ListForUser(db, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobGroups, 2)

	_, err = ListForUser(db, "")
	require.ErrorIs(t, err, ErrUserIDEmpty)

	none, err := ListForUser(db, "unknown-user")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemberLifecycle(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	g := seedGroup(t, db, "Family", alice)

	// unknown membership
	_, err := GetMember(db, g.ID, bob.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)

	require.NoError(t, AddMember(db, &models.GroupMember{
		GroupID:  g.ID,
		UserID:   bob.ID,
		Role:     models.MemberRoleMember,
		JoinedAt: time.Now().UTC(),
	}))

	m, err := GetMember(db, g.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleMember, m.Role)

	// promote
	require.NoError(t, UpdateMemberRole(db, g.ID, bob.ID, models.MemberRoleAdmin))

	m, err = GetMember(db, g.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleAdmin, m.Role)

	// remove
	require.NoError(t, RemoveMember(db, g.ID, bob.ID))
	_, err = GetMember(db, g.ID, bob.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)

	// removing again fails
	require.ErrorIs(t, RemoveMember(db, g.ID, bob.ID), ErrMemberNotFound)
	require.ErrorIs(t, UpdateMemberRole(db, g.ID, bob.ID, models.MemberRoleAdmin), ErrMemberNotFound)
}

func TestReplaceMatches(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	g := seedGroup(t, db, "Family", alice)

	require.NoError(t, SetMatchesStale(db, g.ID, true))

	matches := []models.Match{
		{GroupID: g.ID, GiverID: alice.ID, ReceiverID: bob.ID},
		{GroupID: g.ID, GiverID: bob.ID, ReceiverID: alice.ID},
	}

	require.NoError(t, ReplaceMatches(db, g.ID, matches))

	got, err := GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Matches, 2)
	assert.False(t, got.MatchesStale, "replacing matches should clear the stale marker")

	// replacing again drops the previous edges
	require.NoError(t, ReplaceMatches(db, g.ID, []models.Match{
		{GroupID: g.ID, GiverID: alice.ID, ReceiverID: bob.ID},
	}))

	got, err = GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Matches, 1)

	// empty set clears all matches
	require.NoError(t, ReplaceMatches(db, g.ID, nil))

	got, err = GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Matches)
}

func TestSetMatchesStale(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	g := seedGroup(t, db, "Family", alice)

	require.NoError(t, SetMatchesStale(db, g.ID, true))

	got, err := GetByID(db, g.ID)
	require.NoError(t, err)
	assert.True(t, got.MatchesStale)

	require.ErrorIs(t, SetMatchesStale(db, "nonexistent", true), ErrGroupNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	g := seedGroup(t, db, "Family", alice)

	require.NoError(t, Delete(db, g.ID))

	_, err := GetByID(db, g.ID)
	require.ErrorIs(t, err, ErrGroupNotFound)

	require.ErrorIs(t, Delete(db, g.ID), ErrGroupNotFound)
	require.ErrorIs(t, Delete(db, ""), ErrGroupIDEmpty)
	require.ErrorIs(t, Delete(nil, "x"), ErrDBNil)
}

func TestSave(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	g := seedGroup(t, db, "Family", alice)

	g.Description = "gift exchange for the family"
	g.Settings.IsPrivate = true
	require.NoError(t, Save(db, g))

	got, err := GetByID(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "gift exchange for the family", got.Description)
	assert.True(t, got.Settings.IsPrivate)
}
