package daemon

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Match{},
		&models.Invite{},
		&models.WishlistItem{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	seed(&config.Config{}, db)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 2)

	var group models.Group
	require.NoError(t, db.First(&group).Error)
	assert.Equal(t, "Family Christmas", group.Name)
	assert.True(t, group.Settings.IsPrivate)
	assert.True(t, group.Settings.JoinRequiresApproval)

	var members []models.GroupMember
	require.NoError(t, db.Where("group_id = ?", group.ID).Find(&members).Error)
	assert.Len(t, members, 2)

	// the seeded assignment is complete: every member appears exactly once
	// as giver and once as receiver
	var matches []models.Match
	require.NoError(t, db.Where("group_id = ?", group.ID).Find(&matches).Error)
	require.Len(t, matches, len(members))

	givers := map[string]int{}
	receivers := map[string]int{}

	for _, edge := range matches {
		assert.NotEqual(t, edge.GiverID, edge.ReceiverID, "no self match")
		givers[edge.GiverID]++
		receivers[edge.ReceiverID]++
	}

	for _, m := range members {
		assert.Equal(t, 1, givers[m.UserID])
		assert.Equal(t, 1, receivers[m.UserID])
	}

	var items []models.WishlistItem
	require.NoError(t, db.Find(&items).Error)
	assert.Len(t, items, 4)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	seed(&config.Config{}, db)
	seed(&config.Config{}, db)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
