package daemon

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/db/models"
)

// seed fills an empty mock database with fixture data: two users sharing one
// private group with a computed match pair and a few wishlist items each.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)

	if count > 0 {
		return
	}

	maxMembers := 10

	john := &models.User{
		ID:          "1",
		Email:       "john@example.com",
		PhoneNumber: "+14155550100",
		FirstName:   "John",
		LastName:    "Doe",
		Password:    models.HashPassword("password"),
		Role:        models.UserRoleUser,
		Status:      models.UserStatusActive,
	}

	jane := &models.User{
		ID:          "2",
		Email:       "jane@example.com",
		PhoneNumber: "+12125550101",
		FirstName:   "Jane",
		LastName:    "Smith",
		Password:    models.HashPassword("password"),
		Role:        models.UserRoleUser,
		Status:      models.UserStatusActive,
	}

	group := &models.Group{
		ID:          "1",
		Name:        "Family Christmas",
		Description: "Annual family gift exchange",
		CoverImage:  "https://example.com/logo.png",
		CreatorID:   john.ID,
		Status:      models.GroupStatusActive,
		Settings: models.GroupSettings{
			IsPrivate:            true,
			AllowInvites:         true,
			ShowWishlists:        true,
			EnableMatching:       true,
			NotifyNewMembers:     true,
			JoinRequiresApproval: true,
			MaxMembers:           &maxMembers,
		},
	}

	now := time.Now().UTC()

	members := []models.GroupMember{
		{GroupID: group.ID, UserID: john.ID, Role: models.MemberRoleAdmin, JoinedAt: now},
		{GroupID: group.ID, UserID: jane.ID, Role: models.MemberRoleMember, JoinedAt: now},
	}

	// a full assignment over two members, both directions
	matches := []models.Match{
		{GroupID: group.ID, GiverID: john.ID, ReceiverID: jane.ID},
		{GroupID: group.ID, GiverID: jane.ID, ReceiverID: john.ID},
	}

	johnPrice1, johnPrice2 := 150.0, 45.0
	janePrice1, janePrice2 := 200.0, 99.0

	items := []models.WishlistItem{
		{
			UserID:      john.ID,
			Name:        "Mechanical Keyboard",
			Description: "A nice mechanical keyboard with brown switches",
			URL:         "https://example.com/keyboard",
			Price:       &johnPrice1,
		},
		{
			UserID:      john.ID,
			Name:        "Programming Book",
			Description: "Latest book on Go development",
			URL:         "https://example.com/book",
			Price:       &johnPrice2,
		},
		{
			UserID:      jane.ID,
			Name:        "Drawing Tablet",
			Description: "Digital drawing tablet for design work",
			URL:         "https://example.com/tablet",
			Price:       &janePrice1,
		},
		{
			UserID:      jane.ID,
			Name:        "Design Course",
			Description: "Advanced UI/UX design course",
			URL:         "https://example.com/course",
			Price:       &janePrice2,
		},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, u := range []*models.User{john, jane} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(group).Error; err != nil {
			return err
		}

		if err := tx.Create(&members).Error; err != nil {
			return err
		}

		if err := tx.Create(&matches).Error; err != nil {
			return err
		}

		return tx.Create(&items).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed mock data")
	}

	log.Info().Msg("mock data seeded: john@example.com / jane@example.com (password: password)")
}
