// Package wishlist implements the wishlist endpoints. Users manage their own
// list under /me/wishlist and read other members' lists under
// /users/:id/wishlist. A foreign list is only visible through a shared active
// group that exposes wishlists.
package wishlist

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/auth"
	"github.com/giftring/giftring/internal/config"
	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	wishlistctl "github.com/giftring/giftring/internal/db/controller/wishlist"
	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/exchange"
	"github.com/giftring/giftring/internal/web/handler"
)

const (
	// OwnPath is the base path for managing the current user's wishlist.
	OwnPath = "/me/wishlist"

	// UserPath is the path for reading another user's wishlist.
	UserPath = "/users/:id/wishlist"
)

// Service is the wishlist handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the wishlist handler.
var Handler = Service{}

// Init initializes the wishlist handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(UserPath, auth.RequireAuthenticated(), s.GetForUser)

	app.Route(OwnPath, func(router fiber.Router) {
		router.Use(auth.RequireAuthenticated())

		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/:itemId", s.Update)
		router.Delete("/:itemId", s.Delete)
	})

	return nil
}

type itemRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	URL         string   `json:"url"         validate:"omitempty,url"`
}

// GetForUser returns the wishlist of the given user. The own list is always
// visible, a foreign one requires a shared active group with the
// ShowWishlists setting enabled.
func (s *Service) GetForUser(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	targetID := c.Params("id")

	if targetID != user.ID {
		visible, err := s.sharesVisibleGroup(user.ID, targetID)
		if err != nil {
			return handler.Error(c, err)
		}

		if !visible {
			return handler.Error(c, exchange.ErrForbidden)
		}
	}

	items, err := wishlistctl.ListForUser(s.db, targetID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(items)
}

// Create adds an item to the current user's wishlist.
func (s *Service) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(itemRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	item := &models.WishlistItem{
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
	}

	if err := wishlistctl.Create(s.db, item); err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update replaces an item on the current user's wishlist.
func (s *Service) Update(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(itemRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	item, err := wishlistctl.GetByID(s.db, c.Params("itemId"))
	if err != nil {
		return handler.Error(c, err)
	}

	if item.UserID != user.ID {
		return handler.Error(c, exchange.ErrForbidden)
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.URL = req.URL

	if err := wishlistctl.Save(s.db, item); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(item)
}

// Delete removes an item from the current user's wishlist.
func (s *Service) Delete(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	item, err := wishlistctl.GetByID(s.db, c.Params("itemId"))
	if err != nil {
		return handler.Error(c, err)
	}

	if item.UserID != user.ID {
		return handler.Error(c, exchange.ErrForbidden)
	}

	if err := wishlistctl.Delete(s.db, item.ID); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "item deleted",
	})
}

// sharesVisibleGroup reports whether the two users share an active group
// whose settings expose wishlists.
func (s *Service) sharesVisibleGroup(viewerID, ownerID string) (bool, error) {
	groups, err := groupctl.ListForUser(s.db, viewerID)
	if err != nil {
		return false, err
	}

	for i := range groups {
		g := &groups[i]

		if g.Status != models.GroupStatusActive || !g.Settings.ShowWishlists {
			continue
		}

		if g.Member(ownerID) != nil {
			return true, nil
		}
	}

	return false, nil
}
