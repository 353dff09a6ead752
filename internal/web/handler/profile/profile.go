// Package profile implements the endpoints of the current user.
package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/giftring/giftring/internal/auth"
	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/exchange"
	"github.com/giftring/giftring/internal/web/handler"
)

const (
	// Path is the base path of the current user routes.
	Path = "/me"

	// MembershipsPath is the relative path to the membership listing.
	MembershipsPath = "/memberships"
)

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	exchange *exchange.Service
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *exchange.Service) error {
	if app == nil || cfg == nil || svc == nil {
		return errors.New("app, cfg or exchange service is nil")
	}

	s.cfg = cfg
	s.exchange = svc

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireAuthenticated())

		router.Get(MembershipsPath, s.Memberships)
		router.Get(handler.RouterRootPath, s.Me)
	})

	return nil
}

// Me returns the current user's account.
func (s *Service) Me(c *fiber.Ctx) error {
	return c.JSON(auth.UserFromContext(c))
}

// Memberships returns the current user's group memberships including the
// member's own match view where one exists.
func (s *Service) Memberships(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	memberships, err := s.exchange.MembershipsForUser(user.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(memberships)
}
