// Package health implements the liveness endpoint used by load balancers.
package health

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

const (
	// Path is the path to the liveness endpoint.
	Path = "/checkalive"
)

// Service is the health handler service.
type Service struct {
	alive *atomic.Bool
}

// Handler is the health handler.
var Handler = Service{}

// Init initializes the health handler. The alive flag is owned by the web
// service and flips to false during graceful shutdown.
func (s *Service) Init(app *fiber.App, alive *atomic.Bool) error {
	if app == nil || alive == nil {
		return errors.New("app or alive is nil")
	}

	s.alive = alive

	app.Get(Path, s.Get)

	return nil
}

// Get reports liveness. Returns 503 once shutdown has started so load
// balancers stop routing to this instance before the listener closes.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "shutting down",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
