package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/giftring/giftring/internal/auth"
	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	invitectl "github.com/giftring/giftring/internal/db/controller/invite"
	userctl "github.com/giftring/giftring/internal/db/controller/user"
	wishlistctl "github.com/giftring/giftring/internal/db/controller/wishlist"
	"github.com/giftring/giftring/internal/exchange"
)

// Error maps a domain error to its HTTP status and writes the JSON error
// body. Storage failures are never exposed, they map to a generic 500.
func Error(c *fiber.Ctx, err error) error {
	status := statusFor(err)

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, exchange.ErrValidation):
		return fiber.StatusBadRequest

	case errors.Is(err, groupctl.ErrGroupNotFound),
		errors.Is(err, userctl.ErrUserNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, invitectl.ErrInviteNotFound),
		errors.Is(err, wishlistctl.ErrItemNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, exchange.ErrForbidden),
		errors.Is(err, exchange.ErrPrivateGroupRequiresApproval),
		errors.Is(err, exchange.ErrInviteInvalid):
		return fiber.StatusForbidden

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrNoOTPRequested),
		errors.Is(err, auth.ErrUserAccountDisabled):
		return fiber.StatusUnauthorized

	case errors.Is(err, exchange.ErrAlreadyMember),
		errors.Is(err, exchange.ErrNotMember),
		errors.Is(err, exchange.ErrCapacityExceeded),
		errors.Is(err, exchange.ErrLastAdminCannotLeave),
		errors.Is(err, exchange.ErrLastAdminCannotDemote),
		errors.Is(err, exchange.ErrInsufficientMembers),
		errors.Is(err, exchange.ErrMatchingDisabled),
		errors.Is(err, exchange.ErrGroupNotActive),
		errors.Is(err, exchange.ErrInvitesDisabled),
		errors.Is(err, auth.ErrEmailOrPhoneExists):
		return fiber.StatusConflict

	default:
		return fiber.StatusInternalServerError
	}
}
