// Package account implements signup, login and logout.
// Two login flows are exposed, email/password and phone/one-time code. Both
// end in the same session cookie.
package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/giftring/giftring/internal/auth"
	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/web/handler"
	"github.com/giftring/giftring/internal/web/session"
)

const (
	// SignupPath is the path to the signup endpoint.
	SignupPath = "/signup"

	// LoginPath is the path to the password login endpoint.
	LoginPath = "/login"

	// OTPRequestPath is the path to the one-time code request endpoint.
	OTPRequestPath = "/otp/request"

	// OTPVerifyPath is the path to the one-time code login endpoint.
	OTPVerifyPath = "/otp/verify"

	// LogoutPath is the path to the logout endpoint.
	LogoutPath = "/logout"
)

// Service is the account handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	authService *auth.Service
}

// Handler is the account handler.
var Handler = Service{}

// Init initializes the account handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New("app, cfg or authService is nil")
	}

	s.cfg = cfg
	s.authService = authService

	app.Post(SignupPath, s.Signup)
	app.Post(LoginPath, s.Login)
	app.Post(OTPRequestPath, s.OTPRequest)
	app.Post(OTPVerifyPath, s.OTPVerify)
	app.Post(LogoutPath, s.Logout)

	return nil
}

type signupRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"`
	Nickname    string `json:"nickname"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpRequestRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

type otpVerifyRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code"        validate:"required,numeric"`
}

// Signup creates a new account and logs it in.
func (s *Service) Signup(c *fiber.Ctx) error {
	req := new(signupRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	user, err := s.authService.Signup(auth.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nickname:    req.Nickname,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	if err := s.startSession(c, user); err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles a password login.
func (s *Service) Login(c *fiber.Ctx) error {
	req := new(loginRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	user, err := s.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		return handler.Error(c, err)
	}

	if err := s.startSession(c, user); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(user)
}

// OTPRequest generates a one-time login code for the given phone number.
// The code travels out of band, the response only acknowledges the request.
func (s *Service) OTPRequest(c *fiber.Ctx) error {
	req := new(otpRequestRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	if _, err := s.authService.RequestOTP(req.PhoneNumber); err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "one-time code generated",
	})
}

// OTPVerify handles a one-time code login.
func (s *Service) OTPVerify(c *fiber.Ctx) error {
	req := new(otpVerifyRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	user, err := s.authService.VerifyOTP(req.PhoneNumber, req.Code)
	if err != nil {
		return handler.Error(c, err)
	}

	if err := s.startSession(c, user); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(user)
}

// Logout drops the session and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(auth.SessionCookieName)
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// startSession writes a fresh session for the user and sets the cookie.
func (s *Service) startSession(c *fiber.Ctx, user *models.User) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return err
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return err
	}

	cookieSettings := &fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax", // TODO: make this configurable
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return nil
}
