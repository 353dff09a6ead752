package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
	userctl "github.com/giftring/giftring/internal/db/controller/user"
	"github.com/giftring/giftring/internal/db/models"
)

const otpSecretSize = 20

// Service provides signup and both login flows.
type Service struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// SignupInput carries the fields for a new account.
type SignupInput struct {
	Email       string
	Password    string
	PhoneNumber string
	FirstName   string
	LastName    string
	Nickname    string
}

// Signup creates a new local user account.
func (s *Service) Signup(in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := userctl.GetByEmail(s.db, email); err == nil {
		return nil, ErrEmailOrPhoneExists
	} else if !errors.Is(err, userctl.ErrUserNotFound) {
		return nil, err
	}

	if in.PhoneNumber != "" {
		if _, err := userctl.GetByPhone(s.db, in.PhoneNumber); err == nil {
			return nil, ErrEmailOrPhoneExists
		} else if !errors.Is(err, userctl.ErrUserNotFound) {
			return nil, err
		}
	}

	u := &models.User{
		Email:       email,
		PhoneNumber: in.PhoneNumber,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Nickname:    in.Nickname,
		Password:    models.HashPassword(in.Password),
		Role:        models.UserRoleUser,
		Status:      models.UserStatusActive,
	}

	if err := userctl.Create(s.db, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate verifies a local password login.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	u, err := userctl.GetByEmail(s.db, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, userctl.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if u.Status != models.UserStatusActive {
		return nil, ErrUserAccountDisabled
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// RequestOTP generates a fresh login code for the given phone number and
// returns it. The code is logged, not sent, SMS delivery is out of scope.
func (s *Service) RequestOTP(phone string) (string, error) {
	u, err := userctl.GetByPhone(s.db, phone)
	if errors.Is(err, userctl.ErrUserNotFound) {
		return "", ErrUserNotFound
	}

	if err != nil {
		return "", err
	}

	if u.Status != models.UserStatusActive {
		return "", ErrUserAccountDisabled
	}

	// lazily provision the per-user secret
	if u.OTPSecret == "" {
		key, keyErr := hotp.Generate(hotp.GenerateOpts{
			Issuer:      s.cfg.Title,
			AccountName: u.Email,
			SecretSize:  otpSecretSize,
		})
		if keyErr != nil {
			return "", keyErr
		}

		u.OTPSecret = key.Secret()
	}

	u.OTPCounter++

	code, err := hotp.GenerateCodeCustom(u.OTPSecret, u.OTPCounter, s.validateOpts())
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	u.OTPRequestedAt = &now

	if err := userctl.Save(s.db, u); err != nil {
		return "", err
	}

	log.Info().
		Str("user_id", u.ID).
		Str("phone", u.PhoneNumber).
		Str("code", code).
		Msg("one-time login code generated")

	return code, nil
}

// VerifyOTP checks a login code against the pending request.
func (s *Service) VerifyOTP(phone, code string) (*models.User, error) {
	u, err := userctl.GetByPhone(s.db, phone)
	if errors.Is(err, userctl.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	if u.Status != models.UserStatusActive {
		return nil, ErrUserAccountDisabled
	}

	if u.OTPSecret == "" || u.OTPRequestedAt == nil {
		return nil, ErrNoOTPRequested
	}

	if time.Since(*u.OTPRequestedAt) > s.cfg.OTP.ExpiryTime {
		return nil, ErrOTPExpired
	}

	valid, err := hotp.ValidateCustom(code, u.OTPCounter, u.OTPSecret, s.validateOpts())
	if err != nil || !valid {
		return nil, ErrInvalidOTP
	}

	// a code never verifies twice
	u.OTPRequestedAt = nil

	if err := userctl.Save(s.db, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) validateOpts() hotp.ValidateOpts {
	digits := otp.DigitsSix
	if s.cfg.OTP.Digits == 8 { //nolint:mnd
		digits = otp.DigitsEight
	}

	return hotp.ValidateOpts{
		Digits:    digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
