package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
	userctl "github.com/giftring/giftring/internal/db/controller/user"
	"github.com/giftring/giftring/internal/db/models"
)

// setupTestService creates an auth service over an in-memory SQLite database.
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	cfg := &config.Config{
		Title: "giftring-test",
		OTP: config.OTP{
			Digits:     6,
			ExpiryTime: 5 * time.Minute,
		},
	}

	return NewService(db, cfg), db
}

func TestSignup(t *testing.T) {
	svc, _ := setupTestService(t)

	u, err := svc.Signup(SignupInput{
		Email:       "John@Example.com",
		Password:    "secret123",
		PhoneNumber: "+4917612345678",
		FirstName:   "John",
		LastName:    "Doe",
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "john@example.com", u.Email, "email is normalized")
	assert.Equal(t, models.UserStatusActive, u.Status)
	assert.NotEmpty(t, u.Password)
	assert.NotEqual(t, "secret123", u.Password, "password is stored hashed")

	// duplicate email
	_, err = svc.Signup(SignupInput{Email: "john@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrEmailOrPhoneExists)

	// duplicate phone
	_, err = svc.Signup(SignupInput{
		Email:       "jane@example.com",
		Password:    "x",
		PhoneNumber: "+4917612345678",
	})
	require.ErrorIs(t, err, ErrEmailOrPhoneExists)
}

func TestSignupWithoutPhoneNumber(t *testing.T) {
	svc, _ := setupTestService(t)

	// any number of accounts may omit the phone number
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u, err := svc.Signup(SignupInput{
			Email:     email,
			Password:  "secret123",
			FirstName: "Test",
		})
		require.NoError(t, err)
		assert.Empty(t, u.PhoneNumber)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, db := setupTestService(t)

	_, err := svc.Signup(SignupInput{Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)

	u, err := svc.Authenticate("john@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", u.Email)

	// case insensitive email
	_, err = svc.Authenticate("John@Example.COM", "secret123")
	require.NoError(t, err)

	// wrong password and unknown user look identical
	_, err = svc.Authenticate("john@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// disabled account
	u.Status = models.UserStatusSuspended
	require.NoError(t, userctl.Save(db, u))

	_, err = svc.Authenticate("john@example.com", "secret123")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestOTPRoundTrip(t *testing.T) {
	svc, db := setupTestService(t)

	_, err := svc.Signup(SignupInput{
		Email:       "jane@example.com",
		Password:    "x",
		PhoneNumber: "+4915112345678",
	})
	require.NoError(t, err)

	// unknown phone
	_, err = svc.RequestOTP("+000")
	require.ErrorIs(t, err, ErrUserNotFound)

	// verify without a pending request
	_, err = svc.VerifyOTP("+4915112345678", "000000")
	require.ErrorIs(t, err, ErrNoOTPRequested)

	code, err := svc.RequestOTP("+4915112345678")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	// wrong code
	_, err = svc.VerifyOTP("+4915112345678", "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)

	// correct code logs in
	u, err := svc.VerifyOTP("+4915112345678", code)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)

	// a code never verifies twice
	_, err = svc.VerifyOTP("+4915112345678", code)
	require.ErrorIs(t, err, ErrNoOTPRequested)

	// a fresh request yields a different code (counter moved on)
	code2, err := svc.RequestOTP("+4915112345678")
	require.NoError(t, err)
	assert.NotEqual(t, code, code2)

	// expired window
	stored, err := userctl.GetByPhone(db, "+4915112345678")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).UTC()
	stored.OTPRequestedAt = &past
	require.NoError(t, userctl.Save(db, stored))

	_, err = svc.VerifyOTP("+4915112345678", code2)
	require.ErrorIs(t, err, ErrOTPExpired)
}
