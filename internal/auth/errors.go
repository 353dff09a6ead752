package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// Lookup failure and password mismatch are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserAccountDisabled is returned when attempting to authenticate an
	// inactive or suspended account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrEmailOrPhoneExists is returned when attempting to sign up with an
	// email or phone number that already exists.
	ErrEmailOrPhoneExists = errors.New("user with email or phone number already exists")

	// ErrInvalidOTP is returned when the provided one-time code is wrong.
	ErrInvalidOTP = errors.New("invalid one-time code")

	// ErrOTPExpired is returned when the one-time code window has passed.
	ErrOTPExpired = errors.New("one-time code expired")

	// ErrNoOTPRequested is returned when verifying without a pending code.
	ErrNoOTPRequested = errors.New("no one-time code was requested")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
