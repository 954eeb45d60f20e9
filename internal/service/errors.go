package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUserNotFound           = errors.New("user not found")

	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotSetUp       = errors.New("two-factor authentication is not set up")
	ErrTwoFactorMisconfigured  = errors.New("two-factor authentication is enabled but no secret is stored")
	ErrInvalidTwoFactorCode    = errors.New("invalid two-factor code")

	ErrCVNotFound     = errors.New("cv not found")
	ErrForbidden      = errors.New("access denied")
	ErrUnknownSection = errors.New("unknown cv section")

	ErrBillingNotConfigured = errors.New("billing is not configured")
	ErrUnknownPlan          = errors.New("unknown plan")
	ErrCheckoutIncomplete   = errors.New("checkout session is not paid")
)
