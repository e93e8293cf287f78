package services

import "errors"

// Error taxonomy shared by every service. Handlers map these to HTTP status codes
// with errors.Is; the wrapped message is safe to show to the caller.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnverified         = errors.New("please verify your email first")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrPhoneNotSet        = errors.New("phone number not set for this account")
	ErrRateLimited        = errors.New("too many OTP requests, try again later")
)
