package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/monitor"
	"github.com/swap24/backend/internal/store"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

// SigninStepVerifyOTP tells the client to collect the phone code and call verify-login-otp.
const SigninStepVerifyOTP = "VERIFY_OTP"

const (
	channelEmail = "email"
	channelPhone = "phone"
)

// RegisterRequest represents the registration request payload
// @Description Registration request structure
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required" example:"Ada"`               // User first name
	LastName  string `json:"lastName" validate:"required" example:"Obi"`                // User last name
	Email     string `json:"email" validate:"required,email" example:"ada@example.com"` // User email address
	Password  string `json:"password" validate:"required" example:"password123"`        // User password
}

// RegisterResult carries the identifiers created by Register
type RegisterResult struct {
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`
}

// VerifyEmailOTPRequest represents the email verification payload
// @Description Email OTP verification structure
type VerifyEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
	OTP   string `json:"otp" validate:"required" example:"4821"`
}

// ResendEmailOTPRequest represents the email resend payload
type ResendEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
}

// SendPhoneOTPRequest attaches a phone number to an account and issues a code for it
type SendPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required" example:"+2348012345678"`
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
}

// VerifyPhoneOTPRequest represents the phone verification payload
type VerifyPhoneOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
	Phone string `json:"phone" validate:"required" example:"+2348012345678"`
	OTP   string `json:"otp" validate:"required" example:"4821"`
}

// ResendPhoneOTPRequest represents the phone resend payload
type ResendPhoneOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
	Phone string `json:"phone" validate:"required" example:"+2348012345678"`
}

// SigninRequest represents the first signin step
// @Description Signin request structure
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

// SigninChallenge is returned by the first signin step
type SigninChallenge struct {
	Step  string `json:"step" example:"VERIFY_OTP"`
	Phone string `json:"phone" example:"+2348012345678"`
}

// VerifyLoginOTPRequest represents the second signin step
type VerifyLoginOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
	OTP   string `json:"otp" validate:"required" example:"4821"`
}

// SigninResult is returned once the signin challenge is answered
// @Description Signin response structure
type SigninResult struct {
	Token     string  `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    string  `json:"userId"`
	ProfileID *string `json:"profileId"`
}

// AuthCollaborators are the delivery, crypto and throttling dependencies of AuthService.
type AuthCollaborators struct {
	Hasher      PasswordHasher
	Tokens      TokenIssuer
	EmailSender OTPSender
	PhoneSender OTPSender
	Limiter     *ResendLimiter
	Blacklist   *TokenBlacklist
}

// AuthService drives the registration, verification and two-step signin flow.
// It is the only writer of a user's verification state.
//
// Signin follows the challenge policy: a verified email plus a correct password
// earns a phone code, and the token is only issued once that code is verified.
type AuthService struct {
	users     UserRepository
	profiles  ProfileRepository
	deps      AuthCollaborators
	validator *ValidationHelper
	otpTTL    time.Duration
	newCode   func() (string, error)
	now       func() time.Time
	log       *zap.Logger
}

func NewAuthService(users UserRepository, profiles ProfileRepository, deps AuthCollaborators, otpTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		profiles:  profiles,
		deps:      deps,
		validator: NewValidationHelper(),
		otpTTL:    otpTTL,
		newCode:   GenerateOTP,
		now:       time.Now,
		log:       logger.Named("auth"),
	}
}

// WithCodeGenerator replaces the OTP generator (e.g. for a configured code length).
func (s *AuthService) WithCodeGenerator(gen func() (string, error)) *AuthService {
	s.newCode = gen
	return s
}

// Register creates the user and its profile in one unit, then emails the first code.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email %w", ErrConflict)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	hash, err := s.deps.Hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.EmailVerification.Issue(code, now, s.otpTTL)

	profile := &models.Profile{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     strings.ToLower(req.FirstName + req.LastName),
		Balance:      models.NewBalance(),
		Transactions: models.Transactions{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("email %w", ErrConflict)
		}
		return nil, err
	}
	monitor.UsersRegisteredTotal.Inc()
	s.log.Info("user registered", zap.String("user_id", user.ID))

	if err := s.deps.EmailSender.SendOTP(ctx, email, code); err != nil {
		return nil, err
	}
	monitor.OTPIssuedTotal.WithLabelValues(channelEmail, "register").Inc()

	return &RegisterResult{UserID: user.ID, ProfileID: profile.ID}, nil
}

func (s *AuthService) VerifyEmailOTP(ctx context.Context, req VerifyEmailOTPRequest) error {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.check(user.EmailVerification, req.OTP, channelEmail); err != nil {
		return err
	}

	user.EmailVerification.Complete()
	if err := s.users.SaveEmailVerification(ctx, user); err != nil {
		return err
	}
	s.log.Info("email verified", zap.String("user_id", user.ID))
	return nil
}

// ResendEmailOTP replaces the pending email code; the previous one stops verifying.
func (s *AuthService) ResendEmailOTP(ctx context.Context, req ResendEmailOTPRequest) error {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.throttle(ctx, channelEmail, user.Email); err != nil {
		return err
	}

	code, err := s.issue(&user.EmailVerification)
	if err != nil {
		return err
	}
	if err := s.users.SaveEmailVerification(ctx, user); err != nil {
		return err
	}
	if err := s.deps.EmailSender.SendOTP(ctx, user.Email, code); err != nil {
		return err
	}
	monitor.OTPIssuedTotal.WithLabelValues(channelEmail, "resend").Inc()
	return nil
}

// SendPhoneOTP stores the phone number on the account and issues a code for it.
func (s *AuthService) SendPhoneOTP(ctx context.Context, req SendPhoneOTPRequest) error {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.throttle(ctx, channelPhone, user.Email); err != nil {
		return err
	}

	phone := strings.TrimSpace(req.Phone)
	if user.Phone == nil || *user.Phone != phone {
		user.PhoneVerification.Reset()
	}
	user.Phone = &phone
	code, err := s.issue(&user.PhoneVerification)
	if err != nil {
		return err
	}
	if err := s.users.SavePhoneVerification(ctx, user); err != nil {
		return err
	}
	monitor.OTPIssuedTotal.WithLabelValues(channelPhone, "verify").Inc()
	return s.deps.PhoneSender.SendOTP(ctx, phone, code)
}

func (s *AuthService) VerifyPhoneOTP(ctx context.Context, req VerifyPhoneOTPRequest) error {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.findByEmailAndPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if err := s.check(user.PhoneVerification, req.OTP, channelPhone); err != nil {
		return err
	}

	user.PhoneVerification.Complete()
	if err := s.users.SavePhoneVerification(ctx, user); err != nil {
		return err
	}
	s.log.Info("phone verified", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) ResendPhoneOTP(ctx context.Context, req ResendPhoneOTPRequest) error {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.findByEmailAndPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if err := s.throttle(ctx, channelPhone, user.Email); err != nil {
		return err
	}

	code, err := s.issue(&user.PhoneVerification)
	if err != nil {
		return err
	}
	if err := s.users.SavePhoneVerification(ctx, user); err != nil {
		return err
	}
	monitor.OTPIssuedTotal.WithLabelValues(channelPhone, "resend").Inc()
	return s.deps.PhoneSender.SendOTP(ctx, *user.Phone, code)
}

// SigninStart checks the password and sends a signin code to the phone on file.
func (s *AuthService) SigninStart(ctx context.Context, req SigninRequest) (*SigninChallenge, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !user.EmailVerification.Verified {
		return nil, ErrUnverified
	}
	if !s.deps.Hasher.Compare(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Phone == nil || *user.Phone == "" {
		return nil, ErrPhoneNotSet
	}

	code, err := s.issue(&user.PhoneVerification)
	if err != nil {
		return nil, err
	}
	if err := s.users.SavePhoneVerification(ctx, user); err != nil {
		return nil, err
	}
	monitor.OTPIssuedTotal.WithLabelValues(channelPhone, "signin").Inc()
	if err := s.deps.PhoneSender.SendOTP(ctx, *user.Phone, code); err != nil {
		return nil, err
	}

	return &SigninChallenge{Step: SigninStepVerifyOTP, Phone: *user.Phone}, nil
}

// SigninComplete answers the phone challenge and issues a token. The phone's
// verified flag is left as it was.
func (s *AuthService) SigninComplete(ctx context.Context, req VerifyLoginOTPRequest) (*SigninResult, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.check(user.PhoneVerification, req.OTP, channelPhone); err != nil {
		return nil, err
	}

	user.PhoneVerification.Consume()
	if err := s.users.SavePhoneVerification(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	result := &SigninResult{Token: token, UserID: user.ID}
	profile, err := s.profiles.FindSummaryByUserID(ctx, user.ID)
	switch {
	case err == nil:
		result.ProfileID = &profile.ID
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	monitor.SigninsTotal.Inc()
	s.log.Info("signin completed", zap.String("user_id", user.ID))
	return result, nil
}

// Logout revokes the bearer token when a blacklist is configured. Revocation
// failures are logged; the client discards its token either way.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.deps.Blacklist.Revoke(ctx, token); err != nil {
		s.log.Warn("failed to blacklist token", zap.Error(err))
	}
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return user, err
}

func (s *AuthService) findByEmailAndPhone(ctx context.Context, email, phone string) (*models.User, error) {
	user, err := s.users.FindByEmailAndPhone(ctx, normalizeEmail(email), strings.TrimSpace(phone))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return user, err
}

func (s *AuthService) issue(v *models.Verification) (string, error) {
	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	v.Issue(code, s.now().UTC(), s.otpTTL)
	return code, nil
}

func (s *AuthService) check(v models.Verification, code, channel string) error {
	err := v.Check(code, s.now().UTC())
	switch {
	case err == nil:
		monitor.OTPVerificationsTotal.WithLabelValues(channel, "ok").Inc()
		return nil
	case errors.Is(err, models.ErrCodeExpired):
		monitor.OTPVerificationsTotal.WithLabelValues(channel, "expired").Inc()
		return ErrOTPExpired
	default:
		monitor.OTPVerificationsTotal.WithLabelValues(channel, "invalid").Inc()
		return ErrInvalidOTP
	}
}

func (s *AuthService) throttle(ctx context.Context, kind, email string) error {
	ok, err := s.deps.Limiter.Allow(ctx, kind, email)
	if err != nil {
		// Redis trouble must not lock users out of their codes.
		s.log.Warn("otp rate limiter unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return ErrRateLimited
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
