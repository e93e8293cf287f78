package handlers

import (
	"context"
	"net/http"

	"github.com/swap24/backend/internal/middleware"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type AuthAPI interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.RegisterResult, error)
	VerifyEmailOTP(ctx context.Context, req services.VerifyEmailOTPRequest) error
	ResendEmailOTP(ctx context.Context, req services.ResendEmailOTPRequest) error
	SendPhoneOTP(ctx context.Context, req services.SendPhoneOTPRequest) error
	VerifyPhoneOTP(ctx context.Context, req services.VerifyPhoneOTPRequest) error
	ResendPhoneOTP(ctx context.Context, req services.ResendPhoneOTPRequest) error
	SigninStart(ctx context.Context, req services.SigninRequest) (*services.SigninChallenge, error)
	SigninComplete(ctx context.Context, req services.VerifyLoginOTPRequest) (*services.SigninResult, error)
	Logout(ctx context.Context, token string)
}

// RegisterResponse is returned with 201 after registration
type RegisterResponse struct {
	Message string `json:"message" example:"User registered. OTP sent to email"`
	services.RegisterResult
}

// SigninChallengeResponse asks the client for the phone code
type SigninChallengeResponse struct {
	Message string `json:"message" example:"OTP sent to phone. Please verify before signing in"`
	services.SigninChallenge
}

// SigninResponse carries the issued token
type SigninResponse struct {
	Message string `json:"message" example:"Signin successful"`
	services.SigninResult
}

type AuthHandler struct {
	service AuthAPI
	log     *zap.Logger
}

func NewAuthHandler(service AuthAPI) *AuthHandler {
	return &AuthHandler{service: service, log: logger.Named("auth")}
}

// Register creates an account and emails a verification code
// @Summary Register
// @Description Create a user and profile, then send an email OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message:        "User registered. OTP sent to email",
		RegisterResult: *result,
	})
}

// VerifyOTP verifies the email code
// @Summary Verify email OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.VerifyEmailOTPRequest true "Verification request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyEmailOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyEmailOTP(r.Context(), req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Email verified successfully"})
}

// ResendOTP issues a fresh email code
// @Summary Resend email OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.ResendEmailOTPRequest true "Resend request"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req services.ResendEmailOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResendEmailOTP(r.Context(), req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "New OTP has been sent to your email"})
}

// SendPhoneOTP attaches a phone number and issues a code for it
// @Summary Send phone OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.SendPhoneOTPRequest true "Phone request"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/send-otp-phone [post]
func (h *AuthHandler) SendPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req services.SendPhoneOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SendPhoneOTP(r.Context(), req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "OTP generated (check console log)"})
}

// VerifyPhoneOTP verifies the phone code
// @Summary Verify phone OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.VerifyPhoneOTPRequest true "Verification request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/verify-otp-phone [post]
func (h *AuthHandler) VerifyPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPhoneOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyPhoneOTP(r.Context(), req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Phone number verified successfully"})
}

// ResendPhoneOTP issues a fresh phone code
// @Summary Resend phone OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.ResendPhoneOTPRequest true "Resend request"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Router /auth/resend-otp-phone [post]
func (h *AuthHandler) ResendPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req services.ResendPhoneOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResendPhoneOTP(r.Context(), req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "New OTP generated (check console log)"})
}

// Signin checks the password and sends a phone code
// @Summary Signin (step 1)
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.SigninRequest true "Signin request"
// @Success 200 {object} SigninChallengeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req services.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	challenge, err := h.service.SigninStart(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SigninChallengeResponse{
		Message:         "OTP sent to phone. Please verify before signing in",
		SigninChallenge: *challenge,
	})
}

// VerifyLoginOTP answers the signin challenge and returns a token
// @Summary Signin (step 2)
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.VerifyLoginOTPRequest true "Login OTP"
// @Success 200 {object} SigninResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/verify-login-otp [post]
func (h *AuthHandler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyLoginOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.SigninComplete(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SigninResponse{Message: "Signin successful", SigninResult: *result})
}

// Logout revokes the bearer token, if one is sent
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		h.service.Logout(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful. Please delete token on client."})
}
