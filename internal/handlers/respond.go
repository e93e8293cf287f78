package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/swap24/backend/internal/middleware"
	"github.com/swap24/backend/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1_048_576

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message" example:"Email verified successfully"`
}

// decodeJSON reads exactly one JSON object into dst. It writes the 400 itself
// and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps the service error taxonomy onto HTTP. Client errors
// carry the service message; everything else is logged and reported generically.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		// Tag failures are reported per field in details, never as validator text.
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			services.SendErrorResponse(w, services.ErrValidation.Error(), http.StatusBadRequest, err)
			return
		}
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrUnverified),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrPhoneNotSet):
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrConflict):
		services.SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	case errors.Is(err, services.ErrNotFound):
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
	case errors.Is(err, services.ErrRateLimited):
		services.SendErrorResponse(w, err.Error(), http.StatusTooManyRequests, nil)
	default:
		log.Error("request failed", zap.Error(err))
		services.SendErrorResponse(w, "Server error", http.StatusInternalServerError, nil)
	}
}

// authorizeUser checks that the authenticated caller acts on their own account.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	caller, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return false
	}
	if userID != caller {
		services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
		return false
	}
	return true
}
