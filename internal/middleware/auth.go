package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "userID"

type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// Authenticator validates bearer tokens and rejects ones revoked by logout.
type Authenticator struct {
	tokens    TokenParser
	blacklist *services.TokenBlacklist
	log       *zap.Logger
}

func NewAuthenticator(tokens TokenParser, blacklist *services.TokenBlacklist) *Authenticator {
	return &Authenticator{tokens: tokens, blacklist: blacklist, log: logger.Named("auth")}
}

// Middleware requires a valid bearer token and stores its user id on the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		token, ok := BearerToken(r)
		if !ok {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		a.serve(w, r, token, next)
	})
}

// QueryTokenMiddleware is Middleware for browser websockets, which cannot set
// headers: the token may also come from the "token" query parameter.
func (a *Authenticator) QueryTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			services.SendErrorResponse(w, "Authorization token required", http.StatusUnauthorized, nil)
			return
		}

		a.serve(w, r, token, next)
	})
}

func (a *Authenticator) serve(w http.ResponseWriter, r *http.Request, token string, next http.Handler) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
		return
	}

	revoked, err := a.blacklist.IsRevoked(r.Context(), token)
	if err != nil {
		a.log.Error("blacklist lookup failed", zap.Error(err))
		services.SendErrorResponse(w, "Server error", http.StatusInternalServerError, nil)
		return
	}
	if revoked {
		services.SendErrorResponse(w, "Token has been revoked", http.StatusUnauthorized, nil)
		return
	}

	next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
