// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const sessionKey ContextKey = "session"

// Session is the authenticated caller of a request.
type Session struct {
	UserID uuid.UUID
	Role   string
}

// SessionClaims is implemented by validated token claims.
type SessionClaims interface {
	GetUserID() uuid.UUID
	GetRole() string
}

// TokenValidator validates a bearer token. It lets the middleware work with
// any JWT implementation without importing it.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's Session in the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			session := Session{UserID: claims.GetUserID(), Role: claims.GetRole()}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole allows only sessions holding role. It must run after
// AuthMiddleware; a request without a session is unauthorized.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			if session.Role != role {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the session stored by AuthMiddleware.
func GetSession(r *http.Request) (Session, bool) {
	session, ok := r.Context().Value(sessionKey).(Session)
	return session, ok && session.UserID != uuid.Nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	session, ok := GetSession(r)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return session.UserID, nil
}

//nolint:errcheck // response already committed
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
