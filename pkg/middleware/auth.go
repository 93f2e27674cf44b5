package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andydlo/neighborhood-connect/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserEmailKey is the context key for the authenticated user's email.
	// Emails are the user identifiers on every membership list.
	UserEmailKey ContextKey = "user_email"

	// UserUIDKey is the context key for the authenticated user's record key
	UserUIDKey ContextKey = "user_uid"
)

// Claims is the JWT payload issued at signup/login
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token identifying the user by email (subject)
// and profile record key.
func SignToken(secret, email, uid string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates a token and returns its claims.
func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Auth returns middleware that requires a valid Bearer token and puts the
// user's email and record key on the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := ParseToken(secret, parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserEmailKey, claims.Subject)
			ctx = context.WithValue(ctx, UserUIDKey, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserEmail extracts the authenticated user's email from the request
// context. The second return is false when no user is authenticated.
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok && email != ""
}

// GetUserUID extracts the authenticated user's profile record key.
func GetUserUID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}
