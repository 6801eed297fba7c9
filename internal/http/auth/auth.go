// Package auth turns a bearer token into the caller's inventory role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type ctxKey struct{}

type Claims struct {
	Role inventory.Role `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues an HS256 token for role, valid for ttl.
func Sign(secret []byte, subject string, role inventory.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Parse validates a token and returns its claims.
func Parse(secret []byte, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Middleware attaches the role of a bearer token to the request context.
// Requests without a token go through with no role, which is enough for
// every operation except the restricted ones. A malformed or expired token
// is rejected.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || len(secret) == 0 {
				respond.Error(w, http.StatusUnauthorized, "authorization must be 'Bearer <token>'")
				return
			}

			claims, err := Parse(secret, strings.TrimSpace(raw))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), claims.Role)))
		})
	}
}

func WithRole(ctx context.Context, role inventory.Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

// RoleFrom returns the caller's role, empty when none was presented.
func RoleFrom(ctx context.Context) inventory.Role {
	role, _ := ctx.Value(ctxKey{}).(inventory.Role)
	return role
}
