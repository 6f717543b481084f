package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"argus/pkg/platform/httputil"
)

// Investigator identity claims carried by API tokens.
type Claims struct {
	InvestigatorID string
	Role           string
}

type contextKeyClaims struct{}

// FromContext retrieves the authenticated investigator claims.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(contextKeyClaims{}).(Claims)
	return claims, ok
}

// Config holds the accepted credentials: an HMAC key for investigator JWTs
// and an optional bcrypt hash of the static ops API key.
type Config struct {
	JWTSigningKey []byte
	APIKeyHash    []byte // bcrypt hash; empty disables API-key auth
}

// RequireAuth authenticates requests via "Authorization: Bearer <jwt>" or the
// "X-API-Key" header checked against the configured bcrypt hash.
func RequireAuth(cfg Config, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get("X-API-Key"); key != "" && len(cfg.APIKeyHash) > 0 {
				if bcrypt.CompareHashAndPassword(cfg.APIKeyHash, []byte(key)) == nil {
					ctx := context.WithValue(r.Context(), contextKeyClaims{}, Claims{InvestigatorID: "ops", Role: "ops"})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
				return
			}

			header := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := parseToken(strings.TrimPrefix(header, bearerPrefix), cfg.JWTSigningKey)
			if err != nil {
				if logger != nil {
					logger.DebugContext(r.Context(), "token rejected", "error", err)
				}
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseToken(raw string, key []byte) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	return Claims{InvestigatorID: sub, Role: role}, nil
}
