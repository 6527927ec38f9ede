package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/config"
	"storefront/internal/domain"
)

// SignToken issues an HMAC token for the given actor. The service only
// verifies tokens in production; signing lives here for tests and local
// tooling.
func SignToken(cfg config.AuthConfig, actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(actor.ID), 10),
		"role": string(actor.Role),
		"iss":  cfg.Issuer,
		"aud":  cfg.Audience,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
