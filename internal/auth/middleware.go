package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/config"
	"storefront/internal/domain"
)

type contextKey struct{}

var actorKey contextKey

// ActorFrom returns the authenticated actor placed in the context by
// Middleware. The second return is false on routes that skipped it.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

type Middleware struct {
	cfg config.AuthConfig
}

func NewMiddleware(cfg config.AuthConfig) *Middleware {
	return &Middleware{cfg: cfg}
}

// Authenticate checks the Bearer token and injects the actor into the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.cfg.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauthorized(w, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w, "claims parsing error")
			return
		}

		if claims["iss"] != m.cfg.Issuer || claims["aud"] != m.cfg.Audience {
			unauthorized(w, "iss/aud mismatch")
			return
		}

		actor, ok := actorFromClaims(claims)
		if !ok {
			unauthorized(w, "invalid subject or role")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRoles rejects authenticated actors whose role is not listed.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				unauthorized(w, "missing actor")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			forbidden(w, "insufficient role")
		})
	}
}

func actorFromClaims(claims jwt.MapClaims) (domain.Actor, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, false
	}

	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return domain.Actor{}, false
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return domain.Actor{}, false
	}

	role := domain.Role(roleStr)
	switch role {
	case domain.RoleCustomer, domain.RoleOrderManager, domain.RoleAdmin:
	default:
		return domain.Actor{}, false
	}

	return domain.Actor{ID: uint(id), Role: role}, true
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Success: false, Message: message})
}

func forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, errorBody{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
