package httputil

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// Claims are the token claims issued by the external auth system.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token on each request and attaches the
// authenticated actor to the request context. Requests without a valid
// token are rejected before reaching any handler.
func Auth(secret, issuer string) func(http.Handler) http.Handler {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				Error(w, errors.Unauthorized("missing bearer token"))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithIssuer(issuer),
			)
			if err != nil || !token.Valid {
				Error(w, errors.Unauthorized("invalid or expired token"))
				return
			}

			a := &actor.Actor{
				ID:      claims.Subject,
				Email:   claims.Email,
				Name:    claims.Name,
				IsStaff: claims.IsStaff,
			}

			if lu, ok := r.Context().Value(logUserKey).(*logUser); ok {
				lu.id = a.ID
			}

			next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), a)))
		})
	}
}

// RequireStaff blocks non-staff users before any mutation happens.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := actor.FromContext(r.Context())
		if a == nil {
			Error(w, errors.Unauthorized("authentication required"))
			return
		}
		if !a.IsStaff {
			Error(w, errors.Forbidden("staff privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
