package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "stocker-auth"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func staffClaims() Claims {
	return Claims{
		Email:   "jane@pharmacy.test",
		Name:    "Jane Doe",
		IsStaff: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// echoActor records the actor the middleware attached to the context
func echoActor(captured **actor.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = actor.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	var captured *actor.Actor
	handler := Auth(testSecret, testIssuer)(echoActor(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, staffClaims()))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", captured.ID)
	assert.Equal(t, "jane@pharmacy.test", captured.Email)
	assert.Equal(t, "Jane Doe", captured.Name)
	assert.True(t, captured.IsStaff)
}

func TestAuth_MissingHeader(t *testing.T) {
	var captured *actor.Actor
	handler := Auth(testSecret, testIssuer)(echoActor(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, captured)
}

func TestAuth_WrongSecret(t *testing.T) {
	var captured *actor.Actor
	handler := Auth(testSecret, testIssuer)(echoActor(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", staffClaims()))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, captured)
}

func TestAuth_ExpiredToken(t *testing.T) {
	var captured *actor.Actor
	handler := Auth(testSecret, testIssuer)(echoActor(&captured))

	claims := staffClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_WrongIssuer(t *testing.T) {
	var captured *actor.Actor
	handler := Auth(testSecret, testIssuer)(echoActor(&captured))

	claims := staffClaims()
	claims.Issuer = "someone-else"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireStaff(ok)

	t.Run("no actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-staff actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := actor.WithActor(req.Context(), &actor.Actor{ID: "u1", IsStaff: false})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("staff actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := actor.WithActor(req.Context(), &actor.Actor{ID: "u1", IsStaff: true})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRequireStaff_ScopedToMutations(t *testing.T) {
	// Routes split the way the server wires them: reads need only a valid
	// token, mutations additionally need staff privileges.
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := chi.NewRouter()
	r.Use(Auth(testSecret, testIssuer))
	r.Get("/products", ok)
	r.With(RequireStaff).Post("/products", ok)

	claims := staffClaims()
	claims.IsStaff = false
	token := signToken(t, testSecret, claims)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
