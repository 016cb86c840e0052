package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func sessionRouter(gotID *uuid.UUID, gotRole *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		*gotID = GetUserID(c)
		*gotRole = GetUserRole(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	var gotID uuid.UUID
	var gotRole string
	r := sessionRouter(&gotID, &gotRole)

	userID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	var gotID uuid.UUID
	var gotRole string
	r := sessionRouter(&gotID, &gotRole)

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(), "role": "customer",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	wrongKey := signToken(t, "another-secret", jwt.MapClaims{
		"sub": uuid.New().String(), "role": "customer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	badSubject := signToken(t, testSecret, jwt.MapClaims{
		"sub": "not-a-uuid", "role": "customer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := map[string]string{
		"no header":       "",
		"not bearer":      "Basic abc",
		"expired token":   "Bearer " + expired,
		"wrong secret":    "Bearer " + wrongKey,
		"non-uuid sub":    "Bearer " + badSubject,
		"empty bearer":    "Bearer ",
		"garbage payload": "Bearer not.a.jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(testSecret), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	customer := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(), "role": "customer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(), "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
