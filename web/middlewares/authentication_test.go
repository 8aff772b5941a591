package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authentication(secret))
	r.GET("/hello", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "hello"})
	})
	return r
}

func TestAuthenticationBearerToken(t *testing.T) {
	secret := []byte("test-secret")
	r := newAuthRouter(secret)

	token, err := CreateJWT(secret, "kiosk-1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticationRejections(t *testing.T) {
	secret := []byte("test-secret")
	r := newAuthRouter(secret)

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{
			name:  "no credentials",
			setup: func(req *http.Request) {},
		},
		{
			name: "malformed header",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
		},
		{
			name: "wrong secret",
			setup: func(req *http.Request) {
				token, _ := CreateJWT([]byte("other-secret"), "kiosk-1", time.Hour)
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
		{
			name: "expired token",
			setup: func(req *http.Request) {
				token, _ := CreateJWT(secret, "kiosk-1", -time.Minute)
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/hello", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthenticationDeviceCookie(t *testing.T) {
	secret := []byte("test-secret")
	r := newAuthRouter(secret)

	token, err := CreateJWT(secret, "kiosk-1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.AddCookie(&http.Cookie{Name: "marktime.DeviceCookie", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
