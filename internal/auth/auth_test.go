package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	InitJWT("test-secret")
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "gaurab", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "gaurab", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.String(http.StatusOK, fmt.Sprint(id))
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware())
	token, err := GenerateToken(7, "samc", "user")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Token abc", "", http.StatusUnauthorized},
		{"invalid", "Bearer abc", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + token, "", http.StatusOK},
		{"valid query", "", "?access_token=" + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	token, _ := GenerateToken(9, "ada", "user")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "9", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := newRouter(AuthMiddleware(), RequireRole("admin"))

	userToken, _ := GenerateToken(1, "user", "user")
	adminToken, _ := GenerateToken(2, "boss", "admin")

	for token, want := range map[string]int{userToken: http.StatusForbidden, adminToken: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("!", "secret1"))
}

func TestFriendlyMessage(t *testing.T) {
	for _, code := range []string{CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential} {
		assert.Equal(t, "Invalid email or password. Please try again.", FriendlyMessage(code))
	}
	assert.Equal(t, "Please enter a valid email address.", FriendlyMessage(CodeInvalidEmail))
	assert.Equal(t, "This email address is already registered.", FriendlyMessage(CodeEmailAlreadyInUse))
	assert.Equal(t, "Something went wrong. Please try again later.", FriendlyMessage("network-request-failed"))

	assert.Equal(t, "Login failed. Please try again later.", LoginMessage(fmt.Errorf("db down")))
	assert.Equal(t, "Failed to create account. Please try again.", SignupMessage(fmt.Errorf("db down")))
	assert.Equal(t, "This username is already taken.", SignupMessage(fmt.Errorf("wrap: %w", NewError(CodeUsernameTaken))))
}
