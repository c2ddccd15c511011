package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorly-ai-api/pkg/utils"
)

const testSecret = "test-secret"

func newAuthRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Auth(AuthConfig{
		Enabled:   enabled,
		Secret:    testSecret,
		Issuer:    "interiorly",
		SkipPaths: DefaultSkipPaths,
	}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/v1/suggestions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return engine
}

func TestAuthRejectsMissingToken(t *testing.T) {
	engine := newAuthRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	engine := newAuthRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsRefreshToken(t *testing.T) {
	engine := newAuthRouter(true)

	token, err := utils.NewJWTManager(testSecret, "interiorly").GenerateToken("u1", "user", "refresh", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsAccessToken(t *testing.T) {
	engine := newAuthRouter(true)

	token, err := utils.NewJWTManager(testSecret, "interiorly").GenerateToken("u1", "user", "access", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestAuthSkipsHealthEndpoints(t *testing.T) {
	engine := newAuthRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	engine := newAuthRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
