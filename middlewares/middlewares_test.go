package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiclink/models"
	authUtils "civiclink/utils"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := authUtils.GenerateToken(secret, user, time.Hour)
	require.NoError(t, err)
	return token
}

func whoAmI(c *gin.Context) {
	v := ViewerFrom(c)
	if v == nil {
		c.JSON(http.StatusOK, gin.H{"id": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": v.ID, "role": v.Role})
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), whoAmI)
	token := tokenFor(t, &models.User{ID: "u1", Role: models.RoleCitizen})

	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w, _ = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, body := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", body["id"])

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	w, body = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", body["id"])
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/feed", OptionalAuth(secret), whoAmI)

	w, body := do(r, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body["id"])

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer expired-or-bad")
	w, body = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body["id"])

	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, &models.User{ID: "u2"}))
	_, body = do(r, req)
	assert.Equal(t, "u2", body["id"])
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(secret), RequireAdmin(), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, &models.User{ID: "u1", Role: models.RoleCitizen}))
	w, _ := do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, &models.User{ID: "a1", Role: models.RoleAdmin}))
	w, body := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", body["role"])
}

func TestIssueRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/issues", AuthMiddleware(secret), IssueRateLimiter(client, "issue_limit:", 2), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	token := tokenFor(t, &models.User{ID: "u1"})
	post := func() (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, "/issues", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return do(r, req)
	}

	w, _ := post()
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 24*time.Hour, mr.TTL("issue_limit:u1"))
	w, _ = post()
	assert.Equal(t, http.StatusCreated, w.Code)

	w, body := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.InDelta(t, (24 * time.Hour).Seconds(), body["retry_after"], 1)

	mr.FastForward(25 * time.Hour)
	w, _ = post()
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIssueRateLimiter_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/issues", IssueRateLimiter(nil, "issue_limit:", 1), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	for i := 0; i < 3; i++ {
		w, _ := do(r, httptest.NewRequest(http.MethodPost, "/issues", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
