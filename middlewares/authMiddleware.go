package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civiclink/models"
	authUtils "civiclink/utils"
)

const (
	// AuthCookie is the cookie set at login.
	AuthCookie = "auth_token"
	viewerKey  = "viewer"
	userIDKey  = "user_id"
)

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		viewer, err := authUtils.ParseToken(secret, tokenString)
		if err != nil {
			slog.Debug("token validation failed", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		setViewer(c, viewer)
		c.Next()
	}
}

// OptionalAuth attaches the viewer when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if viewer, err := authUtils.ParseToken(secret, tokenString); err == nil {
				setViewer(c, viewer)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ViewerFrom(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ViewerFrom returns the authenticated viewer, or nil for anonymous requests.
func ViewerFrom(c *gin.Context) *models.Viewer {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*models.Viewer)
	return viewer
}

func setViewer(c *gin.Context, viewer *models.Viewer) {
	c.Set(viewerKey, viewer)
	c.Set(userIDKey, viewer.ID)
}

// tokenFromRequest reads "Bearer <token>" from the Authorization header and
// falls back to the auth cookie.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.Request.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}
