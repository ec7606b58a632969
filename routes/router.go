// Package routes assembles the HTTP API.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"civiclink/controllers"
)

// Deps carries the handlers and middleware settings for the router.
type Deps struct {
	Auth   *controllers.AuthController
	Issues *controllers.IssueController
	Users  *controllers.UserController
	Admin  *controllers.AdminController

	JWTSecret       string
	Redis           *redis.Client
	IssueLimitKey   string
	IssueDailyLimit int
	CORSOrigins     []string
}

// NewRouter returns a gin engine with logging, recovery, CORS and every
// API route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	AuthRoutes(r, d)
	IssueRoutes(r, d)
	UserRoutes(r, d)
	AdminRoutes(r, d)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
