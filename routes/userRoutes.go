package routes

import (
	"github.com/gin-gonic/gin"

	"civiclink/middlewares"
)

func UserRoutes(r *gin.Engine, d Deps) {
	users := r.Group("/api/users")
	{
		users.GET("/me/issues", middlewares.AuthMiddleware(d.JWTSecret), d.Issues.GetMyIssues)
		users.GET("/:id/profile", d.Users.GetProfile)
	}
}

func AdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(d.JWTSecret), middlewares.RequireAdmin())
	{
		admin.PUT("/issues/:id/status", d.Admin.UpdateStatus)
		admin.GET("/stats", d.Admin.Stats)
		admin.GET("/analytics", d.Admin.GetIssueAnalytics)
		admin.GET("/gaps", d.Admin.InfrastructureGaps)
		admin.GET("/users", d.Users.ListUsers)
	}
}
