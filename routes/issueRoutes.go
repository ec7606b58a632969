package routes

import (
	"github.com/gin-gonic/gin"

	"civiclink/middlewares"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, d Deps) {
	requireAuth := middlewares.AuthMiddleware(d.JWTSecret)

	issue := r.Group("/api/issues", middlewares.OptionalAuth(d.JWTSecret))
	{
		issue.GET("", d.Issues.GetAllIssues)
		issue.GET("/recent", d.Issues.RecentIssues)
		issue.GET("/:id", d.Issues.GetIssue)
		issue.POST("", requireAuth,
			middlewares.IssueRateLimiter(d.Redis, d.IssueLimitKey, d.IssueDailyLimit),
			d.Issues.CreateIssue)
		issue.POST("/categorize", requireAuth, d.Issues.CategorizeImage)
		issue.POST("/:id/vote", requireAuth, d.Issues.VoteOnIssue)
		issue.POST("/:id/comments", requireAuth, d.Issues.AddComment)
	}
}
