package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"civiclink/services"
)

type UserController struct {
	users  *services.UserService
	issues *services.IssueService
}

func NewUserController(users *services.UserService, issues *services.IssueService) *UserController {
	return &UserController{users: users, issues: issues}
}

// GetProfile returns a user's reported issues with karma and civic score.
func (h *UserController) GetProfile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	profile, err := h.issues.Profile(ctx, user.Ref())
	if err != nil {
		respondError(c, err, "Failed to build profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           userJSON(user),
		"issuesAuthored": profile.IssuesAuthored,
		"karma":          profile.Karma,
		"civicScore":     profile.CivicScore,
		"issues":         issueResponses(profile.Issues, nil),
	})
}

// ListUsers is the admin user table.
func (h *UserController) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}
	profiles, err := h.issues.Profiles(ctx, users)
	if err != nil {
		respondError(c, err, "Failed to build profiles")
		return
	}

	rows := make([]gin.H, 0, len(users))
	for i, user := range users {
		row := userJSON(user)
		row["issuesAuthored"] = profiles[i].IssuesAuthored
		row["karma"] = profiles[i].Karma
		row["civicScore"] = profiles[i].CivicScore
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{"users": rows})
}
