package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"civiclink/middlewares"
	"civiclink/models"
	"civiclink/services"
)

type AdminController struct {
	issues *services.IssueService
}

func NewAdminController(issues *services.IssueService) *AdminController {
	return &AdminController{issues: issues}
}

// UpdateStatus applies an administrative status change.
func (h *AdminController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status models.IssueStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	viewer := middlewares.ViewerFrom(c)
	issue, err := h.issues.ChangeStatus(ctx, c.Param("id"), input.Status, viewer)
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue, viewer))
}

func (h *AdminController) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.issues.Stats(ctx)
	if err != nil {
		respondError(c, err, "Failed to get stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetIssueAnalytics returns the dashboard breakdown.
func (h *AdminController) GetIssueAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	analytics, err := h.issues.Analytics(ctx)
	if err != nil {
		respondError(c, err, "Failed to get analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// InfrastructureGaps returns advisory clusters of recurring problems.
func (h *AdminController) InfrastructureGaps(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	gaps, err := h.issues.AnalyzeGaps(ctx)
	if err != nil {
		respondError(c, err, "Failed to analyze infrastructure gaps")
		return
	}
	c.JSON(http.StatusOK, gaps)
}
