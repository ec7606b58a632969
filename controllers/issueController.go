package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"civiclink/middlewares"
	"civiclink/models"
	"civiclink/services"
)

const requestTimeout = 10 * time.Second

type IssueController struct {
	issues *services.IssueService
}

func NewIssueController(issues *services.IssueService) *IssueController {
	return &IssueController{issues: issues}
}

// IssueResponse adds the viewer-relative fields to an issue.
type IssueResponse struct {
	*models.Issue
	NetScore int              `json:"netScore"`
	UserVote models.Direction `json:"userVote,omitempty"`
}

func issueResponse(issue *models.Issue, viewer *models.Viewer) IssueResponse {
	r := IssueResponse{Issue: issue, NetScore: issue.NetScore()}
	if viewer != nil {
		r.UserVote = issue.Votes.DirectionOf(viewer.ID)
	}
	return r
}

func issueResponses(issues []*models.Issue, viewer *models.Viewer) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issueResponse(issue, viewer))
	}
	return out
}

// CreateIssue handles the creation of a new issue
func (h *IssueController) CreateIssue(c *gin.Context) {
	var input services.CreateIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	viewer := middlewares.ViewerFrom(c)
	issue, err := h.issues.CreateIssue(ctx, input, viewer)
	if err != nil {
		respondError(c, err, "Failed to create issue")
		return
	}
	c.JSON(http.StatusCreated, issueResponse(issue, viewer))
}

// GetAllIssues lists issues with filtering, sorting and pagination.
func (h *IssueController) GetAllIssues(c *gin.Context) {
	filter := services.IssueFilter{
		Status:     models.IssueStatus(queryFilter(c, "status")),
		Category:   models.IssueCategory(queryFilter(c, "category")),
		Priority:   models.Priority(queryFilter(c, "priority")),
		ReporterID: c.Query("reporter"),
		Search:     c.Query("search"),
		Sort:       c.DefaultQuery("sort", services.SortNewest),
	}
	h.listIssues(c, filter)
}

// GetMyIssues lists the issues reported by the authenticated user.
func (h *IssueController) GetMyIssues(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	if viewer == nil {
		respondError(c, models.ErrUnauthorized, "")
		return
	}
	h.listIssues(c, services.IssueFilter{
		ReporterID: viewer.ID,
		Status:     models.IssueStatus(queryFilter(c, "status")),
		Sort:       c.DefaultQuery("sort", services.SortNewest),
	})
}

func (h *IssueController) listIssues(c *gin.Context, filter services.IssueFilter) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issues, err := h.issues.ListIssues(ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve issues")
		return
	}

	total := len(issues)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	c.JSON(http.StatusOK, gin.H{
		"issues":      issueResponses(issues[start:end], middlewares.ViewerFrom(c)),
		"totalIssues": total,
		"totalPages":  (total + limit - 1) / limit,
		"currentPage": page,
	})
}

// queryFilter reads a filter parameter, treating "all" as no filter.
func queryFilter(c *gin.Context, key string) string {
	v := c.Query(key)
	if v == "all" {
		return ""
	}
	return v
}

// GetIssue retrieves an issue by its ID
func (h *IssueController) GetIssue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := h.issues.GetIssue(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve issue")
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue, middlewares.ViewerFrom(c)))
}

// VoteOnIssue records, toggles or flips the caller's vote.
func (h *IssueController) VoteOnIssue(c *gin.Context) {
	var input struct {
		Direction models.Direction `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	viewer := middlewares.ViewerFrom(c)
	issue, err := h.issues.CastVote(ctx, c.Param("id"), viewer, input.Direction)
	if err != nil {
		respondError(c, err, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue, viewer))
}

// AddComment appends a comment from the caller.
func (h *IssueController) AddComment(c *gin.Context) {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	viewer := middlewares.ViewerFrom(c)
	issue, err := h.issues.AddComment(ctx, c.Param("id"), input.Text, viewer)
	if err != nil {
		respondError(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, issueResponse(issue, viewer))
}

// RecentIssues returns the most recent issues that have coordinates.
func (h *IssueController) RecentIssues(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultMapLimit)))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	pins, err := h.issues.RecentGeolocated(ctx, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve recent issues")
		return
	}
	c.JSON(http.StatusOK, pins)
}

// CategorizeImage suggests a category for a photo before the report is
// submitted. Failures fall back to Other with zero confidence.
func (h *IssueController) CategorizeImage(c *gin.Context) {
	var input struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.issues.SuggestCategory(c.Request.Context(), input.Image)
	switch {
	case errors.Is(err, models.ErrEnrichmentUnavailable):
		c.JSON(http.StatusOK, gin.H{"category": res.Category, "confidence": res.Confidence, "assessed": false})
	case err != nil:
		respondError(c, err, "Failed to categorize image")
	default:
		c.JSON(http.StatusOK, gin.H{
			"category":   res.Category,
			"confidence": res.Confidence,
			"reasoning":  res.Reasoning,
			"assessed":   true,
		})
	}
}
