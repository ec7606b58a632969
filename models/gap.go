package models

import "time"

// IssueSummary is the subset of an issue sent to gap analysis.
type IssueSummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Category    IssueCategory `json:"category"`
	Address     string        `json:"address"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// GapReport is an advisory cluster of recurring problems pointing at a
// missing piece of infrastructure.
type GapReport struct {
	ProblemArea        string   `json:"problemArea"`
	ProblemType        string   `json:"problemType"`
	Suggestion         string   `json:"suggestion"`
	SupportingIssueIDs []string `json:"supportingIssueIds"`
	Reasoning          string   `json:"reasoning"`
}

// MinIssuesForGapAnalysis is the smallest issue set worth analyzing.
const MinIssuesForGapAnalysis = 5
