package services

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=services

import (
	"context"

	"civiclink/models"
)

// Enricher produces advisory annotations. Every call may fail independently;
// failures leave the issue unassessed and never fail the calling operation.
type Enricher interface {
	CategorizeImage(ctx context.Context, imageRef string) (*CategoryResult, error)
	PredictPriority(ctx context.Context, in PriorityInput) (*PriorityResult, error)
	AnalyzeGaps(ctx context.Context, issues []models.IssueSummary) ([]models.GapReport, error)
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (lat, lng float64, err error)
}

// GapCache stores gap analysis results keyed by a fingerprint of the issue set.
type GapCache interface {
	Get(ctx context.Context, key string) ([]models.GapReport, bool, error)
	Set(ctx context.Context, key string, reports []models.GapReport) error
}

type CategoryResult struct {
	Category   models.IssueCategory `json:"category"`
	Confidence float64              `json:"confidence"`
	Reasoning  string               `json:"reasoning,omitempty"`
}

type PriorityInput struct {
	Category    models.IssueCategory `json:"category"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
}

type PriorityResult struct {
	Priority      models.Priority `json:"priority"`
	Justification string          `json:"justification"`
}
