package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"civiclink/metrics"
	"civiclink/models"
)

const patchTimeout = 10 * time.Second

// IsImageDataURI reports whether ref is an inline base64 image.
func IsImageDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:image/") && strings.Contains(ref, ";base64,")
}

// scheduleEnrichment annotates a freshly created issue in the background.
func (s *IssueService) scheduleEnrichment(issue *models.Issue) {
	if s.enricher == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.enrichTimeout)
		defer cancel()
		s.enrich(ctx, issue)
	}()
}

func (s *IssueService) enrich(ctx context.Context, issue *models.Issue) {
	var (
		priority *PriorityResult
		category *CategoryResult
		g        errgroup.Group
	)

	g.Go(func() error {
		res, err := s.enricher.PredictPriority(ctx, PriorityInput{
			Category:    issue.Category,
			Title:       issue.Title,
			Description: issue.Description,
		})
		if err == nil && !res.Priority.Valid() {
			err = fmt.Errorf("unexpected priority %q", res.Priority)
		}
		if err != nil {
			s.enrichmentFailed("priority", issue.ID, err)
			return nil
		}
		priority = res
		return nil
	})

	if IsImageDataURI(issue.ImageRef) {
		g.Go(func() error {
			res, err := s.enricher.CategorizeImage(ctx, issue.ImageRef)
			if err != nil {
				s.enrichmentFailed("category", issue.ID, err)
				return nil
			}
			category = res
			return nil
		})
	}
	_ = g.Wait()

	if priority == nil && category == nil {
		return
	}

	pctx, cancel := context.WithTimeout(context.Background(), patchTimeout)
	defer cancel()
	_, err := s.update(pctx, issue.ID, func(i *models.Issue) error {
		if priority != nil {
			i.Priority = priority.Priority
			i.PriorityJustification = priority.Justification
		}
		if category != nil {
			i.SuggestedCategory = category.Category
			i.CategoryConfidence = category.Confidence
		}
		now := s.now()
		i.EnrichedAt = &now
		return nil
	})
	if err != nil {
		s.logger.Error("storing enrichment failed", "issue_id", issue.ID, "error", err)
		return
	}
	s.logger.Debug("issue enriched", "issue_id", issue.ID)
}

func (s *IssueService) enrichmentFailed(kind, issueID string, err error) {
	metrics.EnrichmentFailures.WithLabelValues(kind).Inc()
	s.logger.Warn("enrichment failed", "kind", kind, "issue_id", issueID, "error", err)
}

// SuggestCategory categorizes an uploaded image for the report form. On
// any failure it returns the Other category with zero confidence together
// with ErrEnrichmentUnavailable.
func (s *IssueService) SuggestCategory(ctx context.Context, imageRef string) (*CategoryResult, error) {
	if !IsImageDataURI(imageRef) {
		return nil, models.NewValidationError("image", "must be a base64 image data URI")
	}
	fallback := &CategoryResult{Category: models.Other}
	if s.enricher == nil {
		return fallback, models.ErrEnrichmentUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()
	res, err := s.enricher.CategorizeImage(ctx, imageRef)
	if err != nil {
		s.enrichmentFailed("category", "", err)
		return fallback, fmt.Errorf("%w: %v", models.ErrEnrichmentUnavailable, err)
	}
	return res, nil
}
