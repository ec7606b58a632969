// Package services holds the issue lifecycle: creation, voting, moderation,
// comments and the read views built on top of the issue set.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"civiclink/metrics"
	"civiclink/models"
	"civiclink/repository"
)

const (
	maxWriteAttempts         = 3
	defaultEnrichmentTimeout = 5 * time.Second
	defaultGeocodeTimeout    = 3 * time.Second
)

// Sort orders accepted by ListIssues.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTop    = "top"
)

// Options configures an IssueService. Nil ports disable the matching feature.
type Options struct {
	Enricher          Enricher
	Geocoder          Geocoder
	GapCache          GapCache
	Logger            *slog.Logger
	EnrichmentTimeout time.Duration
	GeocodeTimeout    time.Duration
	Clock             func() time.Time
	NewID             func() string
}

type IssueService struct {
	issues   repository.IssueRepository
	enricher Enricher
	geocoder Geocoder
	gapCache GapCache
	logger   *slog.Logger

	enrichTimeout  time.Duration
	geocodeTimeout time.Duration
	now            func() time.Time
	newID          func() string

	validate *validator.Validate
	locks    *lockSet
	gaps     singleflight.Group
	wg       sync.WaitGroup
}

func NewIssueService(issues repository.IssueRepository, opts Options) *IssueService {
	s := &IssueService{
		issues:         issues,
		enricher:       opts.Enricher,
		geocoder:       opts.Geocoder,
		gapCache:       opts.GapCache,
		logger:         opts.Logger,
		enrichTimeout:  opts.EnrichmentTimeout,
		geocodeTimeout: opts.GeocodeTimeout,
		now:            opts.Clock,
		newID:          opts.NewID,
		validate:       newValidator(),
		locks:          newLockSet(),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.enrichTimeout <= 0 {
		s.enrichTimeout = defaultEnrichmentTimeout
	}
	if s.geocodeTimeout <= 0 {
		s.geocodeTimeout = defaultGeocodeTimeout
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Close waits for background enrichment to finish.
func (s *IssueService) Close() {
	s.wg.Wait()
}

// CreateIssueInput is a new report as submitted by a citizen. Latitude and
// Longitude are optional; when both are absent the address is geocoded.
type CreateIssueInput struct {
	Title       string               `json:"title" validate:"min=5"`
	Description string               `json:"description" validate:"min=10"`
	Category    models.IssueCategory `json:"category" validate:"civic_category"`
	Location    string               `json:"location" validate:"required"`
	ImageRef    string               `json:"imageRef"`
	Latitude    *float64             `json:"latitude"`
	Longitude   *float64             `json:"longitude"`
}

func (in *CreateIssueInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.ImageRef = strings.TrimSpace(in.ImageRef)
}

// CreateIssue validates and stores a new Open issue with no votes, then
// schedules enrichment in the background.
func (s *IssueService) CreateIssue(ctx context.Context, in CreateIssueInput, reporter *models.Viewer) (*models.Issue, error) {
	if reporter == nil {
		return nil, models.ErrUnauthorized
	}
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	issue := models.NewIssue(s.newID(), s.now())
	issue.Title = in.Title
	issue.Description = in.Description
	issue.Category = in.Category
	issue.ImageRef = in.ImageRef
	issue.Reporter = reporter.Ref()
	issue.Location = s.locate(ctx, in)

	if err := s.issues.Upsert(context.WithoutCancel(ctx), issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	metrics.IssuesCreated.WithLabelValues(string(issue.Category)).Inc()
	s.logger.Info("issue created",
		"issue_id", issue.ID,
		"category", issue.Category,
		"reporter", reporter.ID,
	)

	s.scheduleEnrichment(issue.Clone())
	return issue, nil
}

func (s *IssueService) locate(ctx context.Context, in CreateIssueInput) models.Location {
	loc := models.Location{Address: in.Location}
	if in.Latitude != nil && in.Longitude != nil {
		loc.Lat, loc.Lng = *in.Latitude, *in.Longitude
		return loc
	}
	if s.geocoder == nil {
		return loc
	}

	gctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()
	lat, lng, err := s.geocoder.Resolve(gctx, in.Location)
	if err != nil {
		s.logger.Warn("geocoding failed", "address", in.Location, "error", err)
		return loc
	}
	loc.Lat, loc.Lng = lat, lng
	return loc
}

// CastVote records, toggles or replaces the viewer's vote and re-evaluates
// the rejection threshold in the same write.
func (s *IssueService) CastVote(ctx context.Context, issueID string, voter *models.Viewer, d models.Direction) (*models.Issue, error) {
	if voter == nil {
		return nil, models.ErrUnauthorized
	}
	if !d.Valid() {
		return nil, models.NewValidationError("direction", "must be up or down")
	}

	var tr models.Transition
	issue, err := s.update(ctx, issueID, func(issue *models.Issue) error {
		_, t, err := issue.CastVote(voter.ID, d)
		if err != nil {
			return err
		}
		tr = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VotesCast.WithLabelValues(string(d)).Inc()
	if tr.Changed() {
		s.recordTransition(issue.ID, tr, "votes")
	}
	return issue, nil
}

// ChangeStatus is the administrative status override.
func (s *IssueService) ChangeStatus(ctx context.Context, issueID string, status models.IssueStatus, actor *models.Viewer) (*models.Issue, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status", "must be one of Open, In Progress, Resolved, Rejected")
	}

	var tr models.Transition
	issue, err := s.update(ctx, issueID, func(issue *models.Issue) error {
		t, err := issue.SetStatusByAdmin(status)
		if err != nil {
			return err
		}
		tr = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tr.Changed() {
		s.recordTransition(issue.ID, tr, "admin")
	}
	s.logger.Info("issue status set by admin",
		"issue_id", issue.ID,
		"status", issue.Status,
		"admin", actor.ID,
	)
	return issue, nil
}

func (s *IssueService) AddComment(ctx context.Context, issueID, text string, author *models.Viewer) (*models.Issue, error) {
	if author == nil {
		return nil, models.ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("text", "is required")
	}

	return s.update(ctx, issueID, func(issue *models.Issue) error {
		issue.AddComment(models.Comment{
			ID:        s.newID(),
			Text:      text,
			Author:    author.Ref(),
			CreatedAt: s.now(),
		})
		return nil
	})
}

func (s *IssueService) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	issue, err := s.issues.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", id, err)
	}
	return issue, nil
}

// IssueFilter narrows ListIssues. Empty fields match everything and the
// non-empty ones are combined with AND.
type IssueFilter struct {
	Status     models.IssueStatus
	Category   models.IssueCategory
	Priority   models.Priority
	ReporterID string
	Search     string
	Sort       string
}

func (f IssueFilter) Matches(issue *models.Issue) bool {
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Category != "" && issue.Category != f.Category {
		return false
	}
	if f.Priority != "" && issue.Priority != f.Priority {
		return false
	}
	if f.ReporterID != "" && issue.Reporter.ID != f.ReporterID {
		return false
	}
	return issue.MatchesSearch(strings.TrimSpace(f.Search))
}

func (s *IssueService) ListIssues(ctx context.Context, f IssueFilter) ([]*models.Issue, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	out := make([]*models.Issue, 0, len(all))
	for _, issue := range all {
		if f.Matches(issue) {
			out = append(out, issue)
		}
	}
	sortIssues(out, f.Sort)
	return out, nil
}

func sortIssues(issues []*models.Issue, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].CreatedAt.Before(issues[j].CreatedAt)
		})
	case SortTop:
		sort.SliceStable(issues, func(i, j int) bool {
			ni, nj := issues[i].NetScore(), issues[j].NetScore()
			if ni != nj {
				return ni > nj
			}
			return issues[i].CreatedAt.After(issues[j].CreatedAt)
		})
	default:
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].CreatedAt.After(issues[j].CreatedAt)
		})
	}
}

// update runs a read-modify-write against one issue under its lock,
// retrying when the repository reports a concurrent modification.
func (s *IssueService) update(ctx context.Context, id string, mutate func(*models.Issue) error) (*models.Issue, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		issue, err := s.issues.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load issue %s: %w", id, err)
		}
		if err := mutate(issue); err != nil {
			return nil, err
		}
		issue.UpdatedAt = s.now()

		err = s.issues.Upsert(context.WithoutCancel(ctx), issue)
		if err == nil {
			return issue, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("save issue %s: %w", id, err)
		}
		lastErr = err
		metrics.WriteConflicts.Inc()
		s.logger.Warn("issue write conflict", "issue_id", id, "attempt", attempt)
	}
	return nil, fmt.Errorf("save issue %s after %d attempts: %w", id, maxWriteAttempts, lastErr)
}

func (s *IssueService) recordTransition(id string, tr models.Transition, cause string) {
	metrics.StatusTransitions.WithLabelValues(string(tr.From), string(tr.To), cause).Inc()
	s.logger.Info("issue status changed",
		"issue_id", id,
		"from", tr.From,
		"to", tr.To,
		"reason", tr.Reason,
		"cause", cause,
	)
}
