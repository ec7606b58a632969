package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"civiclink/models"
)

const (
	DefaultMapLimit = 19
	topVotedLimit   = 5
)

// DashboardStats counts issues per status.
type DashboardStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}

func (s *IssueService) Stats(ctx context.Context) (DashboardStats, error) {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("stats: %w", err)
	}
	var st DashboardStats
	for _, issue := range issues {
		st.Total++
		switch issue.Status {
		case models.Open:
			st.Open++
		case models.InProgress:
			st.InProgress++
		case models.Resolved:
			st.Resolved++
		case models.Rejected:
			st.Rejected++
		}
	}
	return st, nil
}

type CategoryCount struct {
	Name  models.IssueCategory `json:"name"`
	Value int                  `json:"value"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type VotedIssue struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Category models.IssueCategory `json:"category"`
	Votes    int                  `json:"votes"`
}

// Analytics is the admin dashboard breakdown of the issue set.
type Analytics struct {
	IssuesByCategory []CategoryCount `json:"issuesByCategory"`
	Last7Days        []DayCount      `json:"last7Days"`
	TopVotedIssues   []VotedIssue    `json:"topVotedIssues"`
	TotalIssues      int             `json:"totalIssues"`
	TotalVotes       int             `json:"totalVotes"`
	OpenIssues       int             `json:"openIssues"`
}

func (s *IssueService) Analytics(ctx context.Context) (Analytics, error) {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("analytics: %w", err)
	}

	a := Analytics{TotalIssues: len(issues)}
	byCategory := map[models.IssueCategory]int{}
	byDay := map[string]int{}
	voted := make([]VotedIssue, 0, len(issues))
	for _, issue := range issues {
		byCategory[issue.Category]++
		byDay[issue.CreatedAt.UTC().Format(time.DateOnly)]++
		up, down := issue.Votes.Tally()
		a.TotalVotes += up + down
		if issue.Status == models.Open || issue.Status == models.InProgress {
			a.OpenIssues++
		}
		voted = append(voted, VotedIssue{
			ID:       issue.ID,
			Title:    issue.Title,
			Category: issue.Category,
			Votes:    issue.NetScore(),
		})
	}

	for _, c := range models.Categories {
		if n := byCategory[c]; n > 0 {
			a.IssuesByCategory = append(a.IssuesByCategory, CategoryCount{Name: c, Value: n})
		}
	}

	today := s.now().UTC()
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		a.Last7Days = append(a.Last7Days, DayCount{Date: day, Count: byDay[day]})
	}

	sort.SliceStable(voted, func(i, j int) bool { return voted[i].Votes > voted[j].Votes })
	if len(voted) > topVotedLimit {
		voted = voted[:topVotedLimit]
	}
	a.TopVotedIssues = voted
	return a, nil
}

// MapPin is the projection of a geolocated issue used by the map feed.
type MapPin struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Location  string               `json:"location"`
	Category  models.IssueCategory `json:"category,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// RecentGeolocated returns up to limit of the newest issues that have
// coordinates.
func (s *IssueService) RecentGeolocated(ctx context.Context, limit int) ([]MapPin, error) {
	if limit <= 0 {
		limit = DefaultMapLimit
	}
	issues, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent issues: %w", err)
	}
	sortIssues(issues, SortNewest)

	pins := make([]MapPin, 0, limit)
	for _, issue := range issues {
		if !issue.Location.HasCoordinates() {
			continue
		}
		pins = append(pins, MapPin{
			ID:        issue.ID,
			Title:     issue.Title,
			Latitude:  issue.Location.Lat,
			Longitude: issue.Location.Lng,
			Location:  issue.Location.Address,
			Category:  issue.Category,
			CreatedAt: issue.CreatedAt,
		})
		if len(pins) == limit {
			break
		}
	}
	return pins, nil
}

// Profile computes the reputation view of one user.
func (s *IssueService) Profile(ctx context.Context, user models.UserRef) (models.Profile, error) {
	issues, err := s.ListIssues(ctx, IssueFilter{ReporterID: user.ID})
	if err != nil {
		return models.Profile{}, err
	}
	return models.BuildProfile(user, issues), nil
}

// Profiles computes reputation for every user in one pass over the issues.
// The returned profiles omit the issue lists.
func (s *IssueService) Profiles(ctx context.Context, users []*models.User) ([]models.Profile, error) {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	byReporter := map[string][]*models.Issue{}
	for _, issue := range issues {
		byReporter[issue.Reporter.ID] = append(byReporter[issue.Reporter.ID], issue)
	}

	out := make([]models.Profile, 0, len(users))
	for _, u := range users {
		p := models.BuildProfile(u.Ref(), byReporter[u.ID])
		p.Issues = nil
		out = append(out, p)
	}
	return out, nil
}

// GapAnalysis is the result of AnalyzeGaps. Assessed is false when the
// issue set was too small or the enricher was unavailable.
type GapAnalysis struct {
	Reports    []models.GapReport `json:"reports"`
	Assessed   bool               `json:"assessed"`
	IssueCount int                `json:"issueCount"`
	Cached     bool               `json:"cached"`
}

// AnalyzeGaps asks the enricher for clusters of recurring problems. Results
// are cached per issue set and concurrent callers share one enricher call.
func (s *IssueService) AnalyzeGaps(ctx context.Context) (GapAnalysis, error) {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return GapAnalysis{}, fmt.Errorf("gap analysis: %w", err)
	}
	res := GapAnalysis{Reports: []models.GapReport{}, IssueCount: len(issues)}
	if len(issues) < models.MinIssuesForGapAnalysis || s.enricher == nil {
		return res, nil
	}

	key := gapFingerprint(issues)
	if s.gapCache != nil {
		reports, ok, err := s.gapCache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("gap cache read failed", "error", err)
		} else if ok {
			res.Reports, res.Assessed, res.Cached = reports, true, true
			return res, nil
		}
	}

	v, err, _ := s.gaps.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.enrichTimeout)
		defer cancel()
		summaries := make([]models.IssueSummary, 0, len(issues))
		for _, issue := range issues {
			summaries = append(summaries, issue.Summary())
		}
		reports, err := s.enricher.AnalyzeGaps(ctx, summaries)
		if err != nil {
			return nil, err
		}
		if s.gapCache != nil {
			if err := s.gapCache.Set(ctx, key, reports); err != nil {
				s.logger.Warn("gap cache write failed", "error", err)
			}
		}
		return reports, nil
	})
	if err != nil {
		s.enrichmentFailed("gaps", "", err)
		return res, nil
	}

	if reports := v.([]models.GapReport); reports != nil {
		res.Reports = reports
	}
	res.Assessed = true
	return res, nil
}

func gapFingerprint(issues []*models.Issue) string {
	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	sort.Strings(ids)
	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return "gaps:" + hex.EncodeToString(h.Sum(nil))
}
