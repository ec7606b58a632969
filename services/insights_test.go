package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"civiclink/models"
	"civiclink/repository"
)

func seedIssues(t *testing.T, repo repository.IssueRepository, issues ...*models.Issue) {
	t.Helper()
	for _, issue := range issues {
		require.NoError(t, repo.Upsert(context.Background(), issue))
	}
}

func stored(id string, category models.IssueCategory, status models.IssueStatus, reporter string, created time.Time) *models.Issue {
	issue := models.NewIssue(id, created)
	issue.Title = "Issue " + id
	issue.Category = category
	issue.Status = status
	issue.Reporter = models.UserRef{ID: reporter}
	issue.Location = models.Location{Address: "Pune"}
	return issue
}

func TestStats(t *testing.T) {
	repo := repository.NewMemoryIssueRepository()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	seedIssues(t, repo,
		stored("a", models.Potholes, models.Open, "u1", now),
		stored("b", models.Potholes, models.InProgress, "u1", now),
		stored("c", models.BlockedDrains, models.Resolved, "u2", now),
		stored("d", models.Other, models.Rejected, "u2", now),
		stored("e", models.Other, models.Open, "u2", now),
	)
	svc := newTestService(t, repo, Options{})

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Total: 5, Open: 2, InProgress: 1, Resolved: 1, Rejected: 1}, st)
}

func TestAnalytics(t *testing.T) {
	repo := repository.NewMemoryIssueRepository()
	today := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	popular := stored("popular", models.Potholes, models.Open, "u1", today)
	for _, v := range []string{"x", "y", "z"} {
		_, _, err := popular.CastVote(v, models.Up)
		require.NoError(t, err)
	}
	disliked := stored("disliked", models.Other, models.InProgress, "u2", today.AddDate(0, 0, -2))
	_, _, err := disliked.CastVote("x", models.Down)
	require.NoError(t, err)
	old := stored("old", models.Potholes, models.Resolved, "u2", today.AddDate(0, 0, -30))

	seedIssues(t, repo, popular, disliked, old)
	svc := newTestService(t, repo, Options{Clock: func() time.Time { return today }})

	a, err := svc.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, a.TotalIssues)
	assert.Equal(t, 4, a.TotalVotes)
	assert.Equal(t, 2, a.OpenIssues)
	assert.Equal(t, []CategoryCount{
		{Name: models.Potholes, Value: 2},
		{Name: models.Other, Value: 1},
	}, a.IssuesByCategory)

	require.Len(t, a.Last7Days, 7)
	assert.Equal(t, DayCount{Date: "2024-06-04", Count: 0}, a.Last7Days[0])
	assert.Equal(t, DayCount{Date: "2024-06-08", Count: 1}, a.Last7Days[4])
	assert.Equal(t, DayCount{Date: "2024-06-10", Count: 1}, a.Last7Days[6])

	require.Len(t, a.TopVotedIssues, 3)
	assert.Equal(t, "popular", a.TopVotedIssues[0].ID)
	assert.Equal(t, 3, a.TopVotedIssues[0].Votes)
	assert.Equal(t, "disliked", a.TopVotedIssues[2].ID)
}

func TestRecentGeolocated(t *testing.T) {
	repo := repository.NewMemoryIssueRepository()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var issues []*models.Issue
	for i, id := range []string{"p1", "p2", "p3", "p4"} {
		issue := stored(id, models.Potholes, models.Open, "u1", base.Add(time.Duration(i)*time.Hour))
		if id != "p3" {
			issue.Location.Lat, issue.Location.Lng = 18.5+float64(i)/100, 73.8
		}
		issues = append(issues, issue)
	}
	seedIssues(t, repo, issues...)
	svc := newTestService(t, repo, Options{})

	pins, err := svc.RecentGeolocated(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, "p4", pins[0].ID)
	assert.Equal(t, "p2", pins[1].ID)
	assert.Equal(t, "Pune", pins[0].Location)

	pins, err = svc.RecentGeolocated(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, pins, 3)
}

func TestProfiles(t *testing.T) {
	repo := repository.NewMemoryIssueRepository()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	a := stored("a", models.Potholes, models.Open, "u1", now)
	_, _, err := a.CastVote("x", models.Up)
	require.NoError(t, err)
	b := stored("b", models.Other, models.Open, "u1", now.Add(time.Hour))
	_, _, err = b.CastVote("x", models.Down)
	require.NoError(t, err)
	_, _, err = b.CastVote("y", models.Down)
	require.NoError(t, err)
	seedIssues(t, repo, a, b, stored("c", models.Other, models.Open, "u2", now))
	svc := newTestService(t, repo, Options{})

	p, err := svc.Profile(context.Background(), models.UserRef{ID: "u1", Name: "Aarav"})
	require.NoError(t, err)
	assert.Equal(t, 2, p.IssuesAuthored)
	assert.Equal(t, -1, p.Karma)
	assert.Equal(t, 19, p.CivicScore)
	require.Len(t, p.Issues, 2)
	assert.Equal(t, "b", p.Issues[0].ID)

	users := []*models.User{{ID: "u1", Name: "Aarav"}, {ID: "u2", Name: "Diya"}, {ID: "u3", Name: "Kabir"}}
	profiles, err := svc.Profiles(context.Background(), users)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, 19, profiles[0].CivicScore)
	assert.Nil(t, profiles[0].Issues)
	assert.Equal(t, 10, profiles[1].CivicScore)
	assert.Equal(t, 0, profiles[2].CivicScore)
}

func gapRepo(t *testing.T, n int) repository.IssueRepository {
	t.Helper()
	repo := repository.NewMemoryIssueRepository()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		seedIssues(t, repo, stored(string(rune('a'+i)), models.BlockedDrains, models.Open, "u1", now.Add(time.Duration(i)*time.Minute)))
	}
	return repo
}

func TestAnalyzeGaps_TooFewIssues(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := NewMockEnricher(ctrl)
	svc := newTestService(t, gapRepo(t, 4), Options{Enricher: enricher})

	res, err := svc.AnalyzeGaps(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Assessed)
	assert.Empty(t, res.Reports)
	assert.Equal(t, 4, res.IssueCount)
}

func TestAnalyzeGaps_CachesReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := NewMockEnricher(ctrl)
	cache := NewMockGapCache(ctrl)
	report := models.GapReport{
		ProblemArea:        "Kothrud",
		ProblemType:        "Drainage",
		Suggestion:         "Upgrade storm water drains",
		SupportingIssueIDs: []string{"a", "b"},
		Reasoning:          "Repeated blockages after rain.",
	}

	var key string
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, k string) ([]models.GapReport, bool, error) {
			key = k
			return nil, false, nil
		})
	enricher.EXPECT().AnalyzeGaps(gomock.Any(), gomock.Len(5)).Return([]models.GapReport{report}, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), []models.GapReport{report}).Return(nil)

	svc := newTestService(t, gapRepo(t, 5), Options{Enricher: enricher, GapCache: cache})
	res, err := svc.AnalyzeGaps(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Assessed)
	assert.False(t, res.Cached)
	assert.Equal(t, []models.GapReport{report}, res.Reports)
	assert.Contains(t, key, "gaps:")

	cache.EXPECT().Get(gomock.Any(), key).Return([]models.GapReport{report}, true, nil)
	res, err = svc.AnalyzeGaps(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, []models.GapReport{report}, res.Reports)
}

func TestAnalyzeGaps_EnricherFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := NewMockEnricher(ctrl)
	enricher.EXPECT().AnalyzeGaps(gomock.Any(), gomock.Any()).Return(nil, errors.New("overloaded"))

	svc := newTestService(t, gapRepo(t, 6), Options{Enricher: enricher})
	res, err := svc.AnalyzeGaps(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Assessed)
	assert.NotNil(t, res.Reports)
	assert.Empty(t, res.Reports)
}

func TestGapFingerprintIgnoresOrder(t *testing.T) {
	now := time.Now()
	a := stored("a", models.Other, models.Open, "u", now)
	b := stored("b", models.Other, models.Open, "u", now)
	c := stored("c", models.Other, models.Open, "u", now)

	assert.Equal(t, gapFingerprint([]*models.Issue{a, b}), gapFingerprint([]*models.Issue{b, a}))
	assert.NotEqual(t, gapFingerprint([]*models.Issue{a, b}), gapFingerprint([]*models.Issue{a, b, c}))
}
