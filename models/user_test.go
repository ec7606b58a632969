package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{Password: "secret123"}
	require.NoError(t, u.HashPassword())
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.ComparePassword("secret123"))
	assert.False(t, u.ComparePassword("wrong"))
}

func TestViewerIsAdmin(t *testing.T) {
	var anon *Viewer
	assert.False(t, anon.IsAdmin())
	assert.False(t, (&Viewer{ID: "u1", Role: RoleCitizen}).IsAdmin())
	assert.True(t, (&Viewer{ID: "u1", Role: RoleAdmin}).IsAdmin())

	u := &User{ID: "u2", Name: "Rohan Mehta", AvatarURL: "a.png", Role: RoleAdmin}
	assert.Equal(t, &Viewer{ID: "u2", Name: "Rohan Mehta", AvatarURL: "a.png", Role: RoleAdmin}, u.Viewer())
	assert.Equal(t, u.Ref(), u.Viewer().Ref())
}

func TestBuildProfile(t *testing.T) {
	aarav := UserRef{ID: "user-1", Name: "Aarav Sharma"}
	priya := UserRef{ID: "user-2", Name: "Priya Patel"}

	mk := func(id string, reporter UserRef, up, down int) *Issue {
		issue := NewIssue(id, time.Now())
		issue.Reporter = reporter
		for i := 0; i < up; i++ {
			_, _, err := issue.CastVote(id+"-up-"+string(rune('a'+i)), Up)
			require.NoError(t, err)
		}
		for i := 0; i < down; i++ {
			_, _, err := issue.CastVote(id+"-down-"+string(rune('a'+i)), Down)
			require.NoError(t, err)
		}
		return issue
	}

	issues := []*Issue{
		mk("i1", aarav, 5, 2),
		mk("i2", aarav, 1, 0),
		mk("i3", priya, 7, 0),
	}

	p := BuildProfile(aarav, issues)
	assert.Equal(t, 2, p.IssuesAuthored)
	assert.Equal(t, 4, p.Karma)
	assert.Equal(t, 24, p.CivicScore)
	assert.Len(t, p.Issues, 2)

	empty := BuildProfile(UserRef{ID: "nobody"}, issues)
	assert.Zero(t, empty.CivicScore)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "too short", "category": "unknown"}}
	assert.Equal(t, "validation failed: category: unknown; title: too short", err.Error())
}
