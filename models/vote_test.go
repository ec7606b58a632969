package models

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteLedger_Cast(t *testing.T) {
	t.Run("first vote records direction", func(t *testing.T) {
		l := NewVoteLedger("issue-1")
		out, err := l.Cast("issue-1", "u1", Up)
		require.NoError(t, err)
		assert.Equal(t, VoteOutcome{UpDelta: 1, Direction: Up}, out)
		up, down := l.Tally()
		assert.Equal(t, 1, up)
		assert.Equal(t, 0, down)
	})

	t.Run("same direction toggles off", func(t *testing.T) {
		l := NewVoteLedger("issue-1")
		_, err := l.Cast("issue-1", "u1", Down)
		require.NoError(t, err)
		out, err := l.Cast("issue-1", "u1", Down)
		require.NoError(t, err)
		assert.Equal(t, VoteOutcome{DownDelta: -1, Direction: DirectionNone}, out)
		assert.Equal(t, 0, l.Net())
		assert.Empty(t, l.Votes())
	})

	t.Run("opposite direction replaces", func(t *testing.T) {
		l := NewVoteLedger("issue-1")
		_, err := l.Cast("issue-1", "u1", Up)
		require.NoError(t, err)
		out, err := l.Cast("issue-1", "u1", Down)
		require.NoError(t, err)
		assert.Equal(t, VoteOutcome{UpDelta: -1, DownDelta: 1, Direction: Down}, out)
		up, down := l.Tally()
		assert.Equal(t, 0, up)
		assert.Equal(t, 1, down)
		assert.Equal(t, Down, l.DirectionOf("u1"))
	})

	t.Run("errors", func(t *testing.T) {
		l := NewVoteLedger("issue-1")
		_, err := l.Cast("issue-1", "", Up)
		assert.ErrorIs(t, err, ErrInvalidVoter)
		_, err = l.Cast("issue-2", "u1", Up)
		assert.ErrorIs(t, err, ErrUnknownIssue)
		_, err = l.Cast("issue-1", "u1", Direction("sideways"))
		assert.ErrorIs(t, err, ErrInvalidDirection)
		assert.Empty(t, l.Votes())
	})
}

func TestVoteLedger_IdempotentToggle(t *testing.T) {
	for _, d := range []Direction{Up, Down} {
		l := NewVoteLedger("issue-1")
		_, err := l.Cast("issue-1", "other", Up)
		require.NoError(t, err)
		before := l

		_, err = l.Cast("issue-1", "u1", d)
		require.NoError(t, err)
		_, err = l.Cast("issue-1", "u1", d)
		require.NoError(t, err)

		assert.Equal(t, before.Up, l.Up, "direction %s", d)
		assert.Equal(t, before.Down, l.Down, "direction %s", d)
	}
}

func TestVoteLedger_SingleActiveVote(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := NewVoteLedger("issue-1")
	voters := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 500; i++ {
		voter := voters[rng.Intn(len(voters))]
		d := Up
		if rng.Intn(2) == 0 {
			d = Down
		}
		_, err := l.Cast("issue-1", voter, d)
		require.NoError(t, err)

		perVoter := map[string]int{}
		up, down := 0, 0
		for _, v := range l.Votes() {
			perVoter[v.VoterID]++
			if v.Direction == Up {
				up++
			} else {
				down++
			}
		}
		for voter, n := range perVoter {
			require.Equal(t, 1, n, fmt.Sprintf("voter %s has %d votes", voter, n))
		}
		require.Equal(t, up, l.Up)
		require.Equal(t, down, l.Down)
	}
}

func TestVoteLedger_CloneIsIndependent(t *testing.T) {
	l := NewVoteLedger("issue-1")
	_, err := l.Cast("issue-1", "u1", Up)
	require.NoError(t, err)

	c := l.clone()
	_, err = c.Cast("issue-1", "u2", Down)
	require.NoError(t, err)

	assert.Len(t, l.Ballots, 1)
	assert.Len(t, c.Ballots, 2)
}
