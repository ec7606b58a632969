package models

import (
	"fmt"
	"sort"
)

// Direction is a voter's stance on an issue.
type Direction string

const (
	DirectionNone Direction = ""
	Up            Direction = "up"
	Down          Direction = "down"
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Vote represents a user's vote on an issue
type Vote struct {
	IssueID   string    `json:"issueId"`
	VoterID   string    `json:"voterId"`
	Direction Direction `json:"direction"`
}

// VoteOutcome is the effect of a single Cast call.
type VoteOutcome struct {
	UpDelta   int       `json:"upDelta"`
	DownDelta int       `json:"downDelta"`
	Direction Direction `json:"direction"`
}

// VoteLedger records who voted what on a single issue. It is stored inside
// the issue document so ballots and tally always commit together.
//
// Up and Down are recomputed from Ballots after every mutation and are kept
// on the document only so readers and queries need not walk the ballots.
type VoteLedger struct {
	IssueID string               `bson:"issueId" json:"-"`
	Ballots map[string]Direction `bson:"ballots" json:"-"`
	Up      int                  `bson:"up" json:"up"`
	Down    int                  `bson:"down" json:"down"`
}

// NewVoteLedger returns an empty ledger scoped to issueID.
func NewVoteLedger(issueID string) VoteLedger {
	return VoteLedger{IssueID: issueID, Ballots: map[string]Direction{}}
}

// Cast records voterID's vote. Casting the current direction again removes
// the vote; casting the opposite direction replaces it.
func (l *VoteLedger) Cast(issueID, voterID string, d Direction) (VoteOutcome, error) {
	if voterID == "" {
		return VoteOutcome{}, ErrInvalidVoter
	}
	if issueID == "" || issueID != l.IssueID {
		return VoteOutcome{}, fmt.Errorf("%w: %s", ErrUnknownIssue, issueID)
	}
	if !d.Valid() {
		return VoteOutcome{}, fmt.Errorf("%w: %q", ErrInvalidDirection, d)
	}
	if l.Ballots == nil {
		l.Ballots = map[string]Direction{}
	}

	var out VoteOutcome
	prev := l.Ballots[voterID]
	switch prev {
	case d:
		delete(l.Ballots, voterID)
		out.Direction = DirectionNone
		out.add(d, -1)
	case DirectionNone:
		l.Ballots[voterID] = d
		out.Direction = d
		out.add(d, 1)
	default:
		l.Ballots[voterID] = d
		out.Direction = d
		out.add(prev, -1)
		out.add(d, 1)
	}

	l.recount()
	return out, nil
}

func (o *VoteOutcome) add(d Direction, n int) {
	if d == Up {
		o.UpDelta += n
	} else {
		o.DownDelta += n
	}
}

func (l *VoteLedger) recount() {
	up, down := 0, 0
	for _, d := range l.Ballots {
		switch d {
		case Up:
			up++
		case Down:
			down++
		}
	}
	l.Up, l.Down = up, down
}

// Tally returns the current up and down counts.
func (l *VoteLedger) Tally() (up, down int) {
	return l.Up, l.Down
}

// Net is Up minus Down.
func (l *VoteLedger) Net() int {
	return l.Up - l.Down
}

// DirectionOf returns voterID's active vote, or DirectionNone.
func (l *VoteLedger) DirectionOf(voterID string) Direction {
	if voterID == "" {
		return DirectionNone
	}
	return l.Ballots[voterID]
}

// Votes lists the active votes ordered by voter id.
func (l *VoteLedger) Votes() []Vote {
	votes := make([]Vote, 0, len(l.Ballots))
	for voter, d := range l.Ballots {
		votes = append(votes, Vote{IssueID: l.IssueID, VoterID: voter, Direction: d})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].VoterID < votes[j].VoterID })
	return votes
}

func (l VoteLedger) clone() VoteLedger {
	c := l
	if l.Ballots != nil {
		c.Ballots = make(map[string]Direction, len(l.Ballots))
		for k, v := range l.Ballots {
			c.Ballots[k] = v
		}
	}
	return c
}
