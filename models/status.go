package models

import (
	"fmt"
	"time"
)

// RejectionThreshold is the net score at or below which the community
// rejects an issue.
const RejectionThreshold = -10

// RejectionReason records why an issue entered Rejected.
type RejectionReason string

const (
	ReasonNone          RejectionReason = ""
	ReasonThresholdAuto RejectionReason = "threshold_auto"
	ReasonAdminOverride RejectionReason = "admin_override"
)

// Transition describes a status change produced by a vote or admin action.
type Transition struct {
	From   IssueStatus     `json:"from"`
	To     IssueStatus     `json:"to"`
	Reason RejectionReason `json:"reason,omitempty"`
}

// Changed reports whether the status moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// NewIssue returns an Open issue with an empty ledger.
func NewIssue(id string, now time.Time) *Issue {
	return &Issue{
		ID:        id,
		Status:    Open,
		Votes:     NewVoteLedger(id),
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CastVote applies voterID's vote through the ledger and then re-evaluates
// the rejection threshold.
func (i *Issue) CastVote(voterID string, d Direction) (VoteOutcome, Transition, error) {
	prev := i.NetScore()
	out, err := i.Votes.Cast(i.ID, voterID, d)
	if err != nil {
		return VoteOutcome{}, Transition{}, err
	}
	return out, i.applyThreshold(prev), nil
}

// applyThreshold moves Open/In Progress issues to Rejected when the net score
// crosses the threshold, and reinstates threshold rejections once the score
// recovers. Admin rejections and admin-resolved issues are left alone.
func (i *Issue) applyThreshold(prevNet int) Transition {
	t := Transition{From: i.Status, To: i.Status, Reason: i.RejectionReason}
	net := i.NetScore()

	switch {
	case prevNet > RejectionThreshold && net <= RejectionThreshold &&
		(i.Status == Open || i.Status == InProgress):
		i.Status = Rejected
		i.RejectionReason = ReasonThresholdAuto
	case i.Status == Rejected && i.RejectionReason == ReasonThresholdAuto && net > RejectionThreshold:
		i.Status = Open
		i.RejectionReason = ReasonNone
	}

	t.To = i.Status
	t.Reason = i.RejectionReason
	return t
}

// SetStatusByAdmin applies an authoritative status change. It always takes
// effect regardless of the current tally.
func (i *Issue) SetStatusByAdmin(s IssueStatus) (Transition, error) {
	if !s.Valid() {
		return Transition{}, fmt.Errorf("invalid status %q", s)
	}
	t := Transition{From: i.Status, To: s}
	i.Status = s
	if s == Rejected {
		i.RejectionReason = ReasonAdminOverride
	} else {
		i.RejectionReason = ReasonNone
	}
	t.Reason = i.RejectionReason
	return t, nil
}
