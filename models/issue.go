package models

import (
	"strings"
	"time"
)

// IssueCategory enum
type IssueCategory string

const (
	GarbageDump              IssueCategory = "Garbage Dump / Overflowing Bins"
	GarbageVehicleNotArrived IssueCategory = "Garbage Vehicle Not Arrived"
	SweepingNotDone          IssueCategory = "Sweeping Not Done"
	IllegalDumping           IssueCategory = "Illegal Dumping / Debris"
	DeadAnimalRemoval        IssueCategory = "Dead Animal Removal"
	BurningOfGarbage         IssueCategory = "Burning of Garbage"
	Potholes                 IssueCategory = "Potholes / Damaged Road Surface"
	BrokenStreetlights       IssueCategory = "Malfunctioning or Broken Streetlights"
	DamagedFootpath          IssueCategory = "Damaged Footpath or Paving Slabs"
	FallenTrees              IssueCategory = "Fallen Trees or Branches Obstructing Road"
	OpenManhole              IssueCategory = "Open Manhole or Drain Cover"
	SewerageOverflow         IssueCategory = "Sewerage Overflow"
	BlockedDrains            IssueCategory = "Blocked Drains"
	StagnantWater            IssueCategory = "Stagnant Water on Roads"
	WaterPipeLeakage         IssueCategory = "Water Pipe Leakage"
	ToiletNotCleaned         IssueCategory = "Public Toilet Not Cleaned"
	ToiletNoWater            IssueCategory = "No Water Supply in Public Toilet"
	ToiletNoElectricity      IssueCategory = "No Electricity in Public Toilet"
	ToiletBlocked            IssueCategory = "Blocked Public Toilet"
	ParkMaintenance          IssueCategory = "Maintenance of Public Parks / Gardens"
	PublicUrination          IssueCategory = "Public Urination"
	IllegalBanners           IssueCategory = "Illegal Banners or Hoardings"
	StrayAnimals             IssueCategory = "Stray Animal Nuisance"
	Other                    IssueCategory = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []IssueCategory{
	GarbageDump,
	GarbageVehicleNotArrived,
	SweepingNotDone,
	IllegalDumping,
	DeadAnimalRemoval,
	BurningOfGarbage,
	Potholes,
	BrokenStreetlights,
	DamagedFootpath,
	FallenTrees,
	OpenManhole,
	SewerageOverflow,
	BlockedDrains,
	StagnantWater,
	WaterPipeLeakage,
	ToiletNotCleaned,
	ToiletNoWater,
	ToiletNoElectricity,
	ToiletBlocked,
	ParkMaintenance,
	PublicUrination,
	IllegalBanners,
	StrayAnimals,
	Other,
}

// Valid reports whether c is one of the accepted categories.
func (c IssueCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Open       IssueStatus = "Open"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
	Rejected   IssueStatus = "Rejected"
)

// Statuses lists every status an admin may set.
var Statuses = []IssueStatus{Open, InProgress, Resolved, Rejected}

func (s IssueStatus) Valid() bool {
	switch s {
	case Open, InProgress, Resolved, Rejected:
		return true
	}
	return false
}

// Priority enum
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Location is the reported address plus coordinates. Lat and Lng are zero
// when geocoding did not resolve the address.
type Location struct {
	Address string  `bson:"address" json:"address"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
}

// HasCoordinates reports whether the location was geocoded.
func (l Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

// Comment is an append-only note on an issue.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	Text      string    `bson:"text" json:"text"`
	Author    UserRef   `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID                    string          `bson:"_id" json:"id"`
	Title                 string          `bson:"title" json:"title"`
	Description           string          `bson:"description" json:"description"`
	Category              IssueCategory   `bson:"category" json:"category"`
	Status                IssueStatus     `bson:"status" json:"status"`
	RejectionReason       RejectionReason `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Priority              Priority        `bson:"priority,omitempty" json:"priority,omitempty"`
	PriorityJustification string          `bson:"priorityJustification,omitempty" json:"priorityJustification,omitempty"`
	SuggestedCategory     IssueCategory   `bson:"suggestedCategory,omitempty" json:"suggestedCategory,omitempty"`
	CategoryConfidence    float64         `bson:"categoryConfidence,omitempty" json:"categoryConfidence,omitempty"`
	EnrichedAt            *time.Time      `bson:"enrichedAt,omitempty" json:"enrichedAt,omitempty"`
	ImageRef              string          `bson:"imageRef,omitempty" json:"imageRef,omitempty"`
	Location              Location        `bson:"location" json:"location"`
	Reporter              UserRef         `bson:"reporter" json:"reporter"`
	Comments              []Comment       `bson:"comments" json:"comments"`
	Votes                 VoteLedger      `bson:"votes" json:"votes"`
	Version               int64           `bson:"version" json:"version"`
	CreatedAt             time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// NetScore is up votes minus down votes.
func (i *Issue) NetScore() int {
	return i.Votes.Net()
}

// AddComment appends a comment; comments are never edited or removed.
func (i *Issue) AddComment(c Comment) {
	i.Comments = append(i.Comments, c)
}

// MatchesSearch reports whether the title contains q, ignoring case.
// An empty query matches everything.
func (i *Issue) MatchesSearch(q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), strings.ToLower(q))
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (i *Issue) Clone() *Issue {
	if i == nil {
		return nil
	}
	c := *i
	if i.Comments != nil {
		c.Comments = make([]Comment, len(i.Comments))
		copy(c.Comments, i.Comments)
	}
	if i.EnrichedAt != nil {
		t := *i.EnrichedAt
		c.EnrichedAt = &t
	}
	c.Votes = i.Votes.clone()
	return &c
}

// Summary returns the reduced view sent to gap analysis.
func (i *Issue) Summary() IssueSummary {
	return IssueSummary{
		ID:          i.ID,
		Title:       i.Title,
		Category:    i.Category,
		Address:     i.Location.Address,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
	}
}
