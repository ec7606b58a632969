package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the capability level of a user.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"`
	AvatarURL string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Ref returns the reference embedded in issues and comments.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// Viewer returns the request actor for u.
func (u *User) Viewer() *Viewer {
	return &Viewer{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, Role: u.Role}
}

// UserRef is the denormalized user identity stored on issues and comments.
type UserRef struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// Viewer is the authenticated actor of a request. A nil *Viewer is anonymous.
type Viewer struct {
	ID        string
	Name      string
	AvatarURL string
	Role      Role
}

// IsAdmin reports whether the viewer may perform administrative transitions.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == RoleAdmin
}

func (v *Viewer) Ref() UserRef {
	return UserRef{ID: v.ID, Name: v.Name, AvatarURL: v.AvatarURL}
}

// Profile is the computed reputation view of a user. It is derived from the
// current issue set on every read and never stored.
type Profile struct {
	User           UserRef  `json:"user"`
	IssuesAuthored int      `json:"issuesAuthored"`
	Karma          int      `json:"karma"`
	CivicScore     int      `json:"civicScore"`
	Issues         []*Issue `json:"issues,omitempty"`
}

// BuildProfile computes karma (net votes received on authored issues) and
// civic score (10 per authored issue plus karma) for user.
func BuildProfile(user UserRef, issues []*Issue) Profile {
	p := Profile{User: user}
	for _, issue := range issues {
		if issue.Reporter.ID != user.ID {
			continue
		}
		p.IssuesAuthored++
		p.Karma += issue.NetScore()
		p.Issues = append(p.Issues, issue)
	}
	p.CivicScore = 10*p.IssuesAuthored + p.Karma
	return p
}
