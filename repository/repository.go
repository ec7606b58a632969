// Package repository holds the persistence ports of the issue core and their
// implementations (in-memory, MongoDB and SQLite).
package repository

import (
	"context"

	"civiclink/models"
)

// IssueRepository loads and stores issues.
//
// Upsert is a compare-and-swap on Issue.Version: a zero version inserts a new
// record, any other version must match the stored one. On success the stored
// version and issue.Version are both incremented. A mismatch (or an insert of
// an existing id) returns models.ErrConflict.
type IssueRepository interface {
	Get(ctx context.Context, id string) (*models.Issue, error)
	List(ctx context.Context) ([]*models.Issue, error)
	Upsert(ctx context.Context, issue *models.Issue) error
}

// UserRepository stores accounts for the auth layer.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
