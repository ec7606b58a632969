package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"civiclink/models"
)

// MemoryIssueRepository keeps issues in a map. It stores and returns copies
// so callers never share state with the store.
type MemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[string]*models.Issue
}

func NewMemoryIssueRepository() *MemoryIssueRepository {
	return &MemoryIssueRepository{issues: map[string]*models.Issue{}}
}

func (r *MemoryIssueRepository) Get(_ context.Context, id string) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, ok := r.issues[id]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", id, models.ErrNotFound)
	}
	return issue.Clone(), nil
}

func (r *MemoryIssueRepository) List(_ context.Context) ([]*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		out = append(out, issue.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryIssueRepository) Upsert(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.issues[issue.ID]
	switch {
	case issue.Version == 0 && exists:
		return fmt.Errorf("insert issue %s: %w", issue.ID, models.ErrConflict)
	case issue.Version != 0 && !exists:
		return fmt.Errorf("update issue %s: %w", issue.ID, models.ErrNotFound)
	case exists && current.Version != issue.Version:
		return fmt.Errorf("update issue %s at version %d: %w", issue.ID, issue.Version, models.ErrConflict)
	}

	issue.Version++
	r.issues[issue.ID] = issue.Clone()
	return nil
}

// MemoryUserRepository keeps users in a map keyed by id.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]*models.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrEmailTaken
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("insert user %s: %w", user.ID, models.ErrConflict)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

func (r *MemoryUserRepository) List(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
