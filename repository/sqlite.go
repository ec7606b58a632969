package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"civiclink/models"

	"go.mongodb.org/mongo-driver/bson"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore is a single-file store for deployments without MongoDB. Each
// record is kept as a BSON document next to the columns needed for CAS and
// ordering, so the stored shape matches the Mongo collections.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()

		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Issues returns the issue repository view of the store.
func (s *SQLiteStore) Issues() *SQLiteIssueRepository {
	return &SQLiteIssueRepository{db: s.db}
}

// Users returns the user repository view of the store.
func (s *SQLiteStore) Users() *SQLiteUserRepository {
	return &SQLiteUserRepository{db: s.db}
}

type SQLiteIssueRepository struct {
	db *sql.DB
}

func (r *SQLiteIssueRepository) Get(ctx context.Context, id string) (*models.Issue, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, "SELECT doc FROM issues WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	var issue models.Issue
	if err := bson.Unmarshal(doc, &issue); err != nil {
		return nil, fmt.Errorf("decode issue %s: %w", id, err)
	}
	return &issue, nil
}

func (r *SQLiteIssueRepository) List(ctx context.Context) ([]*models.Issue, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, doc FROM issues ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	issues := []*models.Issue{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		var issue models.Issue
		if err := bson.Unmarshal(doc, &issue); err != nil {
			return nil, fmt.Errorf("decode issue %s: %w", id, err)
		}
		issues = append(issues, &issue)
	}
	return issues, rows.Err()
}

func (r *SQLiteIssueRepository) Upsert(ctx context.Context, issue *models.Issue) error {
	next := issue.Clone()
	next.Version = issue.Version + 1
	doc, err := bson.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode issue %s: %w", issue.ID, err)
	}

	var res sql.Result
	if issue.Version == 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO issues (id, version, created_at, doc) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			issue.ID, next.Version, issue.CreatedAt.UnixNano(), doc)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE issues SET version = ?, doc = ? WHERE id = ? AND version = ?",
			next.Version, doc, issue.ID, issue.Version)
	}
	if err != nil {
		return fmt.Errorf("upsert issue %s: %w", issue.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("upsert issue %s: %w", issue.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("upsert issue %s at version %d: %w", issue.ID, issue.Version, models.ErrConflict)
	}
	issue.Version = next.Version
	return nil
}

type SQLiteUserRepository struct {
	db *sql.DB
}

func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	doc, err := bson.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, created_at, doc) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING",
		user.ID, user.Email, user.CreatedAt.UnixNano(), doc)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n > 0 {
		return nil
	}

	var taken bool
	err = r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", user.Email).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check user email: %w", err)
	}
	if taken {
		return models.ErrEmailTaken
	}
	return fmt.Errorf("insert user %s: %w", user.ID, models.ErrConflict)
}

func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "SELECT doc FROM users WHERE id = ?", id)
}

func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "SELECT doc FROM users WHERE email = ?", email)
}

func (r *SQLiteUserRepository) getOne(ctx context.Context, query, arg string) (*models.User, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var user models.User
	if err := bson.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (r *SQLiteUserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT doc FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		var user models.User
		if err := bson.Unmarshal(doc, &user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
