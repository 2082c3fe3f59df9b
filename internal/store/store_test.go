// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogapi/internal/database"
	"blogapi/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogapi")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogapi")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser inserts a user for tests that need an author and registers
// cleanup. Deleting the user cascades to their posts.
func testUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	s := NewUserStore(db)
	u, err := s.Create(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@store-test.local",
		PasswordHash: "x",
		Role:         models.RoleAuthor,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, u.Email) })
	return u
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// mustPost inserts a post and registers slug cleanup.
func mustPost(t *testing.T, db *sql.DB, author uuid.UUID, title, slug string, published bool) *models.Post {
	t.Helper()

	s := NewPostStore(db)
	p, err := s.Create(context.Background(), &models.Post{
		AuthorID:  author,
		Title:     title,
		Slug:      slug,
		Content:   "test content",
		Published: published,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, slug) })
	return p
}
