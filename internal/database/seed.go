package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed inserts a development admin account and a starter category when the
// database is empty. It is a no-op if any user already exists, so it is
// safe to run on every startup in development.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ('admin', 'admin@localhost', $1, 'admin')
	`, string(hash))
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug)
		VALUES ('General', 'general')
	`)
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	slog.Info("development data seeded", "admin", "admin@localhost")
	return nil
}
