package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, created_at, updated_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, with post counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &c.PostCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Name and slug collisions
// surface as DuplicateName and DuplicateSlug respectively.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		c.Name, c.Slug,
	)
	result, err := scanCategory(row)
	if constraint := violatedConstraint(err); constraint != "" {
		if strings.Contains(constraint, "name") {
			return nil, apperr.Wrap(apperr.DuplicateName, "category name already exists", err)
		}
		return nil, apperr.Wrap(apperr.DuplicateSlug, "category slug already exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category's name and slug.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, updated_at = NOW()
		WHERE id = $3
	`, c.Name, c.Slug, c.ID)
	if constraint := violatedConstraint(err); constraint != "" {
		if strings.Contains(constraint, "name") {
			return apperr.Wrap(apperr.DuplicateName, "category name already exists", err)
		}
		return apperr.Wrap(apperr.DuplicateSlug, "category slug already exists", err)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Referencing posts keep their content
// and lose the category reference (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SlugExists reports whether a category slug is taken.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// NameExists reports whether a category name is taken.
func (s *CategoryStore) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category name exists: %w", err)
	}
	return exists, nil
}
