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

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect joins the author, category, and like count onto every post row.
const postSelect = `
	SELECT p.id, p.author_id, p.title, p.slug, p.category_id, p.content,
	       p.image_key, p.published, p.view_count, p.created_at, p.updated_at,
	       u.username,
	       c.name, c.slug,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.CategoryID, &p.Content,
		&p.ImageKey, &p.Published, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName,
		&p.CategoryName, &p.CategorySlug,
		&p.LikesCount,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug retrieves a post by its slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with generated fields filled in.
// A slug collision at commit time surfaces as DuplicateSlug so the caller
// can re-allocate and retry.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, title, slug, category_id, content, image_key, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, view_count
	`, p.AuthorID, p.Title, p.Slug, p.CategoryID, p.Content, p.ImageKey, p.Published)

	result := *p
	err := row.Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt, &result.ViewCount)
	if violatedConstraint(err) != "" {
		return nil, apperr.Wrap(apperr.DuplicateSlug, "post slug already exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &result, nil
}

// Update persists the mutable fields of a post. The slug and author
// columns are deliberately absent: both are immutable after creation.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, category_id = $2, content = $3, image_key = $4,
			published = $5, updated_at = NOW()
		WHERE id = $6
	`, p.Title, p.CategoryID, p.Content, p.ImageKey, p.Published, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Comments and like memberships cascade.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// SlugExists reports whether a post slug is taken.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// IncrementViews bumps the server-side view counter for a post.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// List returns a page of posts matching the filter together with the
// total match count. The ordering key must already be validated by the
// service layer.
func (s *PostStore) List(ctx context.Context, f models.PostFilter) ([]models.Post, int, error) {
	var (
		where []string
		args  []any
	)
	nextArg := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+nextArg())
		args = append(args, f.CategorySlug)
	}
	if f.Published != nil {
		where = append(where, "p.published = "+nextArg())
		args = append(args, *f.Published)
	}
	if f.Search != "" {
		pattern := nextArg()
		where = append(where, `(p.title ILIKE `+pattern+
			` OR p.content ILIKE `+pattern+
			` OR u.username ILIKE `+pattern+
			` OR c.name ILIKE `+pattern+`)`)
		args = append(args, "%"+f.Search+"%")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id
	` + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := postSelect + whereClause + " ORDER BY " + orderClause(f.Ordering) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// orderClause maps a validated ordering key onto a SQL ORDER BY body.
// Slug breaks ties so pagination stays stable across equal sort values.
func orderClause(ordering string) string {
	if ordering == "" {
		ordering = models.DefaultPostOrdering
	}
	dir := "ASC"
	key := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		key = ordering[1:]
	}

	column := "p.created_at"
	switch key {
	case models.OrderUpdatedAt:
		column = "p.updated_at"
	case models.OrderLikesCount:
		column = "likes_count"
	}
	return column + " " + dir + ", p.slug ASC"
}
