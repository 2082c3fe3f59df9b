package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogapi/internal/models"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a new comment and returns it with generated fields filled in.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	result := *c
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, body, approved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.PostID, c.AuthorID, c.Body, c.Approved).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &result, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	var author sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT cm.id, cm.post_id, cm.author_id, cm.body, cm.approved, cm.created_at, u.username
		FROM comments cm
		LEFT JOIN users u ON u.id = cm.author_id
		WHERE cm.id = $1
	`, id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.Approved, &c.CreatedAt, &author)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	c.AuthorName = author.String
	return &c, nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ListApproved returns a page of approved comments for a post, newest
// first, together with the total approved count.
func (s *CommentStore) ListApproved(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = $1 AND approved
	`, postID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cm.id, cm.post_id, cm.author_id, cm.body, cm.approved, cm.created_at, u.username
		FROM comments cm
		LEFT JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = $1 AND cm.approved
		ORDER BY cm.created_at DESC, cm.id
		LIMIT $2 OFFSET $3
	`, postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var author sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.Approved, &c.CreatedAt, &author); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		c.AuthorName = author.String
		items = append(items, c)
	}
	return items, total, rows.Err()
}
