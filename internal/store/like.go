package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// LikeStore manages the post-like membership set. The like relation has
// no independent lifecycle: rows exist only through Toggle and disappear
// with their post or user.
type LikeStore struct {
	db *sql.DB
}

// NewLikeStore creates a new LikeStore with the given database connection.
func NewLikeStore(db *sql.DB) *LikeStore {
	return &LikeStore{db: db}
}

// Toggle flips the caller's like membership for a post and returns the
// new membership state plus the like count after the flip. The delete,
// insert, and count all run in one transaction so the returned count
// reflects the caller's own committed mutation, never a stale read.
func (s *LikeStore) Toggle(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like delete: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("toggle like rows: %w", err)
	}

	liked := removed == 0
	if liked {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, userID)
		if err != nil {
			return false, 0, fmt.Errorf("toggle like insert: %w", err)
		}
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM post_likes WHERE post_id = $1
	`, postID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("toggle like commit: %w", err)
	}
	return liked, count, nil
}

// IsLiked reports whether the user has liked the post.
func (s *LikeStore) IsLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("is liked: %w", err)
	}
	return liked, nil
}

// Count returns the number of users who have liked the post.
func (s *LikeStore) Count(ctx context.Context, postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM post_likes WHERE post_id = $1
	`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
