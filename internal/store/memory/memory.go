// Package memory provides an in-memory implementation of the persistence
// interfaces consumed by the identity, content, and interaction services.
// It mirrors the PostgreSQL stores' contract, including unique-constraint
// enforcement and cascade semantics, and is safe for concurrent use. All
// entity sets live behind one mutex in a shared core so cross-entity
// operations (cascades, check-then-insert) stay atomic; the accessor
// methods hand out per-entity views satisfying each service's interface.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"blogapi/internal/models"
)

// Store is the shared core. Use Users, Categories, Posts, Comments, and
// Likes to obtain the per-entity stores.
type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*models.User
	categories map[uuid.UUID]*models.Category
	posts      map[uuid.UUID]*models.Post
	comments   map[uuid.UUID]*models.Comment
	likes      map[uuid.UUID]map[uuid.UUID]struct{} // postID → set of userIDs
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*models.User),
		categories: make(map[uuid.UUID]*models.Category),
		posts:      make(map[uuid.UUID]*models.Post),
		comments:   make(map[uuid.UUID]*models.Comment),
		likes:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// Users returns the user store view.
func (s *Store) Users() *UserStore { return &UserStore{core: s} }

// Categories returns the category store view.
func (s *Store) Categories() *CategoryStore { return &CategoryStore{core: s} }

// Posts returns the post store view.
func (s *Store) Posts() *PostStore { return &PostStore{core: s} }

// Comments returns the comment store view.
func (s *Store) Comments() *CommentStore { return &CommentStore{core: s} }

// Likes returns the like store view.
func (s *Store) Likes() *LikeStore { return &LikeStore{core: s} }

// CommentCount reports all comments stored for a post, approved or not.
// Test helper for cascade assertions.
func (s *Store) CommentCount(postID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}
