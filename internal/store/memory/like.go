package memory

import (
	"context"

	"github.com/google/uuid"
)

// LikeStore is the like view over the shared core.
type LikeStore struct {
	core *Store
}

// Toggle flips the caller's membership in the post's like set and
// reports the resulting state and count under a single lock hold.
func (s *LikeStore) Toggle(_ context.Context, postID, userID uuid.UUID) (bool, int, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	set, ok := s.core.likes[postID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		s.core.likes[postID] = set
	}

	liked := false
	if _, member := set[userID]; member {
		delete(set, userID)
	} else {
		set[userID] = struct{}{}
		liked = true
	}
	return liked, len(set), nil
}

func (s *LikeStore) IsLiked(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	_, member := s.core.likes[postID][userID]
	return member, nil
}

func (s *LikeStore) Count(_ context.Context, postID uuid.UUID) (int, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	return len(s.core.likes[postID]), nil
}
