package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// CommentStore is the comment view over the shared core.
type CommentStore struct {
	core *Store
}

func (s *CommentStore) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	if _, ok := s.core.posts[c.PostID]; !ok {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}

	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	s.core.comments[cp.ID] = &cp

	result := cp
	if cp.AuthorID != nil {
		if u, ok := s.core.users[*cp.AuthorID]; ok {
			result.AuthorName = u.Username
		}
	}
	return &result, nil
}

func (s *CommentStore) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	c, ok := s.core.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	if c.AuthorID != nil {
		if u, ok := s.core.users[*c.AuthorID]; ok {
			cp.AuthorName = u.Username
		}
	}
	return &cp, nil
}

func (s *CommentStore) Delete(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	delete(s.core.comments, id)
	return nil
}

func (s *CommentStore) ListApproved(_ context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	matched := []models.Comment{}
	for _, c := range s.core.comments {
		if c.PostID != postID || !c.Approved {
			continue
		}
		cp := *c
		if c.AuthorID != nil {
			if u, ok := s.core.users[*c.AuthorID]; ok {
				cp.AuthorName = u.Username
			}
		}
		matched = append(matched, cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}
