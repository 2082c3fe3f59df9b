package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// PostStore is the post view over the shared core.
type PostStore struct {
	core *Store
}

// decorate copies a post and fills the virtual fields. Callers must hold
// at least the read lock on the core.
func (s *PostStore) decorate(p *models.Post) *models.Post {
	cp := *p
	if u, ok := s.core.users[p.AuthorID]; ok {
		cp.AuthorName = u.Username
	}
	if p.CategoryID != nil {
		if c, ok := s.core.categories[*p.CategoryID]; ok {
			name, slug := c.Name, c.Slug
			cp.CategoryName = &name
			cp.CategorySlug = &slug
		}
	}
	cp.LikesCount = len(s.core.likes[p.ID])
	return &cp
}

func (s *PostStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, p := range s.core.posts {
		if p.Slug == slug {
			return s.decorate(p), nil
		}
	}
	return nil, nil
}

func (s *PostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	for _, existing := range s.core.posts {
		if existing.Slug == p.Slug {
			return nil, apperr.New(apperr.DuplicateSlug, "post slug already exists")
		}
	}

	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.core.posts[cp.ID] = &cp

	return s.decorate(&cp), nil
}

func (s *PostStore) Update(_ context.Context, p *models.Post) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	existing, ok := s.core.posts[p.ID]
	if !ok {
		return nil
	}
	// Slug and author are immutable; only the editable columns move.
	existing.Title = p.Title
	existing.CategoryID = p.CategoryID
	existing.Content = p.Content
	existing.ImageKey = p.ImageKey
	existing.Published = p.Published
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *PostStore) Delete(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	delete(s.core.posts, id)
	delete(s.core.likes, id)
	// ON DELETE CASCADE
	for cid, c := range s.core.comments {
		if c.PostID == id {
			delete(s.core.comments, cid)
		}
	}
	return nil
}

func (s *PostStore) SlugExists(_ context.Context, slug string) (bool, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, p := range s.core.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *PostStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	if p, ok := s.core.posts[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (s *PostStore) List(_ context.Context, f models.PostFilter) ([]models.Post, int, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	matched := []models.Post{}
	for _, p := range s.core.posts {
		d := s.decorate(p)
		if f.CategorySlug != "" && (d.CategorySlug == nil || *d.CategorySlug != f.CategorySlug) {
			continue
		}
		if f.Published != nil && d.Published != *f.Published {
			continue
		}
		if f.Search != "" && !matchesSearch(d, f.Search) {
			continue
		}
		matched = append(matched, *d)
	}

	sortPosts(matched, f.Ordering)

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesSearch(p *models.Post, search string) bool {
	q := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q) ||
		strings.Contains(strings.ToLower(p.AuthorName), q) {
		return true
	}
	return p.CategoryName != nil && strings.Contains(strings.ToLower(*p.CategoryName), q)
}

func sortPosts(posts []models.Post, ordering string) {
	if ordering == "" {
		ordering = models.DefaultPostOrdering
	}
	desc := strings.HasPrefix(ordering, "-")
	key := strings.TrimPrefix(ordering, "-")

	less := func(a, b *models.Post) bool {
		switch key {
		case models.OrderUpdatedAt:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		case models.OrderLikesCount:
			if a.LikesCount != b.LikesCount {
				return a.LikesCount < b.LikesCount
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.Slug < b.Slug
	}

	sort.Slice(posts, func(i, j int) bool {
		if desc {
			return less(&posts[j], &posts[i])
		}
		return less(&posts[i], &posts[j])
	})
}
