package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// CategoryStore is the category view over the shared core.
type CategoryStore struct {
	core *Store
}

func (s *CategoryStore) List(_ context.Context) ([]models.Category, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	items := make([]models.Category, 0, len(s.core.categories))
	for _, c := range s.core.categories {
		cp := *c
		for _, p := range s.core.posts {
			if p.CategoryID != nil && *p.CategoryID == c.ID {
				cp.PostCount++
			}
		}
		items = append(items, cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *CategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, c := range s.core.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *CategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	c, ok := s.core.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *CategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	for _, existing := range s.core.categories {
		if existing.Name == c.Name {
			return nil, apperr.New(apperr.DuplicateName, "category name already exists")
		}
		if existing.Slug == c.Slug {
			return nil, apperr.New(apperr.DuplicateSlug, "category slug already exists")
		}
	}

	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.core.categories[cp.ID] = &cp

	result := cp
	return &result, nil
}

func (s *CategoryStore) Update(_ context.Context, c *models.Category) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	existing, ok := s.core.categories[c.ID]
	if !ok {
		return nil
	}
	for _, other := range s.core.categories {
		if other.ID == c.ID {
			continue
		}
		if other.Name == c.Name {
			return apperr.New(apperr.DuplicateName, "category name already exists")
		}
		if other.Slug == c.Slug {
			return apperr.New(apperr.DuplicateSlug, "category slug already exists")
		}
	}
	existing.Name = c.Name
	existing.Slug = c.Slug
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *CategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	delete(s.core.categories, id)
	// ON DELETE SET NULL
	for _, p := range s.core.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	return nil
}

func (s *CategoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, c := range s.core.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *CategoryStore) NameExists(_ context.Context, name string) (bool, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, c := range s.core.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
