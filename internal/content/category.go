package content

import (
	"context"
	"strings"
	"unicode/utf8"

	"blogapi/internal/apperr"
	"blogapi/internal/identity"
	"blogapi/internal/models"
	"blogapi/internal/slug"
)

// CategoryInput carries the client-supplied category fields. Slug is
// optional; when empty it is derived from the name.
type CategoryInput struct {
	Name string
	Slug string
}

func (in *CategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" {
		return apperr.New(apperr.Validation, "category name is required")
	}
	if utf8.RuneCountInString(in.Name) > models.CategoryNameMaxLen {
		return apperr.New(apperr.Validation, "category name is too long")
	}
	if len(in.Slug) > models.CategorySlugMaxLen {
		return apperr.New(apperr.Validation, "category slug is too long")
	}
	return nil
}

// ListCategories returns all categories with their post counts.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory looks up a category by slug.
func (s *Service) GetCategory(ctx context.Context, catSlug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, catSlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return c, nil
}

// CreateCategory creates a category. Only administrators may manage
// categories. An explicit slug that collides fails with DuplicateSlug; a
// derived slug is disambiguated automatically.
func (s *Service) CreateCategory(ctx context.Context, caller identity.Caller, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if taken, err := s.categories.NameExists(ctx, in.Name); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.New(apperr.DuplicateName, "category name already exists")
	}

	catSlug := in.Slug
	if catSlug == "" {
		base := slug.Make(in.Name, models.CategorySlugMaxLen-10)
		allocated, err := slug.Allocate(ctx, base, s.categories.SlugExists)
		if err != nil {
			return nil, err
		}
		catSlug = allocated
	}

	return s.categories.Create(ctx, &models.Category{Name: in.Name, Slug: catSlug})
}

// UpdateCategory renames a category. The slug follows the name only when
// explicitly supplied.
func (s *Service) UpdateCategory(ctx context.Context, caller identity.Caller, catSlug string, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	c, err := s.GetCategory(ctx, catSlug)
	if err != nil {
		return nil, err
	}

	c.Name = in.Name
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. Referencing posts survive with a
// null category reference.
func (s *Service) DeleteCategory(ctx context.Context, caller identity.Caller, catSlug string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	c, err := s.GetCategory(ctx, catSlug)
	if err != nil {
		return err
	}
	return s.categories.Delete(ctx, c.ID)
}

// requireAdmin gates administrator-only operations, including the 2FA
// verification state for enrolled accounts.
func requireAdmin(caller identity.Caller) error {
	if !caller.Authenticated {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if !caller.Admin || !caller.Verified {
		return apperr.New(apperr.Forbidden, "administrator access required")
	}
	return nil
}
