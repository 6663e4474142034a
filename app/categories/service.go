package categories

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/stockline/catalog-service/apperr"
	"github.com/stockline/catalog-service/models"
)

// CategoryInput carries the fields a caller may set on a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("category name is required")
	}
	if len(in.Name) > 255 {
		return apperr.Validation("category name must not exceed 255 characters")
	}
	return nil
}

// Service owns the category lifecycle: create, update, delete, listing,
// existence checks. Name uniqueness is enforced here, inside one transaction
// per mutating call.
type Service struct {
	store models.Store
	log   *zap.Logger
}

func NewService(store models.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *Service) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, Description: in.Description}
	err := s.store.Transact(ctx, func(tx models.Store) error {
		exists, err := tx.Categories().ExistsByName(ctx, in.Name)
		if err != nil {
			return apperr.Internal(err)
		}
		if exists {
			return apperr.Conflict("a category named %q already exists", in.Name)
		}
		if err := tx.Categories().Save(ctx, category); err != nil {
			if errors.Is(err, models.ErrDuplicateName) {
				return apperr.Conflict("a category named %q already exists", in.Name)
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("category created", zap.Uint("id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *Service) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Category
	err := s.store.Transact(ctx, func(tx models.Store) error {
		category, err := tx.Categories().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrCategoryNotFound) {
				return apperr.NotFound("category %d not found", id)
			}
			return apperr.Internal(err)
		}

		// Only a name change can collide; keeping the same name must not
		// trip the uniqueness check.
		if in.Name != category.Name {
			exists, err := tx.Categories().ExistsByName(ctx, in.Name)
			if err != nil {
				return apperr.Internal(err)
			}
			if exists {
				return apperr.Conflict("a category named %q already exists", in.Name)
			}
		}

		category.Name = in.Name
		category.Description = in.Description
		if err := tx.Categories().Save(ctx, category); err != nil {
			if errors.Is(err, models.ErrDuplicateName) {
				return apperr.Conflict("a category named %q already exists", in.Name)
			}
			return apperr.Internal(err)
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category by id. It deliberately does not check for
// products still referencing the category; dependents keep their category id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.store.Transact(ctx, func(tx models.Store) error {
		exists, err := tx.Categories().ExistsByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if !exists {
			return apperr.NotFound("category %d not found", id)
		}
		return tx.Categories().DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("category deleted", zap.Uint("id", id))
	return nil
}

func (s *Service) Exists(ctx context.Context, id uint) (bool, error) {
	exists, err := s.store.Categories().ExistsByID(ctx, id)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return exists, nil
}

// Search matches the text against category name and description,
// case-insensitive.
func (s *Service) Search(ctx context.Context, text string) ([]models.Category, error) {
	categories, err := s.store.Categories().SearchByText(ctx, text)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}
