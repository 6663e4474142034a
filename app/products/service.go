package products

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockline/catalog-service/apperr"
	"github.com/stockline/catalog-service/models"
)

// markup applied to the purchase cost when a stock increase reprices the
// product.
var markup = decimal.RequireFromString("1.25")

// maxPriceExclusive bounds prices to 8 integer digits.
var maxPriceExclusive = decimal.New(1, 8)

// ProductInput carries the fields a caller may set on a product.
type ProductInput struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	SalePrice    decimal.Decimal      `json:"salePrice"`
	PurchaseCost *decimal.Decimal     `json:"purchaseCost"`
	CurrentStock int                  `json:"currentStock"`
	Status       models.ProductStatus `json:"status"`
	CategoryID   uint                 `json:"categoryId"`
}

// validPrice checks the decimal(10,2) constraints: positive, at most 8
// integer digits, at most 2 fraction digits.
func validPrice(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThan(maxPriceExclusive) && d.Equal(d.Round(2))
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("product name is required")
	}
	if len(in.Name) > 255 {
		return apperr.Validation("product name must not exceed 255 characters")
	}
	if !validPrice(in.SalePrice) {
		return apperr.Validation("sale price must be positive with at most 8 integer and 2 fraction digits")
	}
	if in.PurchaseCost != nil && !validPrice(*in.PurchaseCost) {
		return apperr.Validation("purchase cost must be positive with at most 8 integer and 2 fraction digits")
	}
	if in.CurrentStock < 0 {
		return apperr.Validation("current stock must not be negative")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.Validation("status must be one of: Active, Inactive, OutOfStock")
	}
	return nil
}

// Service owns the product lifecycle and the inventory operations. Each
// mutating call runs as one transaction with the product row locked, so
// concurrent stock or uniqueness checks serialize.
type Service struct {
	store models.Store
	log   *zap.Logger
}

func NewService(store models.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, apperr.Internal(err)
	}
	return product, nil
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.Products().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID == 0 {
		return nil, apperr.Validation("a category is required to create a product")
	}

	status := in.Status
	if status == "" {
		status = models.StatusActive
	}

	var created *models.Product
	err := s.store.Transact(ctx, func(tx models.Store) error {
		exists, err := tx.Products().ExistsByName(ctx, in.Name)
		if err != nil {
			return apperr.Internal(err)
		}
		if exists {
			return apperr.Conflict("a product named %q already exists", in.Name)
		}

		categoryExists, err := tx.Categories().ExistsByID(ctx, in.CategoryID)
		if err != nil {
			return apperr.Internal(err)
		}
		if !categoryExists {
			return apperr.NotFound("category %d not found", in.CategoryID)
		}

		product := &models.Product{
			Name:         in.Name,
			Description:  in.Description,
			SalePrice:    in.SalePrice,
			CurrentStock: in.CurrentStock,
			Status:       status,
			CategoryID:   in.CategoryID,
		}
		if in.PurchaseCost != nil {
			product.PurchaseCost = decimal.NewNullDecimal(*in.PurchaseCost)
		}
		if err := tx.Products().Save(ctx, product); err != nil {
			if errors.Is(err, models.ErrDuplicateName) {
				return apperr.Conflict("a product named %q already exists", in.Name)
			}
			return apperr.Internal(err)
		}
		// Re-read so the response carries the category.
		created, err = tx.Products().FindByID(ctx, product.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.Uint("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Status == "" {
		return nil, apperr.Validation("status must be one of: Active, Inactive, OutOfStock")
	}

	var updated *models.Product
	err := s.store.Transact(ctx, func(tx models.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				return apperr.NotFound("product %d not found", id)
			}
			return apperr.Internal(err)
		}

		if in.Name != product.Name {
			exists, err := tx.Products().ExistsByName(ctx, in.Name)
			if err != nil {
				return apperr.Internal(err)
			}
			if exists {
				return apperr.Conflict("a product named %q already exists", in.Name)
			}
		}

		product.Name = in.Name
		product.Description = in.Description
		product.SalePrice = in.SalePrice
		if in.PurchaseCost != nil {
			product.PurchaseCost = decimal.NewNullDecimal(*in.PurchaseCost)
		} else {
			product.PurchaseCost = decimal.NullDecimal{}
		}
		product.CurrentStock = in.CurrentStock
		product.Status = in.Status

		// The category changes only when the patch names one.
		if in.CategoryID != 0 {
			categoryExists, err := tx.Categories().ExistsByID(ctx, in.CategoryID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !categoryExists {
				return apperr.NotFound("category %d not found", in.CategoryID)
			}
			product.CategoryID = in.CategoryID
		}

		if err := tx.Products().Save(ctx, product); err != nil {
			if errors.Is(err, models.ErrDuplicateName) {
				return apperr.Conflict("a product named %q already exists", in.Name)
			}
			return apperr.Internal(err)
		}
		updated, err = tx.Products().FindByID(ctx, product.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.store.Transact(ctx, func(tx models.Store) error {
		exists, err := tx.Products().ExistsByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if !exists {
			return apperr.NotFound("product %d not found", id)
		}
		return tx.Products().DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("product deleted", zap.Uint("id", id))
	return nil
}

// ChangeStatus sets the status explicitly. Stock level is not consulted: a
// caller may mark a zero-stock product Active.
func (s *Service) ChangeStatus(ctx context.Context, id uint, status models.ProductStatus) (*models.Product, error) {
	var updated *models.Product
	err := s.store.Transact(ctx, func(tx models.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				return apperr.NotFound("product %d not found", id)
			}
			return apperr.Internal(err)
		}
		if !status.Valid() {
			return apperr.Validation("status must be one of: Active, Inactive, OutOfStock")
		}

		product.Status = status
		if err := tx.Products().Save(ctx, product); err != nil {
			return apperr.Internal(err)
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// IncreaseStock adds quantity to the current stock and forces the product
// Active. A positive purchaseCost also reprices the product: the cost is
// stored and the sale price becomes cost × 1.25, rounded half-up to two
// decimal places.
func (s *Service) IncreaseStock(ctx context.Context, id uint, quantity int, purchaseCost *decimal.Decimal) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than 0")
	}

	var updated *models.Product
	err := s.store.Transact(ctx, func(tx models.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				return apperr.NotFound("product %d not found", id)
			}
			return apperr.Internal(err)
		}

		product.CurrentStock += quantity
		if purchaseCost != nil && purchaseCost.IsPositive() {
			product.PurchaseCost = decimal.NewNullDecimal(*purchaseCost)
			product.SalePrice = purchaseCost.Mul(markup).Round(2)
		}
		product.Status = models.StatusActive

		if err := tx.Products().Save(ctx, product); err != nil {
			return apperr.Internal(err)
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock increased",
		zap.Uint("id", updated.ID),
		zap.Int("quantity", quantity),
		zap.Int("currentStock", updated.CurrentStock))
	return updated, nil
}

// DecreaseStock subtracts quantity from the current stock. Stock can never go
// negative: an insufficient balance is a conflict and leaves the row
// untouched. Reaching exactly zero forces the product OutOfStock.
func (s *Service) DecreaseStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than 0")
	}

	var updated *models.Product
	err := s.store.Transact(ctx, func(tx models.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				return apperr.NotFound("product %d not found", id)
			}
			return apperr.Internal(err)
		}

		if product.CurrentStock < quantity {
			return apperr.Conflict("insufficient stock: have %d, requested %d", product.CurrentStock, quantity)
		}

		product.CurrentStock -= quantity
		if product.CurrentStock == 0 {
			product.Status = models.StatusOutOfStock
		}

		if err := tx.Products().Save(ctx, product); err != nil {
			return apperr.Internal(err)
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock decreased",
		zap.Uint("id", updated.ID),
		zap.Int("quantity", quantity),
		zap.Int("currentStock", updated.CurrentStock))
	return updated, nil
}

func (s *Service) ListByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	products, err := s.store.Products().FindByStatus(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *Service) ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	products, err := s.store.Products().FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// ListLowStock returns products with stock strictly below threshold.
func (s *Service) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	products, err := s.store.Products().FindLowStock(ctx, threshold)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// SearchByName matches the product name, case-insensitive contains.
func (s *Service) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	products, err := s.store.Products().FindByNameContaining(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// ListAvailable returns Active products with stock above zero.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.Products().FindAvailable(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// ListByPriceRange returns products priced between min and max, inclusive.
func (s *Service) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error) {
	products, err := s.store.Products().FindByPriceRange(ctx, min, max)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}
