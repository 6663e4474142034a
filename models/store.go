package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateName is returned by Save when a unique index on the name
// column rejects the row. It backstops the uniqueness checks in the
// services against racing writers.
var ErrDuplicateName = errors.New("duplicate name")

// CategoryStore is the persistence contract for categories.
type CategoryStore interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	// FindByIDForUpdate locks the row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
	// SearchByText matches name or description, case-insensitive contains.
	SearchByText(ctx context.Context, text string) ([]Category, error)
}

// ProductStore is the persistence contract for products.
type ProductStore interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
	FindByStatus(ctx context.Context, status ProductStatus) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uint) ([]Product, error)
	// FindLowStock returns products with stock strictly below threshold.
	FindLowStock(ctx context.Context, threshold int) ([]Product, error)
	FindByNameContaining(ctx context.Context, name string) ([]Product, error)
	// FindAvailable returns Active products with stock above zero.
	FindAvailable(ctx context.Context) ([]Product, error)
	// FindByPriceRange matches sale price between min and max, inclusive.
	FindByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]Product, error)
}

// Store bundles both entity stores. Transact runs fn against tx-scoped stores
// inside a single database transaction, so check-then-write sequences in the
// services cannot interleave with concurrent writers.
type Store interface {
	Categories() CategoryStore
	Products() ProductStore
	Transact(ctx context.Context, fn func(Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Categories() CategoryStore {
	return &CategoriesRepository{db: s.db}
}

func (s *GormStore) Products() ProductStore {
	return &ProductsRepository{db: s.db}
}

func (s *GormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
