package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

func (r *ProductsRepository) Save(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit("Category").Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *ProductsRepository) FindByID(ctx context.Context, id uint) (*Product, error) {
	return r.findByID(ctx, id)
}

func (r *ProductsRepository) FindByIDForUpdate(ctx context.Context, id uint) (*Product, error) {
	return r.findByID(ctx, id, clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "products"}})
}

func (r *ProductsRepository) findByID(ctx context.Context, id uint, conds ...clause.Expression) (*Product, error) {
	var product Product
	query := r.db.WithContext(ctx).Preload("Category")
	for _, c := range conds {
		query = query.Clauses(c)
	}
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) FindAll(ctx context.Context) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *ProductsRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductsRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Product{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductsRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Product{}, id).Error
}

func (r *ProductsRepository) FindByStatus(ctx context.Context, status ProductStatus) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("status = ?", status))
}

func (r *ProductsRepository) FindByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

func (r *ProductsRepository) FindLowStock(ctx context.Context, threshold int) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("current_stock < ?", threshold))
}

func (r *ProductsRepository) FindByNameContaining(ctx context.Context, name string) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("name ILIKE ?", "%"+name+"%"))
}

func (r *ProductsRepository) FindAvailable(ctx context.Context) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("status = ? AND current_stock > 0", StatusActive))
}

func (r *ProductsRepository) FindByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("sale_price BETWEEN ? AND ?", min, max))
}

func (r *ProductsRepository) list(ctx context.Context, query *gorm.DB) ([]Product, error) {
	var products []Product
	if err := query.Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
