package models

import (
	"github.com/shopspring/decimal"
)

// ProductStatus describes sale availability of a product.
type ProductStatus string

const (
	StatusActive     ProductStatus = "Active"
	StatusInactive   ProductStatus = "Inactive"
	StatusOutOfStock ProductStatus = "OutOfStock"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOutOfStock:
		return true
	}
	return false
}

// Product represents a sellable item in the catalog.
// It carries a unique name, pricing, stock level, status, and the category it
// belongs to. PurchaseCost stays null until a stock increase supplies one.
type Product struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Name         string              `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description  string              `gorm:"type:text" json:"description"`
	SalePrice    decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"salePrice"`
	PurchaseCost decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"purchaseCost"`
	CurrentStock int                 `gorm:"not null" json:"currentStock"`
	Status       ProductStatus       `gorm:"size:20;not null" json:"status"`
	CategoryID   uint                `gorm:"not null" json:"categoryId"`
	Category     Category            `gorm:"foreignKey:CategoryID" json:"category"`
}

func (p *Product) TableName() string {
	return "products"
}
