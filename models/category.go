package models

// Category represents a product category.
// Name is unique across all categories; description is free text.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (c *Category) TableName() string {
	return "categories"
}
