package entity

import "time"

// Product catalog row
type Product struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;index:idx_name"`
	Category  string    `gorm:"column:category;type:varchar(32);not null;index:idx_category_created"`
	Price     float64   `gorm:"column:price;type:decimal(12,2);not null"`
	Unit      string    `gorm:"column:unit;type:varchar(64);not null;default:'per kg'"`
	Image     string    `gorm:"column:image;type:varchar(1024);not null"`
	InStock   bool      `gorm:"column:in_stock;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_category_created"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName table name
func (Product) TableName() string {
	return "products"
}
