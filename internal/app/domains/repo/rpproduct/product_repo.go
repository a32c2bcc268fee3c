package rpproduct

import (
	"context"

	"freshmart/internal/app/domains/entity/etproduct"
)

// ProductRepository catalog storage
type ProductRepository interface {
	// Create inserts a product
	Create(ctx context.Context, product *etproduct.Product) error

	// GetByID returns errorx.ErrProductNotFound when missing
	GetByID(ctx context.Context, productID int64) (*etproduct.Product, error)

	// GetByName used by the seed command for upserts; nil, nil when missing
	GetByName(ctx context.Context, name string) (*etproduct.Product, error)

	// List newest first; empty category matches all
	List(ctx context.Context, category etproduct.Category) ([]*etproduct.Product, error)

	// Update writes all mutable fields
	Update(ctx context.Context, product *etproduct.Product) error

	// Delete removes the product physically
	Delete(ctx context.Context, productID int64) error
}
