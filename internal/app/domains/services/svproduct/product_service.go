package svproduct

import (
	"context"
	"fmt"

	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/pkg/idgen"
	"freshmart/internal/app/pkg/logger"
)

// ProductStore catalog storage (mdcatalog.CatalogModule)
type ProductStore interface {
	CreateProduct(ctx context.Context, product *etproduct.Product) error
	GetProduct(ctx context.Context, productID int64) (*etproduct.Product, error)
	GetProductByName(ctx context.Context, name string) (*etproduct.Product, error)
	ListProducts(ctx context.Context, category etproduct.Category) ([]*etproduct.Product, error)
	UpdateProduct(ctx context.Context, product *etproduct.Product) error
	DeleteProduct(ctx context.Context, productID int64) error
}

// ProductService catalog management
type ProductService struct {
	store  ProductStore
	logger logger.Logger
	nextID func() int64
}

// NewProductService creates the service; ids come from the snowflake generator
func NewProductService(store ProductStore, logger logger.Logger) *ProductService {
	return &ProductService{
		store:  store,
		logger: logger,
		nextID: idgen.GenerateID,
	}
}

// CreateProductInput new catalog entry
type CreateProductInput struct {
	Name     string
	Category string
	Price    float64
	Unit     string
	Image    string
	InStock  *bool // defaults to true
}

// CreateProduct creates a product with a new snowflake id
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*etproduct.Product, error) {
	category, err := etproduct.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	product, err := etproduct.NewProduct(s.nextID(), in.Name, category, in.Price, in.Unit, in.Image, inStock)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("save product failed: %w", err)
	}

	s.logger.Infof(ctx, "product created: id=%d name=%s", product.ID, product.Name)
	return product, nil
}

// UpsertByName updates the product with the same name or creates it (seed command)
func (s *ProductService) UpsertByName(ctx context.Context, in CreateProductInput) (*etproduct.Product, bool, error) {
	existing, err := s.store.GetProductByName(ctx, in.Name)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		p, err := s.CreateProduct(ctx, in)
		return p, true, err
	}

	category, err := etproduct.ParseCategory(in.Category)
	if err != nil {
		return nil, false, err
	}
	patch := etproduct.Patch{
		Category: &category,
		Price:    &in.Price,
		Unit:     &in.Unit,
		Image:    &in.Image,
		InStock:  in.InStock,
	}
	if err := existing.Apply(patch); err != nil {
		return nil, false, err
	}
	if err := s.store.UpdateProduct(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("update product failed: %w", err)
	}
	return existing, false, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID int64) (*etproduct.Product, error) {
	return s.store.GetProduct(ctx, productID)
}

// ListProducts newest first; empty category lists everything
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]*etproduct.Product, error) {
	if category == "" {
		return s.store.ListProducts(ctx, "")
	}
	c, err := etproduct.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.store.ListProducts(ctx, c)
}

// UpdateProduct applies a partial update
func (s *ProductService) UpdateProduct(ctx context.Context, productID int64, patch etproduct.Patch) (*etproduct.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product failed: %w", err)
	}

	s.logger.Infof(ctx, "product updated: id=%d in_stock=%t price=%.2f", product.ID, product.InStock, product.Price)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.logger.Infof(ctx, "product deleted: id=%d", productID)
	return nil
}
