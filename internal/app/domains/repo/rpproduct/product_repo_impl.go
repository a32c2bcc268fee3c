package rpproduct

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"freshmart/common/entity"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/pkg/errorx"
)

// ProductRepositoryImpl gorm implementation
type ProductRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository creates the repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *etproduct.Product) error {
	po := toGormModel(product)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return errorx.Persistence("insert product", err)
	}
	product.CreatedAt = po.CreatedAt
	product.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, productID int64) (*etproduct.Product, error) {
	var po entity.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrProductNotFound
		}
		return nil, errorx.Persistence("get product", err)
	}
	return toDomainModel(&po), nil
}

func (r *ProductRepositoryImpl) GetByName(ctx context.Context, name string) (*etproduct.Product, error) {
	var po entity.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errorx.Persistence("get product by name", err)
	}
	return toDomainModel(&po), nil
}

func (r *ProductRepositoryImpl) List(ctx context.Context, category etproduct.Category) ([]*etproduct.Product, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if category != "" {
		query = query.Where("category = ?", string(category))
	}

	var pos []entity.Product
	if err := query.Order("created_at DESC").Order("id DESC").Find(&pos).Error; err != nil {
		return nil, errorx.Persistence("list products", err)
	}

	products := make([]*etproduct.Product, 0, len(pos))
	for i := range pos {
		products = append(products, toDomainModel(&pos[i]))
	}
	return products, nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *etproduct.Product) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Product{ID: product.ID}).
		Select("name", "category", "price", "unit", "image", "in_stock", "updated_at").
		Updates(toGormModel(product))
	if res.Error != nil {
		return errorx.Persistence("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorx.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", productID).Delete(&entity.Product{})
	if res.Error != nil {
		return errorx.Persistence("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorx.ErrProductNotFound
	}
	return nil
}

func toGormModel(p *etproduct.Product) *entity.Product {
	return &entity.Product{
		ID:        p.ID,
		Name:      p.Name,
		Category:  string(p.Category),
		Price:     p.Price,
		Unit:      p.Unit,
		Image:     p.Image,
		InStock:   p.InStock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainModel(po *entity.Product) *etproduct.Product {
	return &etproduct.Product{
		ID:        po.ID,
		Name:      po.Name,
		Category:  etproduct.Category(po.Category),
		Price:     po.Price,
		Unit:      po.Unit,
		Image:     po.Image,
		InStock:   po.InStock,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}
