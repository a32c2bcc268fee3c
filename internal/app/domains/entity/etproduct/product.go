package etproduct

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"freshmart/internal/app/pkg/errorx"
)

// DefaultUnit unit used when none is given
const DefaultUnit = "per kg"

// Category product category
type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryFruits || c == CategoryVegetables
}

// ParseCategory normalizes and validates a category string
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", errorx.Validation("category", "category must be fruits or vegetables")
	}
	return c, nil
}

var ErrInvalidProductID = errors.New("invalid product ID")

// Product catalog entry
type Product struct {
	ID        int64
	Name      string
	Category  Category
	Price     float64
	Unit      string
	Image     string
	InStock   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a product (factory). id comes from the snowflake generator.
func NewProduct(id int64, name string, category Category, price float64, unit, image string, inStock bool) (*Product, error) {
	if id <= 0 {
		return nil, ErrInvalidProductID
	}
	p := &Product{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Category: category,
		Price:    price,
		Unit:     strings.TrimSpace(unit),
		Image:    strings.TrimSpace(image),
		InStock:  inStock,
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the catalog invariants
func (p *Product) Validate() error {
	if p.Name == "" {
		return errorx.Validation("name", "product name is required")
	}
	if !p.Category.Valid() {
		return errorx.Validation("category", "category must be fruits or vegetables")
	}
	if p.Price < 0 {
		return errorx.Validation("price", "price must not be negative")
	}
	if p.Image == "" {
		return errorx.Validation("image", "product image is required")
	}
	if u, err := url.Parse(p.Image); err != nil || u.Scheme == "" {
		return errorx.Validation("image", "product image must be an absolute URL")
	}
	return nil
}

// Patch partial update; nil fields are left unchanged
type Patch struct {
	Name     *string
	Category *Category
	Price    *float64
	Unit     *string
	Image    *string
	InStock  *bool
}

// Apply applies patch and re-validates. The product is left unchanged on error.
func (p *Product) Apply(patch Patch) error {
	next := *p
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Unit != nil {
		next.Unit = strings.TrimSpace(*patch.Unit)
		if next.Unit == "" {
			next.Unit = DefaultUnit
		}
	}
	if patch.Image != nil {
		next.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.InStock != nil {
		next.InStock = *patch.InStock
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// Snapshot the name/price/unit copied onto an order line
type Snapshot struct {
	ProductID int64
	Name      string
	Price     float64
	Unit      string
	InStock   bool
}

func (p *Product) Snapshot() Snapshot {
	return Snapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Unit:      p.Unit,
		InStock:   p.InStock,
	}
}
