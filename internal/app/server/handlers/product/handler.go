package product

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/services/svproduct"
	"freshmart/internal/app/pkg/ginx"
)

// ProductService catalog operations used by the handler (svproduct.ProductService)
type ProductService interface {
	CreateProduct(ctx context.Context, in svproduct.CreateProductInput) (*etproduct.Product, error)
	GetProduct(ctx context.Context, productID int64) (*etproduct.Product, error)
	ListProducts(ctx context.Context, category string) ([]*etproduct.Product, error)
	UpdateProduct(ctx context.Context, productID int64, patch etproduct.Patch) (*etproduct.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

// ProductHandler catalog HTTP handlers
type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// productID parses the :id path param, writing a 400 when it is not a positive integer
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ginx.BadRequest(c, "Invalid product ID")
		return 0, false
	}
	return id, true
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	ginx.FromError(c, err)
}
