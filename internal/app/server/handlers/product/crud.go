package product

import (
	"github.com/gin-gonic/gin"

	"freshmart/internal/app/domains/apimodel/request"
	"freshmart/internal/app/domains/apimodel/response"
	"freshmart/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      Add a catalog product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body request.CreateProductRequest true "product"
// @Success      201 {object} ginx.Response{data=response.ProductResponse}
// @Failure      400 {object} ginx.Response
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req.ToCreateProductInput())
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Created(c, response.FromProductEntity(product))
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, response.FromProductEntity(product))
}

// List GET /products?category=
func (h *ProductHandler) List(c *gin.Context) {
	h.list(c, c.Query("category"))
}

// ListByCategory GET /products/category/:category
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	h.list(c, c.Param("category"))
}

func (h *ProductHandler) list(c *gin.Context, category string) {
	products, err := h.productService.ListProducts(c.Request.Context(), category)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, response.FromProductEntities(products))
}

// Update PUT /products/:id, absent fields stay unchanged
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		fail(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, response.FromProductEntity(product))
}

// Delete DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, gin.H{"message": "Product removed successfully"})
}
