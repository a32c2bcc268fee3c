package request

// CreateProductRequest new catalog entry; every field but inStock is required
type CreateProductRequest struct {
	Name     string   `json:"name" binding:"required" example:"Fresh Red Apple"`
	Category string   `json:"category" binding:"required" example:"fruits"`
	Price    *float64 `json:"price" binding:"required,min=0" example:"80"`
	Unit     string   `json:"unit" binding:"required" example:"1 kg"`
	Image    string   `json:"image" binding:"required,url"`
	InStock  *bool    `json:"inStock,omitempty"`
}

// UpdateProductRequest partial update; absent fields are unchanged
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Unit     *string  `json:"unit,omitempty"`
	Image    *string  `json:"image,omitempty" binding:"omitempty,url"`
	InStock  *bool    `json:"inStock,omitempty"`
}
