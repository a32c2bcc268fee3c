package response

import "time"

// ProductResponse catalog entry
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Image     string    `json:"image"`
	InStock   bool      `json:"inStock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
