package request

import (
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/services/svorder"
	"freshmart/internal/app/domains/services/svproduct"
)

// ToCreateOrderInput converts the request DTO into the service input; TotalAmount is dropped
func (r *CreateOrderRequest) ToCreateOrderInput() svorder.CreateOrderInput {
	items := make([]etorder.Line, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, item.ToLine())
	}
	return svorder.CreateOrderInput{
		CustomerName:    r.CustomerName,
		Items:           items,
		DeliveryAddress: r.DeliveryAddress,
		Phone:           r.Phone,
		DeliverySlot:    r.DeliverySlot,
		PaymentMethod:   r.PaymentMethod,
		DeliveryCharge:  r.DeliveryCharge,
	}
}

func (i OrderItem) ToLine() etorder.Line {
	return etorder.Line{
		ProductID: i.ProductID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		Price:     i.Price,
		Unit:      i.Unit,
	}
}

func (r *CreateProductRequest) ToCreateProductInput() svproduct.CreateProductInput {
	in := svproduct.CreateProductInput{
		Name:     r.Name,
		Category: r.Category,
		Unit:     r.Unit,
		Image:    r.Image,
		InStock:  r.InStock,
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

// ToPatch converts the request into a domain patch; the category is parsed here
func (r *UpdateProductRequest) ToPatch() (etproduct.Patch, error) {
	patch := etproduct.Patch{
		Name:    r.Name,
		Price:   r.Price,
		Unit:    r.Unit,
		Image:   r.Image,
		InStock: r.InStock,
	}
	if r.Category != nil {
		c, err := etproduct.ParseCategory(*r.Category)
		if err != nil {
			return etproduct.Patch{}, err
		}
		patch.Category = &c
	}
	return patch, nil
}
