package main

import "freshmart/internal/app/domains/services/svproduct"

// starterCatalog products upserted by name on every run
var starterCatalog = []svproduct.CreateProductInput{
	{Name: "Fresh Red Apple", Category: "fruits", Price: 80, Unit: "1 kg",
		Image: "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6"},
	{Name: "Organic Bananas", Category: "fruits", Price: 40, Unit: "6 pieces",
		Image: "https://images.unsplash.com/photo-1603833665858-e61d17a86224"},
	{Name: "Alphonso Mango", Category: "fruits", Price: 150, Unit: "1 kg",
		Image: "https://images.unsplash.com/photo-1591073113125-e46713c829ed"},
	{Name: "Fresh Tomatoes", Category: "vegetables", Price: 30, Unit: "500 g",
		Image: "https://images.unsplash.com/photo-1546094096-0df4bcaaa337"},
	{Name: "Farm Potatoes", Category: "vegetables", Price: 25, Unit: "1 kg",
		Image: "https://images.unsplash.com/photo-1635774855536-9728f2610245"},
	{Name: "Fresh Spinach", Category: "vegetables", Price: 20, Unit: "250 g",
		Image: "https://images.unsplash.com/photo-1576045057995-568f588f82fb"},
}
