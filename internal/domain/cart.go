package domain

// Product is one cart line item. Amount is the quantity requested by the
// shopper; the display fields come from the catalog and are opaque here.
type Product struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

// Stock is the purchasable ceiling for a product as reported by the catalog.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// CloneProducts returns an independent copy of a cart snapshot.
func CloneProducts(items []Product) []Product {
	out := make([]Product, len(items))
	copy(out, items)
	return out
}
