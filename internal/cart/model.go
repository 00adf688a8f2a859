package cart

// Product is the catalog shape a view hands to AddItem. Image may be empty
// when the catalog has no picture for the product.
type Product struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// LineItem is one product entry in the cart. There is exactly one LineItem
// per distinct ProductID; duplicate adds increment Quantity instead.
type LineItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}
