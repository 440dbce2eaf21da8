package cart

// Line is a single cart entry. Price is captured from the catalog when the
// line is first added and stays locked until an explicit refresh.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image,omitempty"`
}

// Cart is the read model returned to callers.
type Cart struct {
	Shopper string  `json:"shopper"`
	Items   []Line  `json:"items"`
	Total   float64 `json:"total"`
}

// Total sums price x quantity over the given lines.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

type AddItemParams struct {
	Shopper   string
	ProductID string
	Quantity  int
}
