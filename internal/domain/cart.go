package domain

import "math"

// CartItem is a product snapshot plus a quantity. The snapshot keeps the
// price and display name the product had when it was added, including any
// installation-variant adjustment; it never re-syncs with the catalog.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// DiscountState is the promo discount applied to a cart: a rate and the
// code that produced it. The zero value means no discount.
type DiscountState struct {
	Rate float64 `json:"discount"`
	Code string  `json:"appliedCode"`
}

// CartItems is an ordered cart line list with derived totals.
type CartItems []CartItem

// TotalItems returns the sum of quantities across all lines.
func (items CartItems) TotalItems() int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price x quantity across all lines, in centavos.
func (items CartItems) Subtotal() int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// FindIndex returns the index of the line with the given product ID, or -1.
func (items CartItems) FindIndex(productID int64) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

// DiscountAmount computes the discount in centavos for a subtotal at the
// given rate, rounded to the nearest centavo.
func DiscountAmount(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}
