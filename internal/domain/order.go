package domain

import "time"

// OrderStatusPending is the status the back office assigns to new orders.
// This service never moves an order past it.
const OrderStatusPending = "pending"

// OrderItemPayload is a single cart line as submitted with an order.
type OrderItemPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderPayload is the order-creation request sent to the back office.
type OrderPayload struct {
	FullName       string             `json:"fullName"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	City           string             `json:"city"`
	ZipCode        string             `json:"zipCode"`
	Subtotal       int64              `json:"subtotal"`
	DiscountAmount int64              `json:"discountAmount"`
	DiscountCode   string             `json:"discountCode,omitempty"`
	Total          int64              `json:"total"`
	Items          []OrderItemPayload `json:"items"`
}

// OrderItem is a persisted order line as echoed by the back office.
type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID             int64       `json:"id"`
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	ZipCode        string      `json:"zipCode"`
	Subtotal       int64       `json:"subtotal"`
	DiscountAmount int64       `json:"discountAmount"`
	DiscountCode   string      `json:"discountCode"`
	Total          int64       `json:"total"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	Items          []OrderItem `json:"items,omitempty"`
}
