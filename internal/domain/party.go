package domain

import "time"

// Supplier is a reference entity managed by the back office.
type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Customer is a reference entity managed by the back office.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
