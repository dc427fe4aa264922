// Package entity defines the four records of the online-store dataset.
// All rows are written once at load time and never updated.
package entity

import "time"

// Customer is a registered shopper.
type Customer struct {
	ID               int64
	Name             string
	Email            string
	RegistrationDate time.Time
}

func (Customer) Table() string { return "customers" }

// Product is one entry of the fixed catalog.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

func (Product) Table() string { return "products" }

// Order groups one customer's line items. TotalAmount is derived at
// generation time and must equal the sum of quantity×unit price over
// the order's items, rounded to cents.
type Order struct {
	ID          int64
	CustomerID  int64
	OrderDate   time.Time
	TotalAmount float64
}

func (Order) Table() string { return "orders" }

// OrderItem is one product/quantity entry within an order. UnitPrice
// is a snapshot of the product price at order time.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice float64
}

func (OrderItem) Table() string { return "order_items" }
