// Package gen produces the synthetic online-store dataset. All
// randomness flows through an explicit seeded source, so equal seed and
// counts yield an identical dataset.
package gen

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/storelens/storelens/entity"
)

const (
	// Registration and order dates are drawn uniformly from the two
	// years starting at windowStart.
	windowDays = 730

	maxItemsPerOrder = 5
	maxQuantity      = 3
)

var windowStart = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// Dataset is one internally consistent batch of generated records.
// Every Order references a Customer of the batch and every OrderItem
// references an Order and a Product of the batch.
type Dataset struct {
	Customers []entity.Customer
	Products  []entity.Product
	Orders    []entity.Order
	Items     []entity.OrderItem
}

// Generator produces datasets from a fixed catalog and a seeded source.
type Generator struct {
	rng      *rand.Rand
	products []entity.Product
}

// New returns a generator over the given catalog. The catalog must be
// non-empty.
func New(seed int64, products []entity.Product) (*Generator, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("gen: product catalog is empty")
	}
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		products: products,
	}, nil
}

// Dataset generates customers customers and orders orders with their
// line items. Identifiers are sequential starting at 1.
func (g *Generator) Dataset(customers, orders int) (Dataset, error) {
	if customers < 1 {
		return Dataset{}, fmt.Errorf("gen: customer count must be >= 1, got %d", customers)
	}
	if orders < 1 {
		return Dataset{}, fmt.Errorf("gen: order count must be >= 1, got %d", orders)
	}

	ds := Dataset{
		Customers: make([]entity.Customer, 0, customers),
		Products:  g.products,
		Orders:    make([]entity.Order, 0, orders),
	}

	for i := 1; i <= customers; i++ {
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		domain := emailDomains[g.rng.Intn(len(emailDomains))]
		ds.Customers = append(ds.Customers, entity.Customer{
			ID:               int64(i),
			Name:             first + " " + last,
			Email:            fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), i, domain),
			RegistrationDate: g.randomDate(),
		})
	}

	itemID := int64(1)
	for i := 1; i <= orders; i++ {
		orderID := int64(i)
		total := 0.0
		numItems := 1 + g.rng.Intn(maxItemsPerOrder)
		for j := 0; j < numItems; j++ {
			p := g.products[g.rng.Intn(len(g.products))]
			qty := 1 + g.rng.Intn(maxQuantity)
			total += p.Price * float64(qty)
			ds.Items = append(ds.Items, entity.OrderItem{
				ID:        itemID,
				OrderID:   orderID,
				ProductID: p.ID,
				Quantity:  qty,
				UnitPrice: p.Price,
			})
			itemID++
		}
		ds.Orders = append(ds.Orders, entity.Order{
			ID:          orderID,
			CustomerID:  int64(1 + g.rng.Intn(customers)),
			OrderDate:   g.randomDate(),
			TotalAmount: roundCents(total),
		})
	}
	return ds, nil
}

func (g *Generator) randomDate() time.Time {
	return windowStart.AddDate(0, 0, g.rng.Intn(windowDays))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
