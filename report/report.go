// Package report holds the four aggregate reads over the store. Each
// query returns an ordered slice of typed rows; the column set and the
// ordering (including tie-breaks) are part of the contract.
package report

import (
	"context"
	"fmt"

	"github.com/storelens/storelens/store"
)

// TopN is the row limit shared by the ranked reports.
const TopN = 10

// Ties on the ranking metric are broken by ascending identifier in
// every query below, so results never depend on the engine's default
// row order.

const topSpendersSQL = `
WITH customer_spending AS (
    SELECT c.customer_id, c.name, SUM(o.total_amount) AS total_spent
    FROM customers c
    JOIN orders o ON o.customer_id = c.customer_id
    GROUP BY c.customer_id, c.name
)
SELECT customer_id, name, total_spent
FROM customer_spending
ORDER BY total_spent DESC, customer_id ASC
LIMIT ?;
`

const monthlySalesSQL = `
SELECT strftime('%Y-%m', order_date) AS order_month, SUM(total_amount) AS monthly_sales
FROM orders
GROUP BY order_month
ORDER BY order_month ASC;
`

const bestSellersSQL = `
SELECT p.product_id, p.name, p.category, SUM(oi.quantity) AS total_quantity
FROM order_items oi
JOIN products p ON p.product_id = oi.product_id
GROUP BY p.product_id, p.name, p.category
ORDER BY total_quantity DESC, p.product_id ASC
LIMIT ?;
`

const segmentsSQL = `
WITH customer_orders AS (
    SELECT c.customer_id, c.name, AVG(o.total_amount) AS avg_order_value
    FROM customers c
    JOIN orders o ON o.customer_id = c.customer_id
    GROUP BY c.customer_id, c.name
)
SELECT customer_id, name, avg_order_value,
       RANK() OVER (ORDER BY avg_order_value DESC) AS spending_rank
FROM customer_orders
ORDER BY spending_rank ASC, customer_id ASC
LIMIT ?;
`

// Spender is one row of the top-spenders report.
type Spender struct {
	CustomerID int64
	Name       string
	TotalSpent float64
}

// MonthlySale is one calendar-month bucket, Month formatted "YYYY-MM".
type MonthlySale struct {
	Month string
	Sales float64
}

// ProductSales is one row of the best-sellers report.
type ProductSales struct {
	ProductID     int64
	Name          string
	Category      string
	TotalQuantity int64
}

// Segment is one row of the average-order-value segmentation. Rank
// follows standard SQL RANK semantics: equal averages share a rank and
// the next rank skips accordingly.
type Segment struct {
	CustomerID    int64
	Name          string
	AvgOrderValue float64
	Rank          int64
}

// TopSpenders ranks customers by total spending, descending.
func TopSpenders(ctx context.Context, db store.DB) ([]Spender, error) {
	return queryRows(ctx, db, topSpendersSQL, func(scan scanner) (Spender, error) {
		var s Spender
		err := scan(&s.CustomerID, &s.Name, &s.TotalSpent)
		return s, err
	}, TopN)
}

// MonthlySales sums order totals per calendar month, chronologically.
func MonthlySales(ctx context.Context, db store.DB) ([]MonthlySale, error) {
	return queryRows(ctx, db, monthlySalesSQL, func(scan scanner) (MonthlySale, error) {
		var m MonthlySale
		err := scan(&m.Month, &m.Sales)
		return m, err
	})
}

// BestSellers ranks products by total quantity sold, descending.
func BestSellers(ctx context.Context, db store.DB) ([]ProductSales, error) {
	return queryRows(ctx, db, bestSellersSQL, func(scan scanner) (ProductSales, error) {
		var p ProductSales
		err := scan(&p.ProductID, &p.Name, &p.Category, &p.TotalQuantity)
		return p, err
	}, TopN)
}

// Segments ranks customers by mean order value, descending.
func Segments(ctx context.Context, db store.DB) ([]Segment, error) {
	return queryRows(ctx, db, segmentsSQL, func(scan scanner) (Segment, error) {
		var s Segment
		err := scan(&s.CustomerID, &s.Name, &s.AvgOrderValue, &s.Rank)
		return s, err
	}, TopN)
}

type scanner func(dest ...any) error

func queryRows[T any](ctx context.Context, db store.DB, query string, scanRow func(scanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		row, err := scanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("report scan: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}
	return result, nil
}
