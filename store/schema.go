package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/storelens/storelens/entity"
)

// resetSQL drops and recreates the four tables. Children go first on
// the way down and last on the way up so foreign keys always resolve.
const resetSQL = `
DROP TABLE IF EXISTS order_items;
DROP TABLE IF EXISTS orders;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS customers;

CREATE TABLE customers (
    customer_id       INTEGER PRIMARY KEY,
    name              TEXT NOT NULL,
    email             TEXT NOT NULL,
    registration_date DATE NOT NULL
);

CREATE TABLE products (
    product_id INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    category   TEXT NOT NULL,
    price      REAL NOT NULL
);

CREATE TABLE orders (
    order_id     INTEGER PRIMARY KEY,
    customer_id  INTEGER NOT NULL,
    order_date   DATE NOT NULL,
    total_amount REAL NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
);

CREATE TABLE order_items (
    order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      INTEGER NOT NULL,
    product_id    INTEGER NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 1),
    unit_price    REAL NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(order_id),
    FOREIGN KEY (product_id) REFERENCES products(product_id)
);
`

// Reset rebuilds the schema from scratch. Every run starts from an
// empty store; there is no incremental migration.
func Reset(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, resetSQL); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}

// SQLite's default variable limit is 999; chunk sizes keep each batch
// statement comfortably under it.
const insertChunk = 200

// batchInsert expands one multi-row INSERT per chunk of rows.
func batchInsert[T any](ctx context.Context, db DB, table string, columns []string, rows []T, bind func(T) []any) error {
	rowPlaceholder := "(" + strings.Join(lo.RepeatBy(len(columns), func(_ int) string { return "?" }), ",") + ")"
	for _, chunk := range lo.Chunk(rows, insertChunk) {
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table,
			strings.Join(columns, ", "),
			strings.Join(lo.RepeatBy(len(chunk), func(_ int) string { return rowPlaceholder }), ","),
		)
		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			args = append(args, bind(row)...)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// InsertCustomers writes the customer batch.
func InsertCustomers(ctx context.Context, db DB, customers []entity.Customer) error {
	return batchInsert(ctx, db, entity.Customer{}.Table(),
		[]string{"customer_id", "name", "email", "registration_date"},
		customers,
		func(c entity.Customer) []any {
			return []any{c.ID, c.Name, c.Email, c.RegistrationDate.Format(dateLayout)}
		})
}

// InsertProducts writes the catalog batch.
func InsertProducts(ctx context.Context, db DB, products []entity.Product) error {
	return batchInsert(ctx, db, entity.Product{}.Table(),
		[]string{"product_id", "name", "category", "price"},
		products,
		func(p entity.Product) []any {
			return []any{p.ID, p.Name, p.Category, p.Price}
		})
}

// InsertOrders writes the order batch. Customers must already be in
// place or the foreign key check rejects the batch.
func InsertOrders(ctx context.Context, db DB, orders []entity.Order) error {
	return batchInsert(ctx, db, entity.Order{}.Table(),
		[]string{"order_id", "customer_id", "order_date", "total_amount"},
		orders,
		func(o entity.Order) []any {
			return []any{o.ID, o.CustomerID, o.OrderDate.Format(dateLayout), o.TotalAmount}
		})
}

// InsertOrderItems writes the line-item batch. Orders and products must
// already be in place.
func InsertOrderItems(ctx context.Context, db DB, items []entity.OrderItem) error {
	return batchInsert(ctx, db, entity.OrderItem{}.Table(),
		[]string{"order_item_id", "order_id", "product_id", "quantity", "unit_price"},
		items,
		func(it entity.OrderItem) []any {
			return []any{it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice}
		})
}

// Count returns the number of rows in table.
func Count(ctx context.Context, db DB, table string) (int64, error) {
	rows, err := db.QueryContext(ctx, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()
	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return n, rows.Err()
}
