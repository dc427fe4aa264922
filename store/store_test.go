package store

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/storelens/storelens/entity"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "store_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Reset(context.Background(), db))
	return db
}

func fixture() ([]entity.Customer, []entity.Product, []entity.Order, []entity.OrderItem) {
	reg := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	customers := []entity.Customer{
		{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com", RegistrationDate: reg},
		{ID: 2, Name: "Alan Turing", Email: "alan@example.com", RegistrationDate: reg},
	}
	products := []entity.Product{
		{ID: 1, Name: "Laptop", Category: "Electronics", Price: 1199.99},
		{ID: 2, Name: "Book", Category: "Books", Price: 14.99},
	}
	orders := []entity.Order{
		{ID: 1, CustomerID: 1, OrderDate: reg.AddDate(0, 1, 0), TotalAmount: 1214.98},
		{ID: 2, CustomerID: 2, OrderDate: reg.AddDate(0, 2, 0), TotalAmount: 29.98},
	}
	items := []entity.OrderItem{
		{ID: 1, OrderID: 1, ProductID: 1, Quantity: 1, UnitPrice: 1199.99},
		{ID: 2, OrderID: 1, ProductID: 2, Quantity: 1, UnitPrice: 14.99},
		{ID: 3, OrderID: 2, ProductID: 2, Quantity: 2, UnitPrice: 14.99},
	}
	return customers, products, orders, items
}

func TestResetAndInsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	customers, products, orders, items := fixture()

	require.NoError(t, InsertCustomers(ctx, db, customers))
	require.NoError(t, InsertProducts(ctx, db, products))
	require.NoError(t, InsertOrders(ctx, db, orders))
	require.NoError(t, InsertOrderItems(ctx, db, items))

	for table, want := range map[string]int64{
		"customers":   2,
		"products":    2,
		"orders":      2,
		"order_items": 3,
	} {
		n, err := Count(ctx, db, table)
		require.NoError(t, err)
		require.Equal(t, want, n, table)
	}

	// Reset wipes everything, it is a full rebuild not a migration.
	require.NoError(t, Reset(ctx, db))
	n, err := Count(ctx, db, "customers")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestInsertOrders_RejectsUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	customers, _, _, _ := fixture()
	require.NoError(t, InsertCustomers(ctx, db, customers))

	err := InsertOrders(ctx, db, []entity.Order{
		{ID: 1, CustomerID: 999, OrderDate: time.Now(), TotalAmount: 10},
	})
	require.Error(t, err, "foreign keys are enforced at insert time")
}

func TestInsertOrderItems_RejectsUnknownProduct(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	customers, products, orders, _ := fixture()
	require.NoError(t, InsertCustomers(ctx, db, customers))
	require.NoError(t, InsertProducts(ctx, db, products))
	require.NoError(t, InsertOrders(ctx, db, orders))

	err := InsertOrderItems(ctx, db, []entity.OrderItem{
		{ID: 1, OrderID: 1, ProductID: 999, Quantity: 1, UnitPrice: 1},
	})
	require.Error(t, err)
}

func TestBatchInsert_ChunksLargeBatches(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	customers := make([]entity.Customer, 0, 1000)
	reg := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 1000; i++ {
		customers = append(customers, entity.Customer{
			ID:               int64(i),
			Name:             "Bulk Customer",
			Email:            "bulk@example.com",
			RegistrationDate: reg,
		})
	}
	require.NoError(t, InsertCustomers(ctx, db, customers))

	n, err := Count(ctx, db, "customers")
	require.NoError(t, err)
	require.Equal(t, int64(1000), n)
}

func TestWithSQLLogger(t *testing.T) {
	db := openTestDB(t)

	require.Equal(t, db, WithSQLLogger(db, nil))

	logged := WithSQLLogger(db, log.New(os.Stderr, "", 0))
	require.NotEqual(t, db, logged)
	require.NoError(t, logged.PingContext(context.Background()))
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "nested", "store.db"))
	require.Error(t, err)
}
