// Package pipeline runs the whole batch: generate, load, query, render.
// Steps run strictly in order and the first failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/storelens/storelens/app"
	"github.com/storelens/storelens/gen"
	"github.com/storelens/storelens/render"
	"github.com/storelens/storelens/report"
	"github.com/storelens/storelens/store"
)

// previewRows caps how many rows of each report are echoed to stdout.
const previewRows = 5

// Run executes one full batch against cfg. The store handle is closed
// on every exit path.
func Run(ctx context.Context, cfg app.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	created, err := render.EnsureDir(cfg.OutputDir)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created output directory: %s\n", cfg.OutputDir)
	}

	generator, err := gen.New(cfg.Seed, gen.Catalog())
	if err != nil {
		return err
	}
	ds, err := generator.Dataset(cfg.Customers, cfg.Orders)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBFile)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := load(ctx, db, ds); err != nil {
		return err
	}
	fmt.Printf("Loaded %d customers, %d products, %d orders, %d order items into %s\n",
		len(ds.Customers), len(ds.Products), len(ds.Orders), len(ds.Items), cfg.DBFile)

	if err := reports(ctx, db, cfg.OutputDir); err != nil {
		return err
	}

	color.Green("Analysis run completed.")
	fmt.Printf("Database file: %s\n", cfg.DBFile)
	fmt.Printf("Charts written to: %s\n", cfg.OutputDir)
	return nil
}

// load rebuilds the schema and inserts the batch parent-first so every
// foreign key resolves at insert time.
func load(ctx context.Context, db store.DB, ds gen.Dataset) error {
	if err := store.Reset(ctx, db); err != nil {
		return err
	}
	if err := store.InsertCustomers(ctx, db, ds.Customers); err != nil {
		return err
	}
	if err := store.InsertProducts(ctx, db, ds.Products); err != nil {
		return err
	}
	if err := store.InsertOrders(ctx, db, ds.Orders); err != nil {
		return err
	}
	return store.InsertOrderItems(ctx, db, ds.Items)
}

func reports(ctx context.Context, db store.DB, outputDir string) error {
	spenders, err := report.TopSpenders(ctx, db)
	if err != nil {
		return err
	}
	preview("Top 10 Customers by Total Spending", spenders, func(s report.Spender) string {
		return fmt.Sprintf("%4d  %-24s %10.2f", s.CustomerID, s.Name, s.TotalSpent)
	})

	months, err := report.MonthlySales(ctx, db)
	if err != nil {
		return err
	}
	preview("Monthly Sales Trend", months, func(m report.MonthlySale) string {
		return fmt.Sprintf("%s  %12.2f", m.Month, m.Sales)
	})

	sellers, err := report.BestSellers(ctx, db)
	if err != nil {
		return err
	}
	preview("Best-Selling Products", sellers, func(p report.ProductSales) string {
		return fmt.Sprintf("%4d  %-16s %-14s %6d", p.ProductID, p.Name, p.Category, p.TotalQuantity)
	})

	segments, err := report.Segments(ctx, db)
	if err != nil {
		return err
	}
	preview("Customer Segmentation by Average Order Value", segments, func(s report.Segment) string {
		return fmt.Sprintf("%4d  %-24s %10.2f  rank %d", s.CustomerID, s.Name, s.AvgOrderValue, s.Rank)
	})

	charts := []struct {
		path   string
		render func(string) error
	}{
		{filepath.Join(outputDir, render.MonthlySalesFile), func(p string) error { return render.MonthlySalesTrend(months, p) }},
		{filepath.Join(outputDir, render.BestSellersFile), func(p string) error { return render.BestSellingProducts(sellers, p) }},
		{filepath.Join(outputDir, render.TopSpendersFile), func(p string) error { return render.TopCustomersSpending(spenders, p) }},
		{filepath.Join(outputDir, render.SegmentsFile), func(p string) error { return render.CustomerSegmentation(segments, p) }},
	}
	for _, c := range charts {
		if err := c.render(c.path); err != nil {
			return err
		}
		fmt.Printf("Saved plot: %s\n", c.path)
	}
	return nil
}

func preview[T any](title string, rows []T, format func(T) string) {
	color.Cyan("%s:", title)
	for i, row := range rows {
		if i == previewRows {
			fmt.Printf("  ... (%d rows total)\n", len(rows))
			break
		}
		fmt.Println("  " + format(row))
	}
}
