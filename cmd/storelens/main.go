package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/storelens/storelens/app"
	"github.com/storelens/storelens/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "storelens",
	Short: "storelens generates a synthetic online-store dataset and renders analytics charts",
	Long: `storelens builds a synthetic e-commerce dataset (customers, products,
orders, order items) in a SQLite file, runs the four analytics reports
over it and writes one PNG chart per report to the output directory.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the dataset, run all reports and render the charts",
	RunE:  runPipeline,
}

var flags struct {
	db        string
	output    string
	customers int
	orders    int
	seed      int64
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := app.Default()
	runCmd.Flags().StringVar(&flags.db, "db", d.DBFile, "SQLite database file (recreated on every run)")
	runCmd.Flags().StringVar(&flags.output, "out", d.OutputDir, "Directory for the rendered PNG charts")
	runCmd.Flags().IntVar(&flags.customers, "customers", d.Customers, "Number of customers to generate")
	runCmd.Flags().IntVar(&flags.orders, "orders", d.Orders, "Number of orders to generate")
	runCmd.Flags().Int64Var(&flags.seed, "seed", d.Seed, "Random seed (equal seeds reproduce the dataset)")
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	res := app.Load()
	if res.IsError() {
		return res.Error()
	}
	cfg := res.MustGet()

	// Explicit flags win over application.yml.
	if cmd.Flags().Changed("db") {
		cfg.DBFile = flags.db
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = flags.output
	}
	if cmd.Flags().Changed("customers") {
		cfg.Customers = flags.customers
	}
	if cmd.Flags().Changed("orders") {
		cfg.Orders = flags.orders
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flags.seed
	}

	return pipeline.Run(context.Background(), cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
