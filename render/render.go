// Package render turns report tables into static PNG charts. Values
// are plotted exactly in the order delivered by the report layer; no
// re-sorting happens here.
package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/storelens/storelens/report"
	"github.com/wcharczuk/go-chart/v2"
)

// File names of the four charts inside the output directory.
const (
	MonthlySalesFile = "monthly_sales_trend.png"
	BestSellersFile  = "best_selling_products.png"
	TopSpendersFile  = "top_customers_spending.png"
	SegmentsFile     = "customer_segmentation.png"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// EnsureDir creates the output directory if absent. It reports whether
// the directory had to be created; failure to create it is fatal to the
// run.
func EnsureDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return true, nil
}

// MonthlySalesTrend renders the month buckets as a line chart.
func MonthlySalesTrend(rows []report.MonthlySale, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("render %s: empty result table", path)
	}
	xs := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		month, err := time.Parse("2006-01", r.Month)
		if err != nil {
			return fmt.Errorf("render %s: bad month %q: %w", path, r.Month, err)
		}
		xs = append(xs, month)
	}
	graph := chart.Chart{
		Title:  "Monthly Sales Trend",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Month",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{Name: "Total Sales ($)"},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: lo.Map(rows, func(r report.MonthlySale, _ int) float64 { return r.Sales }),
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
			},
		},
	}
	return savePNG(graph, path)
}

// BestSellingProducts renders quantities sold as a bar chart.
func BestSellingProducts(rows []report.ProductSales, path string) error {
	bars := lo.Map(rows, func(r report.ProductSales, _ int) chart.Value {
		return chart.Value{Label: r.Name, Value: float64(r.TotalQuantity)}
	})
	return saveBars("Top 10 Best-Selling Products", "Total Quantity Sold", bars, path)
}

// TopCustomersSpending renders total spending per customer as a bar chart.
func TopCustomersSpending(rows []report.Spender, path string) error {
	bars := lo.Map(rows, func(r report.Spender, _ int) chart.Value {
		return chart.Value{Label: r.Name, Value: r.TotalSpent}
	})
	return saveBars("Top 10 Customers by Total Spending", "Total Spent ($)", bars, path)
}

// CustomerSegmentation renders average order value per ranked customer
// as a bar chart.
func CustomerSegmentation(rows []report.Segment, path string) error {
	bars := lo.Map(rows, func(r report.Segment, _ int) chart.Value {
		return chart.Value{Label: r.Name, Value: r.AvgOrderValue}
	})
	return saveBars("Top 10 Customers by Average Order Value", "Average Order Value ($)", bars, path)
}

func saveBars(title, yLabel string, bars []chart.Value, path string) error {
	if len(bars) == 0 {
		return fmt.Errorf("render %s: empty result table", path)
	}
	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 50,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis:    chart.YAxis{Name: yLabel},
		Bars:     bars,
	}
	return savePNG(graph, path)
}

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func savePNG(graph renderable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file %s: %w", path, err)
	}
	return nil
}
