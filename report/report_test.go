package report

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/samber/lo"
	"github.com/storelens/storelens/entity"
	"github.com/storelens/storelens/gen"
	"github.com/storelens/storelens/store"
	"github.com/stretchr/testify/suite"
)

// ReportTestSuite loads one seeded dataset and runs every query
// against it.
type ReportTestSuite struct {
	suite.Suite
	db store.DB
	ds gen.Dataset
}

func TestReportTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (s *ReportTestSuite) SetupSuite() {
	ctx := context.Background()

	g, err := gen.New(42, gen.Catalog())
	s.Require().NoError(err)
	s.ds, err = g.Dataset(60, 400)
	s.Require().NoError(err)

	s.db, err = store.Open(filepath.Join(s.T().TempDir(), "report_test.db"))
	s.Require().NoError(err)
	s.Require().NoError(store.Reset(ctx, s.db))
	s.Require().NoError(store.InsertCustomers(ctx, s.db, s.ds.Customers))
	s.Require().NoError(store.InsertProducts(ctx, s.db, s.ds.Products))
	s.Require().NoError(store.InsertOrders(ctx, s.db, s.ds.Orders))
	s.Require().NoError(store.InsertOrderItems(ctx, s.db, s.ds.Items))
}

func (s *ReportTestSuite) TearDownSuite() {
	if s.db != nil {
		s.Require().NoError(s.db.Close())
	}
}

func (s *ReportTestSuite) TestTopSpenders() {
	rows, err := TopSpenders(context.Background(), s.db)
	s.Require().NoError(err)
	s.Require().NotEmpty(rows)
	s.Require().LessOrEqual(len(rows), TopN)

	ordersByCustomer := lo.CountValuesBy(s.ds.Orders, func(o entity.Order) int64 { return o.CustomerID })
	for i, r := range rows {
		if i > 0 {
			prev := rows[i-1]
			s.Require().GreaterOrEqual(prev.TotalSpent, r.TotalSpent, "sorted descending by total spent")
			if prev.TotalSpent == r.TotalSpent {
				s.Require().Less(prev.CustomerID, r.CustomerID, "ties break by ascending customer id")
			}
		}
		s.Require().Positive(ordersByCustomer[r.CustomerID], "customer %d must have orders", r.CustomerID)
	}
}

func (s *ReportTestSuite) TestMonthlySales() {
	rows, err := MonthlySales(context.Background(), s.db)
	s.Require().NoError(err)
	s.Require().NotEmpty(rows)

	for i := 1; i < len(rows); i++ {
		s.Require().Less(rows[i-1].Month, rows[i].Month, "months strictly increasing")
	}

	// The buckets cover exactly the distinct months present in the data.
	want := lo.Uniq(lo.Map(s.ds.Orders, func(o entity.Order, _ int) string {
		return o.OrderDate.Format("2006-01")
	}))
	sort.Strings(want)
	got := lo.Map(rows, func(m MonthlySale, _ int) string { return m.Month })
	s.Require().Equal(want, got)

	for _, m := range rows {
		s.Require().Greater(m.Sales, 0.0, "month %s", m.Month)
	}
}

func (s *ReportTestSuite) TestBestSellers() {
	rows, err := BestSellers(context.Background(), s.db)
	s.Require().NoError(err)
	s.Require().NotEmpty(rows)
	s.Require().LessOrEqual(len(rows), TopN)

	qtyByProduct := map[int64]int64{}
	for _, it := range s.ds.Items {
		qtyByProduct[it.ProductID] += int64(it.Quantity)
	}
	for i, r := range rows {
		if i > 0 {
			s.Require().GreaterOrEqual(rows[i-1].TotalQuantity, r.TotalQuantity, "sorted descending by quantity")
		}
		s.Require().Equal(qtyByProduct[r.ProductID], r.TotalQuantity, "product %d", r.ProductID)
	}
}

func (s *ReportTestSuite) TestSegments() {
	rows, err := Segments(context.Background(), s.db)
	s.Require().NoError(err)
	s.Require().NotEmpty(rows)
	s.Require().LessOrEqual(len(rows), TopN)

	s.Require().Equal(int64(1), rows[0].Rank)
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		s.Require().GreaterOrEqual(prev.AvgOrderValue, cur.AvgOrderValue, "sorted descending by average")
		if prev.AvgOrderValue == cur.AvgOrderValue {
			s.Require().Equal(prev.Rank, cur.Rank, "equal averages share a rank")
		} else {
			// Standard RANK semantics: next rank skips past the tie group.
			s.Require().Equal(int64(i+1), cur.Rank)
		}
	}
}

func (s *ReportTestSuite) TestEmptyStoreYieldsNoRows() {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(s.T().TempDir(), "empty.db"))
	s.Require().NoError(err)
	defer db.Close()
	s.Require().NoError(store.Reset(ctx, db))

	rows, err := TopSpenders(ctx, db)
	s.Require().NoError(err)
	s.Require().Empty(rows)

	months, err := MonthlySales(ctx, db)
	s.Require().NoError(err)
	s.Require().Empty(months)
}
