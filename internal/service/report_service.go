package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

type ReportService interface {
	DailySales(ctx context.Context, tenantID uuid.UUID, filter dto.ReportFilter) (*dto.DailySalesReport, error)
	BOMCosts(ctx context.Context, tenantID uuid.UUID) ([]dto.BOMCostRow, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]dto.LowStockRow, error)
	ExportSalesXLSX(ctx context.Context, tenantID uuid.UUID, filter dto.ReportFilter) ([]byte, error)
	Dashboard(ctx context.Context, tenantID uuid.UUID) (*dto.DashboardSummary, error)
	SalesSeries(ctx context.Context, tenantID uuid.UUID, days int) (*dto.SalesSeries, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	refundRepo   repository.RefundRepository
	bomRepo      repository.BOMRepository
	materialRepo repository.RawMaterialRepository
	productRepo  repository.ProductRepository
}

func NewReportService(
	saleRepo repository.SaleRepository,
	refundRepo repository.RefundRepository,
	bomRepo repository.BOMRepository,
	materialRepo repository.RawMaterialRepository,
	productRepo repository.ProductRepository,
) ReportService {
	return &reportService{
		saleRepo:     saleRepo,
		refundRepo:   refundRepo,
		bomRepo:      bomRepo,
		materialRepo: materialRepo,
		productRepo:  productRepo,
	}
}

// parseRange turns the filter's date strings into an inclusive [from, to)
// interval. Missing dates default to the last 30 days.
func parseRange(filter dto.ReportFilter) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now

	if filter.DateFrom != "" {
		parsed, err := time.Parse(reportDateLayout, filter.DateFrom)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("date_from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if filter.DateTo != "" {
		parsed, err := time.Parse(reportDateLayout, filter.DateTo)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("date_to must be YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1) // include the whole end day
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("date_from must be before date_to")
	}
	return from, to, nil
}

func (s *reportService) DailySales(ctx context.Context, tenantID uuid.UUID, filter dto.ReportFilter) (*dto.DailySalesReport, error) {
	from, to, err := parseRange(filter)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	refunds, err := s.refundRepo.ListCompletedBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count     int
		gross     decimal.Decimal
		discounts decimal.Decimal
		refunds   decimal.Decimal
	}
	days := make(map[string]*bucket)
	day := func(t time.Time) *bucket {
		key := t.Format(reportDateLayout)
		b, ok := days[key]
		if !ok {
			b = &bucket{}
			days[key] = b
		}
		return b
	}

	for i := range sales {
		b := day(sales[i].CreatedAt)
		b.count++
		b.gross = b.gross.Add(sales[i].TotalAmount)
		b.discounts = b.discounts.Add(sales[i].DiscountAmount)
	}
	for i := range refunds {
		b := day(refunds[i].CreatedAt)
		b.refunds = b.refunds.Add(refunds[i].Amount)
	}

	report := &dto.DailySalesReport{
		DateFrom: from.Format(reportDateLayout),
		DateTo:   to.AddDate(0, 0, -1).Format(reportDateLayout),
		Rows:     make([]dto.DailySalesRow, 0, len(days)),
		Total:    decimal.Zero,
	}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(reportDateLayout)
		b, ok := days[key]
		if !ok {
			continue
		}
		net := b.gross.Sub(b.refunds)
		report.Rows = append(report.Rows, dto.DailySalesRow{
			Date:         key,
			SalesCount:   b.count,
			GrossRevenue: b.gross,
			Discounts:    b.discounts,
			Refunds:      b.refunds,
			NetRevenue:   net,
		})
		report.Total = report.Total.Add(net)
	}
	return report, nil
}

// BOMCosts lists every active recipe with its material cost against the
// product's sale price. Margin percent is relative to sale price; products
// priced at zero report a zero margin rather than dividing by zero.
func (s *reportService) BOMCosts(ctx context.Context, tenantID uuid.UUID) ([]dto.BOMCostRow, error) {
	headers, err := s.bomRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.BOMCostRow, 0, len(headers))
	for i := range headers {
		h := &headers[i]
		if h.Product == nil {
			continue
		}
		cost := recipeCostPreloaded(h.Items)
		margin := h.Product.Price.Sub(cost)
		marginPct := decimal.Zero
		if h.Product.Price.IsPositive() {
			marginPct = margin.Div(h.Product.Price).Mul(hundred).Round(2)
		}
		rows = append(rows, dto.BOMCostRow{
			ProductID:   h.ProductID.String(),
			ProductName: h.Product.Name,
			SKU:         h.Product.SKU,
			BOMVersion:  h.Version,
			BOMCost:     cost,
			SalePrice:   h.Product.Price,
			Margin:      margin,
			MarginPct:   marginPct,
		})
	}
	return rows, nil
}

func (s *reportService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]dto.LowStockRow, error) {
	materials, err := s.materialRepo.ListLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.LowStockRow, 0, len(materials))
	for i := range materials {
		m := &materials[i]
		rows = append(rows, dto.LowStockRow{
			RawMaterialID: m.ID.String(),
			Name:          m.Name,
			SKU:           m.SKU,
			Unit:          m.Unit,
			StockQty:      m.StockQty,
			StockAlert:    m.StockAlert,
		})
	}
	return rows, nil
}

// Dashboard assembles the landing-view numbers: today's trading, inventory
// warnings, and the five most recent sales.
func (s *reportService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*dto.DashboardSummary, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todaySales, err := s.saleRepo.ListBetween(ctx, tenantID, dayStart, now.Add(time.Second))
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for i := range todaySales {
		revenue = revenue.Add(todaySales[i].TotalAmount)
	}

	lowStock, err := s.productRepo.CountLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.CountActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	recent, err := s.saleRepo.ListRecent(ctx, tenantID, 5)
	if err != nil {
		return nil, err
	}
	recentResponses := make([]dto.SaleResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *saleToResponse(&recent[i]))
	}

	return &dto.DashboardSummary{
		TodayRevenue:      revenue,
		TodayTransactions: len(todaySales),
		LowStockProducts:  lowStock,
		TotalProducts:     totalProducts,
		RecentSales:       recentResponses,
	}, nil
}

// SalesSeries buckets revenue per calendar day for the dashboard chart,
// emitting a zero point for days without sales so the chart has no gaps.
func (s *reportService) SalesSeries(ctx context.Context, tenantID uuid.UUID, days int) (*dto.SalesSeries, error) {
	if days < 1 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := dayStart.AddDate(0, 0, -(days - 1))

	sales, err := s.saleRepo.ListBetween(ctx, tenantID, from, now.Add(time.Second))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		revenue      decimal.Decimal
		transactions int
	}
	buckets := make(map[string]*bucket)
	for i := range sales {
		key := sales[i].CreatedAt.Format(reportDateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(sales[i].TotalAmount)
		b.transactions++
	}

	series := &dto.SalesSeries{Days: days, Points: make([]dto.SalesSeriesPoint, 0, days)}
	for d := from; !d.After(dayStart); d = d.AddDate(0, 0, 1) {
		key := d.Format(reportDateLayout)
		point := dto.SalesSeriesPoint{Date: key, Revenue: decimal.Zero}
		if b, ok := buckets[key]; ok {
			point.Revenue = b.revenue
			point.Transactions = b.transactions
		}
		series.Points = append(series.Points, point)
	}
	return series, nil
}

func (s *reportService) ExportSalesXLSX(ctx context.Context, tenantID uuid.UUID, filter dto.ReportFilter) ([]byte, error) {
	from, to, err := parseRange(filter)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	return infra.WriteSalesReportXLSX(sales)
}
