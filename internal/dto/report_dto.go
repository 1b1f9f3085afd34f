package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

type ReportFilter struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type SalesSeriesFilter struct {
	Days int `form:"days,default=7"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type DailySalesRow struct {
	Date         string          `json:"date"`
	SalesCount   int             `json:"sales_count"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	Discounts    decimal.Decimal `json:"discounts"`
	Refunds      decimal.Decimal `json:"refunds"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
}

type DailySalesReport struct {
	DateFrom string          `json:"date_from"`
	DateTo   string          `json:"date_to"`
	Rows     []DailySalesRow `json:"rows"`
	Total    decimal.Decimal `json:"total"`
}

// BOMCostRow summarizes recipe cost against sale price for one product.
type BOMCostRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	BOMVersion  int             `json:"bom_version"`
	BOMCost     decimal.Decimal `json:"bom_cost"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Margin      decimal.Decimal `json:"margin"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// DashboardSummary is the storefront landing view: today's trading numbers
// plus inventory warning counts and the latest activity.
type DashboardSummary struct {
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	TodayTransactions int             `json:"today_transactions"`
	LowStockProducts  int64           `json:"low_stock_products"`
	TotalProducts     int64           `json:"total_products"`
	RecentSales       []SaleResponse  `json:"recent_sales"`
}

// SalesSeriesPoint is one day of the dashboard revenue chart.
type SalesSeriesPoint struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

type SalesSeries struct {
	Days   int                `json:"days"`
	Points []SalesSeriesPoint `json:"points"`
}

type LowStockRow struct {
	RawMaterialID string          `json:"raw_material_id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	StockQty      decimal.Decimal `json:"stock_qty"`
	StockAlert    decimal.Decimal `json:"stock_alert"`
}
