package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/middleware"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// DailySales godoc
// @Summary      Daily sales report
// @Description  Gross revenue, discounts and completed refunds per day. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200  {object} dto.DailySalesReport
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reports/daily-sales [get]
func (h *ReportsHandler) DailySales(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.DailySales(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BOMCosts godoc
// @Summary      Recipe cost report
// @Description  Every active recipe's material cost against its product's sale price.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.BOMCostRow
// @Router       /v1/reports/bom-costs [get]
func (h *ReportsHandler) BOMCosts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.BOMCosts(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build recipe cost report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Low stock report
// @Description  Raw materials at or below their alert threshold.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LowStockRow
// @Router       /v1/reports/low-stock [get]
func (h *ReportsHandler) LowStock(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build low stock report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary      Dashboard summary
// @Description  Today's revenue and transaction count, inventory warning counts, and the five most recent sales.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DashboardSummary
// @Router       /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build dashboard summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SalesSeries godoc
// @Summary      Daily revenue series for the dashboard chart
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days (default 7, max 90)"
// @Success      200  {object} dto.SalesSeries
// @Router       /v1/reports/dashboard/sales-series [get]
func (h *ReportsHandler) SalesSeries(c *gin.Context) {
	var filter dto.SalesSeriesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.SalesSeries(c.Request.Context(), tenantID, filter.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build sales series"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportSales godoc
// @Summary      Export sales as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reports/sales/export [get]
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	data, err := h.svc.ExportSalesXLSX(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
