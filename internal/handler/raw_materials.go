package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/middleware"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RawMaterialsHandler struct{ svc service.RawMaterialService }

func NewRawMaterialsHandler(svc service.RawMaterialService) *RawMaterialsHandler {
	return &RawMaterialsHandler{svc: svc}
}

// Create godoc
// @Summary      Create raw material
// @Description  SKU is generated automatically (RM-XXX-NNNNNN).
// @Tags         raw-materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRawMaterialRequest true "Raw material"
// @Success      201  {object} dto.RawMaterialResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/raw-materials [post]
func (h *RawMaterialsHandler) Create(c *gin.Context) {
	var req dto.CreateRawMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get raw material
// @Tags         raw-materials
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Raw material UUID"
// @Success      200  {object} dto.RawMaterialResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/raw-materials/{id} [get]
func (h *RawMaterialsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List raw materials
// @Tags         raw-materials
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Name or SKU search"
// @Param        low_stock query bool   false "Only materials at or below alert level"
// @Param        page      query int    false "Page (default 1)"
// @Param        page_size query int    false "Page size (default 20, max 100)"
// @Success      200  {object} dto.PaginatedResponse
// @Router       /v1/raw-materials [get]
func (h *RawMaterialsHandler) List(c *gin.Context) {
	var filter dto.RawMaterialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list raw materials"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update raw material
// @Description  Stock quantity is not editable here — use the adjustment endpoint.
// @Tags         raw-materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Raw material UUID"
// @Param        body body dto.UpdateRawMaterialRequest true "Raw material"
// @Success      200  {object} dto.RawMaterialResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/raw-materials/{id} [put]
func (h *RawMaterialsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRawMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		if errors.Is(err, service.ErrRawMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete raw material
// @Tags         raw-materials
// @Security     BearerAuth
// @Param        id path string true "Raw material UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/raw-materials/{id} [delete]
func (h *RawMaterialsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		if errors.Is(err, service.ErrRawMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Adjust raw material stock
// @Description  Signed manual correction with a mandatory reason; every change lands in the audit trail.
// @Tags         raw-materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                            true "Raw material UUID"
// @Param        body body dto.AdjustRawMaterialStockRequest true "Signed quantity and reason"
// @Success      200  {object} dto.RawMaterialResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/raw-materials/{id}/adjust [post]
func (h *RawMaterialsHandler) AdjustStock(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustRawMaterialStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AdjustStock(c.Request.Context(), tenantID, id, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrRawMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAdjustments godoc
// @Summary      Stock adjustment history
// @Tags         raw-materials
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Raw material UUID"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.PaginatedResponse
// @Router       /v1/raw-materials/{id}/adjustments [get]
func (h *RawMaterialsHandler) ListAdjustments(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, total, err := h.svc.ListAdjustments(c.Request.Context(), tenantID, id, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list adjustments"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows, "total": total, "page": page, "limit": limit})
}
