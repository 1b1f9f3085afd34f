package handler

import (
	"errors"
	"net/http"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/middleware"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BOMHandler struct{ svc service.BOMService }

func NewBOMHandler(svc service.BOMService) *BOMHandler { return &BOMHandler{svc: svc} }

// Save godoc
// @Summary      Save product recipe
// @Description  Creates a new recipe version and activates it. The previous version is kept for historical sales but deactivated.
// @Tags         bom
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Product UUID"
// @Param        body body dto.SaveBOMRequest true "Recipe items"
// @Success      201  {object} dto.BOMResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products/{id}/bom [put]
func (h *BOMHandler) Save(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SaveBOMRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.SaveBOM(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetActive godoc
// @Summary      Get active recipe
// @Tags         bom
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200  {object} dto.BOMResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id}/bom [get]
func (h *BOMHandler) GetActive(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.GetActiveBOM(c.Request.Context(), tenantID, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListVersions godoc
// @Summary      List recipe versions
// @Description  All versions newest first, including deactivated ones still referenced by past sales.
// @Tags         bom
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200  {array} dto.BOMResponse
// @Router       /v1/products/{id}/bom/versions [get]
func (h *BOMHandler) ListVersions(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.ListVersions(c.Request.Context(), tenantID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list recipe versions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActivateVersion godoc
// @Summary      Activate a recipe version
// @Description  Switches the active recipe to a previously saved version in one transaction.
// @Tags         bom
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "Product UUID"
// @Param        versionId path string true "Recipe header UUID"
// @Success      200  {object} dto.BOMResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id}/bom/versions/{versionId}/activate [post]
func (h *BOMHandler) ActivateVersion(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	headerID, ok := pathUUID(c, "versionId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.ActivateVersion(c.Request.Context(), tenantID, productID, headerID)
	if err != nil {
		if errors.Is(err, service.ErrBOMNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Remove product recipe
// @Description  Deactivates all versions and clears the product's manufactured flag. Historical versions are retained.
// @Tags         bom
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id}/bom [delete]
func (h *BOMHandler) Delete(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	if err := h.svc.DeleteBOM(c.Request.Context(), tenantID, productID); err != nil {
		if errors.Is(err, service.ErrBOMNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckAvailability godoc
// @Summary      Check production availability
// @Description  Per-material requirement vs current stock for producing the requested quantity. Never mutates stock.
// @Tags         bom
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Product UUID"
// @Param        body body dto.CheckAvailabilityRequest true "Quantity to produce"
// @Success      200  {object} dto.AvailabilityResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id}/bom/availability [post]
func (h *BOMHandler) CheckAvailability(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CheckAvailabilityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.CheckAvailability(c.Request.Context(), tenantID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrBOMNotFound) || errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cost godoc
// @Summary      Recipe cost breakdown
// @Description  Material cost of one unit at current raw-material prices, with margin against the sale price.
// @Tags         bom
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200  {object} dto.BOMCostResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id}/bom/cost [get]
func (h *BOMHandler) Cost(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.CalculateCost(c.Request.Context(), tenantID, productID)
	if err != nil {
		if errors.Is(err, service.ErrBOMNotFound) || errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
