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

type MarketplaceHandler struct{ svc service.MarketplaceService }

func NewMarketplaceHandler(svc service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{svc: svc}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

// CreateItem godoc
// @Summary      Create marketplace item
// @Description  Superadmin only. Items are visible to every store.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMarketplaceItemRequest true "Item"
// @Success      201  {object} dto.MarketplaceItemResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marketplace/items [post]
func (h *MarketplaceHandler) CreateItem(c *gin.Context) {
	var req dto.CreateMarketplaceItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateItem godoc
// @Summary      Update marketplace item
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                           true "Item UUID"
// @Param        body body dto.UpdateMarketplaceItemRequest true "Item"
// @Success      200  {object} dto.MarketplaceItemResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/marketplace/items/{id} [put]
func (h *MarketplaceHandler) UpdateItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMarketplaceItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListItems godoc
// @Summary      Browse marketplace catalog
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "Include inactive items (superadmin)"
// @Success      200  {array} dto.MarketplaceItemResponse
// @Router       /v1/marketplace/items [get]
func (h *MarketplaceHandler) ListItems(c *gin.Context) {
	claims := middleware.GetClaims(c)
	activeOnly := true
	if claims.Superadmin && c.Query("all") == "true" {
		activeOnly = false
	}
	resp, err := h.svc.ListItems(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list marketplace items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Payment accounts ──────────────────────────────────────────────────────────

// CreatePaymentMethod godoc
// @Summary      Add platform payment account
// @Description  Superadmin only. Shown to stores when paying for restock orders.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePaymentMethodRequest true "Payment account"
// @Success      201  {object} dto.PaymentMethodResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marketplace/payment-methods [post]
func (h *MarketplaceHandler) CreatePaymentMethod(c *gin.Context) {
	var req dto.CreatePaymentMethodRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPaymentMethods godoc
// @Summary      List platform payment accounts
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PaymentMethodResponse
// @Router       /v1/marketplace/payment-methods [get]
func (h *MarketplaceHandler) ListPaymentMethods(c *gin.Context) {
	resp, err := h.svc.ListPaymentMethods(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list payment methods"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivatePaymentMethod godoc
// @Summary      Deactivate platform payment account
// @Tags         marketplace
// @Security     BearerAuth
// @Param        id path string true "Payment method UUID"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marketplace/payment-methods/{id} [delete]
func (h *MarketplaceHandler) DeactivatePaymentMethod(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivatePaymentMethod(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Restock orders ────────────────────────────────────────────────────────────

// CreateOrder godoc
// @Summary      Place restock order
// @Description  Orders goods from the platform catalog into the store's product or raw-material inventory, pending superadmin verification of the payment proof.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRestockOrderRequest true "Order"
// @Success      201  {object} dto.RestockOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marketplace/orders [post]
func (h *MarketplaceHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateRestockOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.CreateOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders godoc
// @Summary      List restock orders
// @Description  Stores see their own orders; superadmins see the platform-wide queue.
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "pending | verified | rejected"
// @Param        page      query int    false "Page (default 1)"
// @Param        page_size query int    false "Page size (default 20, max 100)"
// @Success      200  {object} dto.PaginatedResponse
// @Router       /v1/marketplace/orders [get]
func (h *MarketplaceHandler) ListOrders(c *gin.Context) {
	var filter dto.RestockOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)

	var (
		resp *dto.PaginatedResponse
		err  error
	)
	if claims.Superadmin {
		resp, err = h.svc.ListAllOrders(c.Request.Context(), filter)
	} else {
		tenantID, _ := uuid.Parse(claims.TenantID)
		resp, err = h.svc.ListTenantOrders(c.Request.Context(), tenantID, filter)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list restock orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOrder godoc
// @Summary      Verify restock order
// @Description  Superadmin only. Confirms payment and lands the goods in the store's inventory in one transaction.
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200  {object} dto.RestockOrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/marketplace/orders/{id}/verify [post]
func (h *MarketplaceHandler) VerifyOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.VerifyOrder(c.Request.Context(), adminID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrOrderNotPending):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RejectOrder godoc
// @Summary      Reject restock order
// @Description  Superadmin only. Rejects a pending order with a reason shown to the store.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "Order UUID"
// @Param        body body dto.RejectRestockOrderRequest true "Reason"
// @Success      200  {object} dto.RestockOrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/marketplace/orders/{id}/reject [post]
func (h *MarketplaceHandler) RejectOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectRestockOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RejectOrder(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrOrderNotPending):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
