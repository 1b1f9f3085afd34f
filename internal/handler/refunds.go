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

type RefundsHandler struct{ svc service.RefundService }

func NewRefundsHandler(svc service.RefundService) *RefundsHandler {
	return &RefundsHandler{svc: svc}
}

// Create godoc
// @Summary      Create refund request
// @Description  Creates a pending refund against a completed sale. Quantities already refunded or reserved by other pending refunds are not available.
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRefundRequest true "Sale and items to refund"
// @Success      201  {object} dto.RefundResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/refunds [post]
func (h *RefundsHandler) Create(c *gin.Context) {
	var req dto.CreateRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CreateRefund(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Process godoc
// @Summary      Process a pending refund
// @Description  Restores inventory through the recipe version captured at sale time and marks the refund completed. Manager or admin only.
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Refund UUID"
// @Success      200  {object} dto.RefundResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/refunds/{id}/process [post]
func (h *RefundsHandler) Process(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ProcessRefund(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefundNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrRefundNotPending):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel a pending refund
// @Description  Releases the reserved quantities. Only pending refunds can be cancelled.
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Refund UUID"
// @Success      200  {object} dto.RefundResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/refunds/{id}/cancel [post]
func (h *RefundsHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.CancelRefund(c.Request.Context(), tenantID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefundNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrRefundNotPending):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get refund
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Refund UUID"
// @Success      200  {object} dto.RefundResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/refunds/{id} [get]
func (h *RefundsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.GetRefund(c.Request.Context(), tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List refunds
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "pending | completed | cancelled"
// @Param        sale_id   query string false "Sale UUID"
// @Param        page      query int    false "Page (default 1)"
// @Param        page_size query int    false "Page size (default 20, max 100)"
// @Success      200  {object} dto.PaginatedResponse
// @Router       /v1/refunds [get]
func (h *RefundsHandler) List(c *gin.Context) {
	var filter dto.RefundFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.ListRefunds(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list refunds"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
