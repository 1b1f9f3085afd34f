package handler

import (
	"net/http"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/middleware"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get godoc
// @Summary      Get store settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.StoreSettingsResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.GetStoreSettings(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update store settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateStoreSettingsRequest true "Store profile"
// @Success      200  {object} dto.StoreSettingsResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateStoreSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.UpdateStoreSettings(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
