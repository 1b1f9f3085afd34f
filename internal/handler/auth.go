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

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// RegisterTenant godoc
// @Summary      Register a new store
// @Description  Creates a tenant and its first admin user in one transaction.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterTenantRequest true "Store and admin details"
// @Success      201  {object} dto.RegisterTenantResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/auth/register [post]
func (h *AuthHandler) RegisterTenant(c *gin.Context) {
	var req dto.RegisterTenantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterTenant(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges username/password for an access + refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.TokenResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, apierror.New("Invalid username or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Login failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh token"
// @Success      200  {object} dto.TokenResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ChangePasswordRequest true "Current and new password"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.ChangePassword(c.Request.Context(), userID, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateUser godoc
// @Summary      Create a staff user
// @Description  Admin-only. Creates a cashier, manager or admin in the caller's store.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateUserRequest true "User details"
// @Success      201  {object} dto.UserResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.CreateUser(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListUsers godoc
// @Summary      List staff users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.UserResponse
// @Router       /v1/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	resp, err := h.svc.ListUsers(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list users"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateUser godoc
// @Summary      Deactivate a staff user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User UUID"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/users/{id} [delete]
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	if claims.UserID == id.String() {
		c.JSON(http.StatusBadRequest, apierror.New("Cannot deactivate your own account"))
		return
	}
	if err := h.svc.DeactivateUser(c.Request.Context(), tenantID, id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
