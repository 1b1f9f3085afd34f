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

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// Create godoc
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCategoryRequest true "Category"
// @Success      201  {object} model.Category
// @Failure      400  {object} apierror.APIError
// @Router       /v1/categories [post]
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	cat, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.Category
// @Router       /v1/categories [get]
func (h *CategoriesHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	cats, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list categories"))
		return
	}
	c.JSON(http.StatusOK, cats)
}

// Update godoc
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Category UUID"
// @Param        body body dto.UpdateCategoryRequest true "Category"
// @Success      200  {object} model.Category
// @Failure      404  {object} apierror.APIError
// @Router       /v1/categories/{id} [put]
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	cat, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Delete godoc
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Category UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/categories/{id} [delete]
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	tenantID, _ := uuid.Parse(claims.TenantID)

	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
