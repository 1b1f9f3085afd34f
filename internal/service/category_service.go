package service

import (
	"context"
	"errors"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCategoryRequest) (*model.Category, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCategoryRequest) (*model.Category, error) {
	c := &model.Category{
		TenantID: tenantID,
		Name:     req.Name,
		Active:   true,
	}
	if req.Description != "" {
		desc := req.Description
		c.Description = &desc
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *categoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCategoryRequest) (*model.Category, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	c.Name = req.Name
	if req.Description != "" {
		desc := req.Description
		c.Description = &desc
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return ErrCategoryNotFound
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}
