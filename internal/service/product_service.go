package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindBySKU(ctx, tenantID, req.SKU); err == nil {
		return nil, fmt.Errorf("a product with SKU %q already exists", req.SKU)
	}

	p := &model.Product{
		TenantID:              tenantID,
		Name:                  req.Name,
		SKU:                   req.SKU,
		Price:                 req.Price,
		CostPrice:             req.CostPrice,
		StockQty:              req.StockQty,
		RequiresStockTracking: true,
		Active:                true,
		Unit:                  "pcs",
	}
	if req.Unit != "" {
		p.Unit = req.Unit
	}
	if req.StockAlert > 0 {
		p.StockAlert = req.StockAlert
	}
	if req.RequiresStockTracking != nil {
		p.RequiresStockTracking = *req.RequiresStockTracking
	}
	if req.Barcode != "" {
		barcode := req.Barcode
		p.Barcode = &barcode
	}
	if req.Description != "" {
		desc := req.Description
		p.Description = &desc
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		p.ImageURL = &url
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		if _, err := s.categoryRepo.FindByID(ctx, tenantID, cid); err != nil {
			return nil, errors.New("category not found")
		}
		p.CategoryID = &cid
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, tenantID, barcode)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	products, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

func (s *productService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	p.Name = req.Name
	p.Price = req.Price
	p.CostPrice = req.CostPrice
	if req.Unit != "" {
		p.Unit = req.Unit
	}
	if req.StockAlert > 0 {
		p.StockAlert = req.StockAlert
	}
	if req.Barcode != "" {
		barcode := req.Barcode
		p.Barcode = &barcode
	}
	if req.Description != "" {
		desc := req.Description
		p.Description = &desc
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		p.ImageURL = &url
	}
	if req.RequiresStockTracking != nil {
		p.RequiresStockTracking = *req.RequiresStockTracking
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		if _, err := s.categoryRepo.FindByID(ctx, tenantID, cid); err != nil {
			return nil, errors.New("category not found")
		}
		p.CategoryID = &cid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                    p.ID.String(),
		Name:                  p.Name,
		SKU:                   p.SKU,
		Price:                 p.Price,
		CostPrice:             p.CostPrice,
		StockQty:              p.StockQty,
		StockAlert:            p.StockAlert,
		Unit:                  p.Unit,
		RequiresStockTracking: p.RequiresStockTracking,
		HasBOM:                p.HasBOM,
		BOMCost:               p.BOMCost,
		Active:                p.Active,
	}
	if p.Barcode != nil {
		resp.Barcode = *p.Barcode
	}
	if p.Description != nil {
		resp.Description = *p.Description
	}
	if p.CategoryID != nil {
		resp.CategoryID = p.CategoryID.String()
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}
