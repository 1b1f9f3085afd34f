package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRawMaterialNotFound = errors.New("raw material not found")

type RawMaterialService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.RawMaterialResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.RawMaterialFilter) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AdjustStock(ctx context.Context, tenantID, id uuid.UUID, userID uuid.UUID, req dto.AdjustRawMaterialStockRequest) (*dto.RawMaterialResponse, error)
	ListAdjustments(ctx context.Context, tenantID, id uuid.UUID, page, limit int) ([]dto.StockAdjustmentResponse, int64, error)
}

type rawMaterialService struct {
	repo    repository.RawMaterialRepository
	adjRepo repository.StockAdjustmentRepository
}

func NewRawMaterialService(repo repository.RawMaterialRepository, adjRepo repository.StockAdjustmentRepository) RawMaterialService {
	return &rawMaterialService{repo: repo, adjRepo: adjRepo}
}

// generateMaterialSKU builds RM-XXX-NNNNNN: three letters from the name
// (padded with X) plus the tail of the current unix timestamp.
func generateMaterialSKU(name string, now time.Time) string {
	var letters []rune
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) && r < 128 {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	ts := now.Unix() % 1000000
	return fmt.Sprintf("RM-%s-%06d", string(letters), ts)
}

func (s *rawMaterialService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	if _, err := s.repo.FindByName(ctx, tenantID, req.Name); err == nil {
		return nil, fmt.Errorf("raw material %q already exists", req.Name)
	}

	m := &model.RawMaterial{
		TenantID:   tenantID,
		Name:       req.Name,
		SKU:        generateMaterialSKU(req.Name, time.Now()),
		Unit:       req.Unit,
		StockQty:   req.StockQty.Round(model.StockPrecision),
		StockAlert: req.StockAlert.Round(model.StockPrecision),
		CostPrice:  req.CostPrice.Round(model.StockPrecision),
		Active:     true,
	}
	if req.Description != "" {
		desc := req.Description
		m.Description = &desc
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return rawMaterialToResponse(m), nil
}

func (s *rawMaterialService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.RawMaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrRawMaterialNotFound
	}
	return rawMaterialToResponse(m), nil
}

func (s *rawMaterialService) List(ctx context.Context, tenantID uuid.UUID, filter dto.RawMaterialFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	materials, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RawMaterialResponse, 0, len(materials))
	for i := range materials {
		items = append(items, *rawMaterialToResponse(&materials[i]))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

func (s *rawMaterialService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrRawMaterialNotFound
	}

	m.Name = req.Name
	m.Unit = req.Unit
	m.StockAlert = req.StockAlert.Round(model.StockPrecision)
	m.CostPrice = req.CostPrice.Round(model.StockPrecision)
	if req.Description != "" {
		desc := req.Description
		m.Description = &desc
	}
	if req.Active != nil {
		m.Active = *req.Active
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return rawMaterialToResponse(m), nil
}

func (s *rawMaterialService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return ErrRawMaterialNotFound
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

// AdjustStock applies a signed manual stock correction and records it in the
// audit trail. Negative results are rejected outright — materials cannot go
// below zero.
func (s *rawMaterialService) AdjustStock(ctx context.Context, tenantID, id, userID uuid.UUID, req dto.AdjustRawMaterialStockRequest) (*dto.RawMaterialResponse, error) {
	if req.Quantity.IsZero() {
		return nil, errors.New("adjustment quantity cannot be zero")
	}

	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrRawMaterialNotFound
	}

	delta := req.Quantity.Round(model.StockPrecision)
	newQty := m.StockQty.Add(delta).Round(model.StockPrecision)
	if newQty.IsNegative() {
		return nil, fmt.Errorf("adjustment would leave %q at %s %s — stock cannot go negative",
			m.Name, newQty.String(), m.Unit)
	}

	adjType := model.AdjustmentManualAdd
	if delta.IsNegative() {
		adjType = model.AdjustmentManualSubtract
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStockTx(tx, id, newQty); err != nil {
			return err
		}
		reason := req.Reason
		adj := &model.StockAdjustment{
			TenantID:      tenantID,
			RawMaterialID: id,
			UserID:        &userID,
			Type:          adjType,
			QtyBefore:     m.StockQty,
			QtyAfter:      newQty,
			QtyChanged:    delta,
			Reason:        &reason,
		}
		return s.adjRepo.CreateTx(tx, adj)
	})
	if txErr != nil {
		return nil, txErr
	}

	m.StockQty = newQty
	return rawMaterialToResponse(m), nil
}

func (s *rawMaterialService) ListAdjustments(ctx context.Context, tenantID, id uuid.UUID, page, limit int) ([]dto.StockAdjustmentResponse, int64, error) {
	adjustments, total, err := s.adjRepo.List(ctx, tenantID, repository.StockAdjustmentFilter{
		RawMaterialID: &id,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.StockAdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		resp := dto.StockAdjustmentResponse{
			ID:         a.ID.String(),
			Type:       a.Type,
			QtyBefore:  a.QtyBefore,
			QtyAfter:   a.QtyAfter,
			QtyChanged: a.QtyChanged,
			CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		}
		if a.Reason != nil {
			resp.Reason = *a.Reason
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func rawMaterialToResponse(m *model.RawMaterial) *dto.RawMaterialResponse {
	resp := &dto.RawMaterialResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		SKU:        m.SKU,
		Unit:       m.Unit,
		StockQty:   m.StockQty,
		StockAlert: m.StockAlert,
		CostPrice:  m.CostPrice,
		LowStock:   m.LowStock(),
		Active:     m.Active,
	}
	if m.Description != nil {
		resp.Description = *m.Description
	}
	return resp
}
