package service

// bom_service.go — the recipe engine.
// A product's BOM maps it to decimal quantities of raw materials per unit
// sold. Saving a recipe always creates a new version (monotonic per product,
// exactly one active); sales snapshot the active header id so refunds restore
// through the recipe that was actually consumed.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	bomCacheTTL       = 10 * time.Minute
	bomCacheKeyPrefix = "bom:active:"
)

var (
	ErrBOMNotFound     = errors.New("product has no active recipe")
	ErrProductNotFound = errors.New("product not found")
)

type BOMService interface {
	SaveBOM(ctx context.Context, tenantID, productID uuid.UUID, req dto.SaveBOMRequest) (*dto.BOMResponse, error)
	GetActiveBOM(ctx context.Context, tenantID, productID uuid.UUID) (*dto.BOMResponse, error)
	ListVersions(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.BOMResponse, error)
	ActivateVersion(ctx context.Context, tenantID, productID, headerID uuid.UUID) (*dto.BOMResponse, error)
	DeleteBOM(ctx context.Context, tenantID, productID uuid.UUID) error
	CheckAvailability(ctx context.Context, tenantID, productID uuid.UUID, quantity int) (*dto.AvailabilityResponse, error)
	CalculateCost(ctx context.Context, tenantID, productID uuid.UUID) (*dto.BOMCostResponse, error)

	// Used inside sale/refund transactions — callers own the tx boundary.
	DeductForSaleTx(tx *gorm.DB, tenantID uuid.UUID, header *model.BOMHeader, units int, reason string, userID *uuid.UUID) error
	RestoreForRefundTx(tx *gorm.DB, tenantID uuid.UUID, header *model.BOMHeader, units int, reason string, userID *uuid.UUID) error
}

type bomService struct {
	repo         repository.BOMRepository
	materialRepo repository.RawMaterialRepository
	productRepo  repository.ProductRepository
	adjRepo      repository.StockAdjustmentRepository
	rdb          *redis.Client
}

func NewBOMService(
	repo repository.BOMRepository,
	materialRepo repository.RawMaterialRepository,
	productRepo repository.ProductRepository,
	adjRepo repository.StockAdjustmentRepository,
	rdb *redis.Client,
) BOMService {
	return &bomService{
		repo:         repo,
		materialRepo: materialRepo,
		productRepo:  productRepo,
		adjRepo:      adjRepo,
		rdb:          rdb,
	}
}

// requiredQty is the material quantity consumed by `units` finished products,
// rounded half-up to the stock precision.
func requiredQty(perUnit decimal.Decimal, units int) decimal.Decimal {
	return perUnit.Mul(decimal.NewFromInt(int64(units))).Round(model.StockPrecision)
}

// ── SaveBOM ───────────────────────────────────────────────────────────────────

func (s *bomService) SaveBOM(ctx context.Context, tenantID, productID uuid.UUID, req dto.SaveBOMRequest) (*dto.BOMResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, tenantID, productID); err != nil {
		return nil, ErrProductNotFound
	}

	// Resolve materials up front: reject unknown ids and duplicates before
	// touching the database in a transaction.
	materialIDs := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		mid, err := uuid.Parse(item.RawMaterialID)
		if err != nil {
			return nil, fmt.Errorf("invalid raw_material_id: %w", err)
		}
		if seen[mid] {
			return nil, fmt.Errorf("duplicate raw material in recipe: %s", item.RawMaterialID)
		}
		seen[mid] = true
		materialIDs = append(materialIDs, mid)
	}

	materials, err := s.materialRepo.FindByIDs(ctx, tenantID, materialIDs)
	if err != nil {
		return nil, err
	}
	if len(materials) != len(materialIDs) {
		return nil, errors.New("one or more raw materials not found")
	}
	byID := make(map[uuid.UUID]*model.RawMaterial, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	var header model.BOMHeader
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		version, err := s.repo.MaxVersion(ctx, tx, productID)
		if err != nil {
			return err
		}

		if err := s.repo.DeactivateAllTx(tx, productID); err != nil {
			return err
		}

		header = model.BOMHeader{
			TenantID:  tenantID,
			ProductID: productID,
			Version:   version + 1,
			Active:    true,
		}
		if req.Notes != "" {
			header.Notes = &req.Notes
		}
		if err := s.repo.CreateHeaderTx(tx, &header); err != nil {
			return err
		}

		items := make([]model.BOMItem, 0, len(req.Items))
		for i, in := range req.Items {
			mat := byID[materialIDs[i]]
			item := model.BOMItem{
				BOMHeaderID:   header.ID,
				RawMaterialID: mat.ID,
				Quantity:      in.Quantity.Round(model.StockPrecision),
				Unit:          mat.Unit,
			}
			if in.Notes != "" {
				notes := in.Notes
				item.Notes = &notes
			}
			items = append(items, item)
		}
		if err := s.repo.CreateItemsTx(tx, items); err != nil {
			return err
		}
		header.Items = items

		cost := recipeCost(items, byID)
		return s.productRepo.SetBOMFlagsTx(tx, productID, true, cost)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCache(ctx, tenantID, productID)

	// Re-read with preloads for a complete response
	saved, err := s.repo.FindByID(ctx, tenantID, header.ID)
	if err != nil {
		return nil, err
	}
	resp := bomToResponse(saved)
	resp.TotalCost = recipeCostPreloaded(saved.Items)
	return resp, nil
}

// recipeCost sums qty × unit cost across items using a resolved material map.
func recipeCost(items []model.BOMItem, byID map[uuid.UUID]*model.RawMaterial) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if mat, ok := byID[item.RawMaterialID]; ok {
			total = total.Add(item.Quantity.Mul(mat.CostPrice))
		}
	}
	return total.Round(model.StockPrecision)
}

// recipeCostPreloaded sums cost when items carry preloaded RawMaterial rows.
func recipeCostPreloaded(items []model.BOMItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.RawMaterial != nil {
			total = total.Add(item.Quantity.Mul(item.RawMaterial.CostPrice))
		}
	}
	return total.Round(model.StockPrecision)
}

// ── Read operations ───────────────────────────────────────────────────────────

func (s *bomService) GetActiveBOM(ctx context.Context, tenantID, productID uuid.UUID) (*dto.BOMResponse, error) {
	// Read-through cache: the active recipe is read on every availability
	// check and BOM screen load, and changes rarely.
	cacheKey := fmt.Sprintf("%s%s:%s", bomCacheKeyPrefix, tenantID, productID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.BOMResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	header, err := s.repo.FindActiveByProductID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBOMNotFound
		}
		return nil, err
	}

	resp := bomToResponse(header)
	resp.TotalCost = recipeCostPreloaded(header.Items)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, bomCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("bom cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *bomService) ListVersions(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.BOMResponse, error) {
	headers, err := s.repo.ListVersions(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BOMResponse, 0, len(headers))
	for i := range headers {
		resp := bomToResponse(&headers[i])
		resp.TotalCost = recipeCostPreloaded(headers[i].Items)
		out = append(out, *resp)
	}
	return out, nil
}

// ── ActivateVersion ───────────────────────────────────────────────────────────

func (s *bomService) ActivateVersion(ctx context.Context, tenantID, productID, headerID uuid.UUID) (*dto.BOMResponse, error) {
	header, err := s.repo.FindByID(ctx, tenantID, headerID)
	if err != nil {
		return nil, errors.New("recipe version not found")
	}
	if header.ProductID != productID {
		return nil, errors.New("recipe version does not belong to this product")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeactivateAllTx(tx, productID); err != nil {
			return err
		}
		if err := s.repo.ActivateTx(tx, headerID); err != nil {
			return err
		}
		cost := recipeCostPreloaded(header.Items)
		return s.productRepo.SetBOMFlagsTx(tx, productID, true, cost)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCache(ctx, tenantID, productID)

	header.Active = true
	resp := bomToResponse(header)
	resp.TotalCost = recipeCostPreloaded(header.Items)
	return resp, nil
}

// ── DeleteBOM ─────────────────────────────────────────────────────────────────
// Deactivates every version instead of deleting rows: sale items hold foreign
// keys into bom_headers, and refund restoration must be able to read the
// recipe that was consumed.

func (s *bomService) DeleteBOM(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, tenantID, productID); err != nil {
		return ErrProductNotFound
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeactivateAllTx(tx, productID); err != nil {
			return err
		}
		return s.productRepo.SetBOMFlagsTx(tx, productID, false, decimal.Zero)
	})
	if txErr != nil {
		return txErr
	}

	s.invalidateCache(ctx, tenantID, productID)
	return nil
}

// ── CheckAvailability ─────────────────────────────────────────────────────────

func (s *bomService) CheckAvailability(ctx context.Context, tenantID, productID uuid.UUID, quantity int) (*dto.AvailabilityResponse, error) {
	header, err := s.repo.FindActiveByProductID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBOMNotFound
		}
		return nil, err
	}

	resp := &dto.AvailabilityResponse{
		ProductID:  productID.String(),
		Quantity:   quantity,
		CanProduce: true,
	}

	for _, item := range header.Items {
		if item.RawMaterial == nil {
			continue
		}
		required := requiredQty(item.Quantity, quantity)
		available := item.RawMaterial.StockQty
		shortage := required.Sub(available)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}

		row := dto.MaterialRequirement{
			RawMaterialID: item.RawMaterialID.String(),
			Name:          item.RawMaterial.Name,
			Unit:          item.RawMaterial.Unit,
			Required:      required,
			Available:     available,
			Shortage:      shortage,
			Sufficient:    shortage.IsZero(),
		}
		resp.Requirements = append(resp.Requirements, row)
		if !row.Sufficient {
			resp.CanProduce = false
			resp.MissingItems = append(resp.MissingItems, row)
		}
	}

	return resp, nil
}

// ── CalculateCost ─────────────────────────────────────────────────────────────

func (s *bomService) CalculateCost(ctx context.Context, tenantID, productID uuid.UUID) (*dto.BOMCostResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	header, err := s.repo.FindActiveByProductID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBOMNotFound
		}
		return nil, err
	}

	resp := &dto.BOMCostResponse{
		ProductID:  productID.String(),
		BOMVersion: header.Version,
		SalePrice:  product.Price,
	}

	total := decimal.Zero
	for _, item := range header.Items {
		if item.RawMaterial == nil {
			continue
		}
		lineCost := item.Quantity.Mul(item.RawMaterial.CostPrice).Round(model.StockPrecision)
		total = total.Add(lineCost)
		resp.Items = append(resp.Items, dto.BOMItemResponse{
			ID:              item.ID.String(),
			RawMaterialID:   item.RawMaterialID.String(),
			RawMaterialName: item.RawMaterial.Name,
			Unit:            item.RawMaterial.Unit,
			Quantity:        item.Quantity,
			UnitCost:        item.RawMaterial.CostPrice,
			LineCost:        lineCost,
		})
	}
	resp.TotalCost = total.Round(model.StockPrecision)
	resp.GrossMargin = product.Price.Sub(resp.TotalCost)
	return resp, nil
}

// ── DeductForSaleTx ───────────────────────────────────────────────────────────
// Consumes raw materials for `units` products through the given recipe.
// Materials are locked FOR UPDATE in deterministic order; the whole cart
// either deducts or the surrounding transaction rolls back. Stock clamps at
// zero — the CHECK constraint is the backstop, the clamp keeps rounding dust
// from ever pushing a quantity negative.

func (s *bomService) DeductForSaleTx(tx *gorm.DB, tenantID uuid.UUID, header *model.BOMHeader, units int, reason string, userID *uuid.UUID) error {
	materialIDs := make([]uuid.UUID, 0, len(header.Items))
	for _, item := range header.Items {
		materialIDs = append(materialIDs, item.RawMaterialID)
	}

	materials, err := s.lockedMaterials(tx, tenantID, materialIDs)
	if err != nil {
		return err
	}

	// Verify the full recipe first so the error carries every shortage,
	// not just the first one hit.
	var shortages []apierror.MaterialShortage
	for _, item := range header.Items {
		mat, ok := materials[item.RawMaterialID]
		if !ok {
			return fmt.Errorf("raw material %s not found", item.RawMaterialID)
		}
		required := requiredQty(item.Quantity, units)
		if mat.StockQty.LessThan(required) {
			shortages = append(shortages, apierror.MaterialShortage{
				RawMaterialID: mat.ID.String(),
				Name:          mat.Name,
				Required:      required.String(),
				Available:     mat.StockQty.String(),
				Shortage:      required.Sub(mat.StockQty).String(),
				Unit:          mat.Unit,
			})
		}
	}
	if len(shortages) > 0 {
		infra.InsufficientMaterialsTotal.Inc()
		return apierror.NewInsufficientMaterials(shortages)
	}

	for _, item := range header.Items {
		mat := materials[item.RawMaterialID]
		required := requiredQty(item.Quantity, units)

		newQty := mat.StockQty.Sub(required).Round(model.StockPrecision)
		if newQty.IsNegative() {
			newQty = decimal.Zero
		}

		if err := s.materialRepo.UpdateStockTx(tx, mat.ID, newQty); err != nil {
			return err
		}

		adj := &model.StockAdjustment{
			TenantID:      tenantID,
			RawMaterialID: mat.ID,
			UserID:        userID,
			Type:          model.AdjustmentSale,
			QtyBefore:     mat.StockQty,
			QtyAfter:      newQty,
			QtyChanged:    newQty.Sub(mat.StockQty),
			Reason:        &reason,
		}
		if err := s.adjRepo.CreateTx(tx, adj); err != nil {
			return err
		}

		mat.StockQty = newQty // keep the map fresh for recipes sharing a material
	}

	infra.BOMDeductionsTotal.Inc()
	return nil
}

// ── RestoreForRefundTx ────────────────────────────────────────────────────────
// Returns materials for `units` refunded products through the recipe that was
// active at sale time.

func (s *bomService) RestoreForRefundTx(tx *gorm.DB, tenantID uuid.UUID, header *model.BOMHeader, units int, reason string, userID *uuid.UUID) error {
	materialIDs := make([]uuid.UUID, 0, len(header.Items))
	for _, item := range header.Items {
		materialIDs = append(materialIDs, item.RawMaterialID)
	}

	materials, err := s.lockedMaterials(tx, tenantID, materialIDs)
	if err != nil {
		return err
	}

	for _, item := range header.Items {
		mat, ok := materials[item.RawMaterialID]
		if !ok {
			// Material was hard-deleted since the sale — skip rather than
			// fail the whole refund.
			log.Warn().Str("raw_material_id", item.RawMaterialID.String()).
				Msg("refund restore: material no longer exists, skipping")
			continue
		}
		restored := requiredQty(item.Quantity, units)
		newQty := mat.StockQty.Add(restored).Round(model.StockPrecision)

		if err := s.materialRepo.UpdateStockTx(tx, mat.ID, newQty); err != nil {
			return err
		}

		adj := &model.StockAdjustment{
			TenantID:      tenantID,
			RawMaterialID: mat.ID,
			UserID:        userID,
			Type:          model.AdjustmentRefund,
			QtyBefore:     mat.StockQty,
			QtyAfter:      newQty,
			QtyChanged:    restored,
			Reason:        &reason,
		}
		if err := s.adjRepo.CreateTx(tx, adj); err != nil {
			return err
		}

		mat.StockQty = newQty
	}

	return nil
}

// lockedMaterials loads the given materials FOR UPDATE inside tx, keyed by id.
// In unit-test mode (tx == nil) it falls back to an unlocked read.
func (s *bomService) lockedMaterials(tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*model.RawMaterial, error) {
	var rows []model.RawMaterial
	var err error
	if tx != nil {
		rows, err = s.materialRepo.FindByIDsForUpdate(tx, tenantID, ids)
	} else {
		rows, err = s.materialRepo.FindByIDs(context.Background(), tenantID, ids)
	}
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.RawMaterial, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	return byID, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *bomService) invalidateCache(ctx context.Context, tenantID, productID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	cacheKey := fmt.Sprintf("%s%s:%s", bomCacheKeyPrefix, tenantID, productID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("bom cache invalidation failed")
	}
}

func bomToResponse(h *model.BOMHeader) *dto.BOMResponse {
	resp := &dto.BOMResponse{
		ID:        h.ID.String(),
		ProductID: h.ProductID.String(),
		Version:   h.Version,
		Active:    h.Active,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
	if h.Notes != nil {
		resp.Notes = *h.Notes
	}
	for _, item := range h.Items {
		ir := dto.BOMItemResponse{
			ID:            item.ID.String(),
			RawMaterialID: item.RawMaterialID.String(),
			Unit:          item.Unit,
			Quantity:      item.Quantity,
		}
		if item.RawMaterial != nil {
			ir.RawMaterialName = item.RawMaterial.Name
			ir.UnitCost = item.RawMaterial.CostPrice
			ir.LineCost = item.Quantity.Mul(item.RawMaterial.CostPrice).Round(model.StockPrecision)
		}
		if item.Notes != nil {
			ir.Notes = *item.Notes
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
