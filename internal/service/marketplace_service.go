package service

// marketplace_service.go
// The marketplace is the platform-level B2B restock channel: superadmins
// curate a shared catalog, tenants place restock orders against it, and
// verification fulfils the goods into the tenant's own inventory — either a
// Product (finished goods) or a RawMaterial (production inputs), per the
// order's destination type.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("restock order not found")
	ErrOrderNotPending = errors.New("restock order is not pending")
)

// restockMarkup prices fulfilled marketplace products for resale: the
// tenant's sale price defaults to purchase price + 20%.
var restockMarkup = decimal.NewFromFloat(1.2)

type MarketplaceService interface {
	// Catalog (superadmin)
	CreateItem(ctx context.Context, req dto.CreateMarketplaceItemRequest) (*dto.MarketplaceItemResponse, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateMarketplaceItemRequest) (*dto.MarketplaceItemResponse, error)
	ListItems(ctx context.Context, activeOnly bool) ([]dto.MarketplaceItemResponse, error)

	// Payment accounts
	CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	ListPaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error)
	DeactivatePaymentMethod(ctx context.Context, id uuid.UUID) error

	// Restock orders
	CreateOrder(ctx context.Context, tenantID uuid.UUID, req dto.CreateRestockOrderRequest) (*dto.RestockOrderResponse, error)
	ListTenantOrders(ctx context.Context, tenantID uuid.UUID, filter dto.RestockOrderFilter) (*dto.PaginatedResponse, error)
	ListAllOrders(ctx context.Context, filter dto.RestockOrderFilter) (*dto.PaginatedResponse, error)
	VerifyOrder(ctx context.Context, adminID, orderID uuid.UUID) (*dto.RestockOrderResponse, error)
	RejectOrder(ctx context.Context, adminID, orderID uuid.UUID, reason string) (*dto.RestockOrderResponse, error)
}

type marketplaceService struct {
	repo         repository.MarketplaceRepository
	productRepo  repository.ProductRepository
	materialRepo repository.RawMaterialRepository
	adjRepo      repository.StockAdjustmentRepository
}

func NewMarketplaceService(
	repo repository.MarketplaceRepository,
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	adjRepo repository.StockAdjustmentRepository,
) MarketplaceService {
	return &marketplaceService{
		repo:         repo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		adjRepo:      adjRepo,
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *marketplaceService) CreateItem(ctx context.Context, req dto.CreateMarketplaceItemRequest) (*dto.MarketplaceItemResponse, error) {
	item := &model.MarketplaceItem{
		Name:     req.Name,
		ItemType: req.ItemType,
		Price:    req.Price,
		Stock:    req.Stock,
		Active:   true,
	}
	if req.SKU != "" {
		sku := req.SKU
		item.SKU = &sku
	}
	if req.Description != "" {
		desc := req.Description
		item.Description = &desc
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		item.ImageURL = &url
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return marketplaceItemToResponse(item), nil
}

func (s *marketplaceService) UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateMarketplaceItemRequest) (*dto.MarketplaceItemResponse, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, errors.New("marketplace item not found")
	}

	item.Name = req.Name
	item.Price = req.Price
	item.Stock = req.Stock
	if req.Description != "" {
		desc := req.Description
		item.Description = &desc
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		item.ImageURL = &url
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return marketplaceItemToResponse(item), nil
}

func (s *marketplaceService) ListItems(ctx context.Context, activeOnly bool) ([]dto.MarketplaceItemResponse, error) {
	items, err := s.repo.ListItems(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MarketplaceItemResponse, len(items))
	for i := range items {
		out[i] = *marketplaceItemToResponse(&items[i])
	}
	return out, nil
}

// ── Payment accounts ──────────────────────────────────────────────────────────

func (s *marketplaceService) CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	pm := &model.PaymentMethod{
		Name:   req.Name,
		Active: true,
	}
	if req.AccountNumber != "" {
		n := req.AccountNumber
		pm.AccountNumber = &n
	}
	if req.AccountName != "" {
		n := req.AccountName
		pm.AccountName = &n
	}
	if req.QRCodeURL != "" {
		u := req.QRCodeURL
		pm.QRCodeURL = &u
	}
	if err := s.repo.CreatePaymentMethod(ctx, pm); err != nil {
		return nil, err
	}
	return paymentMethodToResponse(pm), nil
}

func (s *marketplaceService) ListPaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	methods, err := s.repo.ListPaymentMethods(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentMethodResponse, len(methods))
	for i := range methods {
		out[i] = *paymentMethodToResponse(&methods[i])
	}
	return out, nil
}

func (s *marketplaceService) DeactivatePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivatePaymentMethod(ctx, id)
}

// ── Restock orders ────────────────────────────────────────────────────────────

func (s *marketplaceService) CreateOrder(ctx context.Context, tenantID uuid.UUID, req dto.CreateRestockOrderRequest) (*dto.RestockOrderResponse, error) {
	itemID, err := uuid.Parse(req.MarketplaceItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid marketplace_item_id: %w", err)
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, errors.New("marketplace item not found")
	}
	if !item.Active {
		return nil, errors.New("marketplace item is no longer available")
	}
	if item.ItemType != req.DestinationType {
		return nil, fmt.Errorf("item %q is a %s and cannot be restocked into %s inventory",
			item.Name, item.ItemType, req.DestinationType)
	}

	order := &model.RestockOrder{
		TenantID:          tenantID,
		MarketplaceItemID: itemID,
		Quantity:          req.Quantity,
		TotalAmount:       item.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		DestinationType:   req.DestinationType,
		Status:            model.RestockPending,
	}
	addr := req.ShippingAddress
	order.ShippingAddress = &addr
	if req.ShippingCity != "" {
		v := req.ShippingCity
		order.ShippingCity = &v
	}
	if req.ShippingPostal != "" {
		v := req.ShippingPostal
		order.ShippingPostal = &v
	}
	if req.ShippingPhone != "" {
		v := req.ShippingPhone
		order.ShippingPhone = &v
	}
	if req.PaymentProofURL != "" {
		v := req.PaymentProofURL
		order.PaymentProofURL = &v
	}
	if req.Notes != "" {
		v := req.Notes
		order.Notes = &v
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	order.MarketplaceItem = item
	return restockOrderToResponse(order), nil
}

func (s *marketplaceService) ListTenantOrders(ctx context.Context, tenantID uuid.UUID, filter dto.RestockOrderFilter) (*dto.PaginatedResponse, error) {
	return s.listOrders(ctx, &tenantID, filter)
}

func (s *marketplaceService) ListAllOrders(ctx context.Context, filter dto.RestockOrderFilter) (*dto.PaginatedResponse, error) {
	return s.listOrders(ctx, nil, filter)
}

func (s *marketplaceService) listOrders(ctx context.Context, tenantID *uuid.UUID, filter dto.RestockOrderFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	orders, total, err := s.repo.ListOrders(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *restockOrderToResponse(&orders[i]))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

// ── VerifyOrder ───────────────────────────────────────────────────────────────
// One transaction: mark the order verified and land the goods in the tenant's
// inventory. Product destinations find-or-create by name with a resale
// markup; raw-material destinations find-or-create by name and log a restock
// adjustment.

func (s *marketplaceService) VerifyOrder(ctx context.Context, adminID, orderID uuid.UUID) (*dto.RestockOrderResponse, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.RestockPending {
		return nil, ErrOrderNotPending
	}
	item := order.MarketplaceItem
	if item == nil {
		return nil, errors.New("marketplace item missing on order")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		switch order.DestinationType {
		case model.DestinationRawMaterial:
			if err := s.fulfilRawMaterialTx(ctx, tx, order, item, adminID); err != nil {
				return err
			}
		default:
			if err := s.fulfilProductTx(ctx, tx, order, item); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = model.RestockVerified
		order.VerifiedBy = &adminID
		order.VerifiedAt = &now
		return s.repo.UpdateOrderTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	infra.RestockFulfilledTotal.Inc()
	log.Info().
		Str("order", order.ID.String()).
		Str("item", item.Name).
		Int("quantity", order.Quantity).
		Str("destination", order.DestinationType).
		Msg("restock order fulfilled")

	return restockOrderToResponse(order), nil
}

func (s *marketplaceService) fulfilProductTx(ctx context.Context, tx *gorm.DB, order *model.RestockOrder, item *model.MarketplaceItem) error {
	product, err := s.productRepo.FindByName(ctx, order.TenantID, item.Name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sku := fmt.Sprintf("MP-%s", order.ID.String()[:8])
		if item.SKU != nil {
			sku = *item.SKU
		}
		product = &model.Product{
			TenantID:              order.TenantID,
			Name:                  item.Name,
			SKU:                   sku,
			Price:                 item.Price.Mul(restockMarkup).Round(2),
			CostPrice:             item.Price,
			RequiresStockTracking: true,
			Active:                true,
			Unit:                  "pcs",
		}
		if item.Description != nil {
			product.Description = item.Description
		}
		if item.ImageURL != nil {
			product.ImageURL = item.ImageURL
		}
		if tx != nil {
			if err := tx.Create(product).Error; err != nil {
				return err
			}
		} else if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
	}
	return s.productRepo.UpdateStockTx(tx, product.ID, order.Quantity)
}

func (s *marketplaceService) fulfilRawMaterialTx(ctx context.Context, tx *gorm.DB, order *model.RestockOrder, item *model.MarketplaceItem, adminID uuid.UUID) error {
	qty := decimal.NewFromInt(int64(order.Quantity))

	material, err := s.materialRepo.FindByName(ctx, order.TenantID, item.Name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		material = &model.RawMaterial{
			TenantID:  order.TenantID,
			Name:      item.Name,
			SKU:       generateMaterialSKU(item.Name, time.Now()),
			Unit:      "pcs",
			CostPrice: item.Price,
			Active:    true,
		}
		if item.Description != nil {
			material.Description = item.Description
		}
		if tx != nil {
			if err := tx.Create(material).Error; err != nil {
				return err
			}
		} else if err := s.materialRepo.Create(ctx, material); err != nil {
			return err
		}
	}

	newQty := material.StockQty.Add(qty).Round(model.StockPrecision)
	if err := s.materialRepo.UpdateStockTx(tx, material.ID, newQty); err != nil {
		return err
	}

	reason := fmt.Sprintf("Marketplace restock: %s", item.Name)
	adj := &model.StockAdjustment{
		TenantID:      order.TenantID,
		RawMaterialID: material.ID,
		UserID:        &adminID,
		Type:          model.AdjustmentRestock,
		QtyBefore:     material.StockQty,
		QtyAfter:      newQty,
		QtyChanged:    qty,
		Reason:        &reason,
	}
	return s.adjRepo.CreateTx(tx, adj)
}

// ── RejectOrder ───────────────────────────────────────────────────────────────

func (s *marketplaceService) RejectOrder(ctx context.Context, adminID, orderID uuid.UUID, reason string) (*dto.RestockOrderResponse, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.RestockPending {
		return nil, ErrOrderNotPending
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := time.Now()
		order.Status = model.RestockRejected
		order.AdminNotes = &reason
		order.VerifiedBy = &adminID
		order.VerifiedAt = &now
		return s.repo.UpdateOrderTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return restockOrderToResponse(order), nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func marketplaceItemToResponse(item *model.MarketplaceItem) *dto.MarketplaceItemResponse {
	resp := &dto.MarketplaceItemResponse{
		ID:       item.ID.String(),
		Name:     item.Name,
		ItemType: item.ItemType,
		Price:    item.Price,
		Stock:    item.Stock,
		Active:   item.Active,
	}
	if item.SKU != nil {
		resp.SKU = *item.SKU
	}
	if item.Description != nil {
		resp.Description = *item.Description
	}
	if item.ImageURL != nil {
		resp.ImageURL = *item.ImageURL
	}
	return resp
}

func restockOrderToResponse(o *model.RestockOrder) *dto.RestockOrderResponse {
	resp := &dto.RestockOrderResponse{
		ID:                o.ID.String(),
		MarketplaceItemID: o.MarketplaceItemID.String(),
		Quantity:          o.Quantity,
		TotalAmount:       o.TotalAmount,
		DestinationType:   o.DestinationType,
		Status:            o.Status,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
	if o.MarketplaceItem != nil {
		resp.ItemName = o.MarketplaceItem.Name
	}
	if o.PaymentProofURL != nil {
		resp.PaymentProofURL = *o.PaymentProofURL
	}
	if o.ShippingAddress != nil {
		resp.ShippingAddress = *o.ShippingAddress
	}
	if o.AdminNotes != nil {
		resp.AdminNotes = *o.AdminNotes
	}
	if o.VerifiedBy != nil {
		resp.VerifiedBy = o.VerifiedBy.String()
	}
	if o.VerifiedAt != nil {
		resp.VerifiedAt = o.VerifiedAt.Format(time.RFC3339)
	}
	return resp
}

func paymentMethodToResponse(pm *model.PaymentMethod) *dto.PaymentMethodResponse {
	resp := &dto.PaymentMethodResponse{
		ID:     pm.ID.String(),
		Name:   pm.Name,
		Active: pm.Active,
	}
	if pm.AccountNumber != nil {
		resp.AccountNumber = *pm.AccountNumber
	}
	if pm.AccountName != nil {
		resp.AccountName = *pm.AccountName
	}
	if pm.QRCodeURL != nil {
		resp.QRCodeURL = *pm.QRCodeURL
	}
	return resp
}
