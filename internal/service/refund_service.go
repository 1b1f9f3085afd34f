package service

// refund_service.go
// Refunds are two-step: creation validates quantities and amounts and stores
// a pending record; processing restores inventory inside one transaction and
// marks the refund completed. Restoration goes through the BOM header
// snapshotted on each sale item, so recipe edits between sale and refund
// never skew material stock.

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
	ErrRefundNotFound    = errors.New("refund not found")
	ErrRefundNotPending  = errors.New("refund is not pending")
	ErrSaleNotRefundable = errors.New("sale cannot be refunded")
)

type RefundService interface {
	CreateRefund(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateRefundRequest) (*dto.RefundResponse, error)
	ProcessRefund(ctx context.Context, tenantID, userID, refundID uuid.UUID) (*dto.RefundResponse, error)
	CancelRefund(ctx context.Context, tenantID, refundID uuid.UUID) (*dto.RefundResponse, error)
	GetRefund(ctx context.Context, tenantID, refundID uuid.UUID) (*dto.RefundResponse, error)
	ListRefunds(ctx context.Context, tenantID uuid.UUID, filter dto.RefundFilter) (*dto.PaginatedResponse, error)
}

type refundService struct {
	repo        repository.RefundRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	bomRepo     repository.BOMRepository
	bom         BOMService
}

func NewRefundService(
	repo repository.RefundRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BOMRepository,
	bom BOMService,
) RefundService {
	return &refundService{
		repo:        repo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		bomRepo:     bomRepo,
		bom:         bom,
	}
}

// newRefundNumber builds RF-YYYYMMDD-NNNNNN from today's per-tenant count.
func newRefundNumber(now time.Time, todayCount int64) string {
	return fmt.Sprintf("RF-%s-%06d", now.Format("20060102"), todayCount+1)
}

// ── CreateRefund ──────────────────────────────────────────────────────────────

func (s *refundService) CreateRefund(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, fmt.Errorf("invalid sale_id: %w", err)
	}

	sale, err := s.saleRepo.FindByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	if !sale.CanBeRefunded() {
		return nil, ErrSaleNotRefundable
	}

	saleItems := make(map[uuid.UUID]*model.SaleItem, len(sale.Items))
	for i := range sale.Items {
		saleItems[sale.Items[i].ID] = &sale.Items[i]
	}

	// Pending refunds reserve quantity too — without this, two pending
	// refunds over the same item could both process later.
	pendingQty := make(map[uuid.UUID]int)
	existing, err := s.repo.ListBySaleID(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	for _, rf := range existing {
		if rf.Status != model.RefundPending {
			continue
		}
		for _, item := range rf.Items {
			pendingQty[item.SaleItemID] += item.Quantity
		}
	}

	amount := decimal.Zero
	refundItems := make([]model.RefundItem, 0, len(req.Items))
	for _, in := range req.Items {
		itemID, err := uuid.Parse(in.SaleItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid sale_item_id: %w", err)
		}
		saleItem, ok := saleItems[itemID]
		if !ok {
			return nil, fmt.Errorf("sale item %s does not belong to this sale", in.SaleItemID)
		}

		available := saleItem.RefundableQty() - pendingQty[itemID]
		if in.Quantity > available {
			name := in.SaleItemID
			if saleItem.Product != nil {
				name = saleItem.Product.Name
			}
			return nil, fmt.Errorf("cannot refund %d of %q: only %d refundable", in.Quantity, name, available)
		}

		lineTotal := saleItem.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)
		amount = amount.Add(lineTotal)
		refundItems = append(refundItems, model.RefundItem{
			SaleItemID: itemID,
			Quantity:   in.Quantity,
			UnitPrice:  saleItem.UnitPrice,
			TotalPrice: lineTotal,
		})
	}

	if amount.GreaterThan(sale.RefundableAmount()) {
		return nil, errors.New("refund amount exceeds the refundable balance of the sale")
	}

	now := time.Now()
	var refund model.Refund
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		count, err := s.repo.CountToday(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		reason := req.Reason
		refund = model.Refund{
			TenantID: tenantID,
			SaleID:   saleID,
			Number:   newRefundNumber(now, count),
			Amount:   amount,
			Reason:   &reason,
			Status:   model.RefundPending,
			Items:    refundItems,
		}
		return s.repo.Create(ctx, tx, &refund)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("refund", refund.Number).
		Str("sale", sale.ReceiptNumber).
		Str("amount", amount.StringFixed(2)).
		Msg("refund created")

	return s.GetRefund(ctx, tenantID, refund.ID)
}

// ── ProcessRefund ─────────────────────────────────────────────────────────────

func (s *refundService) ProcessRefund(ctx context.Context, tenantID, userID, refundID uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, tenantID, refundID)
	if err != nil {
		return nil, ErrRefundNotFound
	}
	if refund.Status != model.RefundPending {
		return nil, ErrRefundNotPending
	}

	reason := fmt.Sprintf("Refund %s", refund.Number)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range refund.Items {
			saleItem := item.SaleItem
			if saleItem == nil {
				return fmt.Errorf("refund item %s: sale item missing", item.ID)
			}

			if err := s.restoreInventoryTx(ctx, tx, tenantID, userID, saleItem, item.Quantity, reason); err != nil {
				return err
			}

			if err := s.saleRepo.UpdateItemRefundedQtyTx(tx, saleItem.ID, item.Quantity); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, refundID, model.RefundCompleted, userID)
	})
	if txErr != nil {
		return nil, txErr
	}

	infra.RefundsTotal.Inc()
	log.Info().Str("refund", refund.Number).Msg("refund processed")

	return s.GetRefund(ctx, tenantID, refundID)
}

// restoreInventoryTx returns stock for one refunded sale item. BOM products
// restore raw materials through the snapshotted recipe; plain tracked
// products restore finished stock.
func (s *refundService) restoreInventoryTx(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, saleItem *model.SaleItem, qty int, reason string) error {
	headerID := saleItem.BOMHeaderID
	if headerID == nil && saleItem.Product != nil && saleItem.Product.HasBOM {
		// Legacy sale rows predate header snapshotting — fall back to the
		// currently active recipe.
		if header, err := s.bomRepo.FindActiveByProductID(ctx, tenantID, saleItem.ProductID); err == nil {
			headerID = &header.ID
		}
	}

	if headerID != nil {
		var header *model.BOMHeader
		var err error
		if tx != nil {
			header, err = s.bomRepo.FindByIDTx(tx, *headerID)
		} else {
			header, err = s.bomRepo.FindByID(ctx, tenantID, *headerID)
		}
		if err != nil {
			return fmt.Errorf("load recipe for refund: %w", err)
		}
		return s.bom.RestoreForRefundTx(tx, tenantID, header, qty, reason, &userID)
	}

	if saleItem.Product != nil && saleItem.Product.RequiresStockTracking {
		return s.productRepo.UpdateStockTx(tx, saleItem.ProductID, qty)
	}
	return nil
}

// ── CancelRefund ──────────────────────────────────────────────────────────────

func (s *refundService) CancelRefund(ctx context.Context, tenantID, refundID uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, tenantID, refundID)
	if err != nil {
		return nil, ErrRefundNotFound
	}
	if refund.Status != model.RefundPending {
		return nil, ErrRefundNotPending
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CancelTx(tx, refundID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetRefund(ctx, tenantID, refundID)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *refundService) GetRefund(ctx context.Context, tenantID, refundID uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, tenantID, refundID)
	if err != nil {
		return nil, ErrRefundNotFound
	}
	return refundToResponse(refund), nil
}

func (s *refundService) ListRefunds(ctx context.Context, tenantID uuid.UUID, filter dto.RefundFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	refunds, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RefundResponse, 0, len(refunds))
	for i := range refunds {
		items = append(items, *refundToResponse(&refunds[i]))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

func refundToResponse(r *model.Refund) *dto.RefundResponse {
	resp := &dto.RefundResponse{
		ID:        r.ID.String(),
		Number:    r.Number,
		SaleID:    r.SaleID.String(),
		Status:    r.Status,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.Reason != nil {
		resp.Reason = *r.Reason
	}
	if r.ProcessedBy != nil {
		resp.ProcessedBy = r.ProcessedBy.String()
	}
	if r.Sale != nil {
		resp.ReceiptNumber = r.Sale.ReceiptNumber
	}
	for _, item := range r.Items {
		ir := dto.RefundItemResponse{
			ID:         item.ID.String(),
			SaleItemID: item.SaleItemID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.SaleItem != nil && item.SaleItem.Product != nil {
			ir.ProductName = item.SaleItem.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
