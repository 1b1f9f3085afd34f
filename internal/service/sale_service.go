package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"
	"github.com/jmsleo/kreasiPOS/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	RegisterSale(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	ValidateCart(ctx context.Context, tenantID uuid.UUID, req dto.ValidateCartRequest) (*dto.CartValidationResponse, error)
	GetSale(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.PaginatedResponse, error)
	ReceiptPDF(ctx context.Context, tenantID, id uuid.UUID) ([]byte, string, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	bomRepo      repository.BOMRepository
	tenantRepo   repository.TenantRepository
	customerRepo repository.CustomerRepository
	bom          BOMService
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BOMRepository,
	tenantRepo repository.TenantRepository,
	customerRepo repository.CustomerRepository,
	bom BOMService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		bomRepo:      bomRepo,
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		bom:          bom,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// newReceiptNumber builds RC-YYYYMMDD-XXXXXXXX, the uppercase block coming
// from a fresh UUID so concurrent registers never collide.
func newReceiptNumber(now time.Time) string {
	block := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RC-%s-%s", now.Format("20060102"), block)
}

// ── RegisterSale ──────────────────────────────────────────────────────────────
// Checkout is one ACID transaction:
//   1. Resolve cart products and prices (pre-flight, outside TX)
//   2. BEGIN TX: create sale + items, snapshot each item's active BOM header,
//      deduct raw materials through the recipe (or finished stock for
//      non-recipe products)
//   3. COMMIT — any shortage rolls the whole cart back
//   4. (async) dispatch receipt PDF + email job

func (s *saleService) RegisterSale(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	type resolvedItem struct {
		product   *model.Product
		bomHeader *model.BOMHeader
		quantity  int
		linePrice decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero

	// Finished-goods stock is validated per product, not per cart line — a
	// cart repeating the same product must not pass two independent checks.
	trackedQty := make(map[uuid.UUID]int)
	trackedProducts := make(map[uuid.UUID]*model.Product)

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, tenantID, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("product %q is inactive and cannot be sold", p.Name)
		}

		var header *model.BOMHeader
		if p.HasBOM {
			header, err = s.bomRepo.FindActiveByProductID(ctx, tenantID, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("product %q is flagged as manufactured but has no active recipe", p.Name)
				}
				return nil, err
			}
		}

		if header == nil && p.RequiresStockTracking {
			trackedQty[p.ID] += item.Quantity
			trackedProducts[p.ID] = p
		}

		linePrice := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(linePrice)
		resolved = append(resolved, resolvedItem{
			product:   p,
			bomHeader: header,
			quantity:  item.Quantity,
			linePrice: linePrice,
		})
	}

	for id, qty := range trackedQty {
		if p := trackedProducts[id]; p.StockQty < qty {
			return nil, fmt.Errorf("insufficient stock for %q: %d on hand, %d requested",
				p.Name, p.StockQty, qty)
		}
	}

	discount := req.Discount
	if discount.GreaterThan(subtotal) {
		return nil, errors.New("discount cannot exceed the cart subtotal")
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(req.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := taxable.Add(tax).Round(2)

	// Attributed sales must reference a customer of this tenant.
	var customerID *uuid.UUID
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		if _, err := s.customerRepo.FindByID(ctx, tenantID, cid); err != nil {
			return nil, errors.New("customer not found")
		}
		customerID = &cid
	}

	now := time.Now()
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			TenantID:       tenantID,
			ReceiptNumber:  newReceiptNumber(now),
			TotalAmount:    total,
			TaxAmount:      tax,
			DiscountAmount: discount,
			PaymentMethod:  req.PaymentMethod,
			PaymentStatus:  "completed",
			UserID:         &userID,
			CustomerID:     customerID,
		}
		if req.Notes != "" {
			notes := req.Notes
			sale.Notes = &notes
		}

		for _, r := range resolved {
			item := model.SaleItem{
				ProductID:  r.product.ID,
				Quantity:   r.quantity,
				UnitPrice:  r.product.Price,
				TotalPrice: r.linePrice,
			}
			if r.bomHeader != nil {
				headerID := r.bomHeader.ID
				item.BOMHeaderID = &headerID
			}
			sale.Items = append(sale.Items, item)
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		reason := fmt.Sprintf("Sale %s", sale.ReceiptNumber)
		for _, r := range resolved {
			if r.bomHeader != nil {
				if err := s.bom.DeductForSaleTx(tx, tenantID, r.bomHeader, r.quantity, reason, &userID); err != nil {
					return err
				}
			}
		}

		// One guarded decrement per tracked product. The conditional update
		// re-checks stock inside the transaction, closing the race the
		// pre-flight read leaves open.
		for id, qty := range trackedQty {
			if err := s.productRepo.DeductStockTx(tx, id, qty); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return fmt.Errorf("insufficient stock for %q", trackedProducts[id].Name)
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	infra.SalesTotal.Inc()

	// Async receipt job — best-effort, the sale is already committed
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{
			TenantID: tenantID.String(),
			SaleID:   sale.ID.String(),
			ToEmail:  req.CustomerEmail,
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.product.Name
	}
	return resp, nil
}

// ValidateCart dry-runs a cart: per line it reports whether the product can
// be sold right now and, for recipe products, which materials fall short.
// Nothing is locked or deducted — checkout re-validates inside its own
// transaction.
func (s *saleService) ValidateCart(ctx context.Context, tenantID uuid.UUID, req dto.ValidateCartRequest) (*dto.CartValidationResponse, error) {
	resp := &dto.CartValidationResponse{Valid: true}

	for _, item := range req.Items {
		row := dto.CartItemValidation{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Sellable:  true,
		}

		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			row.Sellable = false
			row.Reason = "invalid product id"
			resp.Valid = false
			resp.Items = append(resp.Items, row)
			continue
		}

		p, err := s.productRepo.FindByID(ctx, tenantID, pid)
		if err != nil {
			row.Sellable = false
			row.Reason = "product not found"
			resp.Valid = false
			resp.Items = append(resp.Items, row)
			continue
		}
		row.ProductName = p.Name

		switch {
		case !p.Active:
			row.Sellable = false
			row.Reason = "product is inactive"
		case p.HasBOM:
			availability, err := s.bom.CheckAvailability(ctx, tenantID, pid, item.Quantity)
			if err != nil {
				row.Sellable = false
				row.Reason = "product has no active recipe"
			} else if !availability.CanProduce {
				row.Sellable = false
				row.Reason = "insufficient raw materials"
				row.MissingItems = availability.MissingItems
			}
		case p.RequiresStockTracking && p.StockQty < item.Quantity:
			row.Sellable = false
			row.Reason = fmt.Sprintf("insufficient stock: %d on hand", p.StockQty)
		}

		if !row.Sellable {
			resp.Valid = false
		}
		resp.Items = append(resp.Items, row)
	}

	return resp, nil
}

func (s *saleService) GetSale(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	sales, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

// ReceiptPDF renders the printed receipt for a sale on demand and returns the
// document bytes plus a download filename.
func (s *saleService) ReceiptPDF(ctx context.Context, tenantID, id uuid.UUID) ([]byte, string, error) {
	sale, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, "", errors.New("sale not found")
	}

	storeName := "kreasiPOS"
	if tenant, err := s.tenantRepo.FindByID(ctx, tenantID); err == nil {
		storeName = tenant.Name
	}

	data, err := infra.RenderReceiptPDF(sale, storeName)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("receipt_%s.pdf", sale.ReceiptNumber), nil
}

// paginate wraps a result slice with paging metadata.
func paginate(items interface{}, total int64, page, pageSize int) *dto.PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.PaginatedResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	subtotal := decimal.Zero
	resp := &dto.SaleResponse{
		ID:             s.ID.String(),
		ReceiptNumber:  s.ReceiptNumber,
		DiscountAmount: s.DiscountAmount,
		TaxAmount:      s.TaxAmount,
		TotalAmount:    s.TotalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  s.PaymentStatus,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if s.UserID != nil {
		resp.CashierID = s.UserID.String()
	}
	if s.CustomerID != nil {
		resp.CustomerID = s.CustomerID.String()
	}
	if s.Notes != nil {
		resp.Notes = *s.Notes
	}
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		ir := dto.SaleItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			RefundedQty: item.RefundedQty,
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	resp.Subtotal = subtotal
	return resp
}
