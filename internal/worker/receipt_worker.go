package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: loads the sale, renders the PDF
// ticket, and emails it to the customer. SMTP calls go through the circuit
// breaker so a downed relay trips fast instead of blocking workers.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	TenantID string `json:"tenant_id"`
	SaleID   string `json:"sale_id"`
	ToEmail  string `json:"to_email"`
}

type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	tenantRepo  repository.TenantRepository
	mailer      *infra.Mailer
	cb          *infra.Breaker
	storagePath string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	tenantRepo repository.TenantRepository,
	mailer *infra.Mailer,
	cb *infra.Breaker,
	storagePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:    saleRepo,
		tenantRepo:  tenantRepo,
		mailer:      mailer,
		cb:          cb,
		storagePath: storagePath,
	}
}

// Process renders the receipt PDF and emails it as attachment.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		log.Error().Str("tenant_id", payload.TenantID).Msg("receipt_worker: invalid tenant_id")
		return nil
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	sale, err := w.saleRepo.FindByID(ctx, tenantID, saleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale: %w", err)
	}

	storeName := "KreasiPOS"
	if tenant, err := w.tenantRepo.FindByID(ctx, tenantID); err == nil {
		storeName = tenant.Name
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, storeName, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt_worker: generate pdf: %w", err)
	}

	if payload.ToEmail == "" {
		// Customer did not leave an email — PDF stays on disk for reprint
		log.Info().Str("receipt", sale.ReceiptNumber).Msg("receipt_worker: pdf generated, no email requested")
		return nil
	}

	subject := fmt.Sprintf("Your receipt %s from %s", sale.ReceiptNumber, storeName)
	body := fmt.Sprintf("Thank you for shopping at %s.\n\nYour receipt %s is attached.",
		storeName, sale.ReceiptNumber)

	sendErr := w.cb.Deliver(func() error {
		return w.mailer.SendReceipt(payload.ToEmail, subject, body, pdfPath)
	})
	if sendErr != nil {
		return fmt.Errorf("receipt_worker: send email: %w", sendErr)
	}

	log.Info().
		Str("to", payload.ToEmail).
		Str("receipt", sale.ReceiptNumber).
		Msg("receipt_worker: receipt sent")
	return nil
}
