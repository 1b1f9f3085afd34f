package worker

// email_worker.go
// Processes plain email jobs from QueueEmail (low-stock digests, account
// notices). No attachments — receipts go through the receipt worker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmsleo/kreasiPOS/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.Breaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	sendErr := w.cb.Deliver(func() error {
		return w.mailer.SendAlert(payload.ToEmail, payload.Subject, payload.Body)
	})
	if sendErr != nil {
		return fmt.Errorf("email_worker: send: %w", sendErr)
	}

	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	return nil
}
