package worker

// dlq.go
// Jobs that exhaust their retry budget are parked in a Redis list per source
// queue (dlq:{queue}) for operator replay. The tenant and receipt references
// are lifted out of the payload so support can scan the queue with LRANGE
// without decoding every entry.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is one failed job preserved for replay.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	TenantID      string          `json:"tenant_id,omitempty"`
	SaleID        string          `json:"sale_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	Attempts      int             `json:"attempts"`
	FailedAt      time.Time       `json:"failed_at"`
}

// newDLQEntry builds the parked record, pulling tenant and sale references
// out of the payload when the job carries them.
func newDLQEntry(queue, jobType string, payload json.RawMessage, reason string, attempts int) DLQEntry {
	var refs struct {
		TenantID string `json:"tenant_id"`
		SaleID   string `json:"sale_id"`
	}
	_ = json.Unmarshal(payload, &refs)

	return DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		TenantID:      refs.TenantID,
		SaleID:        refs.SaleID,
		Payload:       payload,
		Reason:        reason,
		Attempts:      attempts,
		FailedAt:      time.Now().UTC(),
	}
}

// SendToDLQ parks a job that exhausted its retries.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := newDLQEntry(queue, jobType, payload, reason, attempts)

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to park job")
		return
	}

	infra.JobsDeadLetteredTotal.WithLabelValues(queue).Inc()
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("tenant_id", entry.TenantID).
		Str("sale_id", entry.SaleID).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked after exhausting retries")
}
