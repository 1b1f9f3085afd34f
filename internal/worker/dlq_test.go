package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDLQEntryLiftsJobReferences(t *testing.T) {
	payload, err := json.Marshal(ReceiptJobPayload{
		TenantID: "7b0f7f43-52a1-4c7e-9a1f-2f1f6a9a2a01",
		SaleID:   "e5a1c0d2-8a33-4e0f-8b15-6f0c4b7d9e02",
		ToEmail:  "customer@example.com",
	})
	require.NoError(t, err)

	entry := newDLQEntry(QueueReceipt, "receipt", payload, "smtp timeout", 3)

	assert.Equal(t, QueueReceipt, entry.OriginalQueue)
	assert.Equal(t, "7b0f7f43-52a1-4c7e-9a1f-2f1f6a9a2a01", entry.TenantID)
	assert.Equal(t, "e5a1c0d2-8a33-4e0f-8b15-6f0c4b7d9e02", entry.SaleID)
	assert.Equal(t, "smtp timeout", entry.Reason)
	assert.Equal(t, 3, entry.Attempts)
	assert.False(t, entry.FailedAt.IsZero())
	assert.JSONEq(t, string(payload), string(entry.Payload))
}

func TestDLQEntryToleratesPayloadWithoutReferences(t *testing.T) {
	entry := newDLQEntry(QueueEmail, "email", json.RawMessage(`{"to_email":"a@b.co"}`), "boom", 3)
	assert.Empty(t, entry.TenantID)
	assert.Empty(t, entry.SaleID)
}
