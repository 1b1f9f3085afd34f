package worker

// lowstock_cron.go
// Background goroutine that periodically scans every tenant's raw materials
// and enqueues a digest email for those at or below their alert threshold.
// Digests are deduplicated per tenant per day via a Redis key so a sweep
// every hour does not spam the same alert.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lowStockDedupTTL = 24 * time.Hour

// LowStockCronConfig holds all dependencies for the sweep goroutine.
type LowStockCronConfig struct {
	TenantRepo      repository.TenantRepository
	RawMaterialRepo repository.RawMaterialRepository
	Dispatcher      *Dispatcher
	RDB             *redis.Client
	Interval        time.Duration
}

// StartLowStockCron launches the periodic sweep. It respects the context for
// graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				sweepLowStock(ctx, cfg)
			}
		}
	}()
}

func sweepLowStock(ctx context.Context, cfg LowStockCronConfig) {
	tenants, _, err := cfg.TenantRepo.List(ctx, 1, 1000)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to list tenants")
		return
	}

	for _, tenant := range tenants {
		if !tenant.Active {
			continue
		}

		materials, err := cfg.RawMaterialRepo.ListLowStock(ctx, tenant.ID)
		if err != nil {
			log.Error().Err(err).Str("tenant", tenant.Name).Msg("lowstock_cron: sweep failed")
			continue
		}
		if len(materials) == 0 {
			continue
		}

		// One digest per tenant per day
		dedupKey := fmt.Sprintf("lowstock:notified:%s:%s", tenant.ID, time.Now().Format("2006-01-02"))
		set, err := cfg.RDB.SetNX(ctx, dedupKey, 1, lowStockDedupTTL).Result()
		if err != nil || !set {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "The following materials are at or below their alert threshold:\n\n")
		for _, m := range materials {
			fmt.Fprintf(&b, "  - %s (%s): %s %s on hand, alert at %s %s\n",
				m.Name, m.SKU,
				m.StockQty.String(), m.Unit,
				m.StockAlert.String(), m.Unit)
		}
		b.WriteString("\nRestock soon to avoid failed sales.")

		payload := EmailJobPayload{
			ToEmail: tenant.Email,
			Subject: fmt.Sprintf("Low stock alert — %d material(s) need restocking", len(materials)),
			Body:    b.String(),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
			log.Error().Err(err).Str("tenant", tenant.Name).Msg("lowstock_cron: enqueue failed")
			continue
		}

		log.Info().
			Str("tenant", tenant.Name).
			Int("materials", len(materials)).
			Msg("lowstock_cron: digest enqueued")
	}
}
