package scheduler

import (
	"context"
	"time"

	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StockRefreshScheduler keeps stock snapshots warm for every product that
// currently sits in a cart. Best effort only: a failed refresh leaves the
// snapshot to expire on its own and the guard to fall back to optimism.
type StockRefreshScheduler struct {
	cron        *cron.Cron
	carts       service.CartService
	catalog     service.CatalogService
	cronSpec    string
	fetchWindow time.Duration
}

func NewStockRefreshScheduler(carts service.CartService, catalog service.CatalogService, cronSpec string) *StockRefreshScheduler {
	return &StockRefreshScheduler{
		cron:        cron.New(),
		carts:       carts,
		catalog:     catalog,
		cronSpec:    cronSpec,
		fetchWindow: 30 * time.Second,
	}
}

func (s *StockRefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, s.refresh)
	if err != nil {
		logger.Error("Failed to register stock refresh job", err, map[string]interface{}{
			"spec": s.cronSpec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Stock refresh scheduler started", map[string]interface{}{
		"spec": s.cronSpec,
	})
	return nil
}

func (s *StockRefreshScheduler) Stop() {
	logger.Info("Stopping stock refresh scheduler", nil)
	s.cron.Stop()
}

func (s *StockRefreshScheduler) refresh() {
	ids := s.carts.ActiveProductIDs()
	if len(ids) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.fetchWindow)
	defer cancel()

	refreshed := 0
	for _, id := range ids {
		// Service credential, not a customer token: this runs for all
		// carts at once.
		if _, known := s.catalog.FetchLiveStock(ctx, "", id); known {
			refreshed++
		}
		if ctx.Err() != nil {
			break
		}
	}

	logger.Info("Stock snapshots refreshed", map[string]interface{}{
		"products":  len(ids),
		"refreshed": refreshed,
	})
}
