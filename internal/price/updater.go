package price

import (
	"context"
	"time"

	"github.com/xrpzip/walletd/pkg/logger"
)

// Updater refreshes the cached spot price on a fixed interval. The
// original front-end polled the price API from every browser tab;
// here a single background loop keeps the cache warm for all clients.
type Updater struct {
	service  *Service
	interval time.Duration
	logger   *logger.Logger
}

func NewUpdater(service *Service, interval time.Duration, log *logger.Logger) *Updater {
	return &Updater{
		service:  service,
		interval: interval,
		logger:   log.WithField("component", "price_updater"),
	}
}

// Run starts the updater and runs until the context is cancelled.
func (u *Updater) Run(ctx context.Context) {
	u.logger.Info("price updater started", "interval", u.interval)

	// Run immediately on start
	u.refresh(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("price updater stopped")
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *Updater) refresh(ctx context.Context) {
	start := time.Now()
	if err := u.service.Refresh(ctx); err != nil {
		u.logger.WithError(err).Warn("price refresh failed")
		return
	}
	u.logger.WithDuration(time.Since(start)).Debug("price refreshed")
}
