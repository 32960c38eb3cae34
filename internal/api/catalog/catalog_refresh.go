package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartRefreshScheduler runs RefreshCatalog on the given cron schedule until
// ctx is cancelled. The initial load at startup is the caller's job; this
// only keeps the data from going stale afterwards.
func (s *ServiceImpl) StartRefreshScheduler(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.RefreshCatalog(context.Background()); err != nil {
			s.logger.Error("Scheduled catalog refresh failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid catalog refresh schedule %q: %w", schedule, err)
	}

	c.Start()
	s.logger.Info("Catalog refresh scheduler started", slog.String("schedule", schedule))

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return c, nil
}
