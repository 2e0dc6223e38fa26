package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xaenox/trendpulse/internal/models"
)

// Stats collects the aggregates shown on /stats concurrently.
func (s *Service) Stats(ctx context.Context) (*models.SystemStats, error) {
	var (
		stats     models.SystemStats
		scenarios *models.ScenarioStats
		users     *models.UserStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scenarios, err = s.store.ScenarioStats(gctx)
		return translate(err, "stats", "scenarios")
	})
	g.Go(func() error {
		var err error
		users, err = s.store.UserStats(gctx, s.now().Add(-activeUserWindow))
		return translate(err, "stats", "users")
	})
	g.Go(func() error {
		var err error
		stats.ContractorsCount, err = s.store.CountActiveContractors(gctx)
		return translate(err, "stats", "contractors")
	})
	g.Go(func() error {
		var err error
		stats.ReportsGenerated, err = s.store.CountReports(gctx)
		return translate(err, "stats", "reports")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Scenarios = *scenarios
	stats.Users = *users
	return &stats, nil
}
