/**
 * @description
 * Scheduled job implementations for the planner-service. Biweekly-paid users
 * see their paycheck calendar and projection on every app open; the nightly
 * refresh keeps those projections warm in the cache so the morning dashboard
 * load stays cheap.
 */
package app

import (
	"context"
	"log/slog"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	service *Service
	logger  *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(service *Service, logger *slog.Logger) *Jobs {
	return &Jobs{service: service, logger: logger}
}

// RefreshBiweeklyPlans recomputes the projection for every biweekly-paid
// profile, warming the plan cache.
func (j *Jobs) RefreshBiweeklyPlans() {
	j.logger.Info("starting biweekly plan refresh job")
	ctx := context.Background()

	ids, err := j.service.repo.ListBiweeklyProfileIDs(ctx)
	if err != nil {
		j.logger.Error("failed to list biweekly profiles", "error", err)
		return
	}

	refreshed := 0
	for _, id := range ids {
		if _, err := j.service.Projection(ctx, id); err != nil {
			j.logger.Error("failed to refresh projection", "profile_id", id, "error", err)
			continue
		}
		refreshed++
	}

	j.logger.Info("biweekly plan refresh job finished", "profiles", len(ids), "refreshed", refreshed)
}
