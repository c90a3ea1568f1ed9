// Package holdpurge removes booking holds that have passed their expiry.
package holdpurge

import (
	"cmp"
	"context"
	"tablebook/config"
	"tablebook/internal/domains/hold/service"
	"tablebook/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

type Job struct {
	holds    service.Hold
	interval time.Duration
}

func New(holds service.Hold, cfg *config.Config) *Job {
	seconds := cmp.Or(cfg.Reservation.PurgeIntervalSeconds, constant.DefaultPurgeIntervalSeconds)

	return &Job{
		holds:    holds,
		interval: time.Duration(seconds) * time.Second,
	}
}

// Run purges on every tick until ctx is done.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", j.interval).Msg("hold purge job started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("hold purge job stopped")

			return
		case <-ticker.C:
			j.Tick(ctx)
		}
	}
}

func (j *Job) Tick(ctx context.Context) {
	purged, err := j.holds.PurgeExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge expired holds")

		return
	}

	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("expired holds purged")
	}
}
