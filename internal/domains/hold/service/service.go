package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Hold=MockHoldService

import (
	"cmp"
	"context"
	"fmt"
	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/internal/domains/hold/model/dto"
	"tablebook/internal/domains/hold/repository"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/logger"
	"tablebook/shared/metrics"
	"tablebook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

type Hold interface {
	Create(ctx context.Context, req dto.CreateHoldRequest) (dto.HoldResponse, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.Hold
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Hold, cfg *config.Config, otel otel.Otel) Hold {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

// Create stores an advisory hold on a slot. Holds do not reserve capacity;
// confirm re-checks the slot.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHoldRequest) (res dto.HoldResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateHold")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.PartySize <= 0 || req.Slot.Time == constant.Empty {
		return res, failure.ErrHoldInvalid.WithMessage("party_size and slot.time are required") //nolint:wrapcheck
	}

	start, err := req.StartTime()
	if err != nil {
		return res, failure.ErrHoldInvalid.WithMessage("slot.time must be an ISO-8601 timestamp") //nolint:wrapcheck
	}

	now := timezone.Now()
	if !start.After(now) {
		return res, failure.ErrHoldInvalid.WithMessage("slot.time must be in the future") //nolint:wrapcheck
	}

	duration := cmp.Or(req.DurationMinutes, s.cfg.Reservation.DefaultDurationMinutes, constant.DefaultDurationMinutes)
	ttl := cmp.Or(s.cfg.Reservation.HoldTTLMinutes, constant.DefaultHoldTTLMinutes)

	hold := req.ToModel(start, now, time.Duration(duration)*time.Minute, time.Duration(ttl)*time.Minute)

	if err = s.repo.Insert(ctx, hold); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("slot", req.Slot.Time).Msg("failed to create hold")

		return res, failure.ErrHoldFailed.WithMessage(fmt.Sprintf("failed to create hold: %v", err)) //nolint:wrapcheck
	}

	metrics.RecordHoldCreated(req.TenantID)
	scope.SetAttribute("hold.id", hold.ID)

	res.FromModel(hold)

	return res, nil
}

func (s *serviceImpl) PurgeExpired(ctx context.Context) (purged int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PurgeExpiredHolds")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	purged, err = s.repo.DeleteExpired(ctx, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to purge expired holds")

		return 0, fmt.Errorf("failed to purge expired holds: %w", err)
	}

	metrics.RecordHoldsPurged(purged)

	return purged, nil
}
