package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Availability=MockAvailabilityService

import (
	"cmp"
	"context"
	"fmt"
	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/internal/domains/availability/engine"
	"tablebook/internal/domains/availability/model/dto"
	bookingModel "tablebook/internal/domains/booking/model"
	bookingRepo "tablebook/internal/domains/booking/repository"
	tableModel "tablebook/internal/domains/table/model"
	tableService "tablebook/internal/domains/table/service"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// Availability answers slot and table questions from live bookings. Slot
// state is never cached.
type Availability interface {
	Slots(ctx context.Context, req dto.SlotsRequest) (dto.SlotsResponse, error)
	Recommend(ctx context.Context, req dto.RecommendRequest) (dto.RecommendResponse, error)
	AssessSlot(ctx context.Context, tenantID string, start time.Time, partySize int) (dto.Assessment, error)
}

type serviceImpl struct {
	tables   tableService.Table
	bookings bookingRepo.Booking
	cfg      *config.Config
	otel     otel.Otel
}

func New(tables tableService.Table, bookings bookingRepo.Booking, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		tables:   tables,
		bookings: bookings,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Slots(ctx context.Context, req dto.SlotsRequest) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Slots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	date, err := time.Parse(constant.DayFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") //nolint:wrapcheck
	}

	window, err := parseWindow(req.Window)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	rules := s.rules()
	if req.PreBufferMinutes != nil {
		rules.PreBufferMinutes = *req.PreBufferMinutes
	}

	if req.PostBufferMinutes != nil {
		rules.PostBufferMinutes = *req.PostBufferMinutes
	}

	if req.PacingCap != nil {
		rules.PacingCap = *req.PacingCap
	}

	tables, err := s.tables.ListActive(ctx, req.TenantID)
	if err != nil {
		return res, fmt.Errorf("failed to load tables: %w", err)
	}

	starts := engine.SlotStarts(date, window, rules.StrideMinutes)
	res.Timezone = req.Timezone

	if len(starts) == 0 || len(tables) == 0 {
		res.FromEngine(nil)

		return res, nil
	}

	from, to := bookingRange(starts[0], starts[len(starts)-1], rules)

	bookings, err := s.bookings.FindConflicting(ctx, req.TenantID, from, to)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", req.TenantID).Msg("failed to load bookings for availability")

		return res, fmt.Errorf("failed to load bookings: %w", err)
	}

	res.FromEngine(engine.AvailableSlots(engine.Query{
		Tables:    toEngineTables(tables),
		Bookings:  toEngineBookings(bookings),
		PartySize: req.PartySize,
		Date:      date,
		Window:    window,
		Rules:     rules,
		Now:       timezone.Now(),
	}))

	return res, nil
}

func (s *serviceImpl) Recommend(ctx context.Context, req dto.RecommendRequest) (res dto.RecommendResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recommend")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return res, failure.BadRequestFromString("time must be an ISO-8601 timestamp") //nolint:wrapcheck
	}

	rules := s.rules()

	tables, err := s.tables.ListActive(ctx, req.TenantID)
	if err != nil {
		return res, fmt.Errorf("failed to load tables: %w", err)
	}

	from, to := bookingRange(start.UTC(), start.UTC(), rules)

	bookings, err := s.bookings.FindConflicting(ctx, req.TenantID, from, to)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", req.TenantID).Msg("failed to load bookings for recommendation")

		return res, fmt.Errorf("failed to load bookings: %w", err)
	}

	res.FromEngine(engine.Recommend(toEngineTables(tables), toEngineBookings(bookings), req.PartySize, start.UTC(), rules))

	return res, nil
}

// AssessSlot re-runs the capacity check for one slot against the primary, so
// bookings committed a moment ago are counted.
func (s *serviceImpl) AssessSlot(ctx context.Context, tenantID string, start time.Time, partySize int) (res dto.Assessment, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AssessSlot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rules := s.rules()

	tables, err := s.tables.ListActive(ctx, tenantID)
	if err != nil {
		return res, fmt.Errorf("failed to load tables: %w", err)
	}

	from, to := bookingRange(start, start, rules)

	bookings, err := s.bookings.FindConflictingPrimary(ctx, tenantID, from, to)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to load bookings for slot check")

		return res, fmt.Errorf("failed to load bookings: %w", err)
	}

	suitable := engine.FilterByCapacity(toEngineTables(tables), partySize)
	engineBookings := toEngineBookings(bookings)

	res.Remaining = engine.Remaining(len(suitable), engine.CountConflicts(start, engineBookings, rules), rules.PacingCap)
	res.Recommendations = engine.Recommend(suitable, engineBookings, partySize, start, rules)

	return res, nil
}

func (s *serviceImpl) rules() engine.Rules {
	return Rules(s.cfg)
}

// Rules maps the configured turnover and pacing defaults onto the engine.
func Rules(cfg *config.Config) engine.Rules {
	reservation := cfg.Reservation

	return engine.Rules{
		PreBufferMinutes:       reservation.PreBufferMinutes,
		PostBufferMinutes:      reservation.PostBufferMinutes,
		PacingCap:              reservation.PacingCap,
		ReferenceWindowMinutes: cmp.Or(reservation.ReferenceWindowMinutes, engine.DefaultReferenceWindowMinutes),
		StrideMinutes:          cmp.Or(reservation.SlotStrideMinutes, engine.DefaultStrideMinutes),
	}
}

func parseWindow(window dto.Window) (engine.Window, error) {
	start, err := engine.ParseClock(window.Start)
	if err != nil {
		return engine.Window{}, fmt.Errorf("window.start: %w", err)
	}

	end, err := engine.ParseClock(window.End)
	if err != nil {
		return engine.Window{}, fmt.Errorf("window.end: %w", err)
	}

	return engine.Window{Start: start, End: end}, nil
}

// bookingRange widens [first, last] slot starts to every booking interval
// that could conflict with one of them.
func bookingRange(first, last time.Time, rules engine.Rules) (time.Time, time.Time) {
	pre := time.Duration(max(rules.PreBufferMinutes, 0)) * time.Minute
	post := time.Duration(max(rules.PostBufferMinutes, 0)) * time.Minute
	window := time.Duration(cmp.Or(rules.ReferenceWindowMinutes, engine.DefaultReferenceWindowMinutes)) * time.Minute

	return first.Add(-pre - post), last.Add(window + post)
}

func toEngineTables(tables []tableModel.Table) []engine.Table {
	res := make([]engine.Table, 0, len(tables))

	for _, table := range tables {
		res = append(res, engine.Table{ID: table.ID, Name: table.Name, Capacity: table.Capacity})
	}

	return res
}

func toEngineBookings(bookings []bookingModel.Booking) []engine.Booking {
	res := make([]engine.Booking, 0, len(bookings))

	for _, booking := range bookings {
		res = append(res, engine.Booking{
			ID:              booking.ID,
			TableID:         booking.TableIDValue(),
			Start:           booking.StartTime,
			DurationMinutes: booking.DurationMinutes,
		})
	}

	return res
}
