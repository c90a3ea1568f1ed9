package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/internal/domains/availability/engine"
	availabilityDto "tablebook/internal/domains/availability/model/dto"
	availabilityService "tablebook/internal/domains/availability/service"
	bookingModel "tablebook/internal/domains/booking/model"
	bookingRepo "tablebook/internal/domains/booking/repository"
	holdRepo "tablebook/internal/domains/hold/repository"
	idempotencyModel "tablebook/internal/domains/idempotency/model"
	idempotencyRepo "tablebook/internal/domains/idempotency/repository"
	"tablebook/internal/domains/reservation/model/dto"
	"tablebook/shared"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/lock"
	"tablebook/shared/logger"
	"tablebook/shared/metrics"
	"tablebook/shared/publisher"
	"tablebook/shared/timezone"
	"tablebook/shared/validator"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"
)

const (
	slotLockAttempts      = 20
	slotLockRetryInterval = 50 * time.Millisecond
	recoverySinceMargin   = time.Minute
)

const verificationDeniedWarning = "booking created, but the post-create check was denied read access to bookings"

type Reservation interface {
	Confirm(ctx context.Context, req dto.ConfirmRequest) (dto.ConfirmResult, error)
}

type serviceImpl struct {
	holds        holdRepo.Hold
	bookings     bookingRepo.Booking
	idempotency  idempotencyRepo.Idempotency
	availability availabilityService.Availability
	locker       lock.Locker
	publisher    publisher.Publisher
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	holds holdRepo.Hold,
	bookings bookingRepo.Booking,
	idempotency idempotencyRepo.Idempotency,
	availability availabilityService.Availability,
	locker lock.Locker,
	publisher publisher.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		holds:        holds,
		bookings:     bookings,
		idempotency:  idempotency,
		availability: availability,
		locker:       locker,
		publisher:    publisher,
		cfg:          cfg,
		otel:         otel,
	}
}

// Confirm converts an unexpired hold into a pending booking. The first stored
// outcome for an idempotency key is returned unchanged to every later call.
func (s *serviceImpl) Confirm(ctx context.Context, req dto.ConfirmRequest) (res dto.ConfirmResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordConfirmOutcome(confirmOutcome(res, err)) }()

	scope.SetAttributes(map[string]any{"hold.id": req.HoldID, "idempotency.key": req.IdempotencyKey})

	fingerprint, err := idempotencyModel.Fingerprint(req)
	if err != nil {
		return res, fmt.Errorf("failed to fingerprint confirm request: %w", err)
	}

	if res, found, err := s.replay(ctx, req, fingerprint); err != nil || found {
		return res, err
	}

	inFlightKey := lock.Key("confirm", req.TenantID, req.IdempotencyKey)

	token, acquired, lockErr := s.locker.Acquire(ctx, inFlightKey, s.lockTTL())
	switch {
	case lockErr != nil:
		logger.FromContext(ctx).Warn().Err(lockErr).Msg("idempotency lock unavailable, continuing without it")
	case !acquired:
		if res, found, err := s.replay(ctx, req, fingerprint); err != nil || found {
			return res, err
		}

		return res, failure.ErrConfirmInProgress //nolint:wrapcheck
	default:
		defer s.release(ctx, inFlightKey, token)

		// the previous holder may have committed between the first read and the lock
		if res, found, err := s.replay(ctx, req, fingerprint); err != nil || found {
			return res, err
		}
	}

	return s.confirm(ctx, req, fingerprint)
}

func (s *serviceImpl) confirm(ctx context.Context, req dto.ConfirmRequest, fingerprint string) (res dto.ConfirmResult, err error) {
	now := timezone.Now()

	hold, err := s.holds.FindActive(ctx, req.TenantID, req.HoldID, now)
	if err != nil {
		log.Error().Err(err).Str("hold_id", req.HoldID).Msg("failed to load hold")

		return res, fmt.Errorf("failed to load hold: %w", err)
	}

	if hold.ID == constant.Empty || hold.ExpiredAt(now) {
		return res, failure.ErrHoldNotFound //nolint:wrapcheck
	}

	email := strings.TrimSpace(req.GuestDetails.Email)
	if email == constant.Empty {
		return res, failure.ErrConfirmationInvalid.WithMessage("guest_details.email is required") //nolint:wrapcheck
	}

	if err = validator.ValidateVar(email, "email"); err != nil {
		return res, failure.ErrConfirmationInvalid.WithMessage("guest_details.email must be a valid email address") //nolint:wrapcheck
	}

	req.GuestDetails.Email = email

	for _, slotKey := range s.slotKeys(req.TenantID, hold.StartTime) {
		if token, held := s.acquireSlot(ctx, slotKey); held {
			defer s.release(ctx, slotKey, token)
		}
	}

	assessment, err := s.availability.AssessSlot(ctx, req.TenantID, hold.StartTime, hold.PartySize)
	if err != nil {
		return res, fmt.Errorf("failed to check slot capacity: %w", err)
	}

	tableID := cmp.Or(req.TableID, hold.TableIDValue())

	switch {
	case assessment.Remaining <= 0:
		return res, failure.ErrSlotTaken //nolint:wrapcheck
	case tableID != constant.Empty && !assessment.Offers(tableID):
		return res, failure.ErrSlotTaken.WithMessage(fmt.Sprintf("table %s is no longer available for this slot", tableID)) //nolint:wrapcheck
	case tableID == constant.Empty:
		tableID = assessment.Best()
	}

	booking := req.ToBooking(hold, tableID, now)

	created, err := s.bookings.Insert(ctx, booking)
	if err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, failure.ErrSlotTaken //nolint:wrapcheck
		}

		log.Error().Err(err).Str("hold_id", hold.ID).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	// the booking is written; the caller going away must not strand it
	// without its idempotency record
	ctx = context.WithoutCancel(ctx)

	if created.ID == constant.Empty {
		created, err = s.awaitVisible(ctx, booking)
		if err != nil {
			return res, err
		}

		res.Recovered = true
	}

	var response dto.ConfirmResponse

	response.FromModel(created, timezone.Resolve(cmp.Or(req.Timezone, s.cfg.App.Timezone)), tableInfo(assessment, created.TableIDValue()))
	response.Warnings = s.verify(ctx, created)

	payload, err := json.Marshal(response)
	if err != nil {
		return res, fmt.Errorf("failed to encode confirm response: %w", err)
	}

	res.Payload = s.commit(ctx, req, fingerprint, payload, now)

	if err := s.holds.Delete(ctx, req.TenantID, hold.ID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("hold_id", hold.ID).Msg("failed to consume hold")
	}

	s.publishConfirmed(ctx, created)

	return res, nil
}

// replay returns the stored outcome for the request's key, if any.
func (s *serviceImpl) replay(ctx context.Context, req dto.ConfirmRequest, fingerprint string) (dto.ConfirmResult, bool, error) {
	record, err := s.idempotency.Get(ctx, req.TenantID, req.IdempotencyKey)
	if err != nil {
		log.Error().Err(err).Str("idempotency_key", req.IdempotencyKey).Msg("failed to read idempotency record")

		return dto.ConfirmResult{}, false, fmt.Errorf("failed to read idempotency record: %w", err)
	}

	if !record.Found() {
		return dto.ConfirmResult{}, false, nil
	}

	if record.RequestFingerprint != fingerprint {
		logger.FromContext(ctx).Warn().
			Str("idempotency_key", req.IdempotencyKey).
			Msg("idempotency key reused with a different request, returning the stored result")
	}

	return dto.ConfirmResult{Payload: json.RawMessage(record.ResultPayload), Replayed: true}, true, nil
}

// commit stores payload under the request's key and returns the payload that
// is authoritative for it. The store may normalize JSON, so the stored copy is
// read back and returned instead of the local one.
func (s *serviceImpl) commit(ctx context.Context, req dto.ConfirmRequest, fingerprint string, payload []byte, now time.Time) json.RawMessage {
	record := idempotencyModel.Record{
		TenantID:           req.TenantID,
		Key:                req.IdempotencyKey,
		RequestFingerprint: fingerprint,
		ResultPayload:      types.JSONText(payload),
		CreatedAt:          now,
	}

	if _, err := s.idempotency.Put(ctx, record); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("idempotency_key", req.IdempotencyKey).Msg("failed to store idempotency record")

		return payload
	}

	stored, err := s.idempotency.Get(ctx, req.TenantID, req.IdempotencyKey)
	if err != nil || !stored.Found() {
		logger.FromContext(ctx).Warn().Err(err).Str("idempotency_key", req.IdempotencyKey).Msg("stored idempotency record not readable")

		return payload
	}

	return json.RawMessage(stored.ResultPayload)
}

// awaitVisible polls for a booking whose insert was accepted but is not yet
// visible on the read path.
func (s *serviceImpl) awaitVisible(ctx context.Context, booking bookingModel.Booking) (bookingModel.Booking, error) {
	attempts := cmp.Or(s.cfg.Reservation.Recovery.MaxAttempts, constant.DefaultRecoveryAttempts)
	backoff := time.Duration(cmp.Or(s.cfg.Reservation.Recovery.BackoffMillis, constant.DefaultRecoveryBackoffMillis)) * time.Millisecond
	since := booking.CreatedAt.Add(-recoverySinceMargin)

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := sleep(ctx, backoff*time.Duration(attempt)); err != nil {
			break
		}

		recent, err := s.bookings.FindRecentByEmail(ctx, booking.TenantID, booking.GuestEmail, since)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Int("attempt", attempt).Msg("booking recovery poll failed")
			metrics.RecordRecoveryPoll(false)

			continue
		}

		if found, ok := findBooking(recent, booking); ok {
			metrics.RecordRecoveryPoll(true)
			logger.FromContext(ctx).Info().Int("attempt", attempt).Str("booking_id", found.ID).Msg("booking recovered after delayed visibility")

			return found, nil
		}

		metrics.RecordRecoveryPoll(false)
	}

	logger.FromContext(ctx).Error().
		Str("tenant_id", booking.TenantID).
		Str("hold_id", valueOf(booking.HoldID)).
		Str("guest_email", booking.GuestEmail).
		Str("booking_id", booking.ID).
		Msg("booking insert accepted but never became visible")

	return bookingModel.Booking{}, failure.ErrBookingNotCreated //nolint:wrapcheck
}

// verify looks the booking up again through the read path. Only a permission
// failure is reported back to the caller.
func (s *serviceImpl) verify(ctx context.Context, booking bookingModel.Booking) []string {
	if !s.cfg.Reservation.Verification.Enable {
		return nil
	}

	timeout := time.Duration(cmp.Or(s.cfg.Reservation.Verification.TimeoutMillis, constant.DefaultVerificationTimeoutMs)) * time.Millisecond

	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method, err := s.locate(verifyCtx, booking)

	switch {
	case shared.IsPqError(err, constant.PqErrorCodeInsufficientPrivilege):
		metrics.RecordVerification(metrics.VerificationDenied)
		logger.FromContext(ctx).Warn().Err(err).Str("booking_id", booking.ID).Msg("post-create verification denied")

		return []string{verificationDeniedWarning}
	case err != nil:
		metrics.RecordVerification(metrics.VerificationFailed)
		logger.FromContext(ctx).Warn().Err(err).Str("booking_id", booking.ID).Msg("post-create verification failed")
	case method == metrics.VerificationNotFound:
		metrics.RecordVerification(method)
		logger.FromContext(ctx).Warn().Str("booking_id", booking.ID).Msg("post-create verification could not find the booking")
	default:
		metrics.RecordVerification(method)
	}

	return nil
}

func (s *serviceImpl) locate(ctx context.Context, booking bookingModel.Booking) (string, error) {
	byID, err := s.bookings.FindByID(ctx, booking.TenantID, booking.ID)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	if byID.ID == booking.ID {
		return metrics.VerificationByID, nil
	}

	window := time.Duration(constant.DefaultVerificationWindowHours) * time.Hour

	byEmail, err := s.bookings.FindByEmailBetween(ctx, booking.TenantID, booking.GuestEmail, booking.StartTime.Add(-window), booking.StartTime.Add(window))
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	if _, ok := findBooking(byEmail, booking); ok {
		return metrics.VerificationByEmail, nil
	}

	lookback := time.Duration(cmp.Or(s.cfg.Reservation.Verification.LookbackMinutes, constant.DefaultVerificationLookback)) * time.Minute

	recent, err := s.bookings.FindCreatedSince(ctx, booking.TenantID, timezone.Now().Add(-lookback))
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	if _, ok := findBooking(recent, booking); ok {
		return metrics.VerificationByRecent, nil
	}

	return metrics.VerificationNotFound, nil
}

func (s *serviceImpl) publishConfirmed(ctx context.Context, booking bookingModel.Booking) {
	var event dto.ConfirmedEvent

	event.FromModel(booking)

	topic := cmp.Or(s.cfg.Broker.Topics.ReservationConfirmed, constant.DefaultConfirmedTopic)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.Publish(c, topic, booking.ID, event); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking confirmed event")
		}
	}()
}

// slotKeys names one lock per UTC date that a conflicting booking may start
// on, in ascending order. Two confirms that could conflict share at least one
// key.
func (s *serviceImpl) slotKeys(tenantID string, start time.Time) []string {
	from, to := engine.ConflictSpan(start.UTC(), availabilityService.Rules(s.cfg), constant.MaxBookingDurationMinutes*time.Minute)

	keys := []string{}

	for day := from.Truncate(24 * time.Hour); !day.After(to); day = day.AddDate(0, 0, 1) {
		keys = append(keys, lock.Key("slot", tenantID, day.Format(constant.DayFormat)))
	}

	return keys
}

// acquireSlot serializes confirms for one tenant and service date. It gives
// up after a bounded wait and lets the unique index guard the write.
func (s *serviceImpl) acquireSlot(ctx context.Context, key string) (string, bool) {
	for attempt := 0; attempt < slotLockAttempts; attempt++ {
		token, acquired, err := s.locker.Acquire(ctx, key, s.lockTTL())
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("slot lock unavailable, continuing without it")

			return "", false
		}

		if acquired {
			return token, true
		}

		if err := sleep(ctx, slotLockRetryInterval); err != nil {
			break
		}
	}

	logger.FromContext(ctx).Warn().Str("key", key).Msg("slot lock busy, continuing without it")

	return "", false
}

func (s *serviceImpl) release(ctx context.Context, key, token string) {
	if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil && !errors.Is(err, lock.ErrNotHeld) {
		log.Warn().Err(err).Str("key", key).Msg("failed to release lock")
	}
}

func (s *serviceImpl) lockTTL() time.Duration {
	return time.Duration(cmp.Or(s.cfg.Reservation.LockTTLSeconds, constant.DefaultLockTTLSeconds)) * time.Second
}

func tableInfo(assessment availabilityDto.Assessment, tableID string) string {
	for _, rec := range assessment.Recommendations {
		if rec.Table.ID == tableID {
			return dto.TableInfo(rec.Table.Name, rec.Table.Capacity)
		}
	}

	return tableID
}

// findBooking matches on id, or on the hold the booking was made from.
func findBooking(bookings []bookingModel.Booking, target bookingModel.Booking) (bookingModel.Booking, bool) {
	idx := slices.IndexFunc(bookings, func(b bookingModel.Booking) bool {
		if b.ID == target.ID {
			return true
		}

		return b.HoldID != nil && target.HoldID != nil && *b.HoldID == *target.HoldID
	})
	if idx < 0 {
		return bookingModel.Booking{}, false
	}

	return bookings[idx], true
}

func confirmOutcome(res dto.ConfirmResult, err error) string {
	switch {
	case err == nil && res.Replayed:
		return metrics.ConfirmOutcomeReplayed
	case err == nil && res.Recovered:
		return metrics.ConfirmOutcomeRecovered
	case err == nil:
		return metrics.ConfirmOutcomeCreated
	}

	switch failure.GetReason(err) {
	case failure.ReasonHoldNotFound:
		return metrics.ConfirmOutcomeHoldNotFound
	case failure.ReasonConfirmationInvalid:
		return metrics.ConfirmOutcomeInvalid
	case failure.ReasonSlotTaken:
		return metrics.ConfirmOutcomeSlotTaken
	case failure.ReasonConfirmInProgress:
		return metrics.ConfirmOutcomeInProgress
	case failure.ReasonBookingNotCreated:
		return metrics.ConfirmOutcomeNotCreated
	default:
		return metrics.ConfirmOutcomeFailed
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}

func valueOf(s *string) string {
	if s == nil {
		return constant.Empty
	}

	return *s
}
