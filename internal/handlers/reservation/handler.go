package reservation

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"tablebook/config"
	"tablebook/infras/otel"
	availabilityDto "tablebook/internal/domains/availability/model/dto"
	availabilityService "tablebook/internal/domains/availability/service"
	holdDto "tablebook/internal/domains/hold/model/dto"
	holdService "tablebook/internal/domains/hold/service"
	reservationDto "tablebook/internal/domains/reservation/model/dto"
	reservationService "tablebook/internal/domains/reservation/service"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/health"
	"tablebook/shared/logger"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	ActionHold         = "hold"
	ActionConfirm      = "confirm"
	ActionAvailability = "availability"
	ActionRecommend    = "recommend"
	ActionPing         = "ping"
	ActionDiag         = "diag"
)

// envelope is the part of every request body shared by all actions.
type envelope struct {
	Action   string `json:"action"`
	TenantID string `json:"tenant_id"`
}

type pingRequest struct{}

type diagRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type DiagResponse struct {
	Status   string        `json:"status"`
	Env      string        `json:"env"`
	App      string        `json:"app"`
	Timezone string        `json:"timezone"`
	Stores   health.Report `json:"stores"`
}

// decoder turns a raw body into the validated request of one action.
type decoder func(raw json.RawMessage, header http.Header) (any, error)

var decoders = map[string]decoder{
	ActionHold:         decode[holdDto.CreateHoldRequest],
	ActionConfirm:      decodeConfirm,
	ActionAvailability: decode[availabilityDto.SlotsRequest],
	ActionRecommend:    decode[availabilityDto.RecommendRequest],
	ActionPing:         func(json.RawMessage, http.Header) (any, error) { return pingRequest{}, nil },
	ActionDiag:         func(json.RawMessage, http.Header) (any, error) { return diagRequest{}, nil },
}

func decode[T any](raw json.RawMessage, _ http.Header) (any, error) {
	var req T
	if err := validator.ValidateJSON(raw, &req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return req, nil
}

// decodeConfirm falls back to the Idempotency-Key header when the body has no key.
func decodeConfirm(raw json.RawMessage, header http.Header) (any, error) {
	var req reservationDto.ConfirmRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	req.IdempotencyKey = cmp.Or(req.IdempotencyKey, header.Get(constant.RequestHeaderIdempotencyKey))

	if err := validator.ValidateStruct(&req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return req, nil
}

type Handler struct {
	holds        holdService.Hold
	availability availabilityService.Availability
	reservations reservationService.Reservation
	health       health.Checker
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	holds holdService.Hold,
	availability availabilityService.Availability,
	reservations reservationService.Reservation,
	health health.Checker,
	cfg *config.Config,
	otel otel.Otel,
) Handler {
	return Handler{
		holds:        holds,
		availability: availability,
		reservations: reservations,
		health:       health,
		cfg:          cfg,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/reservations", handler.Dispatch)
}

// Dispatch routes a reservation request to its action by the "action" field.
// @Summary Reservation actions
// @Description Runs one action selected by the "action" field: hold, confirm, availability, recommend, ping or diag.
// @Description Confirm replays the stored result for a repeated idempotency_key.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key for confirm, used when the body omits idempotency_key"
// @Param request body object true "Action envelope: {action, tenant_id, ...action fields}"
// @Success 200 {object} response.Body "ping, diag, availability, recommend, or a replayed confirm"
// @Success 201 {object} response.Body "Hold created or reservation confirmed"
// @Failure 400 {object} response.Body "HOLD_INVALID, CONFIRMATION_INVALID or a malformed request"
// @Failure 404 {object} response.Body "HOLD_NOT_FOUND"
// @Failure 409 {object} response.Body "SLOT_TAKEN or CONFIRM_IN_PROGRESS"
// @Failure 429 {object} response.Body
// @Failure 500 {object} response.Body "HOLD_FAILED or BOOKING_NOT_CREATED"
// @Router /v1/reservations [post]
func (handler *Handler) Dispatch(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dispatch")
	defer scope.End()

	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constant.RequestMaxMemory))
	if err != nil {
		response.WithError(writer, failure.BadRequest(fmt.Errorf("failed to read request body: %w", err)))

		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		response.WithError(writer, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)))

		return
	}

	decodeRequest, ok := decoders[env.Action]
	if !ok {
		response.WithError(writer, failure.BadRequestFromString(fmt.Sprintf("unknown action %q", env.Action)))

		return
	}

	scope.SetAttribute("reservation.action", env.Action)

	if env.TenantID != constant.Empty {
		ctx = context.WithValue(ctx, constant.ContextKeyTenantID, env.TenantID)
	}

	req, err := decodeRequest(body, request.Header)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Debug().Err(err).Str("action", env.Action).Msg("invalid reservation request")

		response.WithError(writer, err)

		return
	}

	switch req := req.(type) {
	case holdDto.CreateHoldRequest:
		handler.hold(ctx, writer, req)
	case reservationDto.ConfirmRequest:
		handler.confirm(ctx, writer, req)
	case availabilityDto.SlotsRequest:
		handler.slots(ctx, writer, req)
	case availabilityDto.RecommendRequest:
		handler.recommend(ctx, writer, req)
	case pingRequest:
		response.WithJSON(writer, http.StatusOK, PingResponse{Status: health.StatusOK})
	case diagRequest:
		handler.diag(ctx, writer)
	}
}

func (handler *Handler) hold(ctx context.Context, writer http.ResponseWriter, req holdDto.CreateHoldRequest) {
	res, err := handler.holds.Create(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("failed to create hold")
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) confirm(ctx context.Context, writer http.ResponseWriter, req reservationDto.ConfirmRequest) {
	res, err := handler.reservations.Confirm(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("hold_id", req.HoldID).Msg("failed to confirm reservation")
		response.WithError(writer, err)

		return
	}

	code := http.StatusCreated
	if res.Replayed {
		code = http.StatusOK
	}

	response.WithJSON(writer, code, res.Payload)
}

func (handler *Handler) slots(ctx context.Context, writer http.ResponseWriter, req availabilityDto.SlotsRequest) {
	res, err := handler.availability.Slots(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("failed to compute availability")
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

func (handler *Handler) recommend(ctx context.Context, writer http.ResponseWriter, req availabilityDto.RecommendRequest) {
	res, err := handler.availability.Recommend(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("failed to recommend tables")
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

func (handler *Handler) diag(ctx context.Context, writer http.ResponseWriter) {
	response.WithJSON(writer, http.StatusOK, DiagResponse{
		Status:   health.StatusOK,
		Env:      handler.cfg.Server.Env,
		App:      handler.cfg.App.Name,
		Timezone: cmp.Or(handler.cfg.App.Timezone, "UTC"),
		Stores:   handler.health.Check(ctx),
	})
}
