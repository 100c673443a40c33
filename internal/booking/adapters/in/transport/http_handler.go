package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"

	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler обрабатывает HTTP запросы booking service
type HTTPHandler struct {
	createBookingUC in.CreateBookingUseCase
	assignDriverUC  in.AssignDriverUseCase
	cancelBookingUC in.CancelBookingUseCase
	getBookingUC    in.GetBookingUseCase
	log             *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	createBookingUC in.CreateBookingUseCase,
	assignDriverUC in.AssignDriverUseCase,
	cancelBookingUC in.CancelBookingUseCase,
	getBookingUC in.GetBookingUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		createBookingUC: createBookingUC,
		assignDriverUC:  assignDriverUC,
		cancelBookingUC: cancelBookingUC,
		getBookingUC:    getBookingUC,
		log:             log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMW func(roles ...string) func(http.HandlerFunc) http.HandlerFunc) {
	// liveness probe (без аутентификации)
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("POST /bookings/{kind}", authMW("RIDER")(h.handleCreateBooking))
	mux.HandleFunc("GET /bookings/{booking_id}", authMW()(h.handleGetBooking))
	mux.HandleFunc("PUT /bookings/{booking_id}/assign-driver", authMW("OPERATOR")(h.handleAssignDriver))
	mux.HandleFunc("PUT /bookings/{booking_id}/cancel", authMW("RIDER", "OPERATOR")(h.handleCancelBooking))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"booking"}`))
}

// CreateBookingHTTPRequest — HTTP DTO для создания заказа
type CreateBookingHTTPRequest struct {
	PickupAddress      string  `json:"pickup_address"`
	PickupLat          float64 `json:"pickup_lat"`
	PickupLng          float64 `json:"pickup_lng"`
	DestinationAddress string  `json:"destination_address"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
}

// handleCreateBooking обрабатывает POST /bookings/{kind}
func (h *HTTPHandler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ActorFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CreateBookingHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if req.PickupAddress == "" {
		h.respondError(w, http.StatusBadRequest, "pickup_address is required")
		return
	}
	if req.DestinationAddress == "" {
		h.respondError(w, http.StatusBadRequest, "destination_address is required")
		return
	}

	input := in.CreateBookingInput{
		OwnerID:            userID,
		Kind:               r.PathValue("kind"),
		PickupAddress:      req.PickupAddress,
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		DestinationAddress: req.DestinationAddress,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
	}

	output, err := h.createBookingUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// handleGetBooking обрабатывает GET /bookings/{booking_id}
func (h *HTTPHandler) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, role := ActorFromContext(ctx)

	actorRole, err := lifecycle.ParseRole(role)
	if err != nil {
		h.respondError(w, http.StatusForbidden, "unknown role")
		return
	}

	input := in.GetBookingInput{
		BookingID: r.PathValue("booking_id"),
		ActorID:   userID,
		ActorRole: actorRole,
	}

	booking, err := h.getBookingUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, booking)
}

// AssignDriverHTTPRequest — HTTP DTO для назначения водителя
type AssignDriverHTTPRequest struct {
	DriverID string `json:"driver_id"`
	Price    struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	} `json:"price"`
}

// handleAssignDriver обрабатывает PUT /bookings/{booking_id}/assign-driver
func (h *HTTPHandler) handleAssignDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req AssignDriverHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if req.DriverID == "" {
		h.respondError(w, http.StatusBadRequest, "driver_id is required")
		return
	}

	input := in.AssignDriverInput{
		BookingID: r.PathValue("booking_id"),
		DriverID:  req.DriverID,
		Price: domain.Price{
			Amount:   req.Price.Amount,
			Currency: req.Price.Currency,
		},
	}

	output, err := h.assignDriverUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// CancelBookingHTTPRequest — HTTP DTO для отмены заказа
type CancelBookingHTTPRequest struct {
	Reason string `json:"reason"`
}

// handleCancelBooking обрабатывает PUT /bookings/{booking_id}/cancel
func (h *HTTPHandler) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, role := ActorFromContext(ctx)

	actorRole, err := lifecycle.ParseRole(role)
	if err != nil {
		h.respondError(w, http.StatusForbidden, "unknown role")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CancelBookingHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	input := in.CancelBookingInput{
		BookingID: r.PathValue("booking_id"),
		ActorID:   userID,
		ActorRole: actorRole,
		Reason:    req.Reason,
	}

	output, err := h.cancelBookingUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// handleUseCaseError мапит доменные ошибки на HTTP коды
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		h.respondError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrDriverNotFound):
		h.respondError(w, http.StatusNotFound, "driver not found")
	case errors.Is(err, domain.ErrInvalidKind):
		h.respondError(w, http.StatusBadRequest, "invalid booking kind")
	case errors.Is(err, domain.ErrInvalidPrice):
		h.respondError(w, http.StatusBadRequest, "invalid price")
	case errors.Is(err, domain.ErrInvalidCoordinates):
		h.respondError(w, http.StatusBadRequest, "invalid coordinates")
	case errors.Is(err, domain.ErrReasonRequired):
		h.respondError(w, http.StatusBadRequest, "cancellation reason is required")
	case errors.Is(err, domain.ErrNotBookingOwner):
		h.respondError(w, http.StatusForbidden, "not the booking owner")
	case errors.Is(err, domain.ErrRiderCancelNotPending):
		h.respondError(w, http.StatusConflict, "booking can no longer be cancelled by rider")
	case errors.Is(err, domain.ErrBookingNotPending):
		h.respondError(w, http.StatusConflict, "booking is no longer pending")
	case errors.Is(err, domain.ErrBookingTerminal):
		h.respondError(w, http.StatusConflict, "booking is already completed or cancelled")
	case errors.Is(err, domain.ErrDriverNotApproved):
		h.respondError(w, http.StatusConflict, "driver is not approved")
	case errors.Is(err, domain.ErrDriverOffline):
		h.respondError(w, http.StatusConflict, "driver is offline")
	case errors.Is(err, domain.ErrDriverBusy):
		h.respondError(w, http.StatusConflict, "driver already has an active booking")
	case errors.Is(err, domain.ErrPreferenceMismatch):
		h.respondError(w, http.StatusConflict, "driver does not accept this booking kind")
	case errors.Is(err, domain.ErrVersionConflict):
		h.respondError(w, http.StatusConflict, "booking was modified concurrently")
	case errors.Is(err, lifecycle.ErrTransitionNotAllowed),
		errors.Is(err, lifecycle.ErrTerminalStatus):
		h.respondError(w, http.StatusConflict, "status transition not allowed")
	case errors.Is(err, lifecycle.ErrRoleNotAllowed):
		h.respondError(w, http.StatusForbidden, "role not allowed for this transition")
	case errors.Is(err, lifecycle.ErrUnknownStatus), errors.Is(err, lifecycle.ErrUnknownRole):
		h.respondError(w, http.StatusBadRequest, "unknown status or role")
	default:
		h.log.Error(logger.Entry{
			Action:  "booking_usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondJSON отправляет JSON ответ
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_booking_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
