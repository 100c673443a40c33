package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler обрабатывает HTTP запросы driver service
type HTTPHandler struct {
	setAvailabilityUC   in.SetAvailabilityUseCase
	advanceAssignmentUC in.AdvanceAssignmentUseCase
	cancelAssignmentUC  in.CancelAssignmentUseCase
	currentAssignmentUC in.CurrentAssignmentUseCase
	log                 *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	setAvailabilityUC in.SetAvailabilityUseCase,
	advanceAssignmentUC in.AdvanceAssignmentUseCase,
	cancelAssignmentUC in.CancelAssignmentUseCase,
	currentAssignmentUC in.CurrentAssignmentUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		setAvailabilityUC:   setAvailabilityUC,
		advanceAssignmentUC: advanceAssignmentUC,
		cancelAssignmentUC:  cancelAssignmentUC,
		currentAssignmentUC: currentAssignmentUC,
		log:                 log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, driverAuthMW func(http.HandlerFunc) http.HandlerFunc) {
	// liveness probe (без аутентификации)
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("PUT /drivers/availability", driverAuthMW(h.handleSetAvailability))
	mux.HandleFunc("GET /drivers/assignments/current", driverAuthMW(h.handleCurrentAssignment))
	mux.HandleFunc("PUT /drivers/assignments/{booking_id}/status", driverAuthMW(h.handleAdvanceAssignment))
	mux.HandleFunc("PUT /drivers/assignments/{booking_id}/cancel", driverAuthMW(h.handleCancelAssignment))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"driver"}`))
}

// SetAvailabilityHTTPRequest — HTTP DTO смены доступности
type SetAvailabilityHTTPRequest struct {
	AvailabilityStatus string `json:"availability_status"`
}

// handleSetAvailability обрабатывает PUT /drivers/availability
func (h *HTTPHandler) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ActorFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req SetAvailabilityHTTPRequest
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

	if req.AvailabilityStatus == "" {
		h.respondError(w, http.StatusBadRequest, "availability_status is required")
		return
	}

	input := in.SetAvailabilityInput{
		UserID:             userID,
		AvailabilityStatus: req.AvailabilityStatus,
	}

	output, err := h.setAvailabilityUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// handleCurrentAssignment обрабатывает GET /drivers/assignments/current
func (h *HTTPHandler) handleCurrentAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ActorFromContext(ctx)

	assignment, err := h.currentAssignmentUC.Execute(ctx, in.CurrentAssignmentInput{UserID: userID})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, assignment)
}

// AdvanceAssignmentHTTPRequest — HTTP DTO прямого перехода
type AdvanceAssignmentHTTPRequest struct {
	Status string `json:"status"`
}

// handleAdvanceAssignment обрабатывает PUT /drivers/assignments/{booking_id}/status
func (h *HTTPHandler) handleAdvanceAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ActorFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req AdvanceAssignmentHTTPRequest
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

	if req.Status == "" {
		h.respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	input := in.AdvanceAssignmentInput{
		UserID:          userID,
		BookingID:       r.PathValue("booking_id"),
		RequestedStatus: req.Status,
	}

	output, err := h.advanceAssignmentUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// CancelAssignmentHTTPRequest — HTTP DTO отмены водителем
type CancelAssignmentHTTPRequest struct {
	Reason string `json:"reason"`
}

// handleCancelAssignment обрабатывает PUT /drivers/assignments/{booking_id}/cancel
func (h *HTTPHandler) handleCancelAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ActorFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CancelAssignmentHTTPRequest
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

	input := in.CancelAssignmentInput{
		UserID:    userID,
		BookingID: r.PathValue("booking_id"),
		Reason:    req.Reason,
	}

	output, err := h.cancelAssignmentUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// handleUseCaseError мапит доменные ошибки на HTTP коды
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDriverNotFound):
		h.respondError(w, http.StatusNotFound, "driver not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		h.respondError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrNoActiveAssignment):
		h.respondError(w, http.StatusNotFound, "no active assignment")
	case errors.Is(err, domain.ErrInvalidAvailability):
		h.respondError(w, http.StatusBadRequest, "invalid availability status")
	case errors.Is(err, domain.ErrReasonRequired):
		h.respondError(w, http.StatusBadRequest, "cancellation reason is required")
	case errors.Is(err, domain.ErrDriverNotApproved):
		h.respondError(w, http.StatusForbidden, "driver is not approved")
	case errors.Is(err, domain.ErrAssignmentNotOwned):
		h.respondError(w, http.StatusForbidden, "assignment is bound to another driver")
	case errors.Is(err, domain.ErrOfflineWithActiveBooking):
		h.respondError(w, http.StatusConflict, "cannot go offline with an active booking")
	case errors.Is(err, domain.ErrVersionConflict):
		h.respondError(w, http.StatusConflict, "record was modified concurrently")
	case errors.Is(err, lifecycle.ErrTransitionNotAllowed),
		errors.Is(err, lifecycle.ErrTerminalStatus):
		h.respondError(w, http.StatusConflict, "status transition not allowed")
	case errors.Is(err, lifecycle.ErrRoleNotAllowed):
		h.respondError(w, http.StatusForbidden, "role not allowed for this transition")
	case errors.Is(err, lifecycle.ErrUnknownStatus):
		h.respondError(w, http.StatusBadRequest, "unknown status")
	default:
		h.log.Error(logger.Entry{
			Action:  "driver_usecase_error",
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
			Action:  "encode_driver_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
