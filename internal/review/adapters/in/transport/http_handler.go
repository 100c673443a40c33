package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"towntriphub/internal/review/application/ports/in"
	"towntriphub/internal/review/domain"
	"towntriphub/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// ActorResolver извлекает ID аутентифицированного пользователя из контекста.
type ActorResolver func(ctx context.Context) (userID, role string)

// HTTPHandler обрабатывает HTTP запросы отзывов (монтируется в booking service)
type HTTPHandler struct {
	submitReviewUC in.SubmitReviewUseCase
	listReviewsUC  in.ListReviewsUseCase
	actor          ActorResolver
	log            *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	submitReviewUC in.SubmitReviewUseCase,
	listReviewsUC in.ListReviewsUseCase,
	actor ActorResolver,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		submitReviewUC: submitReviewUC,
		listReviewsUC:  listReviewsUC,
		actor:          actor,
		log:            log,
	}
}

// RegisterRoutes регистрирует HTTP маршруты отзывов
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMW func(roles ...string) func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /reviews", authMW("RIDER")(h.handleSubmitReview))
	mux.HandleFunc("GET /reviews/user/{user_id}", authMW()(h.handleListForUser))
	mux.HandleFunc("GET /reviews/given", authMW()(h.handleListGiven))
}

// SubmitReviewHTTPRequest — HTTP DTO для подачи отзыва
type SubmitReviewHTTPRequest struct {
	BookingID string         `json:"booking_id"`
	Rating    int            `json:"rating"`
	Comment   string         `json:"comment,omitempty"`
	Feedback  map[string]int `json:"feedback,omitempty"`
}

// handleSubmitReview обрабатывает POST /reviews
func (h *HTTPHandler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := h.actor(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req SubmitReviewHTTPRequest
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

	if req.BookingID == "" {
		h.respondError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	input := in.SubmitReviewInput{
		ReviewerID: userID,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Feedback:   req.Feedback,
	}

	output, err := h.submitReviewUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// handleListForUser обрабатывает GET /reviews/user/{user_id}
func (h *HTTPHandler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := paging(r)
	input := in.ListReviewsForUserInput{
		UserID: r.PathValue("user_id"),
		Limit:  limit,
		Offset: offset,
	}

	reviews, err := h.listReviewsUC.ForUser(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// handleListGiven обрабатывает GET /reviews/given
func (h *HTTPHandler) handleListGiven(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := h.actor(ctx)

	limit, offset := paging(r)
	input := in.ListReviewsGivenInput{
		ReviewerID: userID,
		Limit:      limit,
		Offset:     offset,
	}

	reviews, err := h.listReviewsUC.Given(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func paging(r *http.Request) (limit, offset int) {
	limit = 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// handleUseCaseError мапит доменные ошибки на HTTP коды
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		h.respondError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrInvalidRating):
		h.respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
	case errors.Is(err, domain.ErrBookingNotCompleted):
		h.respondError(w, http.StatusConflict, "booking is not completed")
	case errors.Is(err, domain.ErrNotBookingOwner):
		h.respondError(w, http.StatusForbidden, "not the booking owner")
	case errors.Is(err, domain.ErrDuplicateReview):
		h.respondError(w, http.StatusConflict, "review already exists for this booking")
	case errors.Is(err, domain.ErrNoReviewee):
		h.respondError(w, http.StatusConflict, "booking has no driver to review")
	default:
		h.log.Error(logger.Entry{
			Action:  "review_usecase_error",
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
			Action:  "encode_review_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
