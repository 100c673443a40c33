package usecase

import (
	"context"
	"errors"
	"testing"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/booking/domain"
	driverin "towntriphub/internal/driver/application/ports/in"
	driverout "towntriphub/internal/driver/application/ports/out"
	driverusecase "towntriphub/internal/driver/application/usecase"
	driverdomain "towntriphub/internal/driver/domain"
	reviewin "towntriphub/internal/review/application/ports/in"
	reviewusecase "towntriphub/internal/review/application/usecase"
	reviewdomain "towntriphub/internal/review/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"

	"github.com/shopspring/decimal"
)

// marketStore — общее in-memory состояние для сквозного сценария:
// один заказ, один водитель, отзывы. Все мутации условные, по статусу
// и версии, как у настоящих репозиториев.
type marketStore struct {
	booking *domain.Booking

	driverID           string
	driverUserID       string
	approvalStatus     driverdomain.ApprovalStatus
	availabilityStatus driverdomain.AvailabilityStatus
	activeBookingID    *string
	driverVersion      int

	reviews []*reviewdomain.Review

	bookingEvents []string
	driverEvents  []string
}

func newMarketStore() *marketStore {
	return &marketStore{
		driverID:           "d-1",
		driverUserID:       "driver-user-1",
		approvalStatus:     driverdomain.ApprovalApproved,
		availabilityStatus: driverdomain.AvailabilityAvailable,
		driverVersion:      1,
	}
}

func (s *marketStore) releaseDriver() {
	s.activeBookingID = nil
	s.availabilityStatus = driverdomain.AvailabilityAvailable
	s.driverVersion++
}

// storeBookings реализует booking out.BookingRepository поверх marketStore.
type storeBookings struct{ s *marketStore }

func (r storeBookings) Create(ctx context.Context, booking *domain.Booking) error {
	r.s.booking = booking
	return nil
}

func (r storeBookings) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if r.s.booking == nil || r.s.booking.ID != bookingID {
		return nil, domain.ErrBookingNotFound
	}
	return r.s.booking, nil
}

func (r storeBookings) AssignDriver(ctx context.Context, params out.AssignDriverParams) error {
	b := r.s.booking
	if b == nil || b.ID != params.BookingID || b.Status != lifecycle.StatusPending || b.Version != params.BookingVersion {
		return domain.ErrBookingNotPending
	}
	if r.s.activeBookingID != nil || r.s.driverVersion != params.DriverVersion {
		return domain.ErrDriverBusy
	}
	b.Status = lifecycle.StatusDriverAssigned
	b.DriverID = &params.DriverID
	amount := params.Amount
	b.PriceAmount = &amount
	currency := params.Currency
	b.PriceCurrency = &currency
	b.Version++

	active := b.ID
	r.s.activeBookingID = &active
	r.s.availabilityStatus = driverdomain.AvailabilityBusy
	r.s.driverVersion++
	return nil
}

func (r storeBookings) Cancel(ctx context.Context, params out.CancelBookingParams) error {
	b := r.s.booking
	if b == nil || b.Status.IsTerminal() || b.Version != params.Version {
		return domain.ErrVersionConflict
	}
	b.Status = lifecycle.StatusCancelled
	b.Version++
	if params.DriverID != nil {
		r.s.releaseDriver()
	}
	return nil
}

// storeBookingDrivers реализует booking out.DriverRepository.
type storeBookingDrivers struct{ s *marketStore }

func (r storeBookingDrivers) FindByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID != r.s.driverID {
		return nil, domain.ErrDriverNotFound
	}
	return &domain.Driver{
		ID:                 r.s.driverID,
		UserID:             r.s.driverUserID,
		ApprovalStatus:     string(r.s.approvalStatus),
		AvailabilityStatus: string(r.s.availabilityStatus),
		ActiveBookingID:    r.s.activeBookingID,
		AcceptsRides:       true,
		Version:            r.s.driverVersion,
	}, nil
}

// storeDrivers реализует driver out.DriverRepository.
type storeDrivers struct{ s *marketStore }

func (r storeDrivers) FindByUserID(ctx context.Context, userID string) (*driverdomain.Driver, error) {
	if userID != r.s.driverUserID {
		return nil, driverdomain.ErrDriverNotFound
	}
	return &driverdomain.Driver{
		ID:                 r.s.driverID,
		UserID:             r.s.driverUserID,
		ApprovalStatus:     r.s.approvalStatus,
		AvailabilityStatus: r.s.availabilityStatus,
		ActiveBookingID:    r.s.activeBookingID,
		AcceptsRides:       true,
		Version:            r.s.driverVersion,
	}, nil
}

func (r storeDrivers) SetAvailability(ctx context.Context, driverID string, status driverdomain.AvailabilityStatus, version int) error {
	if driverID != r.s.driverID || version != r.s.driverVersion {
		return driverdomain.ErrVersionConflict
	}
	r.s.availabilityStatus = status
	r.s.driverVersion++
	return nil
}

// storeAssignments реализует driver out.AssignmentRepository.
type storeAssignments struct{ s *marketStore }

func (r storeAssignments) assignment() (*driverdomain.Assignment, error) {
	b := r.s.booking
	if b == nil || b.DriverID == nil {
		return nil, driverdomain.ErrBookingNotFound
	}
	return &driverdomain.Assignment{
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Kind:          string(b.Kind),
		Status:        b.Status,
		OwnerID:       b.OwnerID,
		DriverID:      *b.DriverID,
		Version:       b.Version,
	}, nil
}

func (r storeAssignments) FindByID(ctx context.Context, bookingID string) (*driverdomain.Assignment, error) {
	assignment, err := r.assignment()
	if err != nil || assignment.BookingID != bookingID {
		return nil, driverdomain.ErrBookingNotFound
	}
	return assignment, nil
}

func (r storeAssignments) FindActiveByDriver(ctx context.Context, driverID string) (*driverdomain.Assignment, error) {
	assignment, err := r.assignment()
	if err != nil || assignment.DriverID != driverID || assignment.Status.IsTerminal() {
		return nil, driverdomain.ErrNoActiveAssignment
	}
	return assignment, nil
}

func (r storeAssignments) Advance(ctx context.Context, params driverout.AdvanceParams) error {
	b := r.s.booking
	if b == nil || b.Status != params.Current || b.Version != params.Version {
		return driverdomain.ErrVersionConflict
	}
	b.Status = params.Next
	b.Version++
	return nil
}

func (r storeAssignments) CompleteAndRelease(ctx context.Context, params driverout.ReleaseParams) error {
	b := r.s.booking
	if b == nil || b.Status.IsTerminal() || b.Version != params.Version {
		return driverdomain.ErrVersionConflict
	}
	b.Status = lifecycle.StatusCompleted
	b.Version++
	r.s.releaseDriver()
	return nil
}

func (r storeAssignments) CancelAndRelease(ctx context.Context, params driverout.ReleaseParams) error {
	b := r.s.booking
	if b == nil || b.Status.IsTerminal() || b.Version != params.Version {
		return driverdomain.ErrVersionConflict
	}
	b.Status = lifecycle.StatusCancelled
	b.Version++
	r.s.releaseDriver()
	return nil
}

// storeReviews реализует review ReviewRepository поверх marketStore.
type storeReviews struct{ s *marketStore }

func (r storeReviews) Create(ctx context.Context, review *reviewdomain.Review) error {
	for _, existing := range r.s.reviews {
		if existing.BookingID == review.BookingID && existing.ReviewerID == review.ReviewerID {
			return reviewdomain.ErrDuplicateReview
		}
	}
	r.s.reviews = append(r.s.reviews, review)
	return nil
}

func (r storeReviews) ExistsFor(ctx context.Context, bookingID, reviewerID string) (bool, error) {
	for _, existing := range r.s.reviews {
		if existing.BookingID == bookingID && existing.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r storeReviews) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*reviewdomain.Review, error) {
	return nil, nil
}

func (r storeReviews) ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*reviewdomain.Review, error) {
	return nil, nil
}

// storeBookingReader реализует review BookingReader.
type storeBookingReader struct{ s *marketStore }

func (r storeBookingReader) FindByID(ctx context.Context, bookingID string) (*reviewdomain.BookingView, error) {
	b := r.s.booking
	if b == nil || b.ID != bookingID {
		return nil, reviewdomain.ErrBookingNotFound
	}
	view := &reviewdomain.BookingView{
		ID:      b.ID,
		OwnerID: b.OwnerID,
		Status:  b.Status,
	}
	if b.DriverID != nil {
		driverUserID := r.s.driverUserID
		view.DriverUserID = &driverUserID
	}
	return view, nil
}

// storeBookingPublisher реализует booking out.EventPublisher.
type storeBookingPublisher struct{ s *marketStore }

func (p storeBookingPublisher) PublishBookingEvent(ctx context.Context, routingKey string, data out.BookingEventData) error {
	p.s.bookingEvents = append(p.s.bookingEvents, routingKey)
	return nil
}

// storeDriverPublisher реализует driver out.EventPublisher.
type storeDriverPublisher struct{ s *marketStore }

func (p storeDriverPublisher) PublishBookingEvent(ctx context.Context, routingKey string, data driverout.BookingEventData) error {
	p.s.bookingEvents = append(p.s.bookingEvents, routingKey)
	return nil
}

func (p storeDriverPublisher) PublishDriverEvent(ctx context.Context, routingKey string, data driverout.DriverEventData) error {
	p.s.driverEvents = append(p.s.driverEvents, routingKey)
	return nil
}

// TestBookingLifecycleEndToEnd прогоняет один заказ через весь жизненный
// цикл: создание райдером, назначение оператором, четыре шага водителя,
// отзыв. Повторы на каждом ключевом шаге получают конфликт.
func TestBookingLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLogger("test")
	store := newMarketStore()

	bookings := storeBookings{s: store}
	createSvc := NewCreateBookingService(bookings, storeBookingPublisher{s: store}, log)
	assignSvc := NewAssignDriverService(bookings, storeBookingDrivers{s: store}, storeBookingPublisher{s: store}, log)
	advanceSvc := driverusecase.NewAdvanceAssignmentService(storeDrivers{s: store}, storeAssignments{s: store}, storeDriverPublisher{s: store}, log)
	reviewSvc := reviewusecase.NewSubmitReviewService(storeReviews{s: store}, storeBookingReader{s: store}, log)

	// Создание
	created, err := createSvc.Execute(ctx, in.CreateBookingInput{
		OwnerID:            "rider-1",
		Kind:               "ride",
		PickupAddress:      "Banjul Ferry Terminal",
		PickupLat:          13.4549,
		PickupLng:          -16.5790,
		DestinationAddress: "Kololi Senegambia Strip",
		DestinationLat:     13.4432,
		DestinationLng:     -16.7205,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	bookingID := created.BookingID

	// Назначение за 75 GMD привязывает водителя атомарно
	assignInput := in.AssignDriverInput{
		BookingID: bookingID,
		DriverID:  "d-1",
		Price:     domain.Price{Amount: decimal.NewFromInt(75), Currency: "GMD"},
	}
	assigned, err := assignSvc.Execute(ctx, assignInput)
	if err != nil {
		t.Fatalf("assign error = %v", err)
	}
	if assigned.Status != string(lifecycle.StatusDriverAssigned) {
		t.Fatalf("status after assign = %s", assigned.Status)
	}
	if store.activeBookingID == nil || *store.activeBookingID != bookingID {
		t.Fatal("bind must set the driver's active booking")
	}
	if store.availabilityStatus != driverdomain.AvailabilityBusy {
		t.Errorf("driver availability after bind = %s, want BUSY", store.availabilityStatus)
	}
	if store.booking.PriceAmount == nil || !store.booking.PriceAmount.Equal(decimal.NewFromInt(75)) {
		t.Error("bind must set the price together with the driver")
	}

	// Повторное назначение — конфликт
	if _, err := assignSvc.Execute(ctx, assignInput); !errors.Is(err, domain.ErrBookingNotPending) {
		t.Errorf("re-assign error = %v, want %v", err, domain.ErrBookingNotPending)
	}

	// Водитель ведет заказ по одному шагу вперед
	for _, status := range []lifecycle.Status{
		lifecycle.StatusDriverEnRoute,
		lifecycle.StatusPickedUp,
		lifecycle.StatusInTransit,
	} {
		if _, err := advanceSvc.Execute(ctx, driverin.AdvanceAssignmentInput{
			UserID:          "driver-user-1",
			BookingID:       bookingID,
			RequestedStatus: string(status),
		}); err != nil {
			t.Fatalf("advance to %s error = %v", status, err)
		}
		if store.activeBookingID == nil {
			t.Fatalf("driver must stay bound at %s", status)
		}
	}

	// Завершение освобождает водителя
	if _, err := advanceSvc.Execute(ctx, driverin.AdvanceAssignmentInput{
		UserID:          "driver-user-1",
		BookingID:       bookingID,
		RequestedStatus: string(lifecycle.StatusCompleted),
	}); err != nil {
		t.Fatalf("complete error = %v", err)
	}
	if store.booking.Status != lifecycle.StatusCompleted {
		t.Fatalf("status after complete = %s", store.booking.Status)
	}
	if store.activeBookingID != nil {
		t.Fatal("completion must clear the driver's active booking")
	}
	if store.availabilityStatus != driverdomain.AvailabilityAvailable {
		t.Errorf("driver availability after complete = %s, want AVAILABLE", store.availabilityStatus)
	}

	// Повторное завершение — терминальный статус
	if _, err := advanceSvc.Execute(ctx, driverin.AdvanceAssignmentInput{
		UserID:          "driver-user-1",
		BookingID:       bookingID,
		RequestedStatus: string(lifecycle.StatusCompleted),
	}); !errors.Is(err, lifecycle.ErrTerminalStatus) {
		t.Errorf("re-complete error = %v, want %v", err, lifecycle.ErrTerminalStatus)
	}

	// Отзыв проходит один раз
	reviewInput := reviewin.SubmitReviewInput{
		ReviewerID: "rider-1",
		BookingID:  bookingID,
		Rating:     5,
		Comment:    "smooth trip",
	}
	submitted, err := reviewSvc.Execute(ctx, reviewInput)
	if err != nil {
		t.Fatalf("review error = %v", err)
	}
	if submitted.RevieweeID != "driver-user-1" {
		t.Errorf("reviewee = %s, want driver-user-1", submitted.RevieweeID)
	}
	if _, err := reviewSvc.Execute(ctx, reviewInput); !errors.Is(err, reviewdomain.ErrDuplicateReview) {
		t.Errorf("second review error = %v, want %v", err, reviewdomain.ErrDuplicateReview)
	}

	wantEvents := []string{
		"booking.created",
		"booking.assigned",
		"booking.status_changed",
		"booking.status_changed",
		"booking.status_changed",
		"booking.completed",
	}
	if len(store.bookingEvents) != len(wantEvents) {
		t.Fatalf("booking events = %v, want %v", store.bookingEvents, wantEvents)
	}
	for i, key := range wantEvents {
		if store.bookingEvents[i] != key {
			t.Errorf("event[%d] = %s, want %s", i, store.bookingEvents[i], key)
		}
	}
}
