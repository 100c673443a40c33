package usecase

import (
	"context"
	"errors"
	"testing"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

func TestCancelBookingReasonRequired(t *testing.T) {
	svc := NewCancelBookingService(newFakeBookingRepo(pendingBooking()), &fakePublisher{}, logger.NewLogger("test"))

	for _, reason := range []string{"", "   ", "\t"} {
		_, err := svc.Execute(context.Background(), in.CancelBookingInput{
			BookingID: "b-1",
			ActorID:   "rider-1",
			ActorRole: lifecycle.RoleRider,
			Reason:    reason,
		})
		if !errors.Is(err, domain.ErrReasonRequired) {
			t.Errorf("reason %q: error = %v, want %v", reason, err, domain.ErrReasonRequired)
		}
	}
}

func TestCancelBookingRiderAsymmetry(t *testing.T) {
	tests := []struct {
		name    string
		booking func(*domain.Booking)
		actorID string
		wantErr error
	}{
		{
			name:    "rider cancels own pending booking",
			actorID: "rider-1",
			wantErr: nil,
		},
		{
			name:    "rider is not the owner",
			actorID: "rider-2",
			wantErr: domain.ErrNotBookingOwner,
		},
		{
			name: "rider cannot cancel after assignment",
			booking: func(b *domain.Booking) {
				b.Status = lifecycle.StatusDriverAssigned
				driverID := "d-1"
				b.DriverID = &driverID
			},
			actorID: "rider-1",
			wantErr: domain.ErrRiderCancelNotPending,
		},
		{
			name: "rider cannot cancel in transit",
			booking: func(b *domain.Booking) {
				b.Status = lifecycle.StatusInTransit
				driverID := "d-1"
				b.DriverID = &driverID
			},
			actorID: "rider-1",
			wantErr: domain.ErrRiderCancelNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := pendingBooking()
			if tt.booking != nil {
				tt.booking(booking)
			}
			repo := newFakeBookingRepo(booking)
			svc := NewCancelBookingService(repo, &fakePublisher{}, logger.NewLogger("test"))

			_, err := svc.Execute(context.Background(), in.CancelBookingInput{
				BookingID: "b-1",
				ActorID:   tt.actorID,
				ActorRole: lifecycle.RoleRider,
				Reason:    "changed my mind",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && len(repo.cancelled) != 0 {
				t.Errorf("denied cancel must not write, got %d writes", len(repo.cancelled))
			}
		})
	}
}

func TestCancelBookingOperatorAnyNonTerminal(t *testing.T) {
	for _, status := range []lifecycle.Status{
		lifecycle.StatusPending,
		lifecycle.StatusDriverAssigned,
		lifecycle.StatusDriverEnRoute,
		lifecycle.StatusPickedUp,
		lifecycle.StatusInTransit,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = status
			if status != lifecycle.StatusPending {
				driverID := "d-1"
				booking.DriverID = &driverID
			}
			repo := newFakeBookingRepo(booking)
			svc := NewCancelBookingService(repo, &fakePublisher{}, logger.NewLogger("test"))

			output, err := svc.Execute(context.Background(), in.CancelBookingInput{
				BookingID: "b-1",
				ActorID:   "op-1",
				ActorRole: lifecycle.RoleOperator,
				Reason:    "fraud suspected",
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if output.Status != string(lifecycle.StatusCancelled) {
				t.Errorf("status = %s, want CANCELLED", output.Status)
			}

			// Освобождение водителя уходит в ту же запись
			if status != lifecycle.StatusPending {
				if repo.cancelled[0].DriverID == nil || *repo.cancelled[0].DriverID != "d-1" {
					t.Error("cancel write must carry the bound driver for release")
				}
			}
		})
	}
}

func TestCancelBookingTerminal(t *testing.T) {
	for _, status := range []lifecycle.Status{lifecycle.StatusCompleted, lifecycle.StatusCancelled} {
		booking := pendingBooking()
		booking.Status = status
		svc := NewCancelBookingService(newFakeBookingRepo(booking), &fakePublisher{}, logger.NewLogger("test"))

		_, err := svc.Execute(context.Background(), in.CancelBookingInput{
			BookingID: "b-1",
			ActorID:   "op-1",
			ActorRole: lifecycle.RoleOperator,
			Reason:    "too late",
		})
		if !errors.Is(err, domain.ErrBookingTerminal) {
			t.Errorf("status %s: error = %v, want %v", status, err, domain.ErrBookingTerminal)
		}
	}
}

func TestCancelBookingLostRace(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking())
	repo.cancelErr = domain.ErrVersionConflict
	svc := NewCancelBookingService(repo, &fakePublisher{}, logger.NewLogger("test"))

	_, err := svc.Execute(context.Background(), in.CancelBookingInput{
		BookingID: "b-1",
		ActorID:   "op-1",
		ActorRole: lifecycle.RoleOperator,
		Reason:    "duplicate request",
	})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("Execute() error = %v, want %v", err, domain.ErrVersionConflict)
	}
}
