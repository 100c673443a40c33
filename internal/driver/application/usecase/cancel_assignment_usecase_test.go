package usecase

import (
	"context"
	"errors"
	"testing"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

func TestCancelAssignmentSuccess(t *testing.T) {
	assignmentRepo := newFakeAssignmentRepo(assignmentAt(lifecycle.StatusDriverEnRoute))
	publisher := &fakeEventPublisher{}
	svc := NewCancelAssignmentService(newFakeDriverRepo(boundDriver()), assignmentRepo, publisher, logger.NewLogger("test"))

	output, err := svc.Execute(context.Background(), in.CancelAssignmentInput{
		UserID:    "driver-user-1",
		BookingID: "b-1",
		Reason:    "vehicle breakdown",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output.Status != string(lifecycle.StatusCancelled) {
		t.Errorf("status = %s, want CANCELLED", output.Status)
	}

	if len(assignmentRepo.released) != 1 {
		t.Fatal("cancellation must release the driver in the same write")
	}
	released := assignmentRepo.released[0]
	if released.DriverID != "d-1" {
		t.Errorf("released driver = %s, want d-1", released.DriverID)
	}
	if released.Reason != "vehicle breakdown" {
		t.Errorf("reason = %q, want %q", released.Reason, "vehicle breakdown")
	}
	if len(publisher.bookingEvents) != 1 || publisher.bookingEvents[0] != "booking.cancelled" {
		t.Errorf("events = %v, want [booking.cancelled]", publisher.bookingEvents)
	}
}

func TestCancelAssignmentDenied(t *testing.T) {
	tests := []struct {
		name    string
		status  lifecycle.Status
		userID  string
		reason  string
		wantErr error
	}{
		{
			name:    "empty reason",
			status:  lifecycle.StatusDriverEnRoute,
			userID:  "driver-user-1",
			reason:  "   ",
			wantErr: domain.ErrReasonRequired,
		},
		{
			name:    "already completed",
			status:  lifecycle.StatusCompleted,
			userID:  "driver-user-1",
			reason:  "vehicle breakdown",
			wantErr: lifecycle.ErrTerminalStatus,
		},
		{
			name:    "already cancelled",
			status:  lifecycle.StatusCancelled,
			userID:  "driver-user-1",
			reason:  "vehicle breakdown",
			wantErr: lifecycle.ErrTerminalStatus,
		},
		{
			name:    "driver not bound to booking",
			status:  lifecycle.StatusDriverEnRoute,
			userID:  "driver-user-2",
			reason:  "vehicle breakdown",
			wantErr: domain.ErrAssignmentNotOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := boundDriver()
			other.ID = "d-2"
			other.UserID = "driver-user-2"

			assignmentRepo := newFakeAssignmentRepo(assignmentAt(tt.status))
			svc := NewCancelAssignmentService(newFakeDriverRepo(boundDriver(), other), assignmentRepo, &fakeEventPublisher{}, logger.NewLogger("test"))

			_, err := svc.Execute(context.Background(), in.CancelAssignmentInput{
				UserID:    tt.userID,
				BookingID: "b-1",
				Reason:    tt.reason,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if len(assignmentRepo.released) != 0 {
				t.Error("denied cancellation must not write")
			}
		})
	}
}

func TestCurrentAssignment(t *testing.T) {
	t.Run("bound driver sees the assignment", func(t *testing.T) {
		svc := NewCurrentAssignmentService(newFakeDriverRepo(boundDriver()), newFakeAssignmentRepo(assignmentAt(lifecycle.StatusPickedUp)))

		assignment, err := svc.Execute(context.Background(), in.CurrentAssignmentInput{UserID: "driver-user-1"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if assignment.BookingID != "b-1" {
			t.Errorf("booking = %s, want b-1", assignment.BookingID)
		}
	})

	t.Run("free driver has nothing", func(t *testing.T) {
		free := boundDriver()
		free.ActiveBookingID = nil
		free.AvailabilityStatus = domain.AvailabilityAvailable
		svc := NewCurrentAssignmentService(newFakeDriverRepo(free), newFakeAssignmentRepo())

		_, err := svc.Execute(context.Background(), in.CurrentAssignmentInput{UserID: "driver-user-1"})
		if !errors.Is(err, domain.ErrNoActiveAssignment) {
			t.Errorf("Execute() error = %v, want %v", err, domain.ErrNoActiveAssignment)
		}
	})
}
