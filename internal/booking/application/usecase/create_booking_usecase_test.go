package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

func createInput(kind string) in.CreateBookingInput {
	return in.CreateBookingInput{
		OwnerID:            "rider-1",
		Kind:               kind,
		PickupAddress:      "Albert Market, Banjul",
		PickupLat:          13.4549,
		PickupLng:          -16.5790,
		DestinationAddress: "Senegambia Strip, Kololi",
		DestinationLat:     13.4208,
		DestinationLng:     -16.7152,
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	tests := []struct {
		kind       string
		wantKind   domain.Kind
		wantPrefix string
	}{
		{"ride", domain.KindRide, "TRIP-"},
		{"delivery", domain.KindDelivery, "PKG-"},
		{"RIDE", domain.KindRide, "TRIP-"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			repo := newFakeBookingRepo()
			publisher := &fakePublisher{}
			svc := NewCreateBookingService(repo, publisher, logger.NewLogger("test"))

			output, err := svc.Execute(context.Background(), createInput(tt.kind))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if output.Status != string(lifecycle.StatusPending) {
				t.Errorf("status = %s, want PENDING", output.Status)
			}
			if output.Kind != string(tt.wantKind) {
				t.Errorf("kind = %s, want %s", output.Kind, tt.wantKind)
			}
			if !strings.HasPrefix(output.BookingNumber, tt.wantPrefix) {
				t.Errorf("booking number %s, want prefix %s", output.BookingNumber, tt.wantPrefix)
			}

			if len(repo.createdIDs) != 1 {
				t.Fatalf("created = %d bookings, want 1", len(repo.createdIDs))
			}
			stored := repo.bookings[repo.createdIDs[0]]
			if stored.Version != 1 {
				t.Errorf("initial version = %d, want 1", stored.Version)
			}
			if stored.DriverID != nil || stored.PriceAmount != nil {
				t.Error("new booking must have no driver and no price")
			}

			if len(publisher.events) != 1 || publisher.events[0] != "booking.created" {
				t.Errorf("events = %v, want [booking.created]", publisher.events)
			}
		})
	}
}

func TestCreateBookingInvalidInput(t *testing.T) {
	svc := NewCreateBookingService(newFakeBookingRepo(), &fakePublisher{}, logger.NewLogger("test"))

	input := createInput("freight")
	if _, err := svc.Execute(context.Background(), input); !errors.Is(err, domain.ErrInvalidKind) {
		t.Errorf("kind freight: error = %v, want %v", err, domain.ErrInvalidKind)
	}

	input = createInput("ride")
	input.PickupLat = 91
	if _, err := svc.Execute(context.Background(), input); !errors.Is(err, domain.ErrInvalidCoordinates) {
		t.Errorf("lat 91: error = %v, want %v", err, domain.ErrInvalidCoordinates)
	}

	input = createInput("ride")
	input.DestinationLng = -200
	if _, err := svc.Execute(context.Background(), input); !errors.Is(err, domain.ErrInvalidCoordinates) {
		t.Errorf("lng -200: error = %v, want %v", err, domain.ErrInvalidCoordinates)
	}
}
