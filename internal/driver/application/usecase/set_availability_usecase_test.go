package usecase

import (
	"context"
	"errors"
	"testing"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/logger"
)

func freeDriver() *domain.Driver {
	return &domain.Driver{
		ID:                 "d-1",
		UserID:             "driver-user-1",
		ApprovalStatus:     domain.ApprovalApproved,
		AvailabilityStatus: domain.AvailabilityOffline,
		AcceptsRides:       true,
		Version:            1,
	}
}

func TestSetAvailabilitySuccess(t *testing.T) {
	driverRepo := newFakeDriverRepo(freeDriver())
	publisher := &fakeEventPublisher{}
	svc := NewSetAvailabilityService(driverRepo, publisher, logger.NewLogger("test"))

	output, err := svc.Execute(context.Background(), in.SetAvailabilityInput{
		UserID:             "driver-user-1",
		AvailabilityStatus: "AVAILABLE",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output.AvailabilityStatus != string(domain.AvailabilityAvailable) {
		t.Errorf("availability = %s, want AVAILABLE", output.AvailabilityStatus)
	}
	if len(driverRepo.setCalls) != 1 || driverRepo.setCalls[0] != domain.AvailabilityAvailable {
		t.Errorf("setCalls = %v, want [AVAILABLE]", driverRepo.setCalls)
	}
	if len(publisher.driverEvents) != 1 || publisher.driverEvents[0] != "driver.availability_changed" {
		t.Errorf("events = %v, want [driver.availability_changed]", publisher.driverEvents)
	}
}

func TestSetAvailabilityDenied(t *testing.T) {
	withActive := freeDriver()
	active := "b-1"
	withActive.AvailabilityStatus = domain.AvailabilityBusy
	withActive.ActiveBookingID = &active

	pending := freeDriver()
	pending.ApprovalStatus = domain.ApprovalPending

	tests := []struct {
		name      string
		driver    *domain.Driver
		requested string
		wantErr   error
	}{
		{
			name:      "offline while bound to a booking",
			driver:    withActive,
			requested: "OFFLINE",
			wantErr:   domain.ErrOfflineWithActiveBooking,
		},
		{
			name:      "not approved",
			driver:    pending,
			requested: "AVAILABLE",
			wantErr:   domain.ErrDriverNotApproved,
		},
		{
			name:      "unknown value",
			driver:    freeDriver(),
			requested: "SLEEPING",
			wantErr:   domain.ErrInvalidAvailability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driverRepo := newFakeDriverRepo(tt.driver)
			svc := NewSetAvailabilityService(driverRepo, &fakeEventPublisher{}, logger.NewLogger("test"))

			_, err := svc.Execute(context.Background(), in.SetAvailabilityInput{
				UserID:             tt.driver.UserID,
				AvailabilityStatus: tt.requested,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if len(driverRepo.setCalls) != 0 {
				t.Error("denied request must not write")
			}
		})
	}
}

func TestSetAvailabilityLostRace(t *testing.T) {
	driverRepo := newFakeDriverRepo(freeDriver())
	driverRepo.availabilityErr = domain.ErrVersionConflict
	svc := NewSetAvailabilityService(driverRepo, &fakeEventPublisher{}, logger.NewLogger("test"))

	_, err := svc.Execute(context.Background(), in.SetAvailabilityInput{
		UserID:             "driver-user-1",
		AvailabilityStatus: "AVAILABLE",
	})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("Execute() error = %v, want %v", err, domain.ErrVersionConflict)
	}
}
