package lifecycle

import (
	"errors"
	"testing"
)

var allStatuses = []Status{
	StatusPending, StatusDriverAssigned, StatusDriverEnRoute,
	StatusPickedUp, StatusInTransit, StatusCompleted, StatusCancelled,
}

func TestValidateGraphClosure(t *testing.T) {
	// Полный перебор пар: allow только для ребер графа с нужной ролью.
	type edge struct {
		from, to Status
		actor    Role
	}
	allowed := map[edge]bool{
		{StatusPending, StatusDriverAssigned, RoleOperator}: true,
		{StatusDriverAssigned, StatusDriverEnRoute, RoleDriver}: true,
		{StatusDriverEnRoute, StatusPickedUp, RoleDriver}:       true,
		{StatusPickedUp, StatusInTransit, RoleDriver}:           true,
		{StatusInTransit, StatusCompleted, RoleDriver}:          true,
	}
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			allowed[edge{from, StatusCancelled, RoleDriver}] = true
			allowed[edge{from, StatusCancelled, RoleOperator}] = true
		}
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, actor := range []Role{RoleRider, RoleDriver, RoleOperator} {
				err := Validate(from, to, actor)
				want := allowed[edge{from, to, actor}]
				if want && err != nil {
					t.Errorf("Validate(%s, %s, %s) = %v, want allow", from, to, actor, err)
				}
				if !want && err == nil {
					t.Errorf("Validate(%s, %s, %s) allowed, want deny", from, to, actor)
				}
			}
		}
	}
}

func TestValidateDeniesSkippingStates(t *testing.T) {
	err := Validate(StatusDriverAssigned, StatusPickedUp, RoleDriver)
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}
}

func TestValidateDeniesBackwardMove(t *testing.T) {
	err := Validate(StatusPickedUp, StatusDriverEnRoute, RoleDriver)
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}
}

func TestValidateTerminalStates(t *testing.T) {
	if err := Validate(StatusCompleted, StatusCancelled, RoleOperator); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
	if err := Validate(StatusCancelled, StatusPending, RoleOperator); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
}

func TestValidateRoleGates(t *testing.T) {
	if err := Validate(StatusPending, StatusDriverAssigned, RoleDriver); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("driver must not assign: got %v", err)
	}
	if err := Validate(StatusDriverAssigned, StatusDriverEnRoute, RoleOperator); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("operator must not drive forward: got %v", err)
	}
	if err := Validate(StatusDriverAssigned, StatusCancelled, RoleRider); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("rider cancel goes through the cancellation handler, not the validator: got %v", err)
	}
}

func TestValidateUnknownValues(t *testing.T) {
	if err := Validate(Status("DRIVING"), StatusCompleted, RoleDriver); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	if err := Validate(StatusPending, StatusDriverAssigned, Role("DISPATCHER")); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" picked_up ")
	if err != nil || st != StatusPickedUp {
		t.Fatalf("ParseStatus = %s, %v", st, err)
	}
	if _, err := ParseStatus("ARRIVED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestNext(t *testing.T) {
	if next, ok := Next(StatusPending); !ok || next != StatusDriverAssigned {
		t.Fatalf("Next(PENDING) = %s, %t", next, ok)
	}
	if _, ok := Next(StatusCompleted); ok {
		t.Fatal("Next(COMPLETED) must not exist")
	}
}
