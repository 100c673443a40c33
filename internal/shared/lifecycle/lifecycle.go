// Package lifecycle определяет конечный автомат статусов заказа.
//
// Граф переходов:
//
//	PENDING ──► DRIVER_ASSIGNED ──► DRIVER_EN_ROUTE ──► PICKED_UP ──► IN_TRANSIT ──► COMPLETED
//	    │              │                   │                │             │
//	    └──────────────┴───────────────────┴────────────────┴─────────────┴──► CANCELLED
//
// COMPLETED и CANCELLED — терминальные статусы, из них переходов нет.
// Каждый прямой переход закреплен за ролью: оператор назначает водителя,
// назначенный водитель двигает заказ по одному шагу вперед.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Status — статус заказа, значения совпадают с enum в PostgreSQL.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusDriverAssigned Status = "DRIVER_ASSIGNED"
	StatusDriverEnRoute  Status = "DRIVER_EN_ROUTE"
	StatusPickedUp       Status = "PICKED_UP"
	StatusInTransit      Status = "IN_TRANSIT"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// Role — роль актора, приходит из JWT claims.
type Role string

const (
	RoleRider    Role = "RIDER"
	RoleDriver   Role = "DRIVER"
	RoleOperator Role = "OPERATOR"
)

var (
	// ErrUnknownStatus возвращается для значения вне списка статусов
	ErrUnknownStatus = errors.New("unknown booking status")

	// ErrUnknownRole возвращается для значения вне списка ролей
	ErrUnknownRole = errors.New("unknown actor role")

	// ErrTerminalStatus возвращается при попытке перехода из терминального статуса
	ErrTerminalStatus = errors.New("booking is in terminal status")

	// ErrTransitionNotAllowed возвращается для ребра вне графа переходов
	ErrTransitionNotAllowed = errors.New("status transition not allowed")

	// ErrRoleNotAllowed возвращается когда переход запрещен для роли актора
	ErrRoleNotAllowed = errors.New("actor role not allowed for transition")
)

// forward — единственный разрешенный следующий шаг для каждого статуса.
// Пропуск шагов и движение назад графом не предусмотрены.
var forward = map[Status]Status{
	StatusPending:        StatusDriverAssigned,
	StatusDriverAssigned: StatusDriverEnRoute,
	StatusDriverEnRoute:  StatusPickedUp,
	StatusPickedUp:       StatusInTransit,
	StatusInTransit:      StatusCompleted,
	// COMPLETED и CANCELLED терминальные — прямых ребер нет
}

// forwardRole — роль, которой принадлежит прямой переход в данный статус.
var forwardRole = map[Status]Role{
	StatusDriverAssigned: RoleOperator,
	StatusDriverEnRoute:  RoleDriver,
	StatusPickedUp:       RoleDriver,
	StatusInTransit:      RoleDriver,
	StatusCompleted:      RoleDriver,
}

// ParseStatus конвертирует строку в Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusDriverAssigned, StatusDriverEnRoute,
		StatusPickedUp, StatusInTransit, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ParseRole конвертирует строку в Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleRider, RoleDriver, RoleOperator:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// IsTerminal сообщает, является ли статус терминальным.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next возвращает единственный разрешенный следующий статус.
func Next(current Status) (Status, bool) {
	next, ok := forward[current]
	return next, ok
}

// Validate — чистая проверка перехода (current → requested) для роли actor.
// Ничего не мутирует: атомарную запись делает вызывающая сторона.
//
// Правила:
//   - из терминального статуса переходов нет;
//   - CANCELLED доступен из любого нетерминального статуса водителю и оператору
//     (отмена райдером ограничена отдельно, в обработчике отмены);
//   - прямой переход разрешен только на один шаг и только владеющей им роли.
func Validate(current, requested Status, actor Role) error {
	if _, err := ParseStatus(string(current)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(requested)); err != nil {
		return err
	}
	if _, err := ParseRole(string(actor)); err != nil {
		return err
	}

	if current.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalStatus, current)
	}

	if requested == StatusCancelled {
		if actor != RoleDriver && actor != RoleOperator {
			return fmt.Errorf("%w: %s cannot cancel via transition", ErrRoleNotAllowed, actor)
		}
		return nil
	}

	next, ok := forward[current]
	if !ok || next != requested {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current, requested)
	}

	if owner := forwardRole[requested]; actor != owner {
		return fmt.Errorf("%w: %s -> %s requires %s", ErrRoleNotAllowed, current, requested, owner)
	}

	return nil
}
