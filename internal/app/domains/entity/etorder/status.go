package etorder

import (
	"fmt"
	"strings"
	"time"

	"freshmart/internal/app/pkg/errorx"
)

// Status order lifecycle status
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the delivery flow.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ParseStatus normalises raw input ("Delivered", " pending ") into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return "", errorx.Validation("status", "status is required")
	}
	if !s.Valid() {
		return "", errorx.Validation("status", fmt.Sprintf("unknown status %q", raw))
	}
	return s, nil
}

// Slot delivery time window
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotImmediate Slot = "immediate"
)

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotImmediate:
		return true
	}
	return false
}

// ParseSlot normalises raw input into a Slot.
func ParseSlot(raw string) (Slot, error) {
	s := Slot(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return "", errorx.Validation("deliverySlot", "delivery slot is required")
	}
	if !s.Valid() {
		return "", errorx.Validation("deliverySlot", fmt.Sprintf("unknown delivery slot %q", raw))
	}
	return s, nil
}

// StatusEntry one record of the status history. Entries are never modified once appended.
type StatusEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// TransitionPolicy decides whether an order may move from one status to another.
type TransitionPolicy interface {
	Check(from, to Status) error
}

// PermissivePolicy allows any status to move to any other status.
type PermissivePolicy struct{}

// Check implements TransitionPolicy
func (PermissivePolicy) Check(from, to Status) error {
	return nil
}

// StrictPolicy enforces pending -> preparing -> out-for-delivery -> delivered,
// with cancelled reachable from every non-terminal status.
type StrictPolicy struct{}

var forward = map[Status]Status{
	StatusPending:        StatusPreparing,
	StatusPreparing:      StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// Check implements TransitionPolicy
func (StrictPolicy) Check(from, to Status) error {
	if from.Terminal() {
		return errorx.Validation("status", fmt.Sprintf("order is already %s", from))
	}
	if to == StatusCancelled || forward[from] == to {
		return nil
	}
	return errorx.Validation("status", fmt.Sprintf("cannot move order from %s to %s", from, to))
}
