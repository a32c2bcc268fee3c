package etorder

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"freshmart/internal/app/pkg/errorx"
)

// PaymentMethodCOD default payment label (cash on delivery)
const PaymentMethodCOD = "cod"

var (
	ErrInvalidOrderID = errors.New("order ID cannot be empty")
	ErrNegativeCharge = errorx.Validation("deliveryCharge", "delivery charge must not be negative")

	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Order aggregate root. Items, status, history and amounts are only changed through
// AddItem, Transition and SetDeliveryCharge so TotalAmount always equals the recomputed value.
type Order struct {
	ID              int64  // storage id, assigned on insert
	OrderID         string // external identifier, immutable
	CustomerName    string
	DeliveryAddress string
	Phone           string
	DeliverySlot    Slot
	PaymentMethod   string
	Revision        int64 // optimistic concurrency counter, maintained by the repository
	CreatedAt       time.Time
	UpdatedAt       time.Time

	items          []Line
	status         Status
	history        []StatusEntry
	deliveryCharge float64
	totalAmount    float64
}

// NewOrderParams inputs of NewOrder
type NewOrderParams struct {
	CustomerName    string
	Items           []Line
	DeliveryAddress string
	Phone           string
	DeliverySlot    Slot
	PaymentMethod   string
	DeliveryCharge  float64
}

// NewOrder builds a pending order. Submitted lines are folded through AddItem so a
// product appearing twice ends up as a single line.
func NewOrder(orderID string, p NewOrderParams, now time.Time) (*Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if len(p.Items) == 0 {
		return nil, errorx.Validation("items", "please add items to order")
	}
	address := strings.TrimSpace(p.DeliveryAddress)
	if address == "" {
		return nil, errorx.Validation("deliveryAddress", "please provide delivery address")
	}
	if !phonePattern.MatchString(p.Phone) {
		return nil, errorx.Validation("phone", "please provide valid 10-digit phone number")
	}
	if !p.DeliverySlot.Valid() {
		return nil, errorx.Validation("deliverySlot", "please provide a valid delivery slot")
	}
	if p.DeliveryCharge < 0 {
		return nil, ErrNegativeCharge
	}

	payment := strings.TrimSpace(p.PaymentMethod)
	if payment == "" {
		payment = PaymentMethodCOD
	}

	o := &Order{
		OrderID:         orderID,
		CustomerName:    strings.TrimSpace(p.CustomerName),
		DeliveryAddress: address,
		Phone:           p.Phone,
		DeliverySlot:    p.DeliverySlot,
		PaymentMethod:   payment,
		items:           make([]Line, 0, len(p.Items)),
		status:          StatusPending,
		history:         []StatusEntry{{Status: StatusPending, At: now}},
		deliveryCharge:  RoundCharge(p.DeliveryCharge),
	}
	for _, line := range p.Items {
		if err := o.AddItem(line); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// RestoreParams persisted state handed back by a repository
type RestoreParams struct {
	ID              int64
	OrderID         string
	CustomerName    string
	Items           []Line
	DeliveryAddress string
	Phone           string
	DeliverySlot    Slot
	Status          Status
	StatusHistory   []StatusEntry
	PaymentMethod   string
	DeliveryCharge  float64
	Revision        int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Restore rebuilds an order from storage. The total is recomputed rather than trusted,
// and a missing history is seeded from the stored status.
func Restore(p RestoreParams) *Order {
	o := &Order{
		ID:              p.ID,
		OrderID:         p.OrderID,
		CustomerName:    p.CustomerName,
		DeliveryAddress: p.DeliveryAddress,
		Phone:           p.Phone,
		DeliverySlot:    p.DeliverySlot,
		PaymentMethod:   p.PaymentMethod,
		Revision:        p.Revision,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		items:           make([]Line, 0, len(p.Items)),
		status:          p.Status,
		history:         append([]StatusEntry(nil), p.StatusHistory...),
		deliveryCharge:  RoundCharge(p.DeliveryCharge),
	}
	for _, l := range p.Items {
		o.items = append(o.items, cloneLine(l))
	}
	if o.status == "" {
		o.status = StatusPending
	}
	if len(o.history) == 0 {
		o.history = []StatusEntry{{Status: o.status, At: p.CreatedAt}}
	}
	o.recompute()
	return o
}

// AddItem merges line into the order: a matching line only accumulates quantity and
// keeps its original price snapshot, otherwise the line is appended.
func (o *Order) AddItem(line Line) error {
	line.Name = strings.TrimSpace(line.Name)
	line.Unit = strings.TrimSpace(line.Unit)
	if err := line.Validate(); err != nil {
		return err
	}

	merged := false
	for i := range o.items {
		if o.items[i].matches(line) {
			if o.items[i].Quantity > math.MaxInt-line.Quantity {
				return errorx.Validation("items.quantity", "item quantity is too large")
			}
			o.items[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		o.items = append(o.items, cloneLine(line))
	}
	o.recompute()
	return nil
}

// Transition moves the order to status and appends one history entry.
// Policy checks belong to the caller; the total is left untouched.
func (o *Order) Transition(status Status, note string, at time.Time) error {
	if !status.Valid() {
		return errorx.Validation("status", "unknown status "+string(status))
	}
	o.status = status
	o.history = append(o.history, StatusEntry{
		Status: status,
		At:     at,
		Note:   strings.TrimSpace(note),
	})
	return nil
}

// SetDeliveryCharge replaces the delivery charge, rounded to 2 places, and recomputes the total.
func (o *Order) SetDeliveryCharge(charge float64) error {
	if charge < 0 {
		return ErrNegativeCharge
	}
	o.deliveryCharge = RoundCharge(charge)
	o.recompute()
	return nil
}

func (o *Order) recompute() {
	o.totalAmount = ComputeTotal(o.items, o.deliveryCharge)
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Line {
	out := make([]Line, 0, len(o.items))
	for _, l := range o.items {
		out = append(out, cloneLine(l))
	}
	return out
}

// StatusHistory returns a copy of the status history, oldest first.
func (o *Order) StatusHistory() []StatusEntry {
	return append([]StatusEntry(nil), o.history...)
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) DeliveryCharge() float64 {
	return o.deliveryCharge
}

func (o *Order) TotalAmount() float64 {
	return o.totalAmount
}
