package svorder

import "freshmart/internal/app/domains/entity/etorder"

// DefaultImmediateSurcharge delivery charge of the immediate slot
const DefaultImmediateSurcharge = 30.0

// DeliveryPolicy prices delivery. Scheduled slots are free, immediate delivery costs
// ImmediateSurcharge. A client charge is honoured only with AllowClientCharge.
type DeliveryPolicy struct {
	ImmediateSurcharge float64
	AllowClientCharge  bool
}

func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{ImmediateSurcharge: DefaultImmediateSurcharge}
}

// Charge returns the delivery charge of slot. requested may be nil.
func (p DeliveryPolicy) Charge(slot etorder.Slot, requested *float64) float64 {
	if p.AllowClientCharge && requested != nil {
		return *requested
	}
	if slot == etorder.SlotImmediate {
		return p.ImmediateSurcharge
	}
	return 0
}

// EstimatedDelivery customer-facing delivery window of slot
func EstimatedDelivery(slot etorder.Slot) string {
	switch slot {
	case etorder.SlotMorning:
		return "Tomorrow 8 AM - 12 PM"
	case etorder.SlotAfternoon:
		return "Tomorrow 12 PM - 4 PM"
	case etorder.SlotEvening:
		return "Tomorrow 4 PM - 8 PM"
	case etorder.SlotImmediate:
		return "Within 2 hours"
	default:
		return "Tomorrow"
	}
}
