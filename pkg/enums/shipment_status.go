package enums

import "fmt"

// ShipmentStatus is the state of a single tracking checkpoint.
type ShipmentStatus string

const (
	ShipmentStatusPickedUp       ShipmentStatus = "picked_up"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPickedUp,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
