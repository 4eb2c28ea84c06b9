package domain

// BusStatus represents the operating status of a bus.
type BusStatus string

const (
	BusStatusActive   BusStatus = "active"
	BusStatusInactive BusStatus = "inactive"
)

// BusType represents the vehicle class of a bus.
type BusType string

const (
	BusTypeStandard     BusType = "standard"
	BusTypeMini         BusType = "mini"
	BusTypeDoubleDecker BusType = "double-decker"
)

// Bus represents a registered vehicle in the fleet.
type Bus struct {
	ID                 string
	RegistrationNumber string
	BusNumber          string
	Type               BusType
	Capacity           int
	Status             BusStatus
}
