package models

type RoomCategory string

const (
	CategoryStandard     RoomCategory = "standard"
	CategoryLuxury       RoomCategory = "luxury"
	CategoryPresidential RoomCategory = "presidential"
)

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
)

// Room is identified by its number. DailyRate is derived from the
// category rate table when the room is registered and never changes
// afterwards.
type Room struct {
	Number    string       `json:"number" yaml:"number"`
	Category  RoomCategory `json:"category" yaml:"category"`
	Capacity  int          `json:"capacity" yaml:"capacity"`
	DailyRate float64      `json:"daily_rate" yaml:"daily_rate"`
	Status    RoomStatus   `json:"status" yaml:"-"`
}

// ValidCategory reports whether c is one of the known room tiers.
func ValidCategory(c RoomCategory) bool {
	switch c {
	case CategoryStandard, CategoryLuxury, CategoryPresidential:
		return true
	}
	return false
}
