package models

import (
	"math"
	"time"
)

type StayStatus string

const (
	StayActive    StayStatus = "active"
	StayCompleted StayStatus = "completed"
)

type ChargeCategory string

const (
	ChargeRestaurant ChargeCategory = "restaurant"
	ChargeService    ChargeCategory = "service"
	ChargeOther      ChargeCategory = "other"
)

// Charge is an incidental cost attached to a stay. Charges are
// append-only: once added they are never edited or removed.
type Charge struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Category    ChargeCategory `json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Stay is one booking of one room for one client over a date range.
// QuotedCost is frozen at booking time; FinalCost is derived again at
// checkout from the current room rate plus accumulated charges, so the
// two can differ if the rate table changed in between.
type Stay struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"client_id"`
	RoomNumber string     `json:"room_number"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   time.Time  `json:"check_out"`
	TotalDays  int        `json:"total_days"`
	GuestCount int        `json:"guest_count"`
	QuotedCost float64    `json:"quoted_cost"`
	FinalCost  float64    `json:"final_cost"`
	Status     StayStatus `json:"status"`
	Charges    []Charge   `json:"charges"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ChargesTotal sums the stay's incidental charges.
func (s *Stay) ChargesTotal() float64 {
	var total float64
	for _, c := range s.Charges {
		total += c.Amount
	}
	return total
}

// StayDays computes the billable day count for a date range:
// ceil(abs(checkOut-checkIn) in milliseconds / 86400000), floored at
// MinChargeableDays. Same-day ranges yield 0.
func StayDays(checkIn, checkOut time.Time) int {
	ms := math.Abs(float64(checkOut.Sub(checkIn).Milliseconds()))
	days := int(math.Ceil(ms / 86400000.0))
	if days < MinChargeableDays {
		days = MinChargeableDays
	}
	return days
}

// CheckoutReceipt is the breakdown returned by a successful checkout
// for the UI layer to render.
type CheckoutReceipt struct {
	StayID         string  `json:"stay_id"`
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	FinalCost      float64 `json:"final_cost"`
	PointsEarned   int     `json:"points_earned"`
	PointsRedeemed int     `json:"points_redeemed"`
}
