package loyalty

import (
	"math"

	"descanso/internal/models"
)

// PointsPerDay returns the points a client earns per booked day in a
// room of the given tier. Each tier exactly doubles the previous one.
func PointsPerDay(category models.RoomCategory) int {
	switch category {
	case models.CategoryLuxury:
		return 2
	case models.CategoryPresidential:
		return 4
	default:
		return 1
	}
}

// Calculator resolves point earnings and point-redemption discounts.
// PointsPerDiscount is the configured ratio: that many points buy 1%
// off the checkout subtotal.
type Calculator struct {
	PointsPerDiscount float64
}

func NewCalculator(pointsPerDiscount float64) Calculator {
	if pointsPerDiscount <= 0 {
		pointsPerDiscount = models.DefaultPointsPerDiscount
	}
	return Calculator{PointsPerDiscount: pointsPerDiscount}
}

// Earned computes the points credited for a completed stay.
func (c Calculator) Earned(category models.RoomCategory, days int) int {
	if days < 0 {
		return 0
	}
	return PointsPerDay(category) * days
}

// Discount converts redeemed points into a currency discount against
// the subtotal. The result is clamped to the subtotal so the final
// total never goes negative.
func (c Calculator) Discount(subtotal float64, pointsToRedeem int) float64 {
	if pointsToRedeem <= 0 || subtotal <= 0 {
		return 0
	}
	pct := float64(pointsToRedeem) / c.PointsPerDiscount
	discount := subtotal * pct / 100
	return math.Min(discount, subtotal)
}

// FinalTotal applies the redemption discount to the subtotal.
func (c Calculator) FinalTotal(subtotal float64, pointsToRedeem int) (total, discount float64) {
	discount = c.Discount(subtotal, pointsToRedeem)
	total = math.Max(0, subtotal-discount)
	return total, discount
}
