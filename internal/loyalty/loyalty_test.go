package loyalty

import (
	"testing"

	"descanso/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPointsPerDay(t *testing.T) {
	assert.Equal(t, 1, PointsPerDay(models.CategoryStandard))
	assert.Equal(t, 2, PointsPerDay(models.CategoryLuxury))
	assert.Equal(t, 4, PointsPerDay(models.CategoryPresidential))
}

func TestEarned(t *testing.T) {
	calc := NewCalculator(10)

	assert.Equal(t, 5, calc.Earned(models.CategoryStandard, 5))
	assert.Equal(t, 10, calc.Earned(models.CategoryLuxury, 5))
	assert.Equal(t, 20, calc.Earned(models.CategoryPresidential, 5))
	assert.Equal(t, 0, calc.Earned(models.CategoryStandard, 0))
	assert.Equal(t, 0, calc.Earned(models.CategoryStandard, -1))
}

func TestDiscount(t *testing.T) {
	calc := NewCalculator(10)

	t.Run("TenPointsBuyOnePercent", func(t *testing.T) {
		// 50 points = 5% of 1000 = 50.
		assert.InDelta(t, 50, calc.Discount(1000, 50), 1e-9)
	})

	t.Run("ZeroPoints", func(t *testing.T) {
		assert.Zero(t, calc.Discount(1000, 0))
	})

	t.Run("ClampedToSubtotal", func(t *testing.T) {
		// 2000 points = 200% discount, clamped to the subtotal.
		assert.InDelta(t, 100, calc.Discount(100, 2000), 1e-9)
	})
}

func TestFinalTotal(t *testing.T) {
	calc := NewCalculator(10)

	total, discount := calc.FinalTotal(450, 30)
	assert.InDelta(t, 13.5, discount, 1e-9)
	assert.InDelta(t, 436.5, total, 1e-9)

	t.Run("NeverNegative", func(t *testing.T) {
		total, discount := calc.FinalTotal(100, 5000)
		assert.InDelta(t, 100, discount, 1e-9)
		assert.Zero(t, total)
	})
}

func TestNewCalculatorDefaultsRatio(t *testing.T) {
	calc := NewCalculator(0)
	assert.InDelta(t, float64(models.DefaultPointsPerDiscount), calc.PointsPerDiscount, 1e-9)
}
