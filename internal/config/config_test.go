package config

import (
	"os"
	"path/filepath"
	"testing"

	"descanso/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: descanso
storage:
  path: data/test.db
rooms:
  - number: "101"
    category: standard
    capacity: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 150, cfg.Rates.Standard, 1e-9)
	assert.InDelta(t, 300, cfg.Rates.Luxury, 1e-9)
	assert.InDelta(t, 600, cfg.Rates.Presidential, 1e-9)
	assert.InDelta(t, 10, cfg.Loyalty.PointsPerDiscount, 1e-9)
	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, models.DefaultSessionTTL, cfg.Desk.SessionTTL)
	assert.Equal(t, "admin@hotel.local", cfg.Desk.AdminEmail)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_STORAGE_PATH", "data/from-env.db")
	path := writeConfig(t, `
storage:
  path: "${TEST_STORAGE_PATH}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/from-env.db", cfg.Storage.Path)
}

func TestLoadRejectsMissingStorage(t *testing.T) {
	path := writeConfig(t, `
app:
  name: descanso
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestRoomRatesResolvedFromCategory(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: data/test.db
rates:
  luxury: 275
rooms:
  - number: "101"
    category: standard
    capacity: 2
  - number: "201"
    category: luxury
    capacity: 4
  - number: "301"
    category: presidential
    capacity: 6
    daily_rate: 999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Absent daily_rate falls back to the category rate, explicit
	// daily_rate wins.
	assert.InDelta(t, 150, cfg.Rooms[0].DailyRate, 1e-9)
	assert.InDelta(t, 275, cfg.Rooms[1].DailyRate, 1e-9)
	assert.InDelta(t, 999, cfg.Rooms[2].DailyRate, 1e-9)
}

func TestRatesFor(t *testing.T) {
	rates := RatesConfig{Standard: 100, Luxury: 200, Presidential: 400}
	assert.InDelta(t, 100, rates.For(models.CategoryStandard), 1e-9)
	assert.InDelta(t, 200, rates.For(models.CategoryLuxury), 1e-9)
	assert.InDelta(t, 400, rates.For(models.CategoryPresidential), 1e-9)
}

func TestValidateRooms(t *testing.T) {
	t.Run("DuplicateNumber", func(t *testing.T) {
		err := ValidateRooms([]models.Room{
			{Number: "101", Category: models.CategoryStandard, Capacity: 2},
			{Number: "101", Category: models.CategoryLuxury, Capacity: 2},
		})
		assert.ErrorContains(t, err, "duplicate room number")
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		err := ValidateRooms([]models.Room{
			{Number: "101", Category: "penthouse", Capacity: 2},
		})
		assert.ErrorContains(t, err, "unknown category")
	})

	t.Run("InvalidCapacity", func(t *testing.T) {
		err := ValidateRooms([]models.Room{
			{Number: "101", Category: models.CategoryStandard, Capacity: 0},
		})
		assert.ErrorContains(t, err, "invalid capacity")
	})

	t.Run("Valid", func(t *testing.T) {
		err := ValidateRooms([]models.Room{
			{Number: "101", Category: models.CategoryStandard, Capacity: 2},
			{Number: "201", Category: models.CategoryLuxury, Capacity: 4},
		})
		assert.NoError(t, err)
	})
}
