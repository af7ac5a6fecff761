package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"descanso/internal/events"
	"descanso/internal/models"
	"descanso/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedInventory(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	rooms := []models.Room{
		{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150},
		{Number: "102", Category: models.CategoryStandard, Capacity: 3, DailyRate: 150},
		{Number: "201", Category: models.CategoryLuxury, Capacity: 2, DailyRate: 300},
		{Number: "301", Category: models.CategoryPresidential, Capacity: 4, DailyRate: 600},
	}
	require.NoError(t, st.SyncRooms(ctx, rooms))
	require.NoError(t, st.AddClient(ctx, &models.Client{ID: "c1", Name: "Ana"}))
}

func TestFindAvailableRooms(t *testing.T) {
	st := newTestStore(t)
	seedInventory(t, st)
	svc := NewBookingService(st, events.NewEventBus(), testLogger())
	ctx := context.Background()

	t.Run("AllFreeInitially", func(t *testing.T) {
		rooms, err := svc.FindAvailableRooms(ctx, day(10), day(13), 1, nil)
		require.NoError(t, err)
		assert.Len(t, rooms, 4)
		// Ascending room-number order.
		assert.Equal(t, "101", rooms[0].Number)
		assert.Equal(t, "301", rooms[3].Number)
	})

	t.Run("CapacityFilter", func(t *testing.T) {
		rooms, err := svc.FindAvailableRooms(ctx, day(10), day(13), 3, nil)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, "102", rooms[0].Number)
		assert.Equal(t, "301", rooms[1].Number)
	})

	t.Run("CategoryFilter", func(t *testing.T) {
		luxury := models.CategoryLuxury
		rooms, err := svc.FindAvailableRooms(ctx, day(10), day(13), 1, &luxury)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "201", rooms[0].Number)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := svc.FindAvailableRooms(ctx, day(13), day(10), 1, nil)
		assert.ErrorIs(t, err, store.ErrInvalidDateRange)

		_, err = svc.FindAvailableRooms(ctx, day(10), day(10), 1, nil)
		assert.ErrorIs(t, err, store.ErrInvalidDateRange)
	})

	t.Run("OverlapExcludesRoom", func(t *testing.T) {
		_, err := svc.CreateStay(ctx, "c1", "101", day(10), day(13), 2)
		require.NoError(t, err)

		rooms, err := svc.FindAvailableRooms(ctx, day(12), day(14), 1, nil)
		require.NoError(t, err)
		for _, r := range rooms {
			assert.NotEqual(t, "101", r.Number)
		}
	})

	t.Run("BoundaryTouchDoesNotCollide", func(t *testing.T) {
		// Occupied 10th to 13th; a request starting on the 13th fits.
		rooms, err := svc.FindAvailableRooms(ctx, day(13), day(15), 1, nil)
		require.NoError(t, err)
		found := false
		for _, r := range rooms {
			if r.Number == "101" {
				found = true
			}
		}
		assert.True(t, found)

		// Ending on the 10th fits too.
		rooms, err = svc.FindAvailableRooms(ctx, day(8), day(10), 1, nil)
		require.NoError(t, err)
		found = false
		for _, r := range rooms {
			if r.Number == "101" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("CompletedStayFreesRoom", func(t *testing.T) {
		checkout := NewCheckoutService(st, testCalc(), events.NewEventBus(), nil, testLogger())
		stays, err := st.ActiveStaysForRoom(ctx, "101")
		require.NoError(t, err)
		require.Len(t, stays, 1)

		_, err = checkout.Checkout(ctx, stays[0].ID, 0)
		require.NoError(t, err)

		rooms, err := svc.FindAvailableRooms(ctx, day(10), day(13), 1, nil)
		require.NoError(t, err)
		assert.Len(t, rooms, 4)
	})

	t.Run("SearchHasNoSideEffects", func(t *testing.T) {
		before, err := st.Snapshot(ctx)
		require.NoError(t, err)

		_, err = svc.FindAvailableRooms(ctx, day(20), day(22), 1, nil)
		require.NoError(t, err)

		after, err := st.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestCreateStayService(t *testing.T) {
	st := newTestStore(t)
	seedInventory(t, st)
	svc := NewBookingService(st, events.NewEventBus(), testLogger())
	ctx := context.Background()

	t.Run("FreezesQuote", func(t *testing.T) {
		stay, err := svc.CreateStay(ctx, "c1", "201", day(10), day(13), 2)
		require.NoError(t, err)

		assert.Equal(t, 3, stay.TotalDays)
		assert.InDelta(t, 900, stay.QuotedCost, 1e-9)
		assert.Equal(t, models.StayActive, stay.Status)
		assert.NotEmpty(t, stay.ID)
	})

	t.Run("SameDayStayIsFree", func(t *testing.T) {
		stay, err := svc.CreateStay(ctx, "c1", "102", day(10), day(10), 1)
		require.NoError(t, err)
		assert.Zero(t, stay.TotalDays)
		assert.Zero(t, stay.QuotedCost)
	})

	t.Run("UnknownRoom", func(t *testing.T) {
		_, err := svc.CreateStay(ctx, "c1", "999", day(10), day(13), 1)
		assert.ErrorIs(t, err, store.ErrRoomNotFound)
	})
}

func TestAddChargeService(t *testing.T) {
	st := newTestStore(t)
	seedInventory(t, st)
	svc := NewBookingService(st, events.NewEventBus(), testLogger())
	ctx := context.Background()

	stay, err := svc.CreateStay(ctx, "c1", "101", day(10), day(13), 2)
	require.NoError(t, err)

	t.Run("PositiveAmountRequired", func(t *testing.T) {
		_, err := svc.AddCharge(ctx, stay.ID, "Nothing", 0, models.ChargeOther)
		assert.ErrorIs(t, err, store.ErrInvalidChargeAmount)

		_, err = svc.AddCharge(ctx, stay.ID, "Refund", -5, models.ChargeOther)
		assert.ErrorIs(t, err, store.ErrInvalidChargeAmount)
	})

	t.Run("Accumulates", func(t *testing.T) {
		_, err := svc.AddCharge(ctx, stay.ID, "Minibar", 35, models.ChargeOther)
		require.NoError(t, err)
		_, err = svc.AddCharge(ctx, stay.ID, "Laundry", 20, models.ChargeService)
		require.NoError(t, err)

		got, err := svc.GetStay(ctx, stay.ID)
		require.NoError(t, err)
		assert.Len(t, got.Charges, 2)
		assert.InDelta(t, 55, got.ChargesTotal(), 1e-9)
	})
}
