package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"descanso/internal/loyalty"
	"descanso/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st, err := Open(filepath.Join(t.TempDir(), "state.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedRoom(t *testing.T, st *Store, number string, category models.RoomCategory, capacity int, rate float64) {
	t.Helper()
	require.NoError(t, st.AddRoom(context.Background(), &models.Room{
		Number:    number,
		Category:  category,
		Capacity:  capacity,
		DailyRate: rate,
	}))
}

func seedClient(t *testing.T, st *Store, id, name string) {
	t.Helper()
	require.NoError(t, st.AddClient(context.Background(), &models.Client{ID: id, Name: name}))
}

func seedStay(t *testing.T, st *Store, id, clientID, room string, checkIn, checkOut time.Time) *models.Stay {
	t.Helper()
	stay := &models.Stay{
		ID:         id,
		ClientID:   clientID,
		RoomNumber: room,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalDays:  models.StayDays(checkIn, checkOut),
		GuestCount: 2,
	}
	require.NoError(t, st.CreateStay(context.Background(), stay))
	return stay
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRooms(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	t.Run("AddAndGet", func(t *testing.T) {
		seedRoom(t, st, "101", models.CategoryStandard, 2, 150)

		room, err := st.GetRoom(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, models.RoomAvailable, room.Status)

		err = st.AddRoom(ctx, &models.Room{Number: "101"})
		assert.ErrorIs(t, err, ErrRoomExists)
	})

	t.Run("SyncKeepsExistingStatus", func(t *testing.T) {
		seedClient(t, st, "c1", "Ana")
		seedStay(t, st, "s1", "c1", "101", day(1), day(3))

		err := st.SyncRooms(ctx, []models.Room{
			{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150},
			{Number: "201", Category: models.CategoryLuxury, Capacity: 4, DailyRate: 300},
		})
		require.NoError(t, err)

		room, err := st.GetRoom(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, models.RoomOccupied, room.Status)

		rooms, err := st.ListRooms(ctx)
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
		assert.Equal(t, "101", rooms[0].Number)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := st.GetRoom(ctx, "999")
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestCreateStay(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
	seedClient(t, st, "c1", "Ana")

	t.Run("FlipsRoomOccupied", func(t *testing.T) {
		seedStay(t, st, "s1", "c1", "101", day(10), day(13))

		room, err := st.GetRoom(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, models.RoomOccupied, room.Status)

		stay, err := st.GetStay(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, models.StayActive, stay.Status)
		assert.NotNil(t, stay.Charges)
	})

	t.Run("NoAvailabilityRecheck", func(t *testing.T) {
		// Booking an already occupied room is accepted: confirmation is
		// a single unconditional step.
		seedStay(t, st, "s2", "c1", "101", day(11), day(12))

		stays, err := st.ActiveStaysForRoom(ctx, "101")
		require.NoError(t, err)
		assert.Len(t, stays, 2)
	})

	t.Run("UnknownRoom", func(t *testing.T) {
		err := st.CreateStay(ctx, &models.Stay{ID: "s3", ClientID: "c1", RoomNumber: "999"})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestAddCharge(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
	seedClient(t, st, "c1", "Ana")
	seedStay(t, st, "s1", "c1", "101", day(10), day(13))

	t.Run("AppendsToActiveStay", func(t *testing.T) {
		charge, err := st.AddCharge(ctx, "s1", models.Charge{Description: "Minibar", Amount: 35, Category: models.ChargeOther})
		require.NoError(t, err)
		assert.NotEmpty(t, charge.ID)
		assert.False(t, charge.CreatedAt.IsZero())

		stay, err := st.GetStay(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, stay.Charges, 1)
		assert.InDelta(t, 35, stay.ChargesTotal(), 1e-9)
	})

	t.Run("UnknownStay", func(t *testing.T) {
		_, err := st.AddCharge(ctx, "nope", models.Charge{Amount: 10})
		assert.ErrorIs(t, err, ErrStayNotFound)
	})

	t.Run("CompletedStayRejected", func(t *testing.T) {
		_, _, err := st.CompleteStay(ctx, "s1", 0, loyalty.NewCalculator(10))
		require.NoError(t, err)

		_, err = st.AddCharge(ctx, "s1", models.Charge{Amount: 10})
		assert.ErrorIs(t, err, ErrStayNotActive)
	})
}

func TestCompleteStay(t *testing.T) {
	calc := loyalty.NewCalculator(10)

	t.Run("FullCheckout", func(t *testing.T) {
		st := newTestStore(t)
		ctx := context.Background()
		seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
		seedClient(t, st, "c1", "Ana")
		seedStay(t, st, "s1", "c1", "101", day(10), day(13))

		_, err := st.AddCharge(ctx, "s1", models.Charge{Description: "Minibar", Amount: 35, Category: models.ChargeOther})
		require.NoError(t, err)

		receipt, request, err := st.CompleteStay(ctx, "s1", 0, calc)
		require.NoError(t, err)

		// 3 days x 150 + 35 in charges.
		assert.InDelta(t, 485, receipt.Subtotal, 1e-9)
		assert.Zero(t, receipt.Discount)
		assert.InDelta(t, 485, receipt.FinalCost, 1e-9)
		assert.Equal(t, 3, receipt.PointsEarned)
		assert.Zero(t, receipt.PointsRedeemed)

		stay, err := st.GetStay(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, models.StayCompleted, stay.Status)
		assert.InDelta(t, 485, stay.FinalCost, 1e-9)

		room, err := st.GetRoom(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, models.RoomAvailable, room.Status)

		client, err := st.GetClient(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 3, client.Points)

		require.NotNil(t, request)
		assert.Equal(t, "101", request.RoomNumber)
		assert.Equal(t, models.RequestCleaning, request.Type)
		assert.Equal(t, models.RequestPending, request.Status)
		assert.Empty(t, request.EmployeeID)
	})

	t.Run("RedeemsPoints", func(t *testing.T) {
		st := newTestStore(t)
		ctx := context.Background()
		seedRoom(t, st, "301", models.CategoryPresidential, 4, 600)
		seedClient(t, st, "c1", "Ana")

		// Earn 20 points over a 5-day presidential stay.
		seedStay(t, st, "s1", "c1", "301", day(1), day(6))
		_, _, err := st.CompleteStay(ctx, "s1", 0, calc)
		require.NoError(t, err)

		seedStay(t, st, "s2", "c1", "301", day(10), day(12))
		receipt, _, err := st.CompleteStay(ctx, "s2", 20, calc)
		require.NoError(t, err)

		// 2 days x 600 = 1200; 20 points = 2% = 24 off.
		assert.InDelta(t, 1200, receipt.Subtotal, 1e-9)
		assert.InDelta(t, 24, receipt.Discount, 1e-9)
		assert.InDelta(t, 1176, receipt.FinalCost, 1e-9)
		assert.Equal(t, 20, receipt.PointsRedeemed)
		assert.Equal(t, 8, receipt.PointsEarned)

		client, err := st.GetClient(ctx, "c1")
		require.NoError(t, err)
		// 20 - 20 redeemed + 8 earned.
		assert.Equal(t, 8, client.Points)
	})

	t.Run("InsufficientPointsLeavesStateUntouched", func(t *testing.T) {
		st := newTestStore(t)
		ctx := context.Background()
		seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
		seedClient(t, st, "c1", "Ana")
		seedStay(t, st, "s1", "c1", "101", day(10), day(13))

		_, _, err := st.CompleteStay(ctx, "s1", 5, calc)
		assert.ErrorIs(t, err, ErrInsufficientPoints)

		_, _, err = st.CompleteStay(ctx, "s1", -1, calc)
		assert.ErrorIs(t, err, ErrInsufficientPoints)

		stay, err := st.GetStay(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, models.StayActive, stay.Status)

		room, err := st.GetRoom(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, models.RoomOccupied, room.Status)

		requests, err := st.ListRequests(ctx)
		require.NoError(t, err)
		assert.Empty(t, requests)
	})

	t.Run("SecondCheckoutRejected", func(t *testing.T) {
		st := newTestStore(t)
		ctx := context.Background()
		seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
		seedClient(t, st, "c1", "Ana")
		seedStay(t, st, "s1", "c1", "101", day(10), day(13))

		_, _, err := st.CompleteStay(ctx, "s1", 0, calc)
		require.NoError(t, err)

		_, _, err = st.CompleteStay(ctx, "s1", 0, calc)
		assert.ErrorIs(t, err, ErrAlreadyCheckedOut)

		client, err := st.GetClient(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 3, client.Points)
	})

	t.Run("RateChangeRederivesSubtotal", func(t *testing.T) {
		st := newTestStore(t)
		ctx := context.Background()
		seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
		seedClient(t, st, "c1", "Ana")

		stay := seedStay(t, st, "s1", "c1", "101", day(10), day(13))
		stay.QuotedCost = float64(stay.TotalDays) * 150

		// Simulate a rate change by mutating the stored room directly.
		st.mu.Lock()
		st.rooms["101"].DailyRate = 200
		st.mu.Unlock()

		receipt, _, err := st.CompleteStay(ctx, "s1", 0, calc)
		require.NoError(t, err)
		assert.InDelta(t, 600, receipt.Subtotal, 1e-9)
	})
}

func TestEmployees(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	t.Run("UniqueEmailAndDocument", func(t *testing.T) {
		require.NoError(t, st.AddEmployee(ctx, &models.Employee{
			ID: "e1", Name: "Bea", Email: "Bea@Hotel.local", Document: "123", Password: "pw", Role: models.RoleReceptionist,
		}))

		err := st.AddEmployee(ctx, &models.Employee{ID: "e2", Email: "bea@hotel.local", Document: "456"})
		assert.ErrorIs(t, err, ErrEmailTaken)

		err = st.AddEmployee(ctx, &models.Employee{ID: "e3", Email: "other@hotel.local", Document: "123"})
		assert.ErrorIs(t, err, ErrDocumentTaken)
	})

	t.Run("FindByLogin", func(t *testing.T) {
		emp, err := st.FindByLogin(ctx, "bea@hotel.local", "pw")
		require.NoError(t, err)
		assert.Equal(t, "e1", emp.ID)

		emp, err = st.FindByLogin(ctx, "123", "pw")
		require.NoError(t, err)
		assert.Equal(t, "e1", emp.ID)

		_, err = st.FindByLogin(ctx, "bea@hotel.local", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ListOnShift", func(t *testing.T) {
		require.NoError(t, st.AddEmployee(ctx, &models.Employee{
			ID: "h1", Name: "Caio", Email: "caio@hotel.local", Document: "789",
			Role: models.RoleHousekeeping, Shift: models.ShiftAfternoon,
		}))

		staff, err := st.ListOnShift(ctx, models.RoleHousekeeping, 15)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		assert.Equal(t, "h1", staff[0].ID)

		staff, err = st.ListOnShift(ctx, models.RoleHousekeeping, 9)
		require.NoError(t, err)
		assert.Empty(t, staff)
	})

	t.Run("EnsureDefaultAdmin", func(t *testing.T) {
		require.NoError(t, st.EnsureDefaultAdmin(ctx, "admin@hotel.local", "admin"))

		admin, err := st.FindByLogin(ctx, "admin@hotel.local", "admin")
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, admin.Role)

		// Second call keeps the existing manager.
		require.NoError(t, st.EnsureDefaultAdmin(ctx, "admin@hotel.local", "admin"))
		employees, err := st.ListEmployees(ctx)
		require.NoError(t, err)

		managers := 0
		for _, e := range employees {
			if e.Role == models.RoleManager {
				managers++
			}
		}
		assert.Equal(t, 1, managers)
	})
}

func TestRequests(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
	require.NoError(t, st.AddEmployee(ctx, &models.Employee{
		ID: "h1", Name: "Caio", Email: "caio@hotel.local", Document: "789", Role: models.RoleHousekeeping,
	}))

	t.Run("Lifecycle", func(t *testing.T) {
		req := &models.ServiceRequest{ID: "r1", RoomNumber: "101", Type: models.RequestMaintenance}
		require.NoError(t, st.AddRequest(ctx, req))

		pending, err := st.PendingUnassigned(ctx, models.RequestMaintenance)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		require.NoError(t, st.AssignRequest(ctx, "r1", "h1"))
		pending, err = st.PendingUnassigned(ctx, models.RequestMaintenance)
		require.NoError(t, err)
		assert.Empty(t, pending)

		require.NoError(t, st.CompleteRequest(ctx, "r1"))
		got, err := st.GetRequest(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, models.RequestCompleted, got.Status)
	})

	t.Run("UnknownRoomRejected", func(t *testing.T) {
		err := st.AddRequest(ctx, &models.ServiceRequest{ID: "r2", RoomNumber: "999", Type: models.RequestCleaning})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("AssignUnknownEmployee", func(t *testing.T) {
		require.NoError(t, st.AddRequest(ctx, &models.ServiceRequest{ID: "r3", RoomNumber: "101", Type: models.RequestCleaning}))
		err := st.AssignRequest(ctx, "r3", "nobody")
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestPersistenceAcrossReopen(t *testing.T) {
	logger := zerolog.New(io.Discard)
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	st, err := Open(path, &logger)
	require.NoError(t, err)

	seedRoom(t, st, "101", models.CategoryStandard, 2, 150)
	seedClient(t, st, "c1", "Ana")
	seedStay(t, st, "s1", "c1", "101", day(10), day(13))
	_, err = st.AddCharge(ctx, "s1", models.Charge{Description: "Minibar", Amount: 35})
	require.NoError(t, err)
	require.NoError(t, st.AddMenuItem(ctx, &models.MenuItem{ID: "m1", Name: "Club Sandwich", Price: 18, Category: models.MenuFood}))
	require.NoError(t, st.Close())

	reopened, err := Open(path, &logger)
	require.NoError(t, err)
	defer reopened.Close()

	stay, err := reopened.GetStay(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StayActive, stay.Status)
	require.Len(t, stay.Charges, 1)
	assert.InDelta(t, 35, stay.Charges[0].Amount, 1e-9)

	room, err := reopened.GetRoom(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)

	items, err := reopened.ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Club Sandwich", items[0].Name)
}
