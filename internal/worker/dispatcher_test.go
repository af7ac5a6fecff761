package worker

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"descanso/internal/models"
	"descanso/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
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

func newTestDispatcher(t *testing.T, st *store.Store, redisClient *redis.Client) *HousekeepingDispatcher {
	t.Helper()
	logger := zerolog.New(io.Discard)
	d := NewHousekeepingDispatcher(st, redisClient, RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}, &logger)
	// Pin the clock inside the morning shift.
	d.now = func() time.Time {
		return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return d
}

func seedHousekeeper(t *testing.T, st *store.Store, id, document, shift string) {
	t.Helper()
	require.NoError(t, st.AddEmployee(context.Background(), &models.Employee{
		ID:       id,
		Name:     "HK " + id,
		Email:    id + "@hotel.local",
		Document: document,
		Role:     models.RoleHousekeeping,
		Shift:    shift,
	}))
}

func seedCleaningRequest(t *testing.T, st *store.Store, id string) {
	t.Helper()
	require.NoError(t, st.AddRequest(context.Background(), &models.ServiceRequest{
		ID:         id,
		RoomNumber: "101",
		Type:       models.RequestCleaning,
	}))
}

func TestDispatchAssignsOnShiftStaff(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddRoom(ctx, &models.Room{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150}))

	seedHousekeeper(t, st, "h1", "100", models.ShiftMorning)
	seedHousekeeper(t, st, "h2", "200", models.ShiftNight)
	seedCleaningRequest(t, st, "r1")

	d := newTestDispatcher(t, st, nil)
	d.process(ctx, "r1")

	req, err := st.GetRequest(ctx, "r1")
	require.NoError(t, err)
	// The night-shift employee is not eligible at 09:00.
	assert.Equal(t, "h1", req.EmployeeID)
	assert.Equal(t, models.RequestPending, req.Status)
}

func TestDispatchPrefersLeastLoaded(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddRoom(ctx, &models.Room{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150}))

	seedHousekeeper(t, st, "h1", "100", models.ShiftMorning)
	seedHousekeeper(t, st, "h2", "200", models.ShiftMorning)

	// h1 already has an open assignment.
	seedCleaningRequest(t, st, "r1")
	require.NoError(t, st.AssignRequest(ctx, "r1", "h1"))

	seedCleaningRequest(t, st, "r2")
	d := newTestDispatcher(t, st, nil)
	d.process(ctx, "r2")

	req, err := st.GetRequest(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, "h2", req.EmployeeID)
}

func TestDispatchRetriesWhenNobodyOnShift(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddRoom(ctx, &models.Room{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150}))

	seedHousekeeper(t, st, "h1", "100", models.ShiftNight)
	seedCleaningRequest(t, st, "r1")

	d := newTestDispatcher(t, st, nil)
	d.process(ctx, "r1")

	req, err := st.GetRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, req.EmployeeID)

	d.mu.Lock()
	attempts := d.attempts["r1"]
	d.mu.Unlock()
	assert.Equal(t, 1, attempts)

	// Exhausting retries clears the bookkeeping but leaves the request
	// pending for manual assignment.
	d.process(ctx, "r1")
	d.mu.Lock()
	attempts = d.attempts["r1"]
	d.mu.Unlock()
	assert.Zero(t, attempts)

	req, err = st.GetRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Empty(t, req.EmployeeID)
}

func TestDispatchSkipsAssignedRequests(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddRoom(ctx, &models.Room{Number: "101", Category: models.CategoryStandard, Capacity: 2, DailyRate: 150}))

	seedHousekeeper(t, st, "h1", "100", models.ShiftMorning)
	seedHousekeeper(t, st, "h2", "200", models.ShiftMorning)
	seedCleaningRequest(t, st, "r1")
	require.NoError(t, st.AssignRequest(ctx, "r1", "h2"))

	d := newTestDispatcher(t, st, nil)
	d.process(ctx, "r1")

	req, err := st.GetRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "h2", req.EmployeeID)
}

func TestEnqueueRequest(t *testing.T) {
	t.Run("RedisFirst", func(t *testing.T) {
		st := newTestStore(t)
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		d := newTestDispatcher(t, st, client)
		require.NoError(t, d.EnqueueRequest(context.Background(), "r1"))

		queued, err := mr.List(d.redisQueueKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, queued)
	})

	t.Run("MemoryFallback", func(t *testing.T) {
		st := newTestStore(t)
		d := newTestDispatcher(t, st, nil)
		require.NoError(t, d.EnqueueRequest(context.Background(), "r1"))

		id, ok := d.tryLocalQueue()
		assert.True(t, ok)
		assert.Equal(t, "r1", id)
	})

	t.Run("EmptyIDRejected", func(t *testing.T) {
		st := newTestStore(t)
		d := newTestDispatcher(t, st, nil)
		assert.Error(t, d.EnqueueRequest(context.Background(), ""))
	})
}
