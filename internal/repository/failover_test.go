package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"descanso/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct{}

var errDown = errors.New("repository down")

func (f *failingRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return nil, errDown
}
func (f *failingRepository) SetSession(ctx context.Context, session *models.Session) error {
	return errDown
}
func (f *failingRepository) ClearSession(ctx context.Context, token string) error {
	return errDown
}
func (f *failingRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, errDown
}

func TestFailoverFallsBackToMemory(t *testing.T) {
	logger := zerolog.New(io.Discard)
	fallback := NewMemorySessionRepository(time.Hour)
	repo := NewFailoverSessionRepository(&failingRepository{}, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, &models.Session{Token: "tok-1", EmployeeID: "e1"}))

	got, err := repo.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.EmployeeID)

	allowed, err := repo.CheckRateLimit(ctx, "e1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailoverPrefersHealthyPrimary(t *testing.T) {
	logger := zerolog.New(io.Discard)
	primary := NewMemorySessionRepository(time.Hour)
	fallback := NewMemorySessionRepository(time.Hour)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, &models.Session{Token: "tok-1", EmployeeID: "e1"}))

	// The session landed in the primary, not the fallback.
	got, err := primary.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = fallback.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
