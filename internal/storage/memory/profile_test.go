package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamga/mokolo/internal/domain/profile"
)

func TestRecordLogin_StreakCountsDaysNotLogins(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &profile.Profile{ID: "u1"}))

	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLogin(ctx, "u1", day1))
	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LoginStreak)

	// A second login the same day leaves the streak alone.
	require.NoError(t, repo.RecordLogin(ctx, "u1", day1.Add(6*time.Hour)))
	p, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LoginStreak)
	require.NotNil(t, p.LastLogin)
	assert.Equal(t, day1.Add(6*time.Hour), *p.LastLogin)

	// The next day extends it.
	require.NoError(t, repo.RecordLogin(ctx, "u1", day1.Add(24*time.Hour)))
	p, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.LoginStreak)

	// A gap longer than 48 hours resets it.
	require.NoError(t, repo.RecordLogin(ctx, "u1", day1.Add((24+72)*time.Hour)))
	p, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LoginStreak)
}

func TestRecordLogin_UnknownProfile(t *testing.T) {
	repo := NewProfileRepository()
	err := repo.RecordLogin(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, profile.ErrNotFound)
}
