package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store/drivers/sqlite"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

func TestHousekeepingClearsStaleOTPs(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	ctx := context.Background()
	u := domain.User{ID: idx.New(), Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, s.Users().Create(ctx, &u))

	// Expired two days ago, well past the clearing grace.
	require.NoError(t, s.Users().SetVerifyOTP(ctx, u.Email, "stale", time.Now().Add(-48*time.Hour).UnixMilli()))

	hk := NewHousekeepingService(s, slog.New(slog.DiscardHandler), time.Hour)
	hk.Start()
	hk.Stop()

	got, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Empty(t, got.VerifyOTPHash)
	require.Zero(t, got.VerifyOTPExpiresAt)
}
