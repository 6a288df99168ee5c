package accountrepo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/securestore"
)

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	repo := New(securestore.NewMemory())
	ctx := context.Background()

	want := domain.Account{
		ID:             1,
		CustomerID:     10,
		Type:           domain.Savings,
		Balance:        decimal.RequireFromString("-85.5"),
		IsActive:       true,
		OverdraftCount: 1,
		CardTier:       domain.TierTitanium,
	}

	require.False(t, repo.Exists(ctx, want.ID))
	require.NoError(t, repo.Save(ctx, want))
	require.True(t, repo.Exists(ctx, want.ID))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.CustomerID, got.CustomerID)
	require.Equal(t, want.Type, got.Type)
	require.True(t, got.Balance.Equal(want.Balance))
	require.Equal(t, want.IsActive, got.IsActive)
	require.Equal(t, want.OverdraftCount, got.OverdraftCount)
	require.Equal(t, want.CardTier, got.CardTier)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	repo := New(securestore.NewMemory())

	_, err := repo.Get(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	repo := New(securestore.NewMemory())
	ctx := context.Background()

	account := domain.Account{
		ID:       1,
		Balance:  decimal.NewFromInt(100),
		IsActive: true,
		Type:     domain.Checking,
		CardTier: domain.TierStandard,
	}
	require.NoError(t, repo.Save(ctx, account))

	account.Balance = decimal.NewFromInt(60)
	account.OverdraftCount = 1
	require.NoError(t, repo.Save(ctx, account))

	got, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(60)))
	require.Equal(t, int32(1), got.OverdraftCount)
}

func TestSnapshotFormat(t *testing.T) {
	t.Parallel()

	account := domain.Account{
		ID:             7,
		CustomerID:     3,
		Type:           domain.Checking,
		Balance:        decimal.RequireFromString("120.25"),
		IsActive:       false,
		OverdraftCount: 2,
		CardTier:       domain.TierPlatinum,
	}

	require.Equal(t, "7,3,CHECKING,120.25,false,2,Platinum", formatSnapshot(account))
}
